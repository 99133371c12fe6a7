package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// runStore implements driven.RebuildRunStore.
type runStore struct {
	store *Store
}

var _ driven.RebuildRunStore = (*runStore)(nil)

// RecordRun logs a rebuild cycle.
func (s *runStore) RecordRun(ctx context.Context, run *domain.RebuildRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	if err := ensureTenant(run.Tenant); err != nil {
		return err
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO rebuild_runs (id, tenant, reason, started_at, ended_at, success, error, documents, vectors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Tenant), string(run.Reason),
		run.StartedAt.UTC().Format(timestampLayout),
		formatNullableTime(run.EndedAt),
		boolToInt(run.Success),
		nullString(run.Error),
		run.Documents, run.Vectors)

	if err != nil {
		return fmt.Errorf("recording rebuild run: %w", err)
	}
	return nil
}

// ListRuns returns recent runs for a tenant.
// Results are ordered by start time descending (most recent first).
func (s *runStore) ListRuns(ctx context.Context, tenant domain.TenantID, limit int) ([]domain.RebuildRun, error) {
	if limit <= 0 {
		limit = domain.DefaultRunHistory
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, tenant, reason, started_at, ended_at, success, error, documents, vectors
		FROM rebuild_runs
		WHERE tenant = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, string(tenant), limit)
	if err != nil {
		return nil, fmt.Errorf("querying rebuild runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RebuildRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rebuild runs: %w", err)
	}
	return runs, nil
}

// PruneRuns removes old runs beyond the retention limit.
// Keeps the most recent 'keep' runs per tenant.
func (s *runStore) PruneRuns(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM rebuild_runs
		WHERE id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY tenant ORDER BY started_at DESC) as rn
				FROM rebuild_runs
			) WHERE rn <= ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning rebuild runs: %w", err)
	}
	return nil
}

// scanRun scans a rebuild run from *sql.Rows.
func scanRun(rows *sql.Rows) (*domain.RebuildRun, error) {
	var run domain.RebuildRun
	var tenant, reason, startedAt string
	var endedAt, errMsg sql.NullString
	var success int

	if err := rows.Scan(&run.ID, &tenant, &reason, &startedAt, &endedAt,
		&success, &errMsg, &run.Documents, &run.Vectors); err != nil {
		return nil, fmt.Errorf("scanning rebuild run: %w", err)
	}

	run.Tenant = domain.TenantID(tenant)
	run.Reason = domain.TriggerReason(reason)
	if t, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		run.StartedAt = t
	}
	run.EndedAt = parseNullableTime(endedAt)
	run.Success = success == 1
	if errMsg.Valid {
		run.Error = errMsg.String
	}

	return &run, nil
}
