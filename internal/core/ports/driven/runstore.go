package driven

import (
	"context"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// RebuildRunStore persists the rebuild history of tenant indexes.
type RebuildRunStore interface {
	// RecordRun logs a rebuild cycle.
	RecordRun(ctx context.Context, run *domain.RebuildRun) error

	// ListRuns returns recent runs for a tenant.
	// Results are ordered by start time descending (most recent first).
	ListRuns(ctx context.Context, tenant domain.TenantID, limit int) ([]domain.RebuildRun, error)

	// PruneRuns removes old runs beyond the retention limit.
	// Keeps the most recent 'keep' runs per tenant.
	PruneRuns(ctx context.Context, keep int) error
}
