package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RebuildRunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RebuildRunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.RebuildRun
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// RecordRun stores a copy of the run.
func (s *RunStore) RecordRun(_ context.Context, run *domain.RebuildRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, *run)
	return nil
}

// ListRuns returns a tenant's runs, most recent first.
func (s *RunStore) ListRuns(_ context.Context, tenant domain.TenantID, limit int) ([]domain.RebuildRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.RebuildRun
	for _, run := range s.runs {
		if run.Tenant == tenant {
			out = append(out, run)
		}
	}
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// PruneRuns keeps the newest runs per tenant.
func (s *RunStore) PruneRuns(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sortNewestFirst(s.runs)
	seen := make(map[domain.TenantID]int)
	kept := s.runs[:0]
	for _, run := range s.runs {
		seen[run.Tenant]++
		if seen[run.Tenant] <= keep {
			kept = append(kept, run)
		}
	}
	s.runs = kept
	return nil
}

func sortNewestFirst(runs []domain.RebuildRun) {
	slices.SortStableFunc(runs, func(a, b domain.RebuildRun) int {
		return b.StartedAt.Compare(a.StartedAt)
	})
}
