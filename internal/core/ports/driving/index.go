package driving

import (
	"context"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// IndexService owns the in-memory tenant indexes.
type IndexService interface {
	// Build chunks and embeds docs, replaces the tenant's index and
	// persists it. The previous index stays in place on failure.
	Build(ctx context.Context, tenant domain.TenantID, docs []domain.Document) (*domain.IndexInfo, error)

	// FindBestMatches returns up to k matches for query, best first.
	// It loads a persisted index on first use and never fails: any
	// problem is logged and yields an empty slice.
	FindBestMatches(ctx context.Context, tenant domain.TenantID, query string, k int) []domain.Match

	// SearchVector is FindBestMatches for an already embedded query.
	SearchVector(ctx context.Context, tenant domain.TenantID, query []float32, k int) []domain.Match

	// Load makes the tenant's persisted index resident.
	// Returns domain.ErrDimensionMismatch when it was built by another model.
	Load(ctx context.Context, tenant domain.TenantID) error

	// Info describes the resident index of a tenant.
	Info(tenant domain.TenantID) (domain.IndexInfo, bool)

	// Tenants lists tenants with a resident index.
	Tenants() []domain.TenantID

	// Drop evicts the tenant and deletes its persisted artifacts.
	Drop(ctx context.Context, tenant domain.TenantID) error
}
