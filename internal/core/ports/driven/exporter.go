package driven

import (
	"context"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// DocumentExporter turns a tenant's relational rows into text documents.
type DocumentExporter interface {
	// Export returns the tenant's documents in a stable order.
	// A tenant without rows yields a placeholder document. Read failures
	// are logged and yield an empty slice, which callers treat as
	// nothing to index.
	Export(ctx context.Context, tenant domain.TenantID) []domain.Document
}

// SalesStore is read-only access to shops and their sales rows.
type SalesStore interface {
	// GetShop returns the shop, or domain.ErrNotFound.
	GetShop(ctx context.Context, shopID int64) (*domain.Shop, error)

	// ListSales returns the shop's sales with since <= date < until,
	// ordered by date ascending.
	ListSales(ctx context.Context, shopID int64, since, until time.Time) ([]domain.SalesRecord, error)
}

// CatalogStore is read-only access to the store-wide product catalog.
type CatalogStore interface {
	// ListCatalog returns active products with shop, stock and up to
	// three most recent reviews each, ordered by product id.
	ListCatalog(ctx context.Context) ([]domain.CatalogItem, error)
}
