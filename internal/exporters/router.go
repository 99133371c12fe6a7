// Package exporters turns relational rows into text documents for
// tenant indexes. Shop tenants are rendered by the sales exporter and the
// catalog tenant by the catalog exporter; Router picks between them.
package exporters

import (
	"context"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

// Ensure Router implements the interface.
var _ driven.DocumentExporter = (*Router)(nil)

// Router dispatches a tenant to the exporter for its kind.
type Router struct {
	shops   driven.DocumentExporter
	catalog driven.DocumentExporter
}

// NewRouter creates a router. Either exporter may be nil, in which case
// its tenants export nothing.
func NewRouter(shops, catalog driven.DocumentExporter) *Router {
	return &Router{shops: shops, catalog: catalog}
}

// Export implements driven.DocumentExporter.
func (r *Router) Export(ctx context.Context, tenant domain.TenantID) []domain.Document {
	exporter := r.shops
	if tenant.IsCatalog() {
		exporter = r.catalog
	}
	if exporter == nil || tenant.Validate() != nil {
		logger.Warn("export: no exporter for %s", tenant)
		return []domain.Document{}
	}
	return exporter.Export(ctx, tenant)
}
