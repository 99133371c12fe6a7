// Package catalog exports the store-wide product catalog as documents.
package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
	"github.com/Akashog123/textile-saas-app-sub000/internal/logger"
)

// Ensure Exporter implements the interface.
var _ driven.DocumentExporter = (*Exporter)(nil)

// EmptyCatalog is the placeholder text of a catalog without products.
const EmptyCatalog = "The catalog has no active products yet."

// Exporter renders the catalog tenant from a CatalogStore.
type Exporter struct {
	store driven.CatalogStore
}

// New creates a catalog exporter.
func New(store driven.CatalogStore) *Exporter {
	return &Exporter{store: store}
}

// Export returns one document per active product.
func (e *Exporter) Export(ctx context.Context, tenant domain.TenantID) []domain.Document {
	if !tenant.IsCatalog() {
		logger.Warn("catalog export: %s is not the catalog tenant", tenant)
		return []domain.Document{}
	}

	items, err := e.store.ListCatalog(ctx)
	if err != nil {
		logger.Error("catalog export: %v", err)
		return []domain.Document{}
	}
	if len(items) == 0 {
		return []domain.Document{{Text: EmptyCatalog, Source: domain.SourceLiveDatabase}}
	}

	docs := make([]domain.Document, len(items))
	for i := range items {
		docs[i] = domain.Document{Text: ItemText(&items[i]), Source: domain.SourceLiveDatabase}
	}
	logger.Debug("catalog export: %d products", len(docs))
	return docs
}

// ItemText renders one product line.
func ItemText(item *domain.CatalogItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Item: %s (%s). ", item.Name, item.Category)
	fmt.Fprintf(&b, "Price: ₹%s. ", strconv.FormatFloat(item.Price, 'f', -1, 64))
	fmt.Fprintf(&b, "Sold by: %s (Rating: %s/5) ", item.ShopName, strconv.FormatFloat(item.ShopRating, 'f', -1, 64))
	fmt.Fprintf(&b, "located in %s (%s). ", item.ShopCity, item.ShopAddress)
	fmt.Fprintf(&b, "Stock: %d. ", item.QtyAvailable)
	fmt.Fprintf(&b, "Description: %s. ", strings.TrimSpace(item.Description))
	b.WriteString("Reviews: ")

	if len(item.Reviews) == 0 {
		b.WriteString("No reviews yet.")
		return b.String()
	}
	reviews := make([]string, len(item.Reviews))
	for i, r := range item.Reviews {
		reviews[i] = fmt.Sprintf("User rated %d/5: %s", r.Rating, strings.TrimSpace(r.Body))
	}
	b.WriteString(strings.Join(reviews, " | "))
	return b.String()
}
