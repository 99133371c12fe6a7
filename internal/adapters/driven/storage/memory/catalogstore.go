package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// Ensure CatalogStore implements the interface.
var _ driven.CatalogStore = (*CatalogStore)(nil)

// CatalogStore is an in-memory implementation of driven.CatalogStore for testing.
type CatalogStore struct {
	mu    sync.RWMutex
	items map[int64]domain.CatalogItem
}

// NewCatalogStore creates a new in-memory catalog store.
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		items: make(map[int64]domain.CatalogItem),
	}
}

// PutItem adds or replaces a catalog item.
func (s *CatalogStore) PutItem(item domain.CatalogItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ProductID] = item
}

// ListCatalog returns all items ordered by product ID.
func (s *CatalogStore) ListCatalog(_ context.Context) ([]domain.CatalogItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CatalogItem, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, item)
	}
	slices.SortFunc(out, func(a, b domain.CatalogItem) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})
	return out, nil
}
