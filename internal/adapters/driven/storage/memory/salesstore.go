package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// Ensure SalesStore implements the interface.
var _ driven.SalesStore = (*SalesStore)(nil)

// SalesStore is an in-memory implementation of driven.SalesStore for testing.
type SalesStore struct {
	mu    sync.RWMutex
	shops map[int64]domain.Shop
	sales map[int64][]domain.SalesRecord
}

// NewSalesStore creates a new in-memory sales store.
func NewSalesStore() *SalesStore {
	return &SalesStore{
		shops: make(map[int64]domain.Shop),
		sales: make(map[int64][]domain.SalesRecord),
	}
}

// PutShop adds or replaces a shop.
func (s *SalesStore) PutShop(shop domain.Shop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shops[shop.ID] = shop
}

// AddSales appends sales rows to their shops.
func (s *SalesStore) AddSales(records ...domain.SalesRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.sales[r.ShopID] = append(s.sales[r.ShopID], r)
	}
}

// GetShop retrieves a shop by ID.
func (s *SalesStore) GetShop(_ context.Context, shopID int64) (*domain.Shop, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	shop, ok := s.shops[shopID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &shop, nil
}

// ListSales returns a shop's sales in [since, until), oldest first.
func (s *SalesStore) ListSales(_ context.Context, shopID int64, since, until time.Time) ([]domain.SalesRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.SalesRecord
	for _, r := range s.sales[shopID] {
		if r.Date.Before(since) || !r.Date.Before(until) {
			continue
		}
		out = append(out, r)
	}
	slices.SortStableFunc(out, func(a, b domain.SalesRecord) int {
		return a.Date.Compare(b.Date)
	})
	return out, nil
}
