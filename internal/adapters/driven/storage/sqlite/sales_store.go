package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// salesStore implements driven.SalesStore.
type salesStore struct {
	store *Store
}

var _ driven.SalesStore = (*salesStore)(nil)

// GetShop retrieves a shop by ID.
func (s *salesStore) GetShop(ctx context.Context, shopID int64) (*domain.Shop, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, city, address, rating FROM shops WHERE id = ?
	`, shopID)

	var shop domain.Shop
	if err := row.Scan(&shop.ID, &shop.Name, &shop.City, &shop.Address, &shop.Rating); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning shop: %w", err)
	}
	return &shop, nil
}

// ListSales returns a shop's sales with since <= date < until, oldest first.
func (s *salesStore) ListSales(ctx context.Context, shopID int64, since, until time.Time) ([]domain.SalesRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, shop_id, COALESCE(product_id, 0), date, region, fabric_type, quantity_sold, revenue
		FROM sales_data
		WHERE shop_id = ? AND date >= ? AND date < ?
		ORDER BY date ASC, id ASC
	`, shopID, since.UTC().Format(time.DateOnly), until.UTC().Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("querying sales: %w", err)
	}
	defer rows.Close()

	var records []domain.SalesRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.SalesRecord
		var date string
		if err := rows.Scan(&r.ID, &r.ShopID, &r.ProductID, &date, &r.Region,
			&r.FabricType, &r.QuantitySold, &r.Revenue); err != nil {
			return nil, fmt.Errorf("scanning sale: %w", err)
		}
		if r.Date, err = time.Parse(time.DateOnly, date); err != nil {
			return nil, fmt.Errorf("sale %d has invalid date %q: %w", r.ID, date, err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sales: %w", err)
	}
	return records, nil
}
