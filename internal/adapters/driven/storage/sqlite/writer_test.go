package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// Write helpers for tests. The application only reads marketplace rows;
// they are written by the marketplace itself.

// testProduct is a product row plus its stock level.
type testProduct struct {
	ID           int64
	ShopID       int64
	Name         string
	Category     string
	Price        float64
	Description  string
	Active       bool
	QtyAvailable int
}

// testReview is a review row.
type testReview struct {
	ProductID int64
	Rating    int
	Body      string
	CreatedAt time.Time
}

// SaveShop creates or updates a shop.
func (s *Store) SaveShop(ctx context.Context, shop domain.Shop) error {
	if shop.ID <= 0 || shop.Name == "" {
		return fmt.Errorf("%w: shop needs an id and a name", domain.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shops (id, name, city, address, rating)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			city = excluded.city,
			address = excluded.address,
			rating = excluded.rating
	`, shop.ID, shop.Name, shop.City, shop.Address, shop.Rating)
	if err != nil {
		return fmt.Errorf("saving shop: %w", err)
	}
	return nil
}

// SaveProduct creates or updates a product and its inventory row.
func (s *Store) SaveProduct(ctx context.Context, p testProduct) error {
	if p.ID <= 0 || p.ShopID <= 0 || p.Name == "" {
		return fmt.Errorf("%w: product needs an id, a shop and a name", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO products (id, shop_id, name, category, price, description, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			shop_id = excluded.shop_id,
			name = excluded.name,
			category = excluded.category,
			price = excluded.price,
			description = excluded.description,
			is_active = excluded.is_active
	`, p.ID, p.ShopID, p.Name, p.Category, p.Price, p.Description, boolToInt(p.Active))
	if err != nil {
		return fmt.Errorf("saving product: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO inventory (product_id, qty_available) VALUES (?, ?)
		ON CONFLICT(product_id) DO UPDATE SET qty_available = excluded.qty_available
	`, p.ID, p.QtyAvailable)
	if err != nil {
		return fmt.Errorf("saving inventory: %w", err)
	}

	return tx.Commit()
}

// AddReview appends a review. A zero CreatedAt is stamped with now.
func (s *Store) AddReview(ctx context.Context, r testReview) (int64, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return 0, fmt.Errorf("%w: rating %d outside 1-5", domain.ErrInvalidInput, r.Rating)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (product_id, rating, body, created_at) VALUES (?, ?, ?, ?)
	`, r.ProductID, r.Rating, r.Body, r.CreatedAt.UTC().Format(timestampLayout))
	if err != nil {
		return 0, fmt.Errorf("adding review: %w", err)
	}
	return res.LastInsertId()
}

// AddSales appends sales rows in one transaction.
func (s *Store) AddSales(ctx context.Context, records []domain.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales_data (shop_id, product_id, date, region, fabric_type, quantity_sold, revenue)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing sales insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ShopID, nullInt64(r.ProductID),
			r.Date.UTC().Format(time.DateOnly), r.Region, r.FabricType, r.QuantitySold, r.Revenue); err != nil {
			return fmt.Errorf("adding sale for shop %d: %w", r.ShopID, err)
		}
	}

	return tx.Commit()
}

// nullInt64 returns nil for zero ids, otherwise the id.
func nullInt64(v int64) any {
	if v == 0 {
		return nil
	}
	return v
}
