package sqlite

import (
	"context"
	"fmt"

	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/ports/driven"
)

// reviewsPerItem is how many recent reviews each catalog item carries.
const reviewsPerItem = 3

// catalogStore implements driven.CatalogStore.
type catalogStore struct {
	store *Store
}

var _ driven.CatalogStore = (*catalogStore)(nil)

// ListCatalog returns active products joined with their shop, stock and
// most recent reviews, ordered by product ID.
func (s *catalogStore) ListCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.category, p.price, p.description,
		       sh.name, sh.rating, sh.city, sh.address,
		       COALESCE(i.qty_available, 0)
		FROM products p
		JOIN shops sh ON sh.id = p.shop_id
		LEFT JOIN inventory i ON i.product_id = p.id
		WHERE p.is_active = 1
		ORDER BY p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var items []domain.CatalogItem //nolint:prealloc // size unknown from query
	index := make(map[int64]int)
	for rows.Next() {
		var it domain.CatalogItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Category, &it.Price, &it.Description,
			&it.ShopName, &it.ShopRating, &it.ShopCity, &it.ShopAddress, &it.QtyAvailable); err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}
		index[it.ProductID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog: %w", err)
	}

	if err := s.attachReviews(ctx, items, index); err != nil {
		return nil, err
	}
	return items, nil
}

// attachReviews fills each item's newest reviews in one query.
func (s *catalogStore) attachReviews(ctx context.Context, items []domain.CatalogItem, index map[int64]int) error {
	if len(items) == 0 {
		return nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT product_id, rating, body FROM (
			SELECT product_id, rating, body,
			       ROW_NUMBER() OVER (PARTITION BY product_id ORDER BY created_at DESC, id DESC) AS rn
			FROM reviews
		) WHERE rn <= ?
		ORDER BY product_id, rn
	`, reviewsPerItem)
	if err != nil {
		return fmt.Errorf("querying reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID int64
		var r domain.ReviewSnippet
		if err := rows.Scan(&productID, &r.Rating, &r.Body); err != nil {
			return fmt.Errorf("scanning review: %w", err)
		}
		// Reviews of inactive products are not in the index.
		if i, ok := index[productID]; ok {
			items[i].Reviews = append(items[i].Reviews, r)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating reviews: %w", err)
	}
	return nil
}
