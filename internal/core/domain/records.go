package domain

import "time"

// Shop is a seller on the marketplace.
type Shop struct {
	ID      int64
	Name    string
	City    string
	Address string
	Rating  float64
}

// SalesRecord is one sales row for a shop.
type SalesRecord struct {
	ID           int64
	ShopID       int64
	ProductID    int64
	Date         time.Time
	Region       string
	FabricType   string
	QuantitySold int
	Revenue      float64
}

// CatalogItem is an active product joined with its shop, stock and reviews.
type CatalogItem struct {
	ProductID    int64
	Name         string
	Category     string
	Price        float64
	Description  string
	ShopName     string
	ShopRating   float64
	ShopCity     string
	ShopAddress  string
	QtyAvailable int

	// Reviews holds the most recent reviews, newest first.
	Reviews []ReviewSnippet
}

// ReviewSnippet is a product review summarised for the catalog text.
type ReviewSnippet struct {
	Rating int
	Body   string
}
