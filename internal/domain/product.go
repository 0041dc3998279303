package domain

import (
	"context"
	"errors"
)

// Product is the catalog API's product shape, consumed as-is.
type Product struct {
	ID       int      `json:"id"`
	Title    string   `json:"title"`
	Price    float64  `json:"price"`
	Discount float64  `json:"discount,omitempty"` // percent, 0-100
	Rating   float64  `json:"rating,omitempty"`
	Stock    int      `json:"stock,omitempty"`
	Category string   `json:"category"`
	Brand    string   `json:"brand"`
	Color    string   `json:"color"`
	Images   []string `json:"images"`
}

// EffectivePrice is the unit price after discount.
func (p Product) EffectivePrice() float64 {
	return p.Price * (1 - p.Discount/100)
}

// ProductPage is one page of catalog results.
type ProductPage struct {
	Data  []Product `json:"data"`
	Count int64     `json:"count"`
}

// ListQuery carries the parameters the catalog API supports natively.
// Filtering beyond these is performed client-side.
type ListQuery struct {
	Category string
	Search   string
	Limit    int
	Sort     string
	Order    string // asc, desc
}

var (
	ErrProductNotFound = errors.New("product not found")
)

// CatalogAPI is the remote catalog, an external collaborator consumed
// read-only. All calls report transport failures as errors; GetProduct
// returns ErrProductNotFound for an unresolvable id. Degrading a failed
// list-oriented call to an empty result is the caller's policy (the listing
// engine, live search, and wishlist hydration each do so at their call
// sites).
type CatalogAPI interface {
	ListProducts(ctx context.Context, q ListQuery) (ProductPage, error)
	GetProduct(ctx context.Context, id int) (*Product, error)
	ListBrands(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]string, error)
}
