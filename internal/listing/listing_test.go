package listing

import (
	"context"
	"errors"
	"testing"

	"storefront-client/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products []domain.Product
	err      error
	lastQ    domain.ListQuery
}

func (f *fakeCatalog) ListProducts(ctx context.Context, q domain.ListQuery) (domain.ProductPage, error) {
	f.lastQ = q
	if f.err != nil {
		return domain.ProductPage{}, f.err
	}
	return domain.ProductPage{Data: f.products, Count: int64(len(f.products))}, nil
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (f *fakeCatalog) ListBrands(ctx context.Context) ([]string, error)     { return nil, nil }
func (f *fakeCatalog) ListCategories(ctx context.Context) ([]string, error) { return nil, nil }

var fixture = []domain.Product{
	{ID: 1, Title: "Zen Laptop", Price: 1200, Discount: 10, Rating: 4.5, Brand: "apple", Color: "silver"},
	{ID: 2, Title: "Air Laptop", Price: 900, Rating: 4.0, Brand: "dell", Color: "black"},
	{ID: 3, Title: "Budget Laptop", Price: 400, Discount: 25, Rating: 3.2, Brand: "hp", Color: "black"},
	{ID: 4, Title: "Pro Laptop", Price: 2200, Rating: 4.8, Brand: "apple", Color: "gray"},
	{ID: 5, Title: "Mini Laptop", Price: 250, Rating: 2.9, Brand: "lenovo", Color: "silver"},
}

func load(t *testing.T, q domain.FilterQuery) Result {
	t.Helper()
	e := NewEngine(&fakeCatalog{products: fixture}, 12)
	return e.Load(context.Background(), q)
}

func TestLoad_NoFiltersReturnsEverything(t *testing.T) {
	r := load(t, domain.DefaultFilterQuery())
	assert.Len(t, r.Products, 5)
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, 1, r.TotalPages)
}

func TestLoad_CategoryPushedToAPI(t *testing.T) {
	api := &fakeCatalog{products: fixture}
	e := NewEngine(api, 12)

	q := domain.DefaultFilterQuery()
	q.Category = "laptops"
	e.Load(context.Background(), q)

	assert.Equal(t, "laptops", api.lastQ.Category)
}

func TestLoad_BrandFilter(t *testing.T) {
	q := domain.DefaultFilterQuery()
	q.Brand = []string{"apple"}

	r := load(t, q)
	require.Len(t, r.Products, 2)
	for _, p := range r.Products {
		assert.Equal(t, "apple", p.Brand)
	}
}

func TestLoad_ColorFilterIsCaseInsensitive(t *testing.T) {
	q := domain.DefaultFilterQuery()
	q.Color = []string{"Black"}

	r := load(t, q)
	assert.Len(t, r.Products, 2)
}

func TestLoad_PriceRange(t *testing.T) {
	q := domain.DefaultFilterQuery()
	q.PriceMin = 300
	q.PriceMax = 1000

	r := load(t, q)
	require.Len(t, r.Products, 2)
	for _, p := range r.Products {
		assert.GreaterOrEqual(t, p.Price, 300.0)
		assert.LessOrEqual(t, p.Price, 1000.0)
	}
}

func TestLoad_MinimumRating(t *testing.T) {
	q := domain.DefaultFilterQuery()
	q.Rating = 4

	r := load(t, q)
	assert.Len(t, r.Products, 3)
}

func TestLoad_SortPriceAscUsesDiscountedPrice(t *testing.T) {
	q := domain.DefaultFilterQuery()
	q.SortBy = domain.SortPriceAsc

	r := load(t, q)
	require.Len(t, r.Products, 5)
	for i := 1; i < len(r.Products); i++ {
		assert.LessOrEqual(t, r.Products[i-1].EffectivePrice(), r.Products[i].EffectivePrice())
	}
}

func TestLoad_SortRatingDesc(t *testing.T) {
	q := domain.DefaultFilterQuery()
	q.SortBy = domain.SortRatingDesc

	r := load(t, q)
	require.Len(t, r.Products, 5)
	assert.Equal(t, 4, r.Products[0].ID)
}

func TestLoad_Pagination(t *testing.T) {
	e := NewEngine(&fakeCatalog{products: fixture}, 2)

	q := domain.DefaultFilterQuery()
	q.Page = 2
	r := e.Load(context.Background(), q)

	assert.Equal(t, 2, r.Page)
	assert.Equal(t, 3, r.TotalPages)
	assert.Equal(t, 5, r.TotalItems)
	require.Len(t, r.Products, 2)
	assert.Equal(t, 3, r.Products[0].ID)
}

func TestLoad_PageBeyondRangeSnapsToOne(t *testing.T) {
	e := NewEngine(&fakeCatalog{products: fixture}, 2)

	// A narrowing filter shrank the result set below the remembered page.
	q := domain.DefaultFilterQuery()
	q.Brand = []string{"apple"}
	q.Page = 3
	r := e.Load(context.Background(), q)

	assert.Equal(t, 1, r.Page)
	assert.Len(t, r.Products, 2)
}

func TestLoad_FetchFailureDegradesToEmptyResult(t *testing.T) {
	e := NewEngine(&fakeCatalog{err: errors.New("connection refused")}, 12)

	r := e.Load(context.Background(), domain.DefaultFilterQuery())

	assert.Empty(t, r.Products)
	assert.Equal(t, 1, r.Page)
	assert.Zero(t, r.TotalItems)
}

func TestSearch_PushesQueryToAPI(t *testing.T) {
	api := &fakeCatalog{products: fixture}
	e := NewEngine(api, 12)

	e.Search(context.Background(), domain.DefaultFilterQuery(), "laptop")

	assert.Equal(t, "laptop", api.lastQ.Search)
}
