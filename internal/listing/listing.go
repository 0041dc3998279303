package listing

import (
	"context"
	"slices"
	"strings"

	"storefront-client/internal/domain"
	"storefront-client/pkg/logger"
)

// fetchLimit is how many products one catalog fetch asks for. The API's own
// pagination is not used; filtering and paging happen client-side over this
// batch.
const fetchLimit = 100

// Result is one rendered page of the listing.
type Result struct {
	Products   []domain.Product
	Page       int
	TotalPages int
	TotalItems int
}

// Engine derives the product listing from the committed filter query:
// category and search go to the catalog API, everything else (brand, color,
// price, rating, sort, pagination) is applied to the fetched batch.
type Engine struct {
	api      domain.CatalogAPI
	pageSize int
}

func NewEngine(api domain.CatalogAPI, pageSize int) *Engine {
	if pageSize < 1 {
		pageSize = 12
	}
	return &Engine{api: api, pageSize: pageSize}
}

// Load fetches and derives one page. A catalog failure degrades to an empty
// result so the caller renders an empty state instead of crashing.
func (e *Engine) Load(ctx context.Context, q domain.FilterQuery) Result {
	return e.load(ctx, q, "")
}

// Search is Load with a free-text query pushed down to the API alongside
// the category filter.
func (e *Engine) Search(ctx context.Context, q domain.FilterQuery, search string) Result {
	return e.load(ctx, q, search)
}

func (e *Engine) load(ctx context.Context, q domain.FilterQuery, search string) Result {
	page, err := e.api.ListProducts(ctx, domain.ListQuery{
		Category: q.Category,
		Search:   search,
		Limit:    fetchLimit,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Product listing fetch failed")
		return Result{Page: 1}
	}

	products := apply(page.Data, q)
	sortProducts(products, q.SortBy)
	return paginate(products, q.Page, e.pageSize)
}

// apply runs the client-side filters the API does not support natively.
func apply(products []domain.Product, q domain.FilterQuery) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if len(q.Brand) > 0 && !containsFold(q.Brand, p.Brand) {
			continue
		}
		if len(q.Color) > 0 && !containsFold(q.Color, p.Color) {
			continue
		}
		if p.Price < q.PriceMin || p.Price > q.PriceMax {
			continue
		}
		if p.Rating < q.Rating {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortProducts(products []domain.Product, sortBy string) {
	switch sortBy {
	case domain.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmpFloat(a.EffectivePrice(), b.EffectivePrice())
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmpFloat(b.EffectivePrice(), a.EffectivePrice())
		})
	case domain.SortRatingDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmpFloat(b.Rating, a.Rating)
		})
	case domain.SortDiscountDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmpFloat(b.Discount, a.Discount)
		})
	case domain.SortTitleAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	default:
		// SortDefault keeps catalog order
	}
}

// paginate slices out the 1-based requested page. When the filtered set
// shrank below the requested page, the page snaps back to 1 rather than to
// the last page.
func paginate(products []domain.Product, page, pageSize int) Result {
	total := len(products)
	totalPages := (total + pageSize - 1) / pageSize

	if page < 1 || page > totalPages {
		page = 1
	}
	if total == 0 {
		return Result{Page: 1, TotalPages: 0, TotalItems: 0}
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	return Result{
		Products:   slices.Clone(products[start:end]),
		Page:       page,
		TotalPages: totalPages,
		TotalItems: total,
	}
}

func containsFold(set []string, v string) bool {
	for _, s := range set {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
