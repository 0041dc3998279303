package domain

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Sort options for the product listing.
const (
	SortDefault      = "default"
	SortPriceAsc     = "price-asc"
	SortPriceDesc    = "price-desc"
	SortRatingDesc   = "rating-desc"
	SortDiscountDesc = "discount-desc"
	SortTitleAsc     = "title-asc"
)

var SortOptions = []string{
	SortDefault,
	SortPriceAsc,
	SortPriceDesc,
	SortRatingDesc,
	SortDiscountDesc,
	SortTitleAsc,
}

// CategoryAll is the sentinel for "no category filter".
const CategoryAll = "all"

// MaxMultiSelect caps the brand and color selections.
const MaxMultiSelect = 3

// FilterQuery defaults.
const (
	DefaultPriceMin = 0
	DefaultPriceMax = 5000
)

// FilterQuery is the active product-listing query. Its URL query string is
// the shareable representation of the same state; a field at its default is
// omitted when serialized so the URL stays minimal.
type FilterQuery struct {
	Category string   `json:"category"`
	Brand    []string `json:"brand"` // set semantics, at most MaxMultiSelect
	Color    []string `json:"color"` // set semantics, at most MaxMultiSelect
	PriceMin float64  `json:"priceMin"`
	PriceMax float64  `json:"priceMax"`
	Rating   float64  `json:"rating"` // minimum threshold
	SortBy   string   `json:"sortBy"`
	Page     int      `json:"page"` // 1-based
}

// DefaultFilterQuery returns a query with every field at its default.
func DefaultFilterQuery() FilterQuery {
	return FilterQuery{
		Category: CategoryAll,
		PriceMin: DefaultPriceMin,
		PriceMax: DefaultPriceMax,
		Rating:   0,
		SortBy:   SortDefault,
		Page:     1,
	}
}

// Encode serializes the query into its canonical minimal form: every field
// at its default is omitted, brand/color are comma-joined, keys are sorted.
func (q FilterQuery) Encode() string {
	v := url.Values{}
	if q.Category != "" && q.Category != CategoryAll {
		v.Set("category", q.Category)
	}
	if len(q.Brand) > 0 {
		v.Set("brand", strings.Join(q.Brand, ","))
	}
	if len(q.Color) > 0 {
		v.Set("color", strings.Join(q.Color, ","))
	}
	if q.PriceMin != DefaultPriceMin {
		v.Set("minPrice", formatPrice(q.PriceMin))
	}
	if q.PriceMax != DefaultPriceMax {
		v.Set("maxPrice", formatPrice(q.PriceMax))
	}
	if q.Rating != 0 {
		v.Set("rating", formatPrice(q.Rating))
	}
	if q.SortBy != "" && q.SortBy != SortDefault {
		v.Set("sortBy", q.SortBy)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v.Encode()
}

// ParseFilterQuery parses a raw query string into a FilterQuery. Each field
// is parsed independently; a missing or malformed value falls back to that
// field's default rather than failing the whole parse.
func ParseFilterQuery(raw string) FilterQuery {
	q := DefaultFilterQuery()
	v, err := url.ParseQuery(raw)
	if err != nil {
		return q
	}

	if c := v.Get("category"); c != "" {
		q.Category = c
	}
	q.Brand = parseList(v.Get("brand"))
	q.Color = parseList(v.Get("color"))
	q.PriceMin = parsePrice(v.Get("minPrice"), DefaultPriceMin)
	q.PriceMax = parsePrice(v.Get("maxPrice"), DefaultPriceMax)
	q.Rating = parsePrice(v.Get("rating"), 0)
	if s := v.Get("sortBy"); s != "" && slices.Contains(SortOptions, s) {
		q.SortBy = s
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p >= 1 {
		q.Page = p
	}
	return q
}

// Equal reports whether two queries are field-for-field identical.
func (q FilterQuery) Equal(other FilterQuery) bool {
	return q.Category == other.Category &&
		slices.Equal(q.Brand, other.Brand) &&
		slices.Equal(q.Color, other.Color) &&
		q.PriceMin == other.PriceMin &&
		q.PriceMax == other.PriceMax &&
		q.Rating == other.Rating &&
		q.SortBy == other.SortBy &&
		q.Page == other.Page
}

func parseList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || slices.Contains(out, p) {
			continue
		}
		out = append(out, p)
		if len(out) == MaxMultiSelect {
			break
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parsePrice(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return fallback
	}
	return f
}

func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
