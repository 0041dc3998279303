package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode_AllDefaults(t *testing.T) {
	q := DefaultFilterQuery()
	assert.Equal(t, "", q.Encode(), "a query at defaults serializes to an empty string")
}

func TestEncode_OmitsDefaultFields(t *testing.T) {
	q := DefaultFilterQuery()
	q.Category = "laptops"
	q.Page = 2

	encoded := q.Encode()
	assert.Equal(t, "category=laptops&page=2", encoded)
}

func TestEncode_CommaJoinsMultiSelect(t *testing.T) {
	q := DefaultFilterQuery()
	q.Brand = []string{"apple", "dell"}

	assert.Equal(t, "brand=apple%2Cdell", q.Encode())
}

func TestEncode_PageOneOmitted(t *testing.T) {
	q := DefaultFilterQuery()
	q.Page = 1
	assert.Equal(t, "", q.Encode())
}

func TestParse_RoundTrip(t *testing.T) {
	q := DefaultFilterQuery()
	q.Category = "laptops"
	q.Brand = []string{"apple", "dell"}
	q.Color = []string{"silver"}
	q.PriceMin = 100
	q.PriceMax = 2500
	q.Rating = 4
	q.SortBy = SortPriceAsc
	q.Page = 3

	parsed := ParseFilterQuery(q.Encode())
	assert.True(t, q.Equal(parsed), "encode/parse round-trip must be lossless")
	assert.Equal(t, q.Encode(), parsed.Encode())
}

func TestParse_EmptyYieldsDefaults(t *testing.T) {
	parsed := ParseFilterQuery("")
	assert.True(t, parsed.Equal(DefaultFilterQuery()))
}

func TestParse_MalformedFieldFallsBack(t *testing.T) {
	parsed := ParseFilterQuery("minPrice=abc&page=0&sortBy=bogus&category=phones")

	assert.Equal(t, "phones", parsed.Category)
	assert.Equal(t, float64(DefaultPriceMin), parsed.PriceMin)
	assert.Equal(t, 1, parsed.Page)
	assert.Equal(t, SortDefault, parsed.SortBy)
}

func TestParse_ListCappedAndDeduplicated(t *testing.T) {
	parsed := ParseFilterQuery("brand=a,b,b,c,d")
	assert.Equal(t, []string{"a", "b", "c"}, parsed.Brand)
}

func TestParse_NegativePriceFallsBack(t *testing.T) {
	parsed := ParseFilterQuery("maxPrice=-10")
	assert.Equal(t, float64(DefaultPriceMax), parsed.PriceMax)
}

func TestEffectivePrice(t *testing.T) {
	p := Product{Price: 100, Discount: 10}
	assert.InDelta(t, 90.0, p.EffectivePrice(), 1e-9)

	full := Product{Price: 50}
	assert.InDelta(t, 50.0, full.EffectivePrice(), 1e-9)
}
