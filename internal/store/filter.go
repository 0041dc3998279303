package store

import (
	"slices"
	"sync"

	"storefront-client/internal/domain"
	"storefront-client/pkg/logger"
)

const filterStore = "filter"

// URLBar abstracts the host's address bar: the raw query string it currently
// shows, and a non-navigating replace. The bar is the shareable
// representation of the active filter query.
type URLBar interface {
	// Raw returns the current query string without the leading "?".
	Raw() string
	// Replace swaps the query string without pushing a history entry.
	Replace(raw string)
}

// Filter owns the active product-listing query and keeps it bidirectionally
// synchronized with the URL bar. Local mutations commit to the bar; external
// bar changes (back/forward navigation) are pulled in field by field. Both
// directions are guarded by an equality check on the serialized form so the
// two sync paths cannot re-trigger each other.
type Filter struct {
	mu       sync.Mutex
	query    domain.FilterQuery
	bar      URLBar
	notifier domain.Notifier
}

// NewFilter initializes the store from whatever query string the bar holds
// at mount time.
func NewFilter(bar URLBar, notifier domain.Notifier) *Filter {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	return &Filter{
		query:    domain.ParseFilterQuery(bar.Raw()),
		bar:      bar,
		notifier: notifier,
	}
}

// Query returns the current filter query.
func (f *Filter) Query() domain.FilterQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.query
}

func (f *Filter) SetCategory(category string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if category == "" {
		category = domain.CategoryAll
	}
	f.query.Category = category
	f.commitLocked()
}

// ToggleBrand adds or removes one brand from the multi-select. Selecting a
// fourth brand is rejected with a warning instead of truncating.
func (f *Filter) ToggleBrand(brand string) domain.Change {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, change := f.toggleValue(f.query.Brand, brand, "brand")
	if change.Kind == domain.ChangeRejected {
		return change
	}
	f.query.Brand = next
	f.commitLocked()
	return change
}

// ToggleColor mirrors ToggleBrand for the color multi-select.
func (f *Filter) ToggleColor(color string) domain.Change {
	f.mu.Lock()
	defer f.mu.Unlock()

	next, change := f.toggleValue(f.query.Color, color, "color")
	if change.Kind == domain.ChangeRejected {
		return change
	}
	f.query.Color = next
	f.commitLocked()
	return change
}

func (f *Filter) SetPriceRange(min, max float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query.PriceMin = min
	f.query.PriceMax = max
	f.commitLocked()
}

func (f *Filter) SetRating(rating float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query.Rating = rating
	f.commitLocked()
}

func (f *Filter) SetSortBy(sortBy string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !slices.Contains(domain.SortOptions, sortBy) {
		sortBy = domain.SortDefault
	}
	f.query.SortBy = sortBy
	f.commitLocked()
}

func (f *Filter) SetPage(page int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if page < 1 {
		page = 1
	}
	f.query.Page = page
	f.commitLocked()
}

// ResetAll returns every field to its default and clears the URL in one
// step. Unlike the commit protocol this always writes, even when the query
// is already at defaults: reset is an explicit user action.
func (f *Filter) ResetAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = domain.DefaultFilterQuery()
	f.bar.Replace("")
}

// Pull absorbs an externally observed URL change (back/forward navigation,
// direct edit). Each field is compared independently and only differing
// fields are updated, so consumers watching a single field don't recompute
// when an unrelated one changed. Returns true when anything changed.
func (f *Filter) Pull() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	parsed := domain.ParseFilterQuery(f.bar.Raw())
	changed := false

	if parsed.Category != f.query.Category {
		f.query.Category = parsed.Category
		changed = true
	}
	if !slices.Equal(parsed.Brand, f.query.Brand) {
		f.query.Brand = parsed.Brand
		changed = true
	}
	if !slices.Equal(parsed.Color, f.query.Color) {
		f.query.Color = parsed.Color
		changed = true
	}
	if parsed.PriceMin != f.query.PriceMin {
		f.query.PriceMin = parsed.PriceMin
		changed = true
	}
	if parsed.PriceMax != f.query.PriceMax {
		f.query.PriceMax = parsed.PriceMax
		changed = true
	}
	if parsed.Rating != f.query.Rating {
		f.query.Rating = parsed.Rating
		changed = true
	}
	if parsed.SortBy != f.query.SortBy {
		f.query.SortBy = parsed.SortBy
		changed = true
	}
	if parsed.Page != f.query.Page {
		f.query.Page = parsed.Page
		changed = true
	}
	return changed
}

// commitLocked serializes the query and replaces the bar's query string if
// and only if the serialization differs from what the bar already shows.
// The no-op path is what keeps the reverse sync from firing spuriously.
// Caller holds the lock.
func (f *Filter) commitLocked() {
	encoded := f.query.Encode()
	if encoded == f.bar.Raw() {
		return
	}
	f.bar.Replace(encoded)
	logger.Debug().Str("query", encoded).Msg("Filter committed to URL")
}

func (f *Filter) toggleValue(current []string, value, field string) ([]string, domain.Change) {
	if i := slices.Index(current, value); i >= 0 {
		return slices.Delete(slices.Clone(current), i, i+1), domain.Change{
			Kind:  domain.ChangeRemoved,
			Store: filterStore,
			Label: value,
		}
	}
	if len(current) >= domain.MaxMultiSelect {
		change := domain.Change{
			Kind:   domain.ChangeRejected,
			Store:  filterStore,
			Label:  value,
			Reason: "you can select at most 3 " + field + "s",
		}
		f.emit(change)
		return current, change
	}
	return append(slices.Clone(current), value), domain.Change{
		Kind:  domain.ChangeAdded,
		Store: filterStore,
		Label: value,
	}
}

func (f *Filter) emit(change domain.Change) {
	logger.StoreMutation(change.Store, string(change.Kind), change.ProductID)
	f.notifier.Notify(change)
}

// MemoryBar is an in-process URLBar for hosts without a real address bar
// (tests, the CLI). Set simulates an external navigation.
type MemoryBar struct {
	mu  sync.Mutex
	raw string
}

func NewMemoryBar(raw string) *MemoryBar {
	return &MemoryBar{raw: raw}
}

func (b *MemoryBar) Raw() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.raw
}

func (b *MemoryBar) Replace(raw string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw = raw
}

// Set changes the bar from the outside, the way back/forward navigation
// would. The store does not observe this until Pull is called.
func (b *MemoryBar) Set(raw string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw = raw
}
