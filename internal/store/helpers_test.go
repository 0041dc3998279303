package store

import (
	"context"
	"sync"
	"testing"

	"storefront-client/internal/domain"
	"storefront-client/pkg/localstore"

	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *localstore.Store {
	t.Helper()
	s, err := localstore.New(t.TempDir())
	require.NoError(t, err)
	return s
}

// recorder captures emitted changes so tests can assert on notification
// behavior without a UI harness.
type recorder struct {
	mu      sync.Mutex
	changes []domain.Change
}

func (r *recorder) Notify(c domain.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func (r *recorder) all() []domain.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Change, len(r.changes))
	copy(out, r.changes)
	return out
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.changes)
}

// fakeCatalog serves GetProduct from a fixed product set. Ids listed in
// fail return a transport-style error; ids absent from products return
// domain.ErrProductNotFound. Optional hooks let tests block individual
// fetches to order concurrent hydration cycles deterministically.
type fakeCatalog struct {
	mu       sync.Mutex
	products map[int]domain.Product
	fail     map[int]error
	calls    int
	onFetch  func(id int, call int)
}

func newFakeCatalog(products ...domain.Product) *fakeCatalog {
	m := make(map[int]domain.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &fakeCatalog{products: m, fail: make(map[int]error)}
}

func (f *fakeCatalog) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	hook := f.onFetch
	f.mu.Unlock()

	if hook != nil {
		hook(id, call)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.fail[id]; ok {
		return nil, err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) ListProducts(ctx context.Context, q domain.ListQuery) (domain.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return domain.ProductPage{Data: out, Count: int64(len(out))}, nil
}

func (f *fakeCatalog) ListBrands(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeCatalog) ListCategories(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
