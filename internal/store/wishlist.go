package store

import (
	"context"
	"errors"
	"slices"
	"sync"

	"storefront-client/internal/domain"
	"storefront-client/pkg/localstore"
	"storefront-client/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const wishlistKey = "wishlist"

// wishlistLabel is used for notifications when only an id is known.
const wishlistLabel = "Product"

// Wishlist owns the set of saved product ids — the source of truth — and a
// derived cache of full product records hydrated from the catalog. Only the
// id set is persisted; the hydrated cache is refetched whenever the id set
// changes. Hydration cycles are generation-counted so a slow batch that has
// been superseded cannot overwrite a newer one.
type Wishlist struct {
	mu       sync.Mutex
	ids      []int
	hydrated []domain.Product
	loading  bool
	gen      uint64

	api         domain.CatalogAPI
	storage     *localstore.Store
	notifier    domain.Notifier
	concurrency int
	autoCtx     context.Context
	autoHydrate bool
}

// WishlistOptions configures a Wishlist.
type WishlistOptions struct {
	Concurrency int
	// AutoHydrate refreshes the hydrated cache in the background after every
	// id-set change, including the initial load. Leave false when the caller
	// drives hydration explicitly (tests, batch tooling).
	AutoHydrate bool
}

func NewWishlist(ctx context.Context, api domain.CatalogAPI, storage *localstore.Store, notifier domain.Notifier, opts WishlistOptions) *Wishlist {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 8
	}
	w := &Wishlist{
		api:         api,
		storage:     storage,
		notifier:    notifier,
		concurrency: opts.Concurrency,
		autoCtx:     ctx,
		autoHydrate: opts.AutoHydrate,
	}

	var ids []int
	if _, err := storage.Read(wishlistKey, &ids); err != nil {
		logger.Error().Err(err).Msg("Failed to load wishlist from storage")
	}
	w.ids = ids

	w.schedule()
	return w
}

// Toggle flips membership for a full product record, so notifications can
// carry the product's display name.
func (w *Wishlist) Toggle(p domain.Product) domain.Change {
	return w.toggle(p.ID, p.Title)
}

// ToggleID flips membership for a bare identifier.
func (w *Wishlist) ToggleID(id int) domain.Change {
	return w.toggle(id, wishlistLabel)
}

func (w *Wishlist) toggle(id int, label string) domain.Change {
	w.mu.Lock()

	var change domain.Change
	if i := slices.Index(w.ids, id); i >= 0 {
		w.ids = slices.Delete(w.ids, i, i+1)
		change = domain.Change{Kind: domain.ChangeRemoved, Store: wishlistKey, ProductID: id, Label: label}
	} else {
		w.ids = append(w.ids, id)
		change = domain.Change{Kind: domain.ChangeAdded, Store: wishlistKey, ProductID: id, Label: label}
	}
	w.persistLocked()
	w.mu.Unlock()

	w.schedule()
	w.emit(change)
	return change
}

// Add saves the product's id. Unlike Toggle, adding an id that is already
// saved keeps it and reports the duplicate instead of removing it.
func (w *Wishlist) Add(p domain.Product) domain.Change {
	w.mu.Lock()

	if slices.Contains(w.ids, p.ID) {
		w.mu.Unlock()
		change := domain.Change{Kind: domain.ChangeAlreadyPresent, Store: wishlistKey, ProductID: p.ID, Label: p.Title}
		w.emit(change)
		return change
	}
	w.ids = append(w.ids, p.ID)
	w.persistLocked()
	w.mu.Unlock()

	w.schedule()
	change := domain.Change{Kind: domain.ChangeAdded, Store: wishlistKey, ProductID: p.ID, Label: p.Title}
	w.emit(change)
	return change
}

// Remove drops the id from the saved set. An absent id is a silent no-op.
func (w *Wishlist) Remove(id int) (domain.Change, bool) {
	w.mu.Lock()

	i := slices.Index(w.ids, id)
	if i < 0 {
		w.mu.Unlock()
		return domain.Change{}, false
	}
	w.ids = slices.Delete(w.ids, i, i+1)
	w.persistLocked()
	w.mu.Unlock()

	w.schedule()
	change := domain.Change{Kind: domain.ChangeRemoved, Store: wishlistKey, ProductID: id, Label: wishlistLabel}
	w.emit(change)
	return change, true
}

// Contains reports whether the id is saved.
func (w *Wishlist) Contains(id int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Contains(w.ids, id)
}

// Clear drops the id set and the hydrated cache together. An already-empty
// wishlist is a no-op.
func (w *Wishlist) Clear() (domain.Change, bool) {
	w.mu.Lock()

	if len(w.ids) == 0 && len(w.hydrated) == 0 {
		w.mu.Unlock()
		return domain.Change{}, false
	}
	w.ids = nil
	w.hydrated = nil
	w.gen++ // invalidate any in-flight hydration
	w.loading = false
	w.persistLocked()
	w.mu.Unlock()

	change := domain.Change{Kind: domain.ChangeCleared, Store: wishlistKey}
	w.emit(change)
	return change, true
}

// IDs returns a copy of the saved id set.
func (w *Wishlist) IDs() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.ids)
}

// Products returns the hydrated cache. It may lag the id set until the next
// hydration cycle completes.
func (w *Wishlist) Products() []domain.Product {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.hydrated)
}

// Loading reports whether a hydration cycle is in flight.
func (w *Wishlist) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Hydrate resolves the current id set into full product records and replaces
// the hydrated cache wholesale. Each id is fetched concurrently; ids the
// catalog cannot resolve are dropped rather than surfaced, so a deleted
// product silently disappears from the visible wishlist. A batch that is
// superseded by a newer hydration cycle discards its result instead of
// overwriting the newer cycle's.
func (w *Wishlist) Hydrate(ctx context.Context) []domain.Product {
	w.mu.Lock()
	ids := slices.Clone(w.ids)
	w.gen++
	gen := w.gen

	// An empty id set yields an empty cache without any network call.
	if len(ids) == 0 {
		w.hydrated = nil
		w.loading = false
		w.mu.Unlock()
		return nil
	}
	w.loading = true
	w.mu.Unlock()

	results := make([]*domain.Product, len(ids))
	g := new(errgroup.Group)
	g.SetLimit(w.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			p, err := w.api.GetProduct(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrProductNotFound) {
					logger.Debug().Int("product_id", id).Msg("Wishlist product no longer in catalog")
				} else {
					logger.Warn().Err(err).Int("product_id", id).Msg("Wishlist hydration fetch failed")
				}
				return nil
			}
			results[i] = p
			return nil
		})
	}
	g.Wait()

	products := make([]domain.Product, 0, len(ids))
	for _, p := range results {
		if p != nil {
			products = append(products, *p)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.gen {
		// Superseded by a newer cycle; the newer one owns the loading flag.
		return products
	}
	w.hydrated = products
	w.loading = false
	return products
}

func (w *Wishlist) schedule() {
	if !w.autoHydrate {
		return
	}
	go w.Hydrate(w.autoCtx)
}

func (w *Wishlist) emit(change domain.Change) {
	logger.StoreMutation(change.Store, string(change.Kind), change.ProductID)
	w.notifier.Notify(change)
}

// persistLocked writes the id set. Caller holds the lock.
func (w *Wishlist) persistLocked() {
	err := w.storage.Write(wishlistKey, w.ids)
	logger.StorageWrite(wishlistKey, err)
}
