package store

import (
	"slices"
	"sync"

	"storefront-client/internal/domain"
	"storefront-client/pkg/localstore"
	"storefront-client/pkg/logger"
)

const cartKey = "cart"

// Cart owns the list of items the shopper intends to buy. Prices are
// snapshotted onto lines when they are created; the full line list is
// persisted after every mutation. Mutations cannot fail: a storage write
// error is logged and the in-memory state stays authoritative.
type Cart struct {
	mu       sync.Mutex
	lines    []domain.CartLine
	storage  *localstore.Store
	notifier domain.Notifier
	maxQty   int
}

func NewCart(storage *localstore.Store, notifier domain.Notifier, maxQty int) *Cart {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	if maxQty < 1 {
		maxQty = 1000
	}
	c := &Cart{storage: storage, notifier: notifier, maxQty: maxQty}

	var lines []domain.CartLine
	if _, err := storage.Read(cartKey, &lines); err != nil {
		logger.Error().Err(err).Msg("Failed to load cart from storage")
	}
	c.lines = lines
	return c
}

// Add puts a product in the cart. A repeat add for a product already present
// increments its existing line instead of creating a second one.
func (c *Cart) Add(p domain.Product) domain.Change {
	c.mu.Lock()
	defer c.mu.Unlock()

	var change domain.Change
	if i := c.index(p.ID); i >= 0 {
		if c.lines[i].Quantity >= c.maxQty {
			return c.emit(domain.Change{
				Kind:      domain.ChangeRejected,
				Store:     cartKey,
				ProductID: p.ID,
				Label:     c.lines[i].Title,
				Quantity:  c.lines[i].Quantity,
				Reason:    "maximum quantity reached",
			})
		}
		c.lines[i].Quantity++
		change = domain.Change{
			Kind:      domain.ChangeQuantityUpdated,
			Store:     cartKey,
			ProductID: p.ID,
			Label:     c.lines[i].Title,
			Quantity:  c.lines[i].Quantity,
		}
	} else {
		line := domain.CartLine{
			ProductID:       p.ID,
			Title:           p.Title,
			Quantity:        1,
			UnitPrice:       p.Price,
			DiscountPercent: p.Discount,
		}
		if len(p.Images) > 0 {
			line.Image = p.Images[0]
		}
		c.lines = append(c.lines, line)
		change = domain.Change{
			Kind:      domain.ChangeAdded,
			Store:     cartKey,
			ProductID: p.ID,
			Label:     p.Title,
			Quantity:  1,
		}
	}

	c.persist()
	return c.emit(change)
}

// Remove deletes the product's line. Removing an absent product is a silent
// no-op.
func (c *Cart) Remove(productID int) (domain.Change, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(productID)
	if i < 0 {
		return domain.Change{}, false
	}
	return c.removeLocked(i), true
}

// IncreaseQty bumps the line's quantity by one. Absent lines are a no-op.
func (c *Cart) IncreaseQty(productID int) (domain.Change, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(productID)
	if i < 0 {
		return domain.Change{}, false
	}
	if c.lines[i].Quantity >= c.maxQty {
		return c.emit(domain.Change{
			Kind:      domain.ChangeRejected,
			Store:     cartKey,
			ProductID: productID,
			Label:     c.lines[i].Title,
			Quantity:  c.lines[i].Quantity,
			Reason:    "maximum quantity reached",
		}), true
	}
	c.lines[i].Quantity++
	change := domain.Change{
		Kind:      domain.ChangeQuantityUpdated,
		Store:     cartKey,
		ProductID: productID,
		Label:     c.lines[i].Title,
		Quantity:  c.lines[i].Quantity,
	}
	c.persist()
	return c.emit(change), true
}

// DecreaseQty drops the line's quantity by one. Reaching zero removes the
// line entirely, reported as a removal rather than a quantity change.
// An absent line is a no-op.
func (c *Cart) DecreaseQty(productID int) (domain.Change, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.index(productID)
	if i < 0 {
		return domain.Change{}, false
	}
	if c.lines[i].Quantity <= 1 {
		return c.removeLocked(i), true
	}
	c.lines[i].Quantity--
	change := domain.Change{
		Kind:      domain.ChangeQuantityUpdated,
		Store:     cartKey,
		ProductID: productID,
		Label:     c.lines[i].Title,
		Quantity:  c.lines[i].Quantity,
	}
	c.persist()
	return c.emit(change), true
}

// Clear empties the cart in one step. An already-empty cart is a no-op so
// repeated clears don't spam notifications.
func (c *Cart) Clear() (domain.Change, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return domain.Change{}, false
	}
	c.lines = nil
	c.persist()
	return c.emit(domain.Change{Kind: domain.ChangeCleared, Store: cartKey}), true
}

// TotalItems is the sum of quantities across all lines, not the line count.
func (c *Cart) TotalItems() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int
	for _, l := range c.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums each line's discounted price times its quantity.
func (c *Cart) TotalPrice() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total float64
	for _, l := range c.lines {
		total += l.LineTotal()
	}
	return total
}

// Lines returns a copy of the current cart lines.
func (c *Cart) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.lines)
}

func (c *Cart) index(productID int) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// removeLocked deletes the line at i. Caller holds the lock.
func (c *Cart) removeLocked(i int) domain.Change {
	line := c.lines[i]
	c.lines = slices.Delete(c.lines, i, i+1)
	c.persist()
	return c.emit(domain.Change{
		Kind:      domain.ChangeRemoved,
		Store:     cartKey,
		ProductID: line.ProductID,
		Label:     line.Title,
	})
}

func (c *Cart) persist() {
	err := c.storage.Write(cartKey, c.lines)
	logger.StorageWrite(cartKey, err)
}

func (c *Cart) emit(change domain.Change) domain.Change {
	logger.StoreMutation(change.Store, string(change.Kind), change.ProductID)
	c.notifier.Notify(change)
	return change
}
