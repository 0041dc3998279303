package store

import (
	"slices"
	"sync"
	"time"

	"storefront-client/internal/domain"
	"storefront-client/pkg/localstore"
	"storefront-client/pkg/logger"

	"github.com/google/uuid"
)

const ordersKey = "orders"

// Orders holds the append-only order history written at checkout. Records
// are never mutated after creation and are read back only for display.
type Orders struct {
	mu       sync.Mutex
	orders   []domain.Order
	storage  *localstore.Store
	notifier domain.Notifier
}

func NewOrders(storage *localstore.Store, notifier domain.Notifier) *Orders {
	if notifier == nil {
		notifier = domain.NopNotifier{}
	}
	o := &Orders{storage: storage, notifier: notifier}

	var orders []domain.Order
	if _, err := storage.Read(ordersKey, &orders); err != nil {
		logger.Error().Err(err).Msg("Failed to load order history from storage")
	}
	o.orders = orders
	return o
}

// Checkout snapshots the cart into a new order record, appends it to the
// history, and clears the cart. There is no payment gateway: writing the
// record is the whole "payment" flow. An empty cart is rejected.
func (o *Orders) Checkout(cart *Cart) (*domain.Order, domain.Change) {
	items := cart.Lines()
	if len(items) == 0 {
		change := domain.Change{
			Kind:   domain.ChangeRejected,
			Store:  ordersKey,
			Reason: "cart is empty",
		}
		o.emit(change)
		return nil, change
	}

	order := domain.Order{
		ID:    uuid.NewString(),
		Items: items,
		Total: cart.TotalPrice(),
		Date:  time.Now(),
	}

	o.mu.Lock()
	o.orders = append(o.orders, order)
	err := o.storage.Write(ordersKey, o.orders)
	o.mu.Unlock()
	logger.StorageWrite(ordersKey, err)

	cart.Clear()

	change := domain.Change{
		Kind:  domain.ChangeAdded,
		Store: ordersKey,
		Label: order.ID,
	}
	o.emit(change)
	return &order, change
}

func (o *Orders) emit(change domain.Change) {
	logger.StoreMutation(change.Store, string(change.Kind), change.ProductID)
	o.notifier.Notify(change)
}

// History returns a copy of the order history, oldest first.
func (o *Orders) History() []domain.Order {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.orders)
}
