package store

import (
	"testing"

	"storefront-client/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrders_CheckoutEmptyCartRejected(t *testing.T) {
	storage := newTestStorage(t)
	rec := &recorder{}
	orders := NewOrders(storage, rec)
	cart := NewCart(storage, nil, 0)

	order, change := orders.Checkout(cart)

	assert.Nil(t, order)
	assert.Equal(t, domain.ChangeRejected, change.Kind)
	assert.Empty(t, orders.History())
}

func TestOrders_CheckoutSnapshotsAndClearsCart(t *testing.T) {
	storage := newTestStorage(t)
	orders := NewOrders(storage, nil)
	cart := NewCart(storage, nil, 0)

	cart.Add(domain.Product{ID: 1, Title: "A", Price: 20})
	cart.Add(domain.Product{ID: 2, Title: "B", Price: 10, Discount: 50})
	cart.IncreaseQty(2)

	order, change := orders.Checkout(cart)

	require.NotNil(t, order)
	assert.Equal(t, domain.ChangeAdded, change.Kind)
	assert.NotEmpty(t, order.ID)
	assert.InDelta(t, 30.0, order.Total, 1e-9)
	assert.Len(t, order.Items, 2)
	assert.False(t, order.Date.IsZero())

	assert.Zero(t, cart.TotalItems(), "checkout empties the cart")
	require.Len(t, orders.History(), 1)
}

func TestOrders_HistoryIsAppendOnlyAndPersisted(t *testing.T) {
	storage := newTestStorage(t)
	orders := NewOrders(storage, nil)
	cart := NewCart(storage, nil, 0)

	for i := 1; i <= 3; i++ {
		cart.Add(domain.Product{ID: i, Title: "P", Price: float64(i)})
		_, change := orders.Checkout(cart)
		require.Equal(t, domain.ChangeAdded, change.Kind)
	}

	history := orders.History()
	require.Len(t, history, 3)
	assert.NotEqual(t, history[0].ID, history[1].ID)

	reloaded := NewOrders(storage, nil)
	require.Len(t, reloaded.History(), 3)
	assert.Equal(t, history[2].ID, reloaded.History()[2].ID)
}
