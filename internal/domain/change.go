package domain

// ChangeKind classifies a store mutation outcome.
type ChangeKind string

const (
	ChangeAdded           ChangeKind = "added"
	ChangeQuantityUpdated ChangeKind = "quantity_updated"
	ChangeRemoved         ChangeKind = "removed"
	ChangeCleared         ChangeKind = "cleared"
	ChangeAlreadyPresent  ChangeKind = "already_present"
	ChangeRejected        ChangeKind = "rejected"
)

// Change describes what a mutation did, separated from how it is shown to
// the user. Stores return Changes; a Notifier decides whether each one
// becomes a user-visible notification.
type Change struct {
	Kind      ChangeKind
	Store     string // cart, wishlist, filter, orders
	ProductID int
	Label     string // product title when known, else a generic label
	Quantity  int    // post-mutation quantity, when meaningful
	Reason    string // set for rejections and warnings
}

// Notifier consumes mutation outcomes. Implementations are fire-and-forget;
// a Notify call must never fail the mutation that produced it.
type Notifier interface {
	Notify(Change)
}

// NopNotifier discards all changes.
type NopNotifier struct{}

func (NopNotifier) Notify(Change) {}
