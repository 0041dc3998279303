package store

import "storefront-client/internal/domain"

// MoveToCart is the one composite operation spanning two stores: the product
// goes into the cart and its id leaves the wishlist. Each half keeps its own
// notification semantics; if the id was not actually saved, the cart add
// still happens and the wishlist half is the usual silent no-op.
func MoveToCart(wishlist *Wishlist, cart *Cart, p domain.Product) []domain.Change {
	changes := []domain.Change{cart.Add(p)}
	if change, ok := wishlist.Remove(p.ID); ok {
		changes = append(changes, change)
	}
	return changes
}
