package domain

// CartLine is one product's presence in the cart. Price and discount are
// snapshots taken when the line was created; later catalog changes do not
// retroactively affect lines already present.
type CartLine struct {
	ProductID       int     `json:"productId"`
	Title           string  `json:"title"`
	Quantity        int     `json:"quantity"` // >= 1 while the line exists
	UnitPrice       float64 `json:"unitPrice"`
	DiscountPercent float64 `json:"discountPercent"`
	Image           string  `json:"image,omitempty"`
}

// EffectivePrice is the per-unit price after the snapshotted discount.
func (l CartLine) EffectivePrice() float64 {
	return l.UnitPrice * (1 - l.DiscountPercent/100)
}

// LineTotal is EffectivePrice * Quantity.
func (l CartLine) LineTotal() float64 {
	return l.EffectivePrice() * float64(l.Quantity)
}
