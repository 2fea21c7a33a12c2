package cart

// Totals is the computed money breakdown of a cart, all amounts in minor
// units. Pricing inputs (unit prices, per-coupon discount amounts) are set
// by the pricing layer; Totals only aggregates them.
type Totals struct {
	ItemsSubtotal int64 `json:"items_subtotal"`
	Discount      int64 `json:"discount"`
	Fees          int64 `json:"fees"`
	// GrandTotal is ItemsSubtotal - Discount + Fees, floored at zero.
	GrandTotal int64 `json:"grand_total"`
}

// CalculateTotals aggregates the cart's money fields. Mutation endpoints
// call it after item-level changes and before reading state back.
func (c *Cart) CalculateTotals() Totals {
	t := Totals{ItemsSubtotal: c.ItemsSubtotal()}

	for _, amount := range c.DiscountTotals {
		t.Discount += amount
	}
	for _, fee := range c.Fees {
		t.Fees += fee.Amount
	}

	t.GrandTotal = t.ItemsSubtotal - t.Discount + t.Fees
	if t.GrandTotal < 0 {
		t.GrandTotal = 0
	}
	return t
}
