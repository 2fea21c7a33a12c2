package cart

import (
	"maps"
	"slices"
)

// Cart is the mutable in-memory cart payload for one request lifecycle.
// It is not safe for concurrent use; each request owns its own copy.
type Cart struct {
	// Items maps deterministic line keys to cart lines.
	Items map[string]Item `json:"items,omitempty"`
	// Coupons holds applied discount codes in application order.
	Coupons []string `json:"coupons,omitempty"`
	// DiscountTotals maps coupon codes to discount amounts in minor units.
	DiscountTotals map[string]int64 `json:"discount_totals,omitempty"`
	// Removed retains removed lines keyed by line key for restoration.
	Removed map[string]Item `json:"removed,omitempty"`
	// Shipping maps package identifiers to chosen rate identifiers.
	Shipping map[string]string `json:"shipping,omitempty"`
	// Fees maps fee identifiers to extra charge lines.
	Fees map[string]Fee `json:"fees,omitempty"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem inserts the item under its deterministic key, or increases the
// quantity of an existing line with the same key. Returns the line key.
func (c *Cart) AddItem(item Item) string {
	if c.Items == nil {
		c.Items = make(map[string]Item)
	}
	key := item.Key()
	if existing, ok := c.Items[key]; ok {
		existing.Quantity += item.Quantity
		c.Items[key] = existing
		return key
	}
	c.Items[key] = item
	return key
}

// SetQuantity updates the quantity of an existing line.
// Setting quantity to zero or below removes the line (retained in Removed).
func (c *Cart) SetQuantity(key string, quantity int) bool {
	item, ok := c.Items[key]
	if !ok {
		return false
	}
	if quantity <= 0 {
		c.RemoveItem(key)
		return true
	}
	item.Quantity = quantity
	c.Items[key] = item
	return true
}

// RemoveItem moves a line from Items into Removed so it can be restored
// later. Returns false if the key is not present.
func (c *Cart) RemoveItem(key string) bool {
	item, ok := c.Items[key]
	if !ok {
		return false
	}
	delete(c.Items, key)
	if c.Removed == nil {
		c.Removed = make(map[string]Item)
	}
	c.Removed[key] = item
	return true
}

// RestoreItem moves a previously removed line back into Items.
// Returns false if the key is not present in Removed.
func (c *Cart) RestoreItem(key string) bool {
	item, ok := c.Removed[key]
	if !ok {
		return false
	}
	delete(c.Removed, key)
	if c.Items == nil {
		c.Items = make(map[string]Item)
	}
	c.Items[key] = item
	return true
}

// ApplyCoupon appends a discount code, ignoring duplicates.
func (c *Cart) ApplyCoupon(code string) {
	if code == "" || slices.Contains(c.Coupons, code) {
		return
	}
	c.Coupons = append(c.Coupons, code)
}

// RemoveCoupon removes a discount code and its recorded discount total.
func (c *Cart) RemoveCoupon(code string) {
	c.Coupons = slices.DeleteFunc(c.Coupons, func(s string) bool { return s == code })
	delete(c.DiscountTotals, code)
}

// SetDiscountTotal records the computed discount amount for a coupon.
// Amounts are computed by the pricing layer outside this core.
func (c *Cart) SetDiscountTotal(code string, amount int64) {
	if c.DiscountTotals == nil {
		c.DiscountTotals = make(map[string]int64)
	}
	c.DiscountTotals[code] = amount
}

// SetShipping records the chosen rate for a shipping package.
func (c *Cart) SetShipping(packageID, rateID string) {
	if c.Shipping == nil {
		c.Shipping = make(map[string]string)
	}
	c.Shipping[packageID] = rateID
}

// AddFee attaches an extra charge line under the given identifier.
func (c *Cart) AddFee(id string, fee Fee) {
	if c.Fees == nil {
		c.Fees = make(map[string]Fee)
	}
	c.Fees[id] = fee
}

// ItemsSubtotal sums line subtotals in minor units.
func (c *Cart) ItemsSubtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// IsEmpty reports whether the cart holds no state worth persisting at full
// expiry. Removed items alone do not make a cart non-empty.
func (c *Cart) IsEmpty() bool {
	if c == nil {
		return true
	}
	return len(c.Items) == 0 &&
		len(c.Coupons) == 0 &&
		len(c.Shipping) == 0 &&
		len(c.Fees) == 0
}

// Clone returns a deep copy of the cart.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return New()
	}
	clone := &Cart{
		Items:          cloneItems(c.Items),
		Coupons:        slices.Clone(c.Coupons),
		DiscountTotals: maps.Clone(c.DiscountTotals),
		Removed:        cloneItems(c.Removed),
		Shipping:       maps.Clone(c.Shipping),
		Fees:           maps.Clone(c.Fees),
	}
	return clone
}

// Merge combines another cart into this one, with the other cart's values
// winning on overlapping keys. Used at login to fold the guest cart into the
// authenticated cart: the guest session represents the active shopping
// intent and must not be silently discarded.
func (c *Cart) Merge(guest *Cart) {
	if guest == nil {
		return
	}

	if len(guest.Items) > 0 {
		if c.Items == nil {
			c.Items = make(map[string]Item, len(guest.Items))
		}
		maps.Copy(c.Items, guest.Items)
	}

	for _, code := range guest.Coupons {
		c.ApplyCoupon(code)
	}

	if len(guest.DiscountTotals) > 0 {
		if c.DiscountTotals == nil {
			c.DiscountTotals = make(map[string]int64, len(guest.DiscountTotals))
		}
		maps.Copy(c.DiscountTotals, guest.DiscountTotals)
	}

	if len(guest.Removed) > 0 {
		if c.Removed == nil {
			c.Removed = make(map[string]Item, len(guest.Removed))
		}
		maps.Copy(c.Removed, guest.Removed)
	}

	if len(guest.Shipping) > 0 {
		if c.Shipping == nil {
			c.Shipping = make(map[string]string, len(guest.Shipping))
		}
		maps.Copy(c.Shipping, guest.Shipping)
	}

	if len(guest.Fees) > 0 {
		if c.Fees == nil {
			c.Fees = make(map[string]Fee, len(guest.Fees))
		}
		maps.Copy(c.Fees, guest.Fees)
	}
}

func cloneItems(items map[string]Item) map[string]Item {
	if items == nil {
		return nil
	}
	out := make(map[string]Item, len(items))
	for k, v := range items {
		v.Extensions = maps.Clone(v.Extensions)
		out[k] = v
	}
	return out
}
