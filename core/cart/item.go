package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Item is a single cart line. Monetary amounts are integer minor units
// (cents) so values survive serialization round trips exactly.
type Item struct {
	ProductID string `json:"product_id"`
	VariantID string `json:"variant_id,omitempty"`
	Quantity  int    `json:"quantity"`
	// UnitPrice is the per-unit price in minor currency units.
	UnitPrice int64 `json:"unit_price"`
	// Extensions carries opaque per-item payloads attached by registered
	// extensions. Keys are extension names.
	Extensions map[string]json.RawMessage `json:"extensions,omitempty"`
}

// Subtotal returns quantity times unit price in minor units.
func (i Item) Subtotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Key derives the deterministic line identity for the item. Two items with
// the same product, variant and extension payloads always map to the same
// cart slot regardless of quantity or price.
func (i Item) Key() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|", i.ProductID, i.VariantID)
	if len(i.Extensions) > 0 {
		// json.Marshal sorts map keys, giving a canonical byte form.
		if raw, err := json.Marshal(i.Extensions); err == nil {
			h.Write(raw)
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// Fee is an extra charge line attached to the cart as a whole.
type Fee struct {
	Name string `json:"name"`
	// Amount is the fee value in minor currency units.
	Amount  int64 `json:"amount"`
	Taxable bool  `json:"taxable"`
}
