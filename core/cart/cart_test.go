package cart_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cartsession/core/cart"
)

func TestItemKey(t *testing.T) {
	t.Parallel()

	t.Run("stable across quantity and price", func(t *testing.T) {
		t.Parallel()

		a := cart.Item{ProductID: "p1", VariantID: "v1", Quantity: 1, UnitPrice: 100}
		b := cart.Item{ProductID: "p1", VariantID: "v1", Quantity: 5, UnitPrice: 999}
		assert.Equal(t, a.Key(), b.Key())
	})

	t.Run("differs by product and variant", func(t *testing.T) {
		t.Parallel()

		a := cart.Item{ProductID: "p1", VariantID: "v1"}
		b := cart.Item{ProductID: "p1", VariantID: "v2"}
		c := cart.Item{ProductID: "p2", VariantID: "v1"}
		assert.NotEqual(t, a.Key(), b.Key())
		assert.NotEqual(t, a.Key(), c.Key())
	})

	t.Run("differs by extension payload", func(t *testing.T) {
		t.Parallel()

		a := cart.Item{ProductID: "p1", Extensions: map[string]json.RawMessage{"engraving": json.RawMessage(`"hello"`)}}
		b := cart.Item{ProductID: "p1", Extensions: map[string]json.RawMessage{"engraving": json.RawMessage(`"world"`)}}
		assert.NotEqual(t, a.Key(), b.Key())
	})
}

func TestCartMutations(t *testing.T) {
	t.Parallel()

	t.Run("add item merges quantities for same line", func(t *testing.T) {
		t.Parallel()

		c := cart.New()
		key1 := c.AddItem(cart.Item{ProductID: "p1", Quantity: 1, UnitPrice: 500})
		key2 := c.AddItem(cart.Item{ProductID: "p1", Quantity: 2, UnitPrice: 500})

		require.Equal(t, key1, key2)
		assert.Len(t, c.Items, 1)
		assert.Equal(t, 3, c.Items[key1].Quantity)
		assert.Equal(t, int64(1500), c.ItemsSubtotal())
	})

	t.Run("remove retains item for restore", func(t *testing.T) {
		t.Parallel()

		c := cart.New()
		key := c.AddItem(cart.Item{ProductID: "p1", Quantity: 2})

		require.True(t, c.RemoveItem(key))
		assert.Empty(t, c.Items)
		assert.Len(t, c.Removed, 1)
		assert.True(t, c.IsEmpty(), "removed items alone do not make a cart non-empty")

		require.True(t, c.RestoreItem(key))
		assert.Empty(t, c.Removed)
		assert.Equal(t, 2, c.Items[key].Quantity)
	})

	t.Run("set quantity to zero removes the line", func(t *testing.T) {
		t.Parallel()

		c := cart.New()
		key := c.AddItem(cart.Item{ProductID: "p1", Quantity: 2})

		require.True(t, c.SetQuantity(key, 0))
		assert.Empty(t, c.Items)
		assert.Contains(t, c.Removed, key)
	})

	t.Run("coupons deduplicate and keep order", func(t *testing.T) {
		t.Parallel()

		c := cart.New()
		c.ApplyCoupon("SAVE10")
		c.ApplyCoupon("FREESHIP")
		c.ApplyCoupon("SAVE10")
		assert.Equal(t, []string{"SAVE10", "FREESHIP"}, c.Coupons)

		c.SetDiscountTotal("SAVE10", 250)
		c.RemoveCoupon("SAVE10")
		assert.Equal(t, []string{"FREESHIP"}, c.Coupons)
		assert.NotContains(t, c.DiscountTotals, "SAVE10")
	})

	t.Run("empty detection", func(t *testing.T) {
		t.Parallel()

		c := cart.New()
		assert.True(t, c.IsEmpty())

		c.SetShipping("pkg-1", "rate-express")
		assert.False(t, c.IsEmpty())
	})
}

func TestCartMerge(t *testing.T) {
	t.Parallel()

	t.Run("guest values win on overlapping lines", func(t *testing.T) {
		t.Parallel()

		itemA := cart.Item{ProductID: "A", UnitPrice: 100}
		itemB := cart.Item{ProductID: "B", UnitPrice: 200}

		auth := cart.New()
		itemA.Quantity = 1
		auth.AddItem(itemA)
		itemB.Quantity = 1
		auth.AddItem(itemB)

		guest := cart.New()
		itemA.Quantity = 2
		keyA := guest.AddItem(itemA)

		auth.Merge(guest)

		assert.Len(t, auth.Items, 2)
		assert.Equal(t, 2, auth.Items[keyA].Quantity, "guest quantity wins")
		assert.Equal(t, 1, auth.Items[itemB.Key()].Quantity, "authenticated-only line preserved")
	})

	t.Run("merges coupons shipping and fees", func(t *testing.T) {
		t.Parallel()

		auth := cart.New()
		auth.ApplyCoupon("OLD")
		auth.SetShipping("pkg-1", "rate-ground")

		guest := cart.New()
		guest.ApplyCoupon("OLD")
		guest.ApplyCoupon("NEW")
		guest.SetShipping("pkg-1", "rate-express")
		guest.AddFee("gift-wrap", cart.Fee{Name: "Gift wrap", Amount: 300})

		auth.Merge(guest)

		assert.Equal(t, []string{"OLD", "NEW"}, auth.Coupons)
		assert.Equal(t, "rate-express", auth.Shipping["pkg-1"], "guest selection wins")
		assert.Equal(t, int64(300), auth.Fees["gift-wrap"].Amount)
	})

	t.Run("nil guest is a no-op", func(t *testing.T) {
		t.Parallel()

		c := cart.New()
		c.ApplyCoupon("X")
		c.Merge(nil)
		assert.Equal(t, []string{"X"}, c.Coupons)
	})
}

func TestCartClone(t *testing.T) {
	t.Parallel()

	c := cart.New()
	key := c.AddItem(cart.Item{ProductID: "p1", Quantity: 1})
	c.ApplyCoupon("SAVE10")

	clone := c.Clone()
	clone.SetQuantity(key, 9)
	clone.ApplyCoupon("OTHER")

	assert.Equal(t, 1, c.Items[key].Quantity)
	assert.Equal(t, []string{"SAVE10"}, c.Coupons)
}
