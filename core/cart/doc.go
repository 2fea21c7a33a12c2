// Package cart defines the in-memory cart payload, its deterministic line
// identity, and the versioned blob codec used by the durable store.
//
// A Cart holds line items keyed by a content-derived hash, applied discount
// codes, chosen shipping selections, extra fee lines, and a retention map of
// removed items. Monetary values are integer minor units (cents) so amounts
// survive serialization round trips without precision loss.
//
// # Blob format
//
// Carts persist as a JSON envelope with an explicit schema version tag:
//
//	{"v":1,"cart":{"items":{...},"coupons":[...]}}
//
// Decode rejects unknown versions rather than guessing; callers fail open to
// an empty cart with a logged warning, and a future schema bump only needs a
// new decoder branch while v1 rows stay readable.
//
// # Merge semantics
//
// Cart.Merge folds a guest cart into an authenticated cart at login. Each
// sub-collection merges by key union with the guest value winning on
// overlaps: the guest session immediately before login carries the active
// shopping intent and takes precedence over stale authenticated leftovers.
package cart
