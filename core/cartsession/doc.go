// Package cartsession orchestrates the stateless cart session lifecycle:
// identity resolution, cache-first load, guest→login merge, expiry refresh,
// and the terminal save-or-destroy of each request.
//
// One Manager serves all requests. Manager.Init resolves the cart key from
// the request's identity signals (see core/identity), performs a pending
// guest merge when a login transition is detected, loads the cart
// (cache-first, store-authoritative) and returns a request-scoped Session:
//
//	sess, err := mgr.Init(ctx, identity.Request{
//		CookieValue: cookieValue,
//		PrincipalID: principalID,
//	})
//	if err != nil {
//		return err
//	}
//	defer sess.Close(ctx) // guaranteed terminal save
//
//	c := sess.Cart()
//	c.AddItem(cart.Item{ProductID: "p1", Quantity: 1, UnitPrice: 1999})
//	if err := sess.Save(ctx); err != nil {
//		// explicit mutation endpoints surface persistence failures
//		return err
//	}
//
// # Consistency model
//
// Requests are fully stateless: any number of server instances run against
// the same store. Two concurrent requests for one cart key each load and
// save independently; the atomic per-key upsert guarantees a single row but
// the last writer wins on content. The record's content hash is exposed so
// client layers can detect conflicting writes.
//
// # Failure semantics
//
// Store read failures and corrupt payloads degrade to an empty cart with a
// logged incident. The deferred Close never propagates write failures (the
// response must still reach the client); explicit Save does. Expired rows
// still physically present read as empty carts and are never resurrected.
package cartsession
