// Package identity derives the cart key for a stateless request.
//
// Every request reconstructs identity from two signals: the authenticated
// principal's stable ID (when logged in) and a signed client-held cookie.
// The resolver reconciles them into a single cart key:
//
//   - authenticated, no cookie: the principal ID is the key
//   - authenticated, cookie for a different key: identity transition; the
//     resolution carries the old key in MergeFrom so the session handler can
//     fold the guest cart into the user's cart
//   - anonymous with a valid guest cookie: the cookie key is the key
//   - anonymous with a cookie naming a registered user: rejected outright
//     (impersonation protection), a fresh guest key is minted
//   - anonymous without a cookie: a fresh guest key is minted
//
// Guest keys come from crypto/rand and carry a "g_" prefix so they can never
// collide with numeric user identifiers.
//
// # Cookie format
//
// "<cart_key>||<expiration>||<expiring>||<hmac_hex>", HMAC-SHA256 over
// "<cart_key>|<expiration>" with constant-time verification. Malformed or
// forged cookies are treated as absent: the client silently continues under
// a fresh identity, never an error page. Forgeries are logged.
package identity
