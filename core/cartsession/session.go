package cartsession

import (
	"context"
	"time"

	"github.com/dmitrymomot/cartsession/core/cart"
	"github.com/dmitrymomot/cartsession/core/identity"
	"github.com/dmitrymomot/cartsession/core/logger"
)

// Session is the per-request cart handle produced by Manager.Init.
// It is bound to one request lifecycle and is not safe for concurrent use;
// concurrent requests for the same cart key each get their own Session and
// race at the store row (last writer wins).
//
// Exactly one terminal operation must run per session: Close (save) or
// Destroy. Close is safe to defer unconditionally; it is a no-op after
// Destroy or a prior Close.
type Session struct {
	mgr    *Manager
	res    identity.Resolution
	cart   *cart.Cart
	record *Record

	// hadState is true when the load found anything for this key, whether a
	// store row or a cached non-empty cart. Controls lazy row creation.
	hadState bool

	// loadedHash captures the cart content at load time for key-override
	// sessions, so an inspection that changed nothing skips the terminal save.
	loadedHash string

	expiresAt  time.Time
	expiringAt time.Time

	cookieChanged bool
	closed        bool
	destroyed     bool
}

// Key returns the resolved cart key for this request.
func (s *Session) Key() string {
	return s.res.CartKey
}

// IsAuthenticated reports whether the request carried a principal.
func (s *Session) IsAuthenticated() bool {
	return s.res.IsAuthenticated
}

// IsNew reports whether the identity was minted for this request.
func (s *Session) IsNew() bool {
	return s.res.IsNew
}

// Cart returns the mutable in-memory cart. Mutation endpoints operate on it
// and then trigger Save; they never talk to the store directly.
func (s *Session) Cart() *cart.Cart {
	return s.cart
}

// Hash returns the content hash of the current in-memory cart, for clients
// that perform optimistic change detection.
func (s *Session) Hash() string {
	h, err := cart.Hash(s.cart)
	if err != nil {
		return ""
	}
	return h
}

// ExpiresAt returns the session's hard expiration.
func (s *Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// Save persists the cart immediately and propagates failures. Explicit
// mutation endpoints use it so a write that did not durably persist surfaces
// as a hard error to the client.
func (s *Session) Save(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	if s.skipWrite() {
		return nil
	}
	return s.mgr.save(ctx, s)
}

// Destroy deletes the cart record, clears the cache entry, and marks the
// identity cookie for client-side deletion. Terminal: subsequent Close is a
// no-op.
func (s *Session) Destroy(ctx context.Context) error {
	if s.closed {
		return ErrSessionClosed
	}
	s.closed = true
	s.destroyed = true
	s.cookieChanged = true
	return s.mgr.destroy(ctx, s.Key())
}

// Close runs the terminal save. A failed write at request shutdown is
// logged, never surfaced, so the response still reaches the client.
// Safe to call after Destroy or a prior Close.
func (s *Session) Close(ctx context.Context) {
	if s.closed {
		return
	}
	s.closed = true

	if s.skipWrite() || s.inspectionOnly() {
		return
	}
	if err := s.mgr.save(ctx, s); err != nil {
		s.mgr.log.ErrorContext(ctx, "terminal cart save failed",
			logger.Error(err),
			logger.CartKey(s.Key()),
		)
	}
}

// skipWrite reports whether there is genuinely nothing to persist: the cart
// is empty and no row exists or ever existed for this key. Rows are created
// lazily so anonymous page views don't bloat the table.
func (s *Session) skipWrite() bool {
	return s.cart.IsEmpty() && !s.hadState && s.record == nil
}

// inspectionOnly reports whether a key-override session finished without
// mutating the cart. Viewing another identity's cart must leave its row
// byte-for-byte as it was.
func (s *Session) inspectionOnly() bool {
	if !s.res.Override {
		return false
	}
	h, err := cart.Hash(s.cart)
	if err != nil {
		return false
	}
	return h == s.loadedHash
}

// CookiePayload returns the identity cookie tuple the response should carry.
func (s *Session) CookiePayload() identity.CookiePayload {
	return identity.CookiePayload{
		CartKey:    s.Key(),
		ExpiresAt:  s.expiresAt,
		ExpiringAt: s.expiringAt,
	}
}

// NeedsCookieWrite reports whether the transport must (re)write the identity
// cookie: fresh identities, identity transitions, and soft-expiry refreshes.
// A brand-new session with nothing persisted needs no cookie yet, and a
// key-override session never binds the caller's cookie to the inspected key.
func (s *Session) NeedsCookieWrite() bool {
	if s.destroyed || s.res.Override {
		return false
	}
	if s.skipWrite() && s.res.IsNew {
		return false
	}
	return s.cookieChanged
}

// NeedsCookieClear reports whether the transport must send an expired cookie
// to force client deletion. Destroying a cart through a key override leaves
// the caller's own cookie alone.
func (s *Session) NeedsCookieClear() bool {
	return s.destroyed && !s.res.Override
}
