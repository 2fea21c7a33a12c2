package identity

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/dmitrymomot/cartsession/core/logger"
)

// Directory answers whether a cart key belongs to a registered user.
// Implemented by the surrounding account system; used to stop anonymous
// requests from operating under a real user's key.
type Directory interface {
	IsRegisteredUser(ctx context.Context, key string) (bool, error)
}

// DirectoryFunc adapts a function to the Directory interface.
type DirectoryFunc func(ctx context.Context, key string) (bool, error)

func (f DirectoryFunc) IsRegisteredUser(ctx context.Context, key string) (bool, error) {
	return f(ctx, key)
}

// Request carries the identity-relevant inputs of one HTTP request.
type Request struct {
	// CookieValue is the raw identity cookie value, empty when absent.
	CookieValue string
	// PrincipalID is the authenticated user's stable ID (numeric string),
	// empty for anonymous requests.
	PrincipalID string
	// OverrideKey is an explicit cart-key override from query or header,
	// honored only when OverrideAuthorized is set (admin/testing flows).
	OverrideKey        string
	OverrideAuthorized bool
}

// Authenticated reports whether the request carries a principal.
func (r Request) Authenticated() bool {
	return r.PrincipalID != ""
}

// RejectReason classifies why a presented cookie was discarded.
type RejectReason int

const (
	RejectNone RejectReason = iota
	// RejectMalformed: cookie did not parse; silently treated as absent.
	RejectMalformed
	// RejectBadSignature: well-formed cookie with a failing HMAC; possible tampering.
	RejectBadSignature
	// RejectImpersonation: anonymous request presented a registered user's key.
	RejectImpersonation
)

// Resolution is the outcome of identity resolution for one request.
type Resolution struct {
	// CartKey is the key all loads and saves for this request target.
	CartKey string
	// IsNew is true when the key was freshly minted or freshly bound to a
	// principal with no cookie continuity.
	IsNew bool
	// IsAuthenticated mirrors the request principal state.
	IsAuthenticated bool
	// MergeFrom holds the previous (guest) key when an identity transition
	// was detected; the session handler schedules a cart merge from it.
	MergeFrom string
	// Cookie is the validated cookie payload when one was accepted,
	// used for soft-expiry refresh decisions.
	Cookie CookiePayload
	// HasCookie reports whether Cookie carries an accepted payload.
	HasCookie bool
	// Override is true when the key came from an authorized explicit
	// override. Override resolutions inspect someone else's cart: they must
	// never bind the caller's cookie to the key or refresh the row's expiry.
	Override bool
	// Rejected records why a presented cookie was discarded, RejectNone otherwise.
	Rejected RejectReason
}

// Resolver derives a cart key from request identity signals.
type Resolver struct {
	codec     *Codec
	directory Directory
	log       *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger sets the logger for security-relevant events (tampered cookies,
// impersonation attempts). Defaults to a no-op logger.
func WithLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a resolver. The directory may be nil, in which case
// the registered-user collision check is skipped (single-tenant test setups).
func NewResolver(codec *Codec, directory Directory, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		codec:     codec,
		directory: directory,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve determines the cart key for the request.
//
// Priority: authorized override, then principal/cookie reconciliation, then
// a freshly minted guest key. Invalid cookies degrade silently to "absent";
// only the random source failing can return an error.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Resolution, error) {
	if req.OverrideKey != "" && req.OverrideAuthorized {
		return Resolution{
			CartKey:         req.OverrideKey,
			IsAuthenticated: req.Authenticated(),
			Override:        true,
		}, nil
	}

	res := Resolution{IsAuthenticated: req.Authenticated()}

	if req.CookieValue != "" {
		payload, err := r.codec.Decode(req.CookieValue)
		switch {
		case err == nil:
			res.Cookie = payload
			res.HasCookie = true
		case errors.Is(err, ErrInvalidSignature):
			res.Rejected = RejectBadSignature
			r.log.InfoContext(ctx, "cart cookie rejected: bad signature", logger.Error(err))
		default:
			res.Rejected = RejectMalformed
		}
	}

	if req.Authenticated() {
		res.CartKey = req.PrincipalID
		if !res.HasCookie {
			res.IsNew = true
			return res, nil
		}
		if res.Cookie.CartKey != req.PrincipalID {
			// Identity transition: a guest cart being claimed at login, or
			// another user's stale cookie. The old cookie is superseded and
			// a merge from the old key is scheduled.
			res.MergeFrom = res.Cookie.CartKey
		}
		return res, nil
	}

	if res.HasCookie {
		registered, err := r.isRegisteredUser(ctx, res.Cookie.CartKey)
		switch {
		case err != nil:
			// Directory unavailable: minting a fresh key is the safe side,
			// it can never hand out another user's cart.
			r.log.ErrorContext(ctx, "user directory lookup failed, minting guest key", logger.Error(err))
			res.HasCookie = false
			res.Cookie = CookiePayload{}
		case registered:
			res.Rejected = RejectImpersonation
			res.HasCookie = false
			res.Cookie = CookiePayload{}
			r.log.WarnContext(ctx, "anonymous request presented a registered user's cart key")
		default:
			res.CartKey = res.Cookie.CartKey
			return res, nil
		}
	}

	key, err := MintGuestKey()
	if err != nil {
		return Resolution{}, err
	}
	res.CartKey = key
	res.IsNew = true
	return res, nil
}

func (r *Resolver) isRegisteredUser(ctx context.Context, key string) (bool, error) {
	if r.directory == nil || IsGuestKey(key) {
		return false, nil
	}
	return r.directory.IsRegisteredUser(ctx, key)
}
