package carttransport

import (
	"context"

	"github.com/dmitrymomot/cartsession/core/cartsession"
)

type contextKey struct{}

func newContext(ctx context.Context, sess *cartsession.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// SessionFromContext extracts the cart session placed by Middleware.
// Returns ErrNoSession when the request did not pass through it.
func SessionFromContext(ctx context.Context) (*cartsession.Session, error) {
	sess, ok := ctx.Value(contextKey{}).(*cartsession.Session)
	if !ok {
		return nil, ErrNoSession
	}
	return sess, nil
}

// MustSessionFromContext extracts the cart session or panics. Use only in
// handlers that are guaranteed to run behind Middleware.
func MustSessionFromContext(ctx context.Context) *cartsession.Session {
	sess, err := SessionFromContext(ctx)
	if err != nil {
		panic(err)
	}
	return sess
}
