package pg

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// txContextKey keeps the transaction value from colliding with other
// context keys.
type txContextKey struct{}

// WithTx returns a context carrying tx. CartStore methods called with the
// returned context run their statements on the transaction instead of the
// pool, so a cart write can commit atomically with surrounding work.
// A nil tx leaves the context unchanged.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext reports the transaction installed by WithTx, if any.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txContextKey{}).(pgx.Tx)
	return tx, ok
}
