package pg

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/cartsession/core/cartsession"
)

// CartStore is the PostgreSQL-backed cart record store. Writes are atomic
// upserts keyed on cart_key, so concurrent requests for one cart settle on a
// single row with the last completed write winning.
//
// All methods participate in a transaction carried via WithTx.
type CartStore struct {
	pool *pgxpool.Pool
}

// NewCartStore creates a cart store on top of an existing connection pool.
func NewCartStore(pool *pgxpool.Pool) *CartStore {
	return &CartStore{pool: pool}
}

// querier is satisfied by both pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *CartStore) db(ctx context.Context) querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return s.pool
}

// Get fetches the record stored under key. Returns cartsession.ErrNotFound
// when no row exists.
func (s *CartStore) Get(ctx context.Context, key string) (*cartsession.Record, error) {
	const q = `SELECT cart_value, cart_created, cart_expiry, cart_source, cart_hash
		FROM carts WHERE cart_key = $1`

	rec := cartsession.Record{Key: key}
	err := s.db(ctx).QueryRow(ctx, q, key).Scan(
		&rec.Value, &rec.CreatedAt, &rec.ExpiresAt, &rec.Source, &rec.Hash,
	)
	switch {
	case IsNotFoundError(err):
		return nil, cartsession.ErrNotFound
	case err != nil:
		return nil, err
	}
	return &rec, nil
}

// Upsert atomically inserts or replaces the record under its key.
// cart_created is written only on insert; updates keep the original value.
func (s *CartStore) Upsert(ctx context.Context, rec cartsession.Record) error {
	const q = `INSERT INTO carts (cart_key, cart_value, cart_created, cart_expiry, cart_source, cart_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_key) DO UPDATE SET
			cart_value = EXCLUDED.cart_value,
			cart_expiry = EXCLUDED.cart_expiry,
			cart_source = EXCLUDED.cart_source,
			cart_hash = EXCLUDED.cart_hash`

	_, err := s.db(ctx).Exec(ctx, q,
		rec.Key, rec.Value, rec.CreatedAt, rec.ExpiresAt, rec.Source, rec.Hash,
	)
	return err
}

// Delete removes the record under key. Missing rows are not an error.
func (s *CartStore) Delete(ctx context.Context, key string) error {
	_, err := s.db(ctx).Exec(ctx, `DELETE FROM carts WHERE cart_key = $1`, key)
	return err
}

// UpdateExpiry rewrites only the expiry column for an existing row.
func (s *CartStore) UpdateExpiry(ctx context.Context, key string, expiresAt int64) error {
	_, err := s.db(ctx).Exec(ctx,
		`UPDATE carts SET cart_expiry = $1 WHERE cart_key = $2`, expiresAt, key)
	return err
}

// DeleteWhereExpired removes every row whose expiry has passed and returns
// the number of rows deleted.
func (s *CartStore) DeleteWhereExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db(ctx).Exec(ctx,
		`DELETE FROM carts WHERE cart_expiry <= $1`, now.Unix())
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountActive returns the number of unexpired rows.
func (s *CartStore) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.db(ctx).QueryRow(ctx,
		`SELECT count(*) FROM carts WHERE cart_expiry > $1`, now.Unix()).Scan(&n)
	return n, err
}

// CountExpired returns the number of rows awaiting the reaper.
func (s *CartStore) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := s.db(ctx).QueryRow(ctx,
		`SELECT count(*) FROM carts WHERE cart_expiry <= $1`, now.Unix()).Scan(&n)
	return n, err
}

// DeleteAll removes every cart row and returns the number deleted.
func (s *CartStore) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := s.db(ctx).Exec(ctx, `DELETE FROM carts`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InsertMissing inserts records whose keys are not yet present, leaving
// existing rows untouched. Returns the number of rows inserted.
func (s *CartStore) InsertMissing(ctx context.Context, recs []cartsession.Record) (int64, error) {
	const q = `INSERT INTO carts (cart_key, cart_value, cart_created, cart_expiry, cart_source, cart_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_key) DO NOTHING`

	var inserted int64
	var errs []error
	for _, rec := range recs {
		tag, err := s.db(ctx).Exec(ctx, q,
			rec.Key, rec.Value, rec.CreatedAt, rec.ExpiresAt, rec.Source, rec.Hash,
		)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		inserted += tag.RowsAffected()
	}
	if len(errs) > 0 {
		return inserted, errors.Join(errs...)
	}
	return inserted, nil
}

var _ cartsession.Store = (*CartStore)(nil)
