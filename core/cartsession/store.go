package cartsession

import (
	"context"
	"time"
)

// Record is one row of the durable cart store.
type Record struct {
	// Key is the unique cart identity: a user ID when authenticated,
	// an opaque guest token otherwise.
	Key string
	// Value is the serialized cart payload (versioned blob, see core/cart).
	Value []byte
	// CreatedAt is the unix timestamp of the first write.
	CreatedAt int64
	// ExpiresAt is the unix timestamp after which the row may be reaped.
	ExpiresAt int64
	// Source tags the channel that created the cart. Informational only.
	Source string
	// Hash is the content hash of Value, exposed to clients for optimistic
	// change detection.
	Hash string
}

// Expired reports whether the record is past its expiry at the given time.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt <= now.Unix()
}

// Store is the durable cart store contract. Implementations must make
// Upsert a single atomic insert-or-update on Key: concurrent requests for
// the same cart race at the row level (last writer wins) but must never
// produce duplicate rows or partial writes.
type Store interface {
	// Get returns the record for the key, or ErrNotFound.
	Get(ctx context.Context, key string) (*Record, error)

	// Upsert atomically inserts or replaces the row for rec.Key.
	// On update the original CreatedAt is preserved.
	Upsert(ctx context.Context, rec Record) error

	// Delete removes the row. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// UpdateExpiry rewrites only the expiry column, a lightweight
	// alternative to a full upsert for soft-threshold refreshes.
	UpdateExpiry(ctx context.Context, key string, expiresAt int64) error

	// DeleteWhereExpired bulk-deletes rows with expiry at or before now and
	// returns the count removed.
	DeleteWhereExpired(ctx context.Context, now time.Time) (int64, error)

	// CountActive returns the number of unexpired rows.
	CountActive(ctx context.Context, now time.Time) (int64, error)

	// CountExpired returns the number of expired rows not yet reaped.
	CountExpired(ctx context.Context, now time.Time) (int64, error)

	// DeleteAll removes every row and returns the count removed.
	DeleteAll(ctx context.Context) (int64, error)

	// InsertMissing inserts records whose keys are not yet present,
	// never overwriting existing rows. Returns the count inserted.
	// Used by the legacy-table synchronization flow.
	InsertMissing(ctx context.Context, recs []Record) (int64, error)
}

// LegacySource yields cart records from a legacy session table for the
// one-way synchronize operation.
type LegacySource interface {
	FetchCarts(ctx context.Context) ([]Record, error)
}
