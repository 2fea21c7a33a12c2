package cache

import (
	"context"
	"time"
)

// Cache is a read-through cache for serialized cart blobs, keyed by cart key.
// It is a pure performance layer: the durable store stays authoritative, and
// every implementation must degrade to a miss on failure rather than error
// out the request path.
type Cache interface {
	// Get returns the cached blob and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores the blob with the given TTL. Values with ttl <= 0 are not
	// stored: a cart at or past expiry must never be served from cache.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single entry.
	Delete(ctx context.Context, key string) error

	// InvalidateAll makes every entry in the namespace unreachable at once
	// (group invalidation). Used by the reaper after bulk deletes, where
	// enumerating individual keys is not feasible.
	InvalidateAll(ctx context.Context) error
}
