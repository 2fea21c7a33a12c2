package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/cartsession/core/cache"
)

// CartCache is the Redis-backed cart blob cache. Keys are namespaced by a
// generation counter, so InvalidateAll is a single INCR: old entries become
// unreachable immediately and expire on their own TTLs.
type CartCache struct {
	client *redis.Client
	prefix string
}

// NewCartCache creates a cart cache on top of an existing Redis client.
func NewCartCache(client *redis.Client, prefix string) *CartCache {
	if prefix == "" {
		prefix = "cart"
	}
	return &CartCache{client: client, prefix: prefix}
}

// NewCartCacheFromConfig creates a cart cache from configuration.
func NewCartCacheFromConfig(cfg Config, client *redis.Client) *CartCache {
	return NewCartCache(client, cfg.CachePrefix)
}

func (c *CartCache) generationKey() string {
	return c.prefix + ":generation"
}

func (c *CartCache) key(ctx context.Context, key string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Result()
	switch {
	case errors.Is(err, redis.Nil):
		gen = "0"
	case err != nil:
		return "", err
	}
	return fmt.Sprintf("%s:%s:%s", c.prefix, gen, key), nil
}

// Get fetches the cached blob for key. A missing entry is not an error.
func (c *CartCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	nsKey, err := c.key(ctx, key)
	if err != nil {
		return nil, false, err
	}
	val, err := c.client.Get(ctx, nsKey).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}
	return val, true, nil
}

// Set stores the blob under key for the given TTL. Non-positive TTLs are
// not stored: an entry that expired on arrival has no value.
func (c *CartCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	nsKey, err := c.key(ctx, key)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, nsKey, value, ttl).Err()
}

// Delete removes the cached entry for key. Missing entries are not an error.
func (c *CartCache) Delete(ctx context.Context, key string) error {
	nsKey, err := c.key(ctx, key)
	if err != nil {
		return err
	}
	return c.client.Del(ctx, nsKey).Err()
}

// InvalidateAll rolls the namespace generation, making every cached cart
// unreachable in one operation regardless of entry count.
func (c *CartCache) InvalidateAll(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

var _ cache.Cache = (*CartCache)(nil)
