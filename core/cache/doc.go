// Package cache defines the read-through cache contract in front of the
// durable cart store, plus an in-memory implementation for tests and
// development.
//
// The cache is never authoritative: entries carry a TTL equal to the cart's
// remaining time to expiry, implementations degrade to a miss on any
// failure, and the reaper can invalidate the whole namespace in one call
// after a bulk delete. The production Redis implementation lives in
// integration/database/redis.
package cache
