package redis

import "time"

// Config provides environment-based configuration for the Redis client and
// the cart cache built on top of it.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
	RetryAttempts  uint64        `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	// CachePrefix namespaces every cart cache key.
	CachePrefix string `env:"REDIS_CART_CACHE_PREFIX" envDefault:"cart"`
}
