// Package redis provides Redis client initialization, health checking, and
// the cart blob cache.
//
// The package wraps the go-redis client with URL validation, exponential
// backoff retry logic, and a connectivity ping on startup, so a service only
// reports ready once Redis actually answers.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  uint64        `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//		CachePrefix    string        `env:"REDIS_CART_CACHE_PREFIX" envDefault:"cart"`
//	}
//
// Both redis:// and rediss:// (TLS) URL schemes are supported.
//
// # Usage Example
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal("failed to connect to redis:", err)
//	}
//	defer client.Close()
//
//	cartCache := redis.NewCartCacheFromConfig(cfg, client)
//	mgr := cartsession.NewManager(store, resolver, sessionCfg,
//		cartsession.WithCache(cartCache),
//	)
//
// # Cart Cache
//
// CartCache stores encoded cart blobs under generation-namespaced keys:
//
//	<prefix>:<generation>:<cart_key>
//
// Entry TTLs mirror the remaining row expiry, so a cached cart can never
// outlive its database row. InvalidateAll increments the generation counter,
// which orphans every existing entry in a single O(1) operation; orphaned
// entries expire on their own TTLs without a scan.
//
// # Health Checking
//
//	healthCheck := redis.Healthcheck(client)
//	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
//		if err := healthCheck(r.Context()); err != nil {
//			http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
//			return
//		}
//		w.WriteHeader(http.StatusOK)
//	})
package redis
