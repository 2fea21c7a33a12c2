// Package pg provides PostgreSQL connection management, migrations, and the
// durable cart record store.
//
// The package wraps the pgx driver with application-level retry logic,
// connection pool tuning, and integrated schema migration support using
// goose. Connection establishment uses exponential backoff so services
// restarting alongside their database do not flap.
//
// # Configuration
//
// All configuration is handled through the Config struct with environment
// variable mapping:
//
//	type Config struct {
//		ConnectionString  string        `env:"PG_CONN_URL,required"`
//		MaxOpenConns      int32         `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//		MaxIdleConns      int32         `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
//		HealthCheckPeriod time.Duration `env:"PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
//		MaxConnIdleTime   time.Duration `env:"PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
//		MaxConnLifetime   time.Duration `env:"PG_MAX_CONN_LIFETIME" envDefault:"30m"`
//		RetryAttempts     uint64        `env:"PG_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval     time.Duration `env:"PG_RETRY_INTERVAL" envDefault:"5s"`
//		MigrationsTable   string        `env:"PG_MIGRATIONS_TABLE" envDefault:"schema_migrations"`
//	}
//
// # Usage Example
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal("failed to connect to postgres:", err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, logger); err != nil {
//		log.Fatal("migration failed:", err)
//	}
//
//	store := pg.NewCartStore(pool)
//	mgr := cartsession.NewManager(store, resolver, sessionCfg)
//
// # Cart Storage
//
// CartStore persists one row per cart key in the carts table. Writes are
// atomic upserts (INSERT ... ON CONFLICT DO UPDATE), so concurrent requests
// for one cart key settle on a single row and the last completed write wins
// wholesale. The cart_created column is written only on insert; updates keep
// the original value.
//
// Migrations are embedded in the package binary and applied by Migrate.
// goose speaks database/sql, so the pgx pool is adapted through the stdlib
// bridge without opening a second connection set.
//
// # Health Checking
//
//	healthCheck := pg.Healthcheck(pool)
//	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
//		if err := healthCheck(r.Context()); err != nil {
//			http.Error(w, "database unhealthy", http.StatusServiceUnavailable)
//			return
//		}
//		w.WriteHeader(http.StatusOK)
//	})
//
// # Error Handling
//
// The package defines domain-specific errors and classification helpers for
// common PostgreSQL error patterns:
//
//	isNotFound := pg.IsNotFoundError(err)               // pgx.ErrNoRows
//	isDuplicate := pg.IsDuplicateKeyError(err)          // unique violations
//	isFKViolation := pg.IsForeignKeyViolationError(err) // referential integrity
//	isTxClosed := pg.IsTxClosedError(err)               // closed transaction usage
//
// # Transaction Management
//
// WithTx attaches a pgx.Tx to a context and TxFromContext retrieves it.
// Every CartStore method checks the context for a transaction, so callers
// that need atomic multi-step writes (a legacy import inside one
// transaction, for example) can run them without a dedicated API:
//
//	tx, err := pool.Begin(ctx)
//	if err != nil {
//		return err
//	}
//	defer tx.Rollback(ctx) // Safe even after commit
//
//	ctx = pg.WithTx(ctx, tx)
//	if _, err := store.InsertMissing(ctx, legacyRecords); err != nil {
//		return err
//	}
//	return tx.Commit(ctx)
package pg
