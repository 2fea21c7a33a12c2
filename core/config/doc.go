// Package config provides type-safe environment variable loading with
// per-type caching.
//
// The package automatically loads a .env file on first use and relies on the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/cartsession/core/config"
//
//	type StoreConfig struct {
//		DatabaseURL string `env:"DATABASE_URL,required"`
//		Source      string `env:"CART_SOURCE" envDefault:"headless-api"`
//	}
//
//	func main() {
//		var cfg StoreConfig
//		if err := config.Load(&cfg); err != nil {
//			log.Fatal(err)
//		}
//		// Or panic on failure during startup:
//		config.MustLoad(&cfg)
//	}
//
// Each configuration type is loaded only once per process lifetime; repeated
// Load calls for the same type return the cached value.
package config
