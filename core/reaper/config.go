package reaper

import "time"

// Config provides environment-based configuration for the reaper.
type Config struct {
	// Interval between periodic sweeps.
	Interval time.Duration `env:"CART_REAPER_INTERVAL" envDefault:"1h"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval: time.Hour,
	}
}
