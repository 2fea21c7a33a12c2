package cartsession

import "time"

// Config holds cart session lifecycle timings and the channel tag.
type Config struct {
	// TTL is how long a cart lives after its last expiry refresh.
	TTL time.Duration `env:"CART_TTL" envDefault:"48h"`

	// RenewalWindow is the gap between the soft renewal threshold and the
	// hard expiration: expiring = expiration - RenewalWindow. Accesses past
	// the threshold refresh expiry and rewrite the identity cookie.
	RenewalWindow time.Duration `env:"CART_RENEWAL_WINDOW" envDefault:"1h"`

	// EmptyCartTTL is the shortened expiry applied when saving an empty
	// cart. Empty carts are kept briefly instead of deleted so bursts of
	// near-simultaneous empty saves don't thrash the table.
	EmptyCartTTL time.Duration `env:"CART_EMPTY_TTL" envDefault:"6h"`

	// Source tags rows created through this deployment, for reporting.
	Source string `env:"CART_SOURCE" envDefault:"headless-api"`
}

// DefaultConfig returns the default lifecycle configuration.
func DefaultConfig() Config {
	return Config{
		TTL:           48 * time.Hour,
		RenewalWindow: time.Hour,
		EmptyCartTTL:  6 * time.Hour,
		Source:        "headless-api",
	}
}

// normalize fills zero fields with defaults so a partially populated Config
// cannot produce carts that are expired at creation.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.TTL <= 0 {
		c.TTL = def.TTL
	}
	if c.RenewalWindow <= 0 || c.RenewalWindow >= c.TTL {
		c.RenewalWindow = def.RenewalWindow
	}
	if c.EmptyCartTTL <= 0 {
		c.EmptyCartTTL = def.EmptyCartTTL
	}
	if c.Source == "" {
		c.Source = def.Source
	}
	return c
}
