package identity

import "strings"

// Config provides environment-based configuration for the cookie codec.
type Config struct {
	// Secrets is a comma-separated list of HMAC secrets.
	// The first signs new cookies; all verify, enabling rotation.
	Secrets string `env:"CART_COOKIE_SECRETS,required"`
}

// parseSecrets splits comma-separated secrets for key rotation support.
func (c Config) parseSecrets() []string {
	parts := strings.Split(c.Secrets, ",")
	secrets := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			secrets = append(secrets, s)
		}
	}
	return secrets
}

// NewCodecFromConfig creates a cookie codec from configuration.
func NewCodecFromConfig(cfg Config) (*Codec, error) {
	return NewCodec(cfg.parseSecrets())
}
