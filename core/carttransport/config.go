package carttransport

import "net/http"

// Config provides environment-based configuration for the HTTP cart
// transport. Defaults favor a headless storefront terminated behind a
// proxy: the identity cookie is readable by the storefront JavaScript and
// Secure is off unless the deployment enables it.
type Config struct {
	// CookieName is the name of the signed cart identity cookie.
	CookieName string `env:"CART_COOKIE_NAME" envDefault:"cart_identity"`

	// CookiePath scopes the identity cookie.
	CookiePath string `env:"CART_COOKIE_PATH" envDefault:"/"`

	// CookieDomain scopes the identity cookie to a domain. Empty means
	// host-only.
	CookieDomain string `env:"CART_COOKIE_DOMAIN" envDefault:""`

	// CookieSecure marks the identity cookie HTTPS-only.
	CookieSecure bool `env:"CART_COOKIE_SECURE" envDefault:"false"`

	// CookieHTTPOnly hides the identity cookie from client-side scripts.
	// Off by default: headless storefronts read the cart key client-side.
	CookieHTTPOnly bool `env:"CART_COOKIE_HTTPONLY" envDefault:"false"`

	// CookieSameSite is one of "default", "lax", "strict", "none".
	CookieSameSite string `env:"CART_COOKIE_SAMESITE" envDefault:"default"`

	// KeyHeader names the request header through which an authorized caller
	// may pin an explicit cart key, and the response header echoing the
	// resolved key.
	KeyHeader string `env:"CART_KEY_HEADER" envDefault:"X-Cart-Key"`

	// TimestampHeader names the response header carrying the server unix
	// timestamp, letting clients order responses from concurrent requests.
	TimestampHeader string `env:"CART_TIMESTAMP_HEADER" envDefault:"X-Response-Ts"`

	// VersionHeader names the response header carrying ServerVersion.
	VersionHeader string `env:"CART_VERSION_HEADER" envDefault:"X-Server-Version"`

	// ServerVersion is advertised in VersionHeader when non-empty.
	ServerVersion string `env:"CART_SERVER_VERSION" envDefault:""`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		CookieName:      "cart_identity",
		CookiePath:      "/",
		CookieSameSite:  "default",
		KeyHeader:       "X-Cart-Key",
		TimestampHeader: "X-Response-Ts",
		VersionHeader:   "X-Server-Version",
	}
}

func (c Config) sameSite() http.SameSite {
	switch c.CookieSameSite {
	case "lax":
		return http.SameSiteLaxMode
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteDefaultMode
	}
}
