package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// cookieDelimiter separates the four cookie fields on the wire.
const cookieDelimiter = "||"

// CookiePayload is the decoded identity cookie tuple.
type CookiePayload struct {
	// CartKey is the cart identity the client claims.
	CartKey string
	// ExpiresAt is the hard cart expiration.
	ExpiresAt time.Time
	// ExpiringAt is the soft renewal threshold, strictly before ExpiresAt.
	// Once passed, the session handler refreshes expiry and rewrites the cookie.
	ExpiringAt time.Time
}

// Expiring reports whether the soft renewal threshold has passed.
func (p CookiePayload) Expiring(now time.Time) bool {
	return p.ExpiringAt.IsZero() || now.After(p.ExpiringAt)
}

// Codec signs and verifies identity cookie values.
//
// Wire format: "<cart_key>||<expiration>||<expiring>||<hmac_hex>" where the
// HMAC-SHA256 covers "<cart_key>|<expiration>". Multiple secrets are
// supported for rotation: the first secret signs, all secrets verify.
type Codec struct {
	secrets []string
}

// NewCodec creates a cookie codec. At least one non-empty secret is required.
func NewCodec(secrets []string) (*Codec, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}
	return &Codec{secrets: secrets}, nil
}

// Encode produces the signed wire form of the payload.
func (c *Codec) Encode(p CookiePayload) string {
	exp := strconv.FormatInt(p.ExpiresAt.Unix(), 10)
	expiring := strconv.FormatInt(p.ExpiringAt.Unix(), 10)
	sig := c.sign(p.CartKey, exp, c.secrets[0])
	return strings.Join([]string{p.CartKey, exp, expiring, sig}, cookieDelimiter)
}

// Decode parses and verifies a cookie value.
// Returns ErrMalformedCookie for structural problems and ErrInvalidSignature
// when the HMAC does not verify under any configured secret.
func (c *Codec) Decode(value string) (CookiePayload, error) {
	parts := strings.Split(value, cookieDelimiter)
	if len(parts) != 4 || parts[0] == "" {
		return CookiePayload{}, ErrMalformedCookie
	}

	key, exp, expiring, sig := parts[0], parts[1], parts[2], parts[3]

	verified := slices.ContainsFunc(c.secrets, func(secret string) bool {
		expected := c.sign(key, exp, secret)
		return subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) == 1
	})
	if !verified {
		return CookiePayload{}, ErrInvalidSignature
	}

	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return CookiePayload{}, ErrMalformedCookie
	}
	expiringUnix, err := strconv.ParseInt(expiring, 10, 64)
	if err != nil {
		return CookiePayload{}, ErrMalformedCookie
	}

	return CookiePayload{
		CartKey:    key,
		ExpiresAt:  time.Unix(expUnix, 0),
		ExpiringAt: time.Unix(expiringUnix, 0),
	}, nil
}

func (c *Codec) sign(key, exp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s|%s", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}
