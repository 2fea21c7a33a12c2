package identity

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"
)

// guestKeyPrefix makes guest keys structurally distinct from numeric user
// identifiers, so a guest key can never parse as a registered user ID.
const guestKeyPrefix = "g_"

// MintGuestKey generates an opaque cart key for an anonymous visitor from a
// cryptographically strong random source (32 bytes, base64url).
func MintGuestKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrKeyGeneration, err)
	}
	return guestKeyPrefix + base64.RawURLEncoding.EncodeToString(b), nil
}

// IsGuestKey reports whether the key has the guest key shape.
func IsGuestKey(key string) bool {
	return strings.HasPrefix(key, guestKeyPrefix)
}
