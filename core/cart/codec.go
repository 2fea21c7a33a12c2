package cart

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// SchemaVersion is the current cart payload schema version.
// Rows written by this package always carry it; decoding rejects versions
// this build does not know how to read.
const SchemaVersion = 1

var (
	// ErrCorruptPayload is returned when a stored blob cannot be decoded.
	ErrCorruptPayload = errors.New("cart: corrupt payload")
	// ErrUnknownSchemaVersion is returned for payloads written by a newer schema.
	ErrUnknownSchemaVersion = errors.New("cart: unknown payload schema version")
)

// envelope is the on-disk form: a version tag wrapping the cart body.
// The explicit tag keeps the blob readable by any language and gives old
// rows a migration path when the schema evolves.
type envelope struct {
	Version int   `json:"v"`
	Cart    *Cart `json:"cart"`
}

// Encode serializes the cart into its versioned blob form.
// The encoding is canonical: map keys are sorted, so equal carts produce
// byte-identical blobs and therefore equal content hashes.
func Encode(c *Cart) ([]byte, error) {
	if c == nil {
		c = New()
	}
	raw, err := json.Marshal(envelope{Version: SchemaVersion, Cart: c})
	if err != nil {
		return nil, errors.Join(ErrCorruptPayload, err)
	}
	return raw, nil
}

// Decode deserializes a blob produced by Encode.
func Decode(raw []byte) (*Cart, error) {
	if len(raw) == 0 {
		return New(), nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.Join(ErrCorruptPayload, err)
	}
	if env.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSchemaVersion, env.Version)
	}
	if env.Cart == nil {
		return New(), nil
	}
	return env.Cart, nil
}

// Hash returns the content hash of the cart's canonical encoding.
// Clients use it for optimistic change detection across requests.
func Hash(c *Cart) (string, error) {
	raw, err := Encode(c)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
