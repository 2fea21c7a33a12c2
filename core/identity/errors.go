package identity

import "errors"

var (
	// ErrNoSecret indicates no signing secret was provided to the codec.
	ErrNoSecret = errors.New("identity: no signing secret provided")
	// ErrMalformedCookie indicates the cookie value does not have the expected shape.
	ErrMalformedCookie = errors.New("identity: malformed cart cookie")
	// ErrInvalidSignature indicates the cookie signature did not verify.
	// Callers treat the cookie as absent but should log the event: a bad
	// signature on a well-formed cookie suggests tampering.
	ErrInvalidSignature = errors.New("identity: cart cookie signature verification failed")
	// ErrKeyGeneration indicates the random source failed while minting a guest key.
	ErrKeyGeneration = errors.New("identity: failed to generate guest cart key")
)
