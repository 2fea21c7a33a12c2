package cartsession

import "errors"

var (
	// ErrNotFound is returned by stores when no record exists for a key.
	ErrNotFound = errors.New("cartsession: cart record not found")
	// ErrSessionClosed is returned when operating on a session after its
	// terminal save or destroy has run.
	ErrSessionClosed = errors.New("cartsession: session already closed")
	// ErrSaveFailed wraps store failures during an explicit save.
	ErrSaveFailed = errors.New("cartsession: failed to save cart")
	// ErrDestroyFailed wraps store failures during destroy.
	ErrDestroyFailed = errors.New("cartsession: failed to destroy cart")
)
