package carttransport

import "errors"

var (
	// ErrNoSession is returned when a handler expects a cart session in the
	// request context and none is present.
	ErrNoSession = errors.New("carttransport: no cart session")

	// ErrInitFailed is returned when the session manager could not produce a
	// session for the request.
	ErrInitFailed = errors.New("carttransport: session init failed")
)
