// Package logger provides slog attribute helpers shared across the cart
// session core.
//
// Helpers follow the empty Attr pattern: passing a nil error or an empty
// identifier yields an empty attribute that slog silently drops, so call
// sites never need nil checks:
//
//	log.Error("cart save failed",
//		logger.Error(err),
//		logger.CartKey(key),
//	)
package logger
