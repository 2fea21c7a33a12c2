package health

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/cartsession/core/logger"
)

// Check verifies one dependency. Satisfied by pg.Healthcheck,
// redis.Healthcheck, and reaper.Healthcheck.
type Check func(context.Context) error

// Liveness indicates the process is running. Always returns 200 "ALIVE"
// with no dependency checks.
func Liveness() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ALIVE")
	})
}

// NoContent returns HTTP 204 without a body. For high-frequency probes.
func NoContent() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

// Readiness verifies all service dependencies are functioning. Returns 200
// "READY" if every check passes, 503 if any fails.
//
// Example:
//
//	mux.Handle("/health/ready", health.Readiness(log,
//		pg.Healthcheck(pool),
//		redis.Healthcheck(client),
//		cartReaper.Healthcheck,
//	))
func Readiness(log *slog.Logger, checks ...Check) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				if log != nil {
					log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				}
				http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = io.WriteString(w, "READY")
	})
}

// OnFailure wraps a check with a recovery hook invoked whenever the check
// fails. Pairs with reaper.Trigger to re-arm a stalled sweep loop straight
// from the readiness probe:
//
//	health.OnFailure(cartReaper.Healthcheck, cartReaper.Trigger)
func OnFailure(check Check, hook func()) Check {
	return func(ctx context.Context) error {
		err := check(ctx)
		if err != nil && hook != nil {
			hook()
		}
		return err
	}
}
