// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: process is running (no dependency checks)
//   - Readiness: all dependencies are available
//   - NoContent: returns 204 for minimal overhead
//
// Usage:
//
//	mux.Handle("/health/live", health.Liveness())
//	mux.Handle("/health/ready", health.Readiness(log,
//		pg.Healthcheck(pool),
//		redis.Healthcheck(client),
//		health.OnFailure(cartReaper.Healthcheck, cartReaper.Trigger),
//	))
//	mux.Handle("/ping", health.NoContent())
//
// Dependency checks follow the func(context.Context) error signature.
// OnFailure attaches a recovery hook to a check; the reaper uses it to
// re-arm its sweep loop when the probe reports it stalled.
package health
