// Package reaper deletes expired cart rows on a schedule.
//
// Expired carts already read as empty through cartsession.Manager, so the
// reaper is pure garbage collection. It sweeps once on startup, then on a
// fixed interval, and accepts out-of-band sweeps via Trigger. After a
// destructive sweep the cache namespace is invalidated so stale entries
// cannot outlive their rows.
//
// Example usage:
//
//	r, _ := reaper.NewFromConfig(cfg, store,
//		reaper.WithCache(cartCache),
//		reaper.WithLogger(log),
//	)
//	g.Go(r.Run(ctx))
//
//	// Health endpoint re-arms a stalled reaper.
//	if err := r.Healthcheck(ctx); err != nil {
//		r.Trigger()
//	}
package reaper
