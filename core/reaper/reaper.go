package reaper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/cartsession/core/cache"
	"github.com/dmitrymomot/cartsession/core/cartsession"
	"github.com/dmitrymomot/cartsession/core/logger"
)

// EventPublisher publishes reaper lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, payload any) error
}

// CartsReaped is published after every sweep that deleted at least one row.
type CartsReaped struct {
	Deleted int64
	SweptAt time.Time
}

// Reaper periodically deletes expired cart rows. Expired carts already read
// as empty, so the sweep is pure garbage collection; it can lag or pause
// without affecting correctness.
type Reaper struct {
	store    cartsession.Store
	cache    cache.Cache
	events   EventPublisher
	interval time.Duration
	log      *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	trigger chan struct{}

	running   atomic.Bool
	lastSweep atomic.Int64
	reaped    atomic.Int64
}

// Option configures a Reaper.
type Option func(*Reaper)

// WithInterval sets the sweep interval. Zero or negative keeps the default.
func WithInterval(d time.Duration) Option {
	return func(r *Reaper) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithCache enables cache namespace invalidation after destructive sweeps.
func WithCache(c cache.Cache) Option {
	return func(r *Reaper) { r.cache = c }
}

// WithEventPublisher enables CartsReaped events.
func WithEventPublisher(p EventPublisher) Option {
	return func(r *Reaper) { r.events = p }
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Reaper) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reaper) {
		if now != nil {
			r.now = now
		}
	}
}

// New creates a reaper for the given store.
func New(store cartsession.Store, opts ...Option) (*Reaper, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	r := &Reaper{
		store:    store,
		interval: time.Hour,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
		trigger:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewFromConfig creates a Reaper from configuration. Additional options
// override config values.
func NewFromConfig(cfg Config, store cartsession.Store, opts ...Option) (*Reaper, error) {
	allOpts := append([]Option{WithInterval(cfg.Interval)}, opts...)
	return New(store, allOpts...)
}

// Start begins the periodic sweep loop. Blocking; runs until the context is
// cancelled. An immediate sweep runs on startup so a crashed reaper catches
// up as soon as it is restarted.
func (r *Reaper) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return fmt.Errorf("reaper already started")
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	r.running.Store(true)
	defer r.running.Store(false)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.InfoContext(r.ctx, "cart reaper started", logger.Duration(r.interval))

	r.sweep(r.ctx)

	for {
		select {
		case <-r.ctx.Done():
			r.log.InfoContext(context.Background(), "cart reaper stopping")
			return r.ctx.Err()
		case <-ticker.C:
			r.sweep(r.ctx)
		case <-r.trigger:
			r.sweep(r.ctx)
		}
	}
}

// Stop cancels the sweep loop and waits for an in-flight sweep to finish.
func (r *Reaper) Stop() error {
	r.mu.Lock()
	if r.cancel == nil {
		r.mu.Unlock()
		return fmt.Errorf("reaper not started")
	}
	cancel := r.cancel
	r.cancel = nil
	r.mu.Unlock()

	cancel()
	r.wg.Wait()
	return nil
}

// Run provides errgroup compatibility for coordinated lifecycle management.
func (r *Reaper) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- r.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = r.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

// Trigger requests an out-of-band sweep. Idempotent: while a trigger is
// already pending, further calls are no-ops. Safe to call from admin
// endpoints regardless of reaper state.
func (r *Reaper) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// Sweep runs a single sweep synchronously. Admin endpoints that need the
// deleted count use it directly instead of Trigger.
func (r *Reaper) Sweep(ctx context.Context) (int64, error) {
	now := r.now()

	deleted, err := r.store.DeleteWhereExpired(ctx, now)
	if err != nil {
		return 0, errors.Join(ErrSweepFailed, err)
	}
	r.lastSweep.Store(now.Unix())

	if deleted == 0 {
		return 0, nil
	}
	r.reaped.Add(deleted)

	// Cache keys for the deleted rows cannot be enumerated, so the whole
	// namespace rolls over. Entries repopulate on the next read.
	if r.cache != nil {
		if err := r.cache.InvalidateAll(ctx); err != nil {
			r.log.ErrorContext(ctx, "cache invalidation after sweep failed", logger.Error(err))
		}
	}

	r.log.InfoContext(ctx, "expired carts reaped", logger.Count("deleted", int(deleted)))

	if r.events != nil {
		if err := r.events.Publish(ctx, CartsReaped{Deleted: deleted, SweptAt: now}); err != nil {
			r.log.ErrorContext(ctx, "event publish failed", logger.Error(err))
		}
	}
	return deleted, nil
}

func (r *Reaper) sweep(ctx context.Context) {
	r.wg.Add(1)
	defer r.wg.Done()

	if _, err := r.Sweep(ctx); err != nil {
		r.log.ErrorContext(ctx, "cart sweep failed", logger.Error(err))
	}
}

// LastSweep returns the time of the most recent completed sweep, or the zero
// time if none has run.
func (r *Reaper) LastSweep() time.Time {
	ts := r.lastSweep.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// TotalReaped returns the number of rows deleted since the reaper was
// created.
func (r *Reaper) TotalReaped() int64 {
	return r.reaped.Load()
}

// Healthcheck validates that the reaper loop is running and sweeping on
// schedule. A sweep is considered overdue after two intervals without a
// completion. Designed for health endpoints that re-arm on failure:
//
//	if err := reaper.Healthcheck(ctx); err != nil {
//		reaper.Trigger()
//	}
func (r *Reaper) Healthcheck(ctx context.Context) error {
	if !r.running.Load() {
		return errors.Join(ErrHealthcheckFailed, ErrNotRunning)
	}
	last := r.lastSweep.Load()
	if last == 0 {
		return nil
	}
	if r.now().Sub(time.Unix(last, 0)) > 2*r.interval {
		return errors.Join(ErrHealthcheckFailed, ErrSweepOverdue)
	}
	return nil
}
