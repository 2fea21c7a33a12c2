package cartsession

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/cartsession/core/cache"
	"github.com/dmitrymomot/cartsession/core/cart"
	"github.com/dmitrymomot/cartsession/core/identity"
	"github.com/dmitrymomot/cartsession/core/logger"
)

// EventPublisher publishes cart lifecycle events.
// Satisfied by event.Publisher; a nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, payload any) error
}

// Manager orchestrates the cart session lifecycle against the durable store,
// the optional cache, and the identity resolver. One Manager serves all
// requests; per-request state lives in Session.
type Manager struct {
	store     Store
	resolver  *identity.Resolver
	cache     cache.Cache
	directory identity.Directory
	events    EventPublisher
	cfg       Config
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithCache enables the read-through cache layer.
func WithCache(c cache.Cache) Option {
	return func(m *Manager) { m.cache = c }
}

// WithDirectory sets the registered-user directory used to guard guest-row
// deletion during merges.
func WithDirectory(d identity.Directory) Option {
	return func(m *Manager) { m.directory = d }
}

// WithEventPublisher enables lifecycle events (UserSwitched).
func WithEventPublisher(p EventPublisher) Option {
	return func(m *Manager) { m.events = p }
}

// WithManagerLogger sets the logger. Defaults to a no-op logger.
func WithManagerLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager creates a session manager.
func NewManager(store Store, resolver *identity.Resolver, cfg Config, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		resolver: resolver,
		cfg:      cfg.normalize(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Init resolves identity for the request, performs a pending guest merge if
// the resolver detected an identity transition, loads the cart, and handles
// the soft-expiry refresh. The returned Session owns the rest of the request
// lifecycle; callers must arrange exactly one terminal Close or Destroy,
// typically via defer.
func (m *Manager) Init(ctx context.Context, req identity.Request) (*Session, error) {
	res, err := m.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	if res.MergeFrom != "" {
		if err := m.Merge(ctx, res.MergeFrom, res.CartKey); err != nil {
			// A failed merge must not block the login flow; the guest cart
			// stays in place for a later retry.
			m.log.ErrorContext(ctx, "cart merge failed",
				logger.Error(err),
				logger.CartKey(res.CartKey),
			)
		}
	}

	c, rec := m.load(ctx, res.CartKey)

	sess := &Session{
		mgr:      m,
		res:      res,
		cart:     c,
		record:   rec,
		hadState: rec != nil || !c.IsEmpty(),
	}
	if res.Override {
		if h, err := cart.Hash(c); err == nil {
			sess.loadedHash = h
		}
	}
	m.initExpiry(ctx, sess)
	return sess, nil
}

// Load performs the cache-first read for a key. On a total miss an empty
// cart is returned with no record created. Store failures and corrupt blobs
// degrade to an empty cart with a logged incident: end users never see raw
// store errors.
func (m *Manager) Load(ctx context.Context, key string) (*cart.Cart, error) {
	c, _ := m.load(ctx, key)
	return c, nil
}

func (m *Manager) load(ctx context.Context, key string) (*cart.Cart, *Record) {
	now := m.now()

	if m.cache != nil {
		blob, hit, err := m.cache.Get(ctx, key)
		if err != nil {
			m.log.ErrorContext(ctx, "cart cache read failed", logger.Error(err), logger.CartKey(key))
		} else if hit {
			c, err := cart.Decode(blob)
			if err == nil {
				return c, nil
			}
			// Corrupt cache entry: drop it and fall through to the store,
			// which stays authoritative.
			m.log.WarnContext(ctx, "corrupt cached cart, falling back to store",
				logger.Error(err), logger.CartKey(key))
			_ = m.cache.Delete(ctx, key)
		}
	}

	rec, err := m.store.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return cart.New(), nil
	case err != nil:
		m.log.ErrorContext(ctx, "cart store read failed", logger.Error(err), logger.CartKey(key))
		return cart.New(), nil
	}

	if rec.Expired(now) {
		// The row physically remains until the reaper runs, but an expired
		// cart is never resurrected: reads past expiry see an empty cart.
		return cart.New(), nil
	}

	c, err := cart.Decode(rec.Value)
	if err != nil {
		m.log.WarnContext(ctx, "corrupt cart payload, starting fresh",
			logger.Error(err), logger.CartKey(key))
		return cart.New(), rec
	}

	if m.cache != nil {
		ttl := time.Unix(rec.ExpiresAt, 0).Sub(now)
		if err := m.cache.Set(ctx, key, rec.Value, ttl); err != nil {
			m.log.ErrorContext(ctx, "cart cache write failed", logger.Error(err), logger.CartKey(key))
		}
	}

	return c, rec
}

// initExpiry establishes the session's expiry pair from the accepted cookie,
// refreshing it when the soft threshold has passed (or no cookie exists).
// The refresh persists only the expiry column and flags a cookie rewrite.
func (m *Manager) initExpiry(ctx context.Context, sess *Session) {
	now := m.now()

	if sess.res.Override {
		// Inspecting someone else's cart under a key override must leave
		// the row as found: keep the stored expiry, no refresh, no cookie.
		if sess.record != nil {
			sess.expiresAt = time.Unix(sess.record.ExpiresAt, 0)
		} else {
			sess.expiresAt = now.Add(m.cfg.TTL)
		}
		sess.expiringAt = sess.expiresAt.Add(-m.cfg.RenewalWindow)
		return
	}

	if sess.res.HasCookie && !sess.res.Cookie.Expiring(now) && sess.res.MergeFrom == "" {
		sess.expiresAt = sess.res.Cookie.ExpiresAt
		sess.expiringAt = sess.res.Cookie.ExpiringAt
		return
	}

	sess.expiresAt = now.Add(m.cfg.TTL)
	sess.expiringAt = sess.expiresAt.Add(-m.cfg.RenewalWindow)
	sess.cookieChanged = true

	if sess.record != nil && sess.res.MergeFrom == "" {
		if err := m.store.UpdateExpiry(ctx, sess.Key(), sess.expiresAt.Unix()); err != nil {
			m.log.ErrorContext(ctx, "cart expiry refresh failed",
				logger.Error(err), logger.CartKey(sess.Key()))
		}
	}
}

// save upserts the session's cart. Empty carts are kept with a drastically
// shortened expiry instead of being deleted, so concurrent empty writes for
// one key settle on a single short-lived row.
func (m *Manager) save(ctx context.Context, sess *Session) error {
	now := m.now()

	expiresAt := sess.expiresAt
	if sess.cart.IsEmpty() {
		expiresAt = now.Add(m.cfg.EmptyCartTTL)
	}

	blob, err := cart.Encode(sess.cart)
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	hash, err := cart.Hash(sess.cart)
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}

	rec := Record{
		Key:       sess.Key(),
		Value:     blob,
		CreatedAt: now.Unix(),
		ExpiresAt: expiresAt.Unix(),
		Source:    m.cfg.Source,
		Hash:      hash,
	}
	if sess.record != nil {
		rec.CreatedAt = sess.record.CreatedAt
	}

	if err := m.store.Upsert(ctx, rec); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	sess.record = &rec

	if m.cache != nil {
		if err := m.cache.Set(ctx, rec.Key, blob, expiresAt.Sub(now)); err != nil {
			m.log.ErrorContext(ctx, "cart cache write failed", logger.Error(err), logger.CartKey(rec.Key))
		}
	}
	return nil
}

// destroy deletes the record and clears the cache entry.
func (m *Manager) destroy(ctx context.Context, key string) error {
	if err := m.store.Delete(ctx, key); err != nil && !errors.Is(err, ErrNotFound) {
		return errors.Join(ErrDestroyFailed, err)
	}
	if m.cache != nil {
		if err := m.cache.Delete(ctx, key); err != nil {
			m.log.ErrorContext(ctx, "cart cache delete failed", logger.Error(err), logger.CartKey(key))
		}
	}
	return nil
}

// Merge folds the cart stored under oldKey into the cart under newKey,
// with oldKey's values winning on overlaps, then deletes the oldKey row.
// When both sides are empty the write and delete are skipped: the key
// transition alone is enough, future saves target newKey.
func (m *Manager) Merge(ctx context.Context, oldKey, newKey string) error {
	guest, _ := m.load(ctx, oldKey)
	existing, existingRec := m.load(ctx, newKey)

	if guest.IsEmpty() && existing.IsEmpty() {
		m.publish(ctx, UserSwitched{OldKey: oldKey, NewKey: newKey})
		return nil
	}

	merged := existing.Clone()
	merged.Merge(guest)

	now := m.now()
	blob, err := cart.Encode(merged)
	if err != nil {
		return err
	}
	hash, err := cart.Hash(merged)
	if err != nil {
		return err
	}

	rec := Record{
		Key:       newKey,
		Value:     blob,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(m.cfg.TTL).Unix(),
		Source:    m.cfg.Source,
		Hash:      hash,
	}
	if existingRec != nil {
		rec.CreatedAt = existingRec.CreatedAt
	}
	if err := m.store.Upsert(ctx, rec); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}

	if m.cache != nil {
		if err := m.cache.Set(ctx, newKey, blob, m.cfg.TTL); err != nil {
			m.log.ErrorContext(ctx, "cart cache write failed", logger.Error(err), logger.CartKey(newKey))
		}
	}

	if m.safeToDeleteGuestRow(ctx, oldKey) {
		if err := m.destroy(ctx, oldKey); err != nil {
			m.log.ErrorContext(ctx, "guest cart cleanup failed", logger.Error(err), logger.CartKey(oldKey))
		}
	}

	m.publish(ctx, UserSwitched{OldKey: oldKey, NewKey: newKey})
	return nil
}

// safeToDeleteGuestRow guards against deleting a real user's cart when the
// old cookie carried someone else's stale key.
func (m *Manager) safeToDeleteGuestRow(ctx context.Context, key string) bool {
	if identity.IsGuestKey(key) {
		return true
	}
	if m.directory == nil {
		return false
	}
	registered, err := m.directory.IsRegisteredUser(ctx, key)
	if err != nil {
		m.log.ErrorContext(ctx, "user directory lookup failed, keeping old cart row", logger.Error(err))
		return false
	}
	return !registered
}

func (m *Manager) publish(ctx context.Context, payload any) {
	if m.events == nil {
		return
	}
	if err := m.events.Publish(ctx, payload); err != nil {
		m.log.ErrorContext(ctx, "event publish failed", logger.Error(err))
	}
}

// CountActive returns the number of unexpired cart rows.
func (m *Manager) CountActive(ctx context.Context) (int64, error) {
	return m.store.CountActive(ctx, m.now())
}

// CountExpired returns the number of expired rows awaiting the reaper.
func (m *Manager) CountExpired(ctx context.Context) (int64, error) {
	return m.store.CountExpired(ctx, m.now())
}

// ClearAll destroys every cart row and invalidates the cache namespace.
// Admin-only destructive operation.
func (m *Manager) ClearAll(ctx context.Context) (int64, error) {
	n, err := m.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	if m.cache != nil {
		if err := m.cache.InvalidateAll(ctx); err != nil {
			m.log.ErrorContext(ctx, "cache namespace invalidation failed", logger.Error(err))
		}
	}
	return n, nil
}

// SyncFromLegacy copies cart rows from a legacy session source into the
// store without overwriting existing keys. Returns the number imported.
func (m *Manager) SyncFromLegacy(ctx context.Context, src LegacySource) (int64, error) {
	recs, err := src.FetchCarts(ctx)
	if err != nil {
		return 0, err
	}
	if len(recs) == 0 {
		return 0, nil
	}
	return m.store.InsertMissing(ctx, recs)
}

// TTL returns the configured cart time-to-live.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}
