package cartsession_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/cartsession/core/cache"
	"github.com/dmitrymomot/cartsession/core/cart"
	"github.com/dmitrymomot/cartsession/core/cartsession"
	"github.com/dmitrymomot/cartsession/core/event"
	"github.com/dmitrymomot/cartsession/core/identity"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fixture struct {
	store    *cartsession.MemoryStore
	cache    *cache.Memory
	codec    *identity.Codec
	resolver *identity.Resolver
	mgr      *cartsession.Manager
}

func newFixture(t *testing.T, opts ...cartsession.Option) *fixture {
	t.Helper()

	codec, err := identity.NewCodec([]string{testSecret})
	require.NoError(t, err)

	f := &fixture{
		store: cartsession.NewMemoryStore(),
		cache: cache.NewMemory(),
		codec: codec,
	}
	f.resolver = identity.NewResolver(codec, identity.DirectoryFunc(
		func(ctx context.Context, key string) (bool, error) { return false, nil },
	))

	allOpts := append([]cartsession.Option{cartsession.WithCache(f.cache)}, opts...)
	f.mgr = cartsession.NewManager(f.store, f.resolver, cartsession.DefaultConfig(), allOpts...)
	return f
}

func (f *fixture) cookieFor(sess *cartsession.Session) string {
	return f.codec.Encode(sess.CookiePayload())
}

// failingStore wraps a Store, forcing errors on selected operations.
type failingStore struct {
	cartsession.Store
	getErr    error
	upsertErr error
}

func (s *failingStore) Get(ctx context.Context, key string) (*cartsession.Record, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.Store.Get(ctx, key)
}

func (s *failingStore) Upsert(ctx context.Context, rec cartsession.Record) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	return s.Store.Upsert(ctx, rec)
}

func TestInit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("guest visit creates no row until something persists", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)

		assert.True(t, identity.IsGuestKey(sess.Key()))
		assert.True(t, sess.IsNew())
		assert.True(t, sess.Cart().IsEmpty())

		sess.Close(ctx)
		assert.Equal(t, 0, f.store.Len(), "empty anonymous visit must not write a row")
	})

	t.Run("cookie continues an existing guest cart", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		first, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		first.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 1, UnitPrice: 500})
		require.NoError(t, first.Save(ctx))
		first.Close(ctx)

		second, err := f.mgr.Init(ctx, identity.Request{CookieValue: f.cookieFor(first)})
		require.NoError(t, err)
		defer second.Close(ctx)

		assert.Equal(t, first.Key(), second.Key())
		assert.False(t, second.Cart().IsEmpty())
		assert.Equal(t, int64(500), second.Cart().ItemsSubtotal())
	})

	t.Run("authenticated principal always resolves to its own key", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		for range 5 {
			sess, err := f.mgr.Init(ctx, identity.Request{PrincipalID: "42"})
			require.NoError(t, err)
			assert.Equal(t, "42", sess.Key())
			sess.Close(ctx)
		}
	})

	t.Run("store read failure degrades to empty cart", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		broken := &failingStore{Store: f.store, getErr: errors.New("connection refused")}
		mgr := cartsession.NewManager(broken, f.resolver, cartsession.DefaultConfig())

		sess, err := mgr.Init(ctx, identity.Request{PrincipalID: "42"})
		require.NoError(t, err, "store outage must not fail the request")
		assert.True(t, sess.Cart().IsEmpty())
	})

	t.Run("corrupt payload degrades to empty cart", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		require.NoError(t, f.store.Upsert(ctx, cartsession.Record{
			Key:       "42",
			Value:     []byte("not json at all"),
			CreatedAt: time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		}))

		sess, err := f.mgr.Init(ctx, identity.Request{PrincipalID: "42"})
		require.NoError(t, err)
		assert.True(t, sess.Cart().IsEmpty())
	})

	t.Run("expired row reads as empty cart", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		blob, err := cart.Encode(nonEmptyCart())
		require.NoError(t, err)
		require.NoError(t, f.store.Upsert(ctx, cartsession.Record{
			Key:       "42",
			Value:     blob,
			CreatedAt: time.Now().Add(-72 * time.Hour).Unix(),
			ExpiresAt: time.Now().Add(-time.Hour).Unix(),
		}))

		// Policy: expired carts are never resurrected; the read consistently
		// yields an empty cart even though the row is physically present.
		for range 3 {
			sess, err := f.mgr.Init(ctx, identity.Request{PrincipalID: "42"})
			require.NoError(t, err)
			assert.True(t, sess.Cart().IsEmpty())
		}
		got, err := f.store.Get(ctx, "42")
		require.NoError(t, err)
		assert.NotNil(t, got, "reaping is the reaper's job, not the read path's")
	})
}

func nonEmptyCart() *cart.Cart {
	c := cart.New()
	c.AddItem(cart.Item{ProductID: "p1", Quantity: 1, UnitPrice: 100})
	return c
}

func TestKeyOverride(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	seedVictim := func(t *testing.T, f *fixture) cartsession.Record {
		t.Helper()
		blob, err := cart.Encode(nonEmptyCart())
		require.NoError(t, err)
		hash, err := cart.Hash(nonEmptyCart())
		require.NoError(t, err)
		rec := cartsession.Record{
			Key:       "g_victim",
			Value:     blob,
			CreatedAt: time.Now().Add(-time.Hour).Unix(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
			Hash:      hash,
		}
		require.NoError(t, f.store.Upsert(ctx, rec))
		return rec
	}

	t.Run("view leaves the inspected row untouched", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		seeded := seedVictim(t, f)

		sess, err := f.mgr.Init(ctx, identity.Request{
			OverrideKey:        "g_victim",
			OverrideAuthorized: true,
		})
		require.NoError(t, err)

		assert.Equal(t, "g_victim", sess.Key())
		assert.False(t, sess.Cart().IsEmpty())
		assert.False(t, sess.NeedsCookieWrite(), "inspection must not bind the caller to the key")
		sess.Close(ctx)

		got, err := f.store.Get(ctx, "g_victim")
		require.NoError(t, err)
		assert.Equal(t, seeded.ExpiresAt, got.ExpiresAt, "view must not extend the row's life")
		assert.Equal(t, seeded.Value, got.Value)
	})

	t.Run("mutation through an override persists under the pinned key", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		seeded := seedVictim(t, f)

		sess, err := f.mgr.Init(ctx, identity.Request{
			OverrideKey:        "g_victim",
			OverrideAuthorized: true,
		})
		require.NoError(t, err)
		sess.Cart().AddItem(cart.Item{ProductID: "p2", Quantity: 3, UnitPrice: 250})
		require.NoError(t, sess.Save(ctx))
		sess.Close(ctx)

		got, err := f.store.Get(ctx, "g_victim")
		require.NoError(t, err)
		assert.NotEqual(t, seeded.Value, got.Value)
		assert.Equal(t, seeded.ExpiresAt, got.ExpiresAt, "an override write keeps the stored expiry")
		assert.False(t, sess.NeedsCookieWrite())
	})

	t.Run("override of an unknown key writes nothing", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess, err := f.mgr.Init(ctx, identity.Request{
			OverrideKey:        "g_nobody",
			OverrideAuthorized: true,
		})
		require.NoError(t, err)
		sess.Close(ctx)

		assert.Equal(t, 0, f.store.Len())
	})

	t.Run("destroy through an override spares the caller's cookie", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		seedVictim(t, f)

		sess, err := f.mgr.Init(ctx, identity.Request{
			OverrideKey:        "g_victim",
			OverrideAuthorized: true,
		})
		require.NoError(t, err)
		require.NoError(t, sess.Destroy(ctx))

		assert.False(t, sess.NeedsCookieClear())
		_, err = f.store.Get(ctx, "g_victim")
		assert.ErrorIs(t, err, cartsession.ErrNotFound)
	})
}

func TestSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("non-empty cart upserts one row", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)

		sess.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 2, UnitPrice: 999})
		require.NoError(t, sess.Save(ctx))

		rec, err := f.store.Get(ctx, sess.Key())
		require.NoError(t, err)
		assert.NotEmpty(t, rec.Hash)
		assert.Greater(t, rec.ExpiresAt, time.Now().Unix())

		decoded, err := cart.Decode(rec.Value)
		require.NoError(t, err)
		assert.Equal(t, int64(1998), decoded.ItemsSubtotal())
	})

	t.Run("empty save shortens expiry instead of deleting", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		first, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		key := first.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 1, UnitPrice: 100})
		require.NoError(t, first.Save(ctx))

		longExpiry, err := f.store.Get(ctx, first.Key())
		require.NoError(t, err)

		// Emptying the cart and saving repeatedly keeps a single short-lived row.
		first.Cart().SetQuantity(key, 0)
		for range 3 {
			require.NoError(t, first.Save(ctx))
		}
		first.Close(ctx)

		assert.Equal(t, 1, f.store.Len())
		shortExpiry, err := f.store.Get(ctx, first.Key())
		require.NoError(t, err)
		assert.Less(t, shortExpiry.ExpiresAt, longExpiry.ExpiresAt)
		assert.Greater(t, shortExpiry.ExpiresAt, time.Now().Unix())
	})

	t.Run("explicit save propagates store failure", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		broken := &failingStore{Store: f.store, upsertErr: errors.New("disk full")}
		mgr := cartsession.NewManager(broken, f.resolver, cartsession.DefaultConfig())

		sess, err := mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		sess.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 1})

		err = sess.Save(ctx)
		assert.ErrorIs(t, err, cartsession.ErrSaveFailed)
	})

	t.Run("deferred close swallows store failure", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		broken := &failingStore{Store: f.store, upsertErr: errors.New("disk full")}
		mgr := cartsession.NewManager(broken, f.resolver, cartsession.DefaultConfig())

		sess, err := mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		sess.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 1})

		assert.NotPanics(t, func() { sess.Close(ctx) })
	})

	t.Run("save after close is rejected", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		sess.Close(ctx)

		assert.ErrorIs(t, sess.Save(ctx), cartsession.ErrSessionClosed)
	})

	t.Run("close is idempotent and runs exactly one terminal save", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		sess, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		sess.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 1})

		sess.Close(ctx)
		sess.Close(ctx)
		assert.Equal(t, 1, f.store.Len())
	})
}

func TestDestroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	f := newFixture(t)
	sess, err := f.mgr.Init(ctx, identity.Request{})
	require.NoError(t, err)
	sess.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 1})
	require.NoError(t, sess.Save(ctx))

	require.NoError(t, sess.Destroy(ctx))

	_, err = f.store.Get(ctx, sess.Key())
	assert.ErrorIs(t, err, cartsession.ErrNotFound)
	assert.True(t, sess.NeedsCookieClear())
	assert.False(t, sess.NeedsCookieWrite())

	// Terminal: close after destroy must not resurrect the row.
	sess.Close(ctx)
	assert.Equal(t, 0, f.store.Len())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("guest quantities win and auth-only items survive", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		// Authenticated user has an older cart: item A qty 1, item B qty 1.
		authSess, err := f.mgr.Init(ctx, identity.Request{PrincipalID: "42"})
		require.NoError(t, err)
		keyA := authSess.Cart().AddItem(cart.Item{ProductID: "A", Quantity: 1, UnitPrice: 100})
		keyB := authSess.Cart().AddItem(cart.Item{ProductID: "B", Quantity: 1, UnitPrice: 200})
		require.NoError(t, authSess.Save(ctx))
		authSess.Close(ctx)

		// Guest shops anonymously: item A qty 2.
		guestSess, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		guestSess.Cart().AddItem(cart.Item{ProductID: "A", Quantity: 2, UnitPrice: 100})
		require.NoError(t, guestSess.Save(ctx))
		guestSess.Close(ctx)
		guestKey := guestSess.Key()

		// Login with the guest cookie triggers the merge.
		merged, err := f.mgr.Init(ctx, identity.Request{
			PrincipalID: "42",
			CookieValue: f.cookieFor(guestSess),
		})
		require.NoError(t, err)
		defer merged.Close(ctx)

		assert.Equal(t, "42", merged.Key())
		assert.Equal(t, 2, merged.Cart().Items[keyA].Quantity, "guest quantity wins")
		assert.Equal(t, 1, merged.Cart().Items[keyB].Quantity, "authenticated item preserved")

		_, err = f.store.Get(ctx, guestKey)
		assert.ErrorIs(t, err, cartsession.ErrNotFound, "guest row deleted after merge")

		assert.True(t, merged.NeedsCookieWrite())
		assert.Equal(t, "42", merged.CookiePayload().CartKey)
	})

	t.Run("guest cart claimed by user without prior cart", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		guestSess, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		itemKey := guestSess.Cart().AddItem(cart.Item{ProductID: "X", Quantity: 1, UnitPrice: 700})
		require.NoError(t, guestSess.Save(ctx))
		guestSess.Close(ctx)

		merged, err := f.mgr.Init(ctx, identity.Request{
			PrincipalID: "42",
			CookieValue: f.cookieFor(guestSess),
		})
		require.NoError(t, err)
		defer merged.Close(ctx)

		assert.Equal(t, 1, merged.Cart().Items[itemKey].Quantity)

		rec, err := f.store.Get(ctx, "42")
		require.NoError(t, err)
		assert.NotNil(t, rec)
	})

	t.Run("both sides empty skips the merge write", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		guestSess, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		guestSess.Close(ctx)

		merged, err := f.mgr.Init(ctx, identity.Request{
			PrincipalID: "42",
			CookieValue: f.cookieFor(guestSess),
		})
		require.NoError(t, err)
		merged.Close(ctx)

		assert.Equal(t, 0, f.store.Len(), "no rows written when both sides are empty")
	})

	t.Run("never deletes a registered user's row", func(t *testing.T) {
		t.Parallel()

		codec, err := identity.NewCodec([]string{testSecret})
		require.NoError(t, err)
		directory := identity.DirectoryFunc(func(ctx context.Context, key string) (bool, error) {
			return key == "7", nil
		})

		store := cartsession.NewMemoryStore()
		resolver := identity.NewResolver(codec, directory)
		mgr := cartsession.NewManager(store, resolver, cartsession.DefaultConfig(),
			cartsession.WithDirectory(directory))

		blob, err := cart.Encode(nonEmptyCart())
		require.NoError(t, err)
		require.NoError(t, store.Upsert(ctx, cartsession.Record{
			Key:       "7",
			Value:     blob,
			CreatedAt: time.Now().Unix(),
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
		}))

		// User 42 logs in holding a stale cookie that names user 7's key.
		require.NoError(t, mgr.Merge(ctx, "7", "42"))

		_, err = store.Get(ctx, "7")
		assert.NoError(t, err, "another user's cart row must survive the merge")
	})

	t.Run("emits UserSwitched event", func(t *testing.T) {
		t.Parallel()

		var switched []cartsession.UserSwitched
		transport := event.NewSyncTransport()
		transport.Subscribe("UserSwitched", func(ctx context.Context, evt event.Event) error {
			switched = append(switched, evt.Payload.(cartsession.UserSwitched))
			return nil
		})

		f := newFixture(t, cartsession.WithEventPublisher(event.NewPublisher(transport)))

		guestSess, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		guestSess.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 1})
		require.NoError(t, guestSess.Save(ctx))
		guestSess.Close(ctx)

		_, err = f.mgr.Init(ctx, identity.Request{
			PrincipalID: "42",
			CookieValue: f.cookieFor(guestSess),
		})
		require.NoError(t, err)

		require.Len(t, switched, 1)
		assert.Equal(t, guestSess.Key(), switched[0].OldKey)
		assert.Equal(t, "42", switched[0].NewKey)
	})
}

func TestCacheInteraction(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("store hit populates cache", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		sess, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		sess.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 1, UnitPrice: 100})
		require.NoError(t, sess.Save(ctx))

		_, hit, err := f.cache.Get(ctx, sess.Key())
		require.NoError(t, err)
		assert.True(t, hit)
	})

	t.Run("corrupt cache entry falls back to store", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		sess, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		sess.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 3, UnitPrice: 100})
		require.NoError(t, sess.Save(ctx))

		require.NoError(t, f.cache.Set(ctx, sess.Key(), []byte("garbage"), time.Hour))

		loaded, err := f.mgr.Load(ctx, sess.Key())
		require.NoError(t, err)
		assert.Equal(t, int64(300), loaded.ItemsSubtotal(), "store stays authoritative")
	})
}

func TestExpiryRefresh(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("fresh cookie keeps its expiry pair", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		first, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		first.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 1})
		require.NoError(t, first.Save(ctx))

		second, err := f.mgr.Init(ctx, identity.Request{CookieValue: f.cookieFor(first)})
		require.NoError(t, err)

		assert.False(t, second.NeedsCookieWrite(), "within the renewal window nothing rewrites")
		assert.True(t, second.ExpiresAt().Equal(first.CookiePayload().ExpiresAt.Truncate(time.Second)))
	})

	t.Run("past the soft threshold refreshes expiry and cookie", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)

		first, err := f.mgr.Init(ctx, identity.Request{})
		require.NoError(t, err)
		first.Cart().AddItem(cart.Item{ProductID: "p1", Quantity: 1})
		require.NoError(t, first.Save(ctx))

		// A cookie whose soft threshold has already passed.
		stale := f.codec.Encode(identity.CookiePayload{
			CartKey:    first.Key(),
			ExpiresAt:  time.Now().Add(30 * time.Minute),
			ExpiringAt: time.Now().Add(-time.Minute),
		})

		second, err := f.mgr.Init(ctx, identity.Request{CookieValue: stale})
		require.NoError(t, err)

		assert.True(t, second.NeedsCookieWrite())
		assert.Greater(t, second.ExpiresAt().Unix(), time.Now().Add(time.Hour).Unix())

		rec, err := f.store.Get(ctx, first.Key())
		require.NoError(t, err)
		assert.Equal(t, second.ExpiresAt().Unix(), rec.ExpiresAt, "expiry column refreshed in place")
	})
}

func TestAdminOperations(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	seed := func(t *testing.T, f *fixture, key string, expiresAt time.Time) {
		t.Helper()
		blob, err := cart.Encode(nonEmptyCart())
		require.NoError(t, err)
		require.NoError(t, f.store.Upsert(ctx, cartsession.Record{
			Key:       key,
			Value:     blob,
			CreatedAt: time.Now().Add(-time.Hour).Unix(),
			ExpiresAt: expiresAt.Unix(),
		}))
	}

	t.Run("counts split active and expired", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		seed(t, f, "a", time.Now().Add(time.Hour))
		seed(t, f, "b", time.Now().Add(time.Hour))
		seed(t, f, "c", time.Now().Add(-time.Hour))

		active, err := f.mgr.CountActive(ctx)
		require.NoError(t, err)
		expired, err := f.mgr.CountExpired(ctx)
		require.NoError(t, err)

		assert.Equal(t, int64(2), active)
		assert.Equal(t, int64(1), expired)
	})

	t.Run("clear all wipes rows and cache", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		seed(t, f, "a", time.Now().Add(time.Hour))
		require.NoError(t, f.cache.Set(ctx, "a", []byte("x"), time.Hour))

		n, err := f.mgr.ClearAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, 0, f.store.Len())
		assert.Equal(t, 0, f.cache.Len())
	})

	t.Run("legacy sync never overwrites existing keys", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		seed(t, f, "42", time.Now().Add(time.Hour))
		existing, err := f.store.Get(ctx, "42")
		require.NoError(t, err)

		src := legacySourceFunc(func(ctx context.Context) ([]cartsession.Record, error) {
			return []cartsession.Record{
				{Key: "42", Value: []byte(`{"v":1,"cart":{}}`), ExpiresAt: time.Now().Add(time.Hour).Unix()},
				{Key: "legacy-1", Value: []byte(`{"v":1,"cart":{}}`), ExpiresAt: time.Now().Add(time.Hour).Unix()},
			}, nil
		})

		n, err := f.mgr.SyncFromLegacy(ctx, src)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		after, err := f.store.Get(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, existing.Value, after.Value, "existing row untouched")

		_, err = f.store.Get(ctx, "legacy-1")
		assert.NoError(t, err)
	})
}

type legacySourceFunc func(ctx context.Context) ([]cartsession.Record, error)

func (f legacySourceFunc) FetchCarts(ctx context.Context) ([]cartsession.Record, error) {
	return f(ctx)
}
