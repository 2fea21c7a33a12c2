package carttransport

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/cartsession/core/cartsession"
	"github.com/dmitrymomot/cartsession/core/identity"
	"github.com/dmitrymomot/cartsession/core/logger"
)

// PrincipalFunc extracts the authenticated principal identifier from a
// request. Empty string means anonymous. Typically backed by whatever auth
// middleware runs ahead of the cart transport.
type PrincipalFunc func(r *http.Request) string

// OverrideGuard reports whether the caller is authorized to pin an explicit
// cart key via the key header. Typically checks an admin or service scope.
type OverrideGuard func(r *http.Request) bool

// Transport binds the cart session lifecycle to HTTP: it reads the signed
// identity cookie and key-override header from the request, and emits the
// refreshed cookie plus diagnostic headers on the response before the first
// body byte.
type Transport struct {
	mgr       *cartsession.Manager
	codec     *identity.Codec
	cfg       Config
	principal PrincipalFunc
	override  OverrideGuard
	log       *slog.Logger
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithPrincipalFunc sets the authenticated-principal extractor.
func WithPrincipalFunc(fn PrincipalFunc) TransportOption {
	return func(t *Transport) {
		if fn != nil {
			t.principal = fn
		}
	}
}

// WithOverrideGuard authorizes key-header overrides for matching requests.
// Without a guard the key header is ignored entirely.
func WithOverrideGuard(fn OverrideGuard) TransportOption {
	return func(t *Transport) { t.override = fn }
}

// WithTransportLogger sets the logger. Defaults to a no-op logger.
func WithTransportLogger(log *slog.Logger) TransportOption {
	return func(t *Transport) {
		if log != nil {
			t.log = log
		}
	}
}

// New creates an HTTP cart transport.
func New(mgr *cartsession.Manager, codec *identity.Codec, cfg Config, opts ...TransportOption) *Transport {
	t := &Transport{
		mgr:       mgr,
		codec:     codec,
		cfg:       cfg,
		principal: func(*http.Request) string { return "" },
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Init resolves the cart session for a request. Most callers should use
// Middleware instead; Init is the escape hatch for frameworks with their own
// middleware chains.
func (t *Transport) Init(w http.ResponseWriter, r *http.Request) (*cartsession.Session, error) {
	req := identity.Request{
		PrincipalID: t.principal(r),
	}
	if c, err := r.Cookie(t.cfg.CookieName); err == nil {
		req.CookieValue = c.Value
	}
	if t.override != nil && t.override(r) {
		req.OverrideKey = r.Header.Get(t.cfg.KeyHeader)
		req.OverrideAuthorized = true
	}

	sess, err := t.mgr.Init(r.Context(), req)
	if err != nil {
		return nil, errors.Join(ErrInitFailed, err)
	}
	return sess, nil
}

// Middleware resolves the cart session, injects it into the request context,
// emits identity headers before the first body write, and runs the terminal
// save when the handler returns.
func (t *Transport) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := t.Init(w, r)
		if err != nil {
			t.log.ErrorContext(r.Context(), "cart session init failed", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		defer sess.Close(r.Context())

		ww := &identityWriter{ResponseWriter: w, transport: t, sess: sess}
		next.ServeHTTP(ww, r.WithContext(newContext(r.Context(), sess)))

		// Handlers that wrote no body still get their identity headers:
		// net/http flushes headers only after the handler returns.
		ww.emit()
	})
}

// identityWriter defers identity header emission to the last possible
// moment before the response becomes immutable.
type identityWriter struct {
	http.ResponseWriter
	transport *Transport
	sess      *cartsession.Session
	emitted   bool
}

func (w *identityWriter) WriteHeader(status int) {
	w.emit()
	w.ResponseWriter.WriteHeader(status)
}

func (w *identityWriter) Write(b []byte) (int, error) {
	w.emit()
	return w.ResponseWriter.Write(b)
}

func (w *identityWriter) emit() {
	if w.emitted {
		return
	}
	w.emitted = true
	w.transport.writeIdentity(w.ResponseWriter, w.sess)
}

// writeIdentity stamps the response with the resolved cart key, server
// timestamp, server version, and the identity cookie when it changed.
func (t *Transport) writeIdentity(w http.ResponseWriter, sess *cartsession.Session) {
	h := w.Header()
	h.Set(t.cfg.KeyHeader, sess.Key())
	h.Set(t.cfg.TimestampHeader, strconv.FormatInt(time.Now().Unix(), 10))
	if t.cfg.ServerVersion != "" {
		h.Set(t.cfg.VersionHeader, t.cfg.ServerVersion)
	}

	switch {
	case sess.NeedsCookieClear():
		http.SetCookie(w, &http.Cookie{
			Name:     t.cfg.CookieName,
			Value:    "",
			Path:     t.cfg.CookiePath,
			Domain:   t.cfg.CookieDomain,
			MaxAge:   -1,
			Secure:   t.cfg.CookieSecure,
			HttpOnly: t.cfg.CookieHTTPOnly,
			SameSite: t.cfg.sameSite(),
		})
	case sess.NeedsCookieWrite():
		payload := sess.CookiePayload()
		maxAge := int(time.Until(payload.ExpiresAt).Seconds())
		if maxAge <= 0 {
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     t.cfg.CookieName,
			Value:    t.codec.Encode(payload),
			Path:     t.cfg.CookiePath,
			Domain:   t.cfg.CookieDomain,
			MaxAge:   maxAge,
			Expires:  payload.ExpiresAt,
			Secure:   t.cfg.CookieSecure,
			HttpOnly: t.cfg.CookieHTTPOnly,
			SameSite: t.cfg.sameSite(),
		})
	}
}
