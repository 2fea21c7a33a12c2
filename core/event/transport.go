package event

import (
	"context"
	"errors"
	"sync"
)

// ErrTransportClosed is returned when dispatching to a closed transport.
var ErrTransportClosed = errors.New("event: transport closed")

// Handler processes a dispatched event.
type Handler func(ctx context.Context, evt Event) error

// Transport routes events from publishers to subscribed handlers.
type Transport interface {
	// Dispatch delivers the event to all handlers subscribed to its name.
	Dispatch(ctx context.Context, evt Event) error
	// Subscribe registers a handler for events with the given name.
	Subscribe(name string, h Handler)
}

// SyncTransport dispatches events inline on the publishing goroutine.
// Handler errors are aggregated and returned to the publisher.
type SyncTransport struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewSyncTransport creates a synchronous in-process transport.
func NewSyncTransport() *SyncTransport {
	return &SyncTransport{handlers: make(map[string][]Handler)}
}

// Subscribe registers a handler for events with the given name.
// Handlers run in subscription order.
func (t *SyncTransport) Subscribe(name string, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[name] = append(t.handlers[name], h)
}

// Dispatch runs all subscribed handlers inline and aggregates their errors.
// Events without subscribers are dropped silently.
func (t *SyncTransport) Dispatch(ctx context.Context, evt Event) error {
	t.mu.RLock()
	handlers := t.handlers[evt.Name]
	t.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
