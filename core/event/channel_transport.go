package event

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/cartsession/core/logger"
)

// ChannelTransport buffers events on a channel and dispatches them on a
// background goroutine, decoupling publishers from handler latency.
// Handler errors are logged, never surfaced to the publisher.
type ChannelTransport struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	events   chan Event
	log      *slog.Logger

	closeOnce sync.Once
	closed    chan struct{}
	started   atomic.Bool
	done      chan struct{}
}

// ChannelTransportOption configures a ChannelTransport.
type ChannelTransportOption func(*ChannelTransport)

// WithChannelLogger sets the logger used for handler failures.
func WithChannelLogger(log *slog.Logger) ChannelTransportOption {
	return func(t *ChannelTransport) {
		if log != nil {
			t.log = log
		}
	}
}

// NewChannelTransport creates an asynchronous transport with the given
// buffer size. Run must be called for events to be delivered.
func NewChannelTransport(buffer int, opts ...ChannelTransportOption) *ChannelTransport {
	if buffer <= 0 {
		buffer = 64
	}
	t := &ChannelTransport{
		handlers: make(map[string][]Handler),
		events:   make(chan Event, buffer),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		closed:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Subscribe registers a handler for events with the given name.
func (t *ChannelTransport) Subscribe(name string, h Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[name] = append(t.handlers[name], h)
}

// Dispatch enqueues the event for asynchronous delivery.
// Returns ErrTransportClosed after Close, or the context error if the
// buffer is full and the context is cancelled while waiting.
func (t *ChannelTransport) Dispatch(ctx context.Context, evt Event) error {
	select {
	case <-t.closed:
		return ErrTransportClosed
	default:
	}

	select {
	case t.events <- evt:
		return nil
	case <-t.closed:
		return ErrTransportClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consumes queued events until the context is cancelled or Close is
// called, then drains remaining buffered events before returning.
func (t *ChannelTransport) Run(ctx context.Context) {
	t.started.Store(true)
	defer close(t.done)
	for {
		select {
		case evt := <-t.events:
			t.deliver(ctx, evt)
		case <-ctx.Done():
			t.drain()
			return
		case <-t.closed:
			t.drain()
			return
		}
	}
}

// Close stops accepting new events and waits for a started Run to drain its
// backlog. When Run was never called there is nothing to wait for and Close
// returns immediately.
func (t *ChannelTransport) Close() {
	t.closeOnce.Do(func() { close(t.closed) })
	if t.started.Load() {
		<-t.done
	}
}

func (t *ChannelTransport) drain() {
	for {
		select {
		case evt := <-t.events:
			t.deliver(context.Background(), evt)
		default:
			return
		}
	}
}

func (t *ChannelTransport) deliver(ctx context.Context, evt Event) {
	t.mu.RLock()
	handlers := t.handlers[evt.Name]
	t.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			t.log.ErrorContext(ctx, "event handler failed",
				logger.Event(evt.Name),
				logger.Error(err),
			)
		}
	}
}
