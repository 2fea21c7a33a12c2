package event

import (
	"context"
	"io"
	"log/slog"
)

// Publisher publishes domain events via a Transport.
// It is stateless and safe for concurrent use.
type Publisher struct {
	transport Transport
	log       *slog.Logger
}

// PublisherOption configures a Publisher.
type PublisherOption func(*Publisher)

// WithPublisherLogger sets the logger for publish failures.
func WithPublisherLogger(log *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPublisher creates a publisher over the given transport.
func NewPublisher(transport Transport, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		transport: transport,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish wraps the payload in an Event and dispatches it.
// The event name is derived from the payload type.
func (p *Publisher) Publish(ctx context.Context, payload any) error {
	return p.transport.Dispatch(ctx, New(payload))
}
