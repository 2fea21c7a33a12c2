// Package event provides a minimal in-process event bus used for cart
// lifecycle observability events (identity switches, reaper passes).
//
// Events are routed by payload type name. Two transports are provided:
// SyncTransport dispatches inline and returns handler errors to the
// publisher; ChannelTransport buffers events and delivers them on a
// background goroutine, logging handler failures.
//
//	transport := event.NewSyncTransport()
//	transport.Subscribe("UserSwitched", func(ctx context.Context, evt event.Event) error {
//		sw := evt.Payload.(cartsession.UserSwitched)
//		analytics.Track(ctx, sw.OldKey, sw.NewKey)
//		return nil
//	})
//
//	publisher := event.NewPublisher(transport)
//	_ = publisher.Publish(ctx, cartsession.UserSwitched{OldKey: "g1", NewKey: "42"})
package event
