package infrastructure

import (
	"context"
	"log"
	"sync"

	"github.com/quickeats/delivery-system/shared/events"
)

var (
	_ events.Publisher  = (*MemoryEventBus)(nil)
	_ events.Subscriber = (*MemoryEventBus)(nil)
)

type memorySubscription struct {
	eventTypes []string
	handler    events.EventHandler
}

// MemoryEventBus is an in-process implementation of the event bus contract,
// used by tests and single-binary runs. It mirrors the broker semantics the
// services are written against: delivery is at-least-once (a handler error
// causes redelivery, up to maxDeliveries per subscription), and there is no
// ordering guarantee across event types.
type MemoryEventBus struct {
	mux           sync.RWMutex
	subscriptions []memorySubscription
	history       []*events.Event
	maxDeliveries int
}

// NewMemoryEventBus creates a new in-memory event bus
func NewMemoryEventBus() *MemoryEventBus {
	return &MemoryEventBus{maxDeliveries: 5}
}

// Subscribe registers a handler for the given event types. A nil or empty
// type list subscribes to everything.
func (b *MemoryEventBus) Subscribe(ctx context.Context, eventTypes []string, handler events.EventHandler) error {
	b.mux.Lock()
	defer b.mux.Unlock()

	b.subscriptions = append(b.subscriptions, memorySubscription{
		eventTypes: eventTypes,
		handler:    handler,
	})
	return nil
}

// Publish delivers each event synchronously to every matching subscription.
// Handler errors are retried in place, then logged and dropped; they are
// never surfaced to the publisher.
func (b *MemoryEventBus) Publish(ctx context.Context, evts ...*events.Event) error {
	b.mux.RLock()
	subs := make([]memorySubscription, len(b.subscriptions))
	copy(subs, b.subscriptions)
	b.mux.RUnlock()

	for _, event := range evts {
		b.mux.Lock()
		b.history = append(b.history, event)
		b.mux.Unlock()

		for _, sub := range subs {
			if !sub.matches(event) {
				continue
			}
			b.deliver(ctx, sub, event)
		}
	}

	return nil
}

func (b *MemoryEventBus) deliver(ctx context.Context, sub memorySubscription, event *events.Event) {
	for attempt := 1; attempt <= b.maxDeliveries; attempt++ {
		if err := sub.handler.Handle(ctx, event); err == nil {
			return
		} else if attempt == b.maxDeliveries {
			log.Printf("handler %s gave up on event %s after %d deliveries: %v",
				sub.handler.HandlerID(), event.EventType, attempt, err)
		}
	}
}

func (s memorySubscription) matches(event *events.Event) bool {
	if len(s.eventTypes) == 0 {
		return true
	}
	for _, t := range s.eventTypes {
		if event.Topic().Matches(events.Topic(t)) {
			return true
		}
	}
	return false
}

// History returns all events published so far, in publish order.
func (b *MemoryEventBus) History() []*events.Event {
	b.mux.RLock()
	defer b.mux.RUnlock()

	out := make([]*events.Event, len(b.history))
	copy(out, b.history)
	return out
}

// Close implements the publisher lifecycle; nothing to release.
func (b *MemoryEventBus) Close() error {
	return nil
}
