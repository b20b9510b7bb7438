package infrastructure

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/shared/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryEventBus_DeliversToMatchingSubscribers(t *testing.T) {
	bus := NewMemoryEventBus()

	var orderEvents, paymentEvents []string
	require.NoError(t, bus.Subscribe(context.Background(), []string{"order.*"},
		events.NewEventHandlerFunc("order-handler", func(ctx context.Context, event *events.Event) error {
			orderEvents = append(orderEvents, event.EventType)
			return nil
		})))
	require.NoError(t, bus.Subscribe(context.Background(), []string{events.PaymentSucceededEvent},
		events.NewEventHandlerFunc("payment-handler", func(ctx context.Context, event *events.Event) error {
			paymentEvents = append(paymentEvents, event.EventType)
			return nil
		})))

	require.NoError(t, bus.Publish(context.Background(),
		events.NewEvent("order-1", events.OrderCreatedEvent, nil),
		events.NewEvent("payment-1", events.PaymentSucceededEvent, nil),
		events.NewEvent("order-1", events.OrderConfirmedEvent, nil),
	))

	assert.Equal(t, []string{events.OrderCreatedEvent, events.OrderConfirmedEvent}, orderEvents)
	assert.Equal(t, []string{events.PaymentSucceededEvent}, paymentEvents)
}

func TestMemoryEventBus_EmptyTypeListSubscribesToEverything(t *testing.T) {
	bus := NewMemoryEventBus()

	var seen int
	require.NoError(t, bus.Subscribe(context.Background(), nil,
		events.NewEventHandlerFunc("audit", func(ctx context.Context, event *events.Event) error {
			seen++
			return nil
		})))

	require.NoError(t, bus.Publish(context.Background(),
		events.NewEvent("order-1", events.OrderCreatedEvent, nil),
		events.NewEvent("saga-1", events.SagaStartedEvent, nil),
	))

	assert.Equal(t, 2, seen)
}

func TestMemoryEventBus_RedeliversOnHandlerError(t *testing.T) {
	bus := NewMemoryEventBus()

	attempts := 0
	require.NoError(t, bus.Subscribe(context.Background(), []string{events.OrderCreatedEvent},
		events.NewEventHandlerFunc("flaky", func(ctx context.Context, event *events.Event) error {
			attempts++
			if attempts < 3 {
				return errors.New("transient failure")
			}
			return nil
		})))

	require.NoError(t, bus.Publish(context.Background(),
		events.NewEvent("order-1", events.OrderCreatedEvent, nil)))

	assert.Equal(t, 3, attempts)
}

func TestMemoryEventBus_GivesUpAfterMaxDeliveries(t *testing.T) {
	bus := NewMemoryEventBus()

	attempts := 0
	require.NoError(t, bus.Subscribe(context.Background(), []string{events.OrderCreatedEvent},
		events.NewEventHandlerFunc("broken", func(ctx context.Context, event *events.Event) error {
			attempts++
			return errors.New("permanent failure")
		})))

	// Handler errors never surface to the publisher.
	require.NoError(t, bus.Publish(context.Background(),
		events.NewEvent("order-1", events.OrderCreatedEvent, nil)))

	assert.Equal(t, 5, attempts)
}

func TestMemoryEventBus_HistoryKeepsPublishOrder(t *testing.T) {
	bus := NewMemoryEventBus()

	require.NoError(t, bus.Publish(context.Background(),
		events.NewEvent("order-1", events.OrderCreatedEvent, nil)))
	require.NoError(t, bus.Publish(context.Background(),
		events.NewEvent("order-1", events.OrderConfirmedEvent, nil)))

	history := bus.History()
	require.Len(t, history, 2)
	assert.Equal(t, events.OrderCreatedEvent, history[0].EventType)
	assert.Equal(t, events.OrderConfirmedEvent, history[1].EventType)
}
