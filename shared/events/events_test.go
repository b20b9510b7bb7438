package events

import (
	"encoding/json"
	"testing"

	"github.com/quickeats/delivery-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		name    string
		topic   Topic
		pattern Topic
		matches bool
	}{
		{"exact match", "order.created", "order.created", true},
		{"exact mismatch", "order.created", "order.cancelled", false},
		{"single wildcard", "order.created", "order.*", true},
		{"single wildcard mismatch", "payment.failed", "order.*", false},
		{"hash matches everything", "delivery.status_changed", "#", true},
		{"prefix hash", "order.created", "#created", true},
		{"suffix hash", "order.created", "order#", true},
		{"contains hash", "saga.compensated.retry", "#compensated#", true},
		{"length mismatch", "order.created.v2", "order.created", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.matches, tt.topic.Matches(tt.pattern))
		})
	}
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(models.ID("order-123"), OrderCreatedEvent, map[string]string{"status": "PENDING_PAYMENT"})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, models.ID("order-123"), event.AggregateID)
	assert.Equal(t, OrderCreatedEvent, event.EventType)
	assert.Equal(t, Topic(OrderCreatedEvent), event.Topic())
	assert.False(t, event.Timestamp.IsZero())
}

func TestEvent_UnmarshalPayload(t *testing.T) {
	type orderData struct {
		OrderID string `json:"order_id"`
		Status  string `json:"status"`
	}

	t.Run("from typed data", func(t *testing.T) {
		event := NewEvent("order-123", OrderConfirmedEvent, orderData{OrderID: "order-123", Status: "CONFIRMED"})

		var got orderData
		require.NoError(t, event.UnmarshalPayload(&got))
		assert.Equal(t, "order-123", got.OrderID)
		assert.Equal(t, "CONFIRMED", got.Status)
	})

	t.Run("from raw json after wire round trip", func(t *testing.T) {
		event := NewEvent("order-123", OrderConfirmedEvent, json.RawMessage(`{"order_id":"order-123","status":"CONFIRMED"}`))

		var got orderData
		require.NoError(t, event.UnmarshalPayload(&got))
		assert.Equal(t, "CONFIRMED", got.Status)
	})

	t.Run("non pointer receiver rejected", func(t *testing.T) {
		event := NewEvent("order-123", OrderConfirmedEvent, orderData{})

		var got orderData
		assert.ErrorIs(t, event.UnmarshalPayload(got), ErrInvalidReceiver)
	})
}

func TestEvent_JSONRoundTrip(t *testing.T) {
	event := NewEvent("order-123", PaymentSucceededEvent, map[string]interface{}{"payment_id": "payment-456"}).
		WithCorrelationID("saga-789").
		WithMetadata("source", "payment-service")

	raw, err := event.ToJSON()
	require.NoError(t, err)

	decoded, err := FromJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, PaymentSucceededEvent, decoded.EventType)
	assert.Equal(t, models.ID("saga-789"), decoded.CorrelationID)

	source, ok := decoded.Metadata.Get("source")
	require.True(t, ok)
	assert.Equal(t, "payment-service", source)
}
