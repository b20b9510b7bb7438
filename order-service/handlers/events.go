package handlers

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/order-service/application"
	"github.com/quickeats/delivery-system/shared/events"
	"github.com/quickeats/delivery-system/shared/models"
)

// OrderEventHandlers applies lifecycle transitions observed on the event
// bus. Delivery is at-least-once, so every handler is a guarded
// compare-and-set: a replayed event finds the guard already moved and
// becomes a no-op.
type OrderEventHandlers struct {
	transitionOrder *application.TransitionOrder
	compensateOrder *application.CompensateOrder
}

// NewOrderEventHandlers creates new order event handlers
func NewOrderEventHandlers(
	transitionOrder *application.TransitionOrder,
	compensateOrder *application.CompensateOrder,
) *OrderEventHandlers {
	return &OrderEventHandlers{
		transitionOrder: transitionOrder,
		compensateOrder: compensateOrder,
	}
}

// HandlerID returns the unique identifier for this event handler
func (h *OrderEventHandlers) HandlerID() string {
	return "order-service-event-handler"
}

// SubscribedEvents lists the event types this handler reacts to
func (h *OrderEventHandlers) SubscribedEvents() []string {
	return []string{
		events.PaymentSucceededEvent,
		events.PaymentFailedEvent,
		events.OrderAcceptedEvent,
		events.OrderPreparingEvent,
		events.OrderReadyForDeliveryEvent,
		events.DriverAssignedEvent,
		events.DeliveryStatusChangedEvent,
		events.NoDriverAvailableEvent,
	}
}

// Handle implements the events.EventHandler interface
func (h *OrderEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.PaymentSucceededEvent:
		return h.applyTransition(ctx, event, models.OrderStatusPendingPayment, models.OrderStatusConfirmed)
	case events.PaymentFailedEvent:
		return h.applyTransition(ctx, event, models.OrderStatusPendingPayment, models.OrderStatusCancelled)
	case events.OrderAcceptedEvent:
		return h.applyTransition(ctx, event, models.OrderStatusConfirmed, models.OrderStatusAccepted)
	case events.OrderPreparingEvent:
		return h.applyTransition(ctx, event, models.OrderStatusAccepted, models.OrderStatusPreparing)
	case events.OrderReadyForDeliveryEvent:
		return h.applyTransition(ctx, event, models.OrderStatusPreparing, models.OrderStatusReadyForDelivery)
	case events.DriverAssignedEvent:
		return h.applyTransition(ctx, event, models.OrderStatusReadyForDelivery, models.OrderStatusPickedUp)
	case events.DeliveryStatusChangedEvent:
		return h.handleDeliveryStatusChanged(ctx, event)
	case events.NoDriverAvailableEvent:
		return h.handleNoDriverAvailable(ctx, event)
	default:
		// Unknown event type, ignore
		return nil
	}
}

type orderEventData struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status,omitempty"`
}

func (h *OrderEventHandlers) applyTransition(ctx context.Context, event *events.Event, expected, next models.OrderStatus) error {
	data, err := h.orderData(event)
	if err != nil {
		return err
	}

	orderID, err := models.NewID(data.OrderID)
	if err != nil {
		return errors.Wrap(err, "invalid order_id in event")
	}

	applied, err := h.transitionOrder.Apply(ctx, orderID, expected, next)
	if err != nil {
		if err == application.ErrTransitionNotAllowed {
			log.Printf("order %s: ignoring %s, transition %s -> %s not allowed", data.OrderID, event.EventType, expected, next)
			return nil
		}
		return err
	}
	if !applied {
		log.Printf("order %s: %s already applied", data.OrderID, event.EventType)
	}

	return nil
}

// handleDeliveryStatusChanged maps the courier's reported delivery status
// onto the order lifecycle. The dispatch service reports PICKED_UP when the
// courier leaves the restaurant, which is the moment the order starts moving.
func (h *OrderEventHandlers) handleDeliveryStatusChanged(ctx context.Context, event *events.Event) error {
	data, err := h.orderData(event)
	if err != nil {
		return err
	}

	switch data.Status {
	case "PICKED_UP":
		return h.applyTransition(ctx, event, models.OrderStatusPickedUp, models.OrderStatusInTransit)
	case "DELIVERED":
		return h.applyTransition(ctx, event, models.OrderStatusInTransit, models.OrderStatusDelivered)
	case "CANCELLED":
		_, err := h.compensateOrder.Execute(ctx, &application.CompensateOrderCommand{
			OrderID: data.OrderID,
			Reason:  "delivery cancelled",
		})
		return err
	default:
		log.Printf("order %s: unknown delivery status %q, ignoring", data.OrderID, data.Status)
		return nil
	}
}

// handleNoDriverAvailable cancels the order; dispatch exhausted its options.
func (h *OrderEventHandlers) handleNoDriverAvailable(ctx context.Context, event *events.Event) error {
	data, err := h.orderData(event)
	if err != nil {
		return err
	}

	_, err = h.compensateOrder.Execute(ctx, &application.CompensateOrderCommand{
		OrderID: data.OrderID,
		Reason:  "no driver available",
	})
	return err
}

func (h *OrderEventHandlers) orderData(event *events.Event) (*orderEventData, error) {
	var data orderEventData
	if err := event.UnmarshalPayload(&data); err != nil {
		return nil, errors.Wrap(err, "invalid event payload")
	}
	if data.OrderID == "" {
		return nil, errors.New("order_id is required")
	}
	return &data, nil
}
