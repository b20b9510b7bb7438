package handlers

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/payment-service/application"
	"github.com/quickeats/delivery-system/payment-service/domain"
	"github.com/quickeats/delivery-system/shared/events"
	"github.com/quickeats/delivery-system/shared/models"
)

// PaymentEventHandlers reacts to order lifecycle events. A cancelled order
// refunds its payment; the refund path is idempotent so redelivered
// cancellations converge.
type PaymentEventHandlers struct {
	paymentRepository domain.PaymentRepository
	compensatePayment *application.CompensatePayment
}

// NewPaymentEventHandlers creates new payment event handlers
func NewPaymentEventHandlers(
	paymentRepository domain.PaymentRepository,
	compensatePayment *application.CompensatePayment,
) *PaymentEventHandlers {
	return &PaymentEventHandlers{
		paymentRepository: paymentRepository,
		compensatePayment: compensatePayment,
	}
}

// HandlerID returns the unique identifier for this event handler
func (h *PaymentEventHandlers) HandlerID() string {
	return "payment-service-event-handler"
}

// SubscribedEvents lists the event types this handler reacts to
func (h *PaymentEventHandlers) SubscribedEvents() []string {
	return []string{events.OrderCancelledEvent}
}

// Handle implements the events.EventHandler interface
func (h *PaymentEventHandlers) Handle(ctx context.Context, event *events.Event) error {
	switch event.EventType {
	case events.OrderCancelledEvent:
		return h.handleOrderCancelled(ctx, event)
	default:
		// Unknown event type, ignore
		return nil
	}
}

func (h *PaymentEventHandlers) handleOrderCancelled(ctx context.Context, event *events.Event) error {
	var data struct {
		OrderID string `json:"order_id"`
	}
	if err := event.UnmarshalPayload(&data); err != nil {
		return errors.Wrap(err, "invalid event payload")
	}
	if data.OrderID == "" {
		return errors.New("order_id is required")
	}

	orderID, err := models.NewID(data.OrderID)
	if err != nil {
		return errors.Wrap(err, "invalid order_id in event")
	}

	payment, err := h.paymentRepository.FindByOrderID(ctx, orderID)
	if err != nil {
		return errors.Wrap(err, "failed to find payment")
	}
	if payment == nil {
		// Order never reached payment; nothing to undo.
		return nil
	}

	response, err := h.compensatePayment.Execute(ctx, &application.CompensatePaymentCommand{
		PaymentID: payment.ID.String(),
	})
	if err != nil {
		return err
	}

	log.Printf("payment %s for cancelled order %s is now %s", payment.ID, data.OrderID, response.Status)
	return nil
}
