package application

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/order-service/domain"
	"github.com/quickeats/delivery-system/shared/events"
	"github.com/quickeats/delivery-system/shared/models"
	"github.com/quickeats/delivery-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// ErrTransitionNotAllowed is returned when the requested transition violates
// the order lifecycle contract.
var ErrTransitionNotAllowed = errors.New("transition not allowed")

// UpdateOrderStatusCommand represents the command to move an order forward
// in its lifecycle. ExpectedStatus is optional; when empty the order's
// current status is used as the guard.
type UpdateOrderStatusCommand struct {
	OrderID        string `json:"order_id"`
	Status         string `json:"status"`
	ExpectedStatus string `json:"expected_status,omitempty"`
}

// UpdateOrderStatusResponse reports the outcome of a transition request.
// Applied false with no error means the guard lost to a concurrent writer
// that already performed the transition.
type UpdateOrderStatusResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Applied bool   `json:"applied"`
}

// TransitionOrder applies guarded lifecycle transitions. Execute announces
// the reached status on the event bus; Apply records a transition observed
// from another service's event and stays silent, since the fact is already
// on the bus.
type TransitionOrder struct {
	orderRepository domain.OrderRepository
	eventPublisher  events.Publisher
}

// NewTransitionOrder creates a new TransitionOrder use case
func NewTransitionOrder(orderRepository domain.OrderRepository, eventPublisher events.Publisher) *TransitionOrder {
	return &TransitionOrder{
		orderRepository: orderRepository,
		eventPublisher:  eventPublisher,
	}
}

// Execute performs the transition and publishes the lifecycle event when the
// guard applied.
func (uc *TransitionOrder) Execute(ctx context.Context, cmd *UpdateOrderStatusCommand) (*UpdateOrderStatusResponse, error) {
	orderID, next, expected, err := uc.resolve(ctx, cmd)
	if err != nil {
		return nil, err
	}

	applied, err := uc.apply(ctx, orderID, expected, next)
	if err != nil {
		return nil, err
	}

	if applied {
		uc.announce(ctx, orderID, expected, next)
	}

	return &UpdateOrderStatusResponse{
		OrderID: orderID.String(),
		Status:  string(next),
		Applied: applied,
	}, nil
}

// Apply performs the transition without publishing. Used by event handlers
// replaying externally announced transitions; a false result is a harmless
// duplicate delivery, not an error.
func (uc *TransitionOrder) Apply(ctx context.Context, orderID models.ID, expected, next models.OrderStatus) (bool, error) {
	if !expected.CanTransitionTo(next) {
		return false, ErrTransitionNotAllowed
	}
	return uc.apply(ctx, orderID, expected, next)
}

func (uc *TransitionOrder) resolve(ctx context.Context, cmd *UpdateOrderStatusCommand) (models.ID, models.OrderStatus, models.OrderStatus, error) {
	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		return "", "", "", errors.Wrap(err, "invalid order ID")
	}

	next, err := models.ParseOrderStatus(cmd.Status)
	if err != nil {
		return "", "", "", err
	}

	var expected models.OrderStatus
	if cmd.ExpectedStatus != "" {
		expected, err = models.ParseOrderStatus(cmd.ExpectedStatus)
		if err != nil {
			return "", "", "", err
		}
	} else {
		order, err := uc.orderRepository.FindByID(ctx, orderID)
		if err != nil {
			return "", "", "", errors.Wrap(err, "failed to find order")
		}
		if order == nil {
			return "", "", "", domain.ErrOrderNotFound
		}
		expected = order.Status
	}

	if !expected.CanTransitionTo(next) {
		return "", "", "", ErrTransitionNotAllowed
	}

	return orderID, next, expected, nil
}

func (uc *TransitionOrder) apply(ctx context.Context, orderID models.ID, expected, next models.OrderStatus) (bool, error) {
	applied, err := uc.orderRepository.UpdateStatusGuarded(ctx, orderID, expected, next)
	if err != nil {
		return false, errors.Wrap(err, "failed to apply transition")
	}

	telemetry.RecordCounter(ctx, "order_transitions_total", "Order lifecycle transitions", 1,
		attribute.String("from", string(expected)),
		attribute.String("to", string(next)),
		attribute.Bool("applied", applied),
	)

	return applied, nil
}

func (uc *TransitionOrder) announce(ctx context.Context, orderID models.ID, previous, reached models.OrderStatus) {
	eventType, ok := domain.EventTypeForStatus(reached)
	if !ok {
		return
	}

	event := events.NewEvent(orderID, eventType, domain.OrderStatusChangedData{
		OrderID:        orderID,
		PreviousStatus: string(previous),
		Status:         string(reached),
	})
	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		log.Printf("order %s: failed to publish %s: %v", orderID, eventType, err)
	}
}
