package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/order-service/domain"
	"github.com/quickeats/delivery-system/shared/models"
)

// ErrOrderNotConfirmable is returned when the order is neither awaiting
// payment nor already confirmed.
var ErrOrderNotConfirmable = errors.New("order cannot be confirmed in its current status")

// ConfirmOrderCommand represents the command to confirm an order
type ConfirmOrderCommand struct {
	OrderID string
}

// ConfirmOrderResponse represents the response after confirming an order
type ConfirmOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// ConfirmOrder moves an order from PENDING_PAYMENT to CONFIRMED. Confirming
// an already confirmed order succeeds, so saga retries and duplicate events
// converge on the same state.
type ConfirmOrder struct {
	orderRepository domain.OrderRepository
	transition      *TransitionOrder
}

// NewConfirmOrder creates a new ConfirmOrder use case
func NewConfirmOrder(orderRepository domain.OrderRepository, transition *TransitionOrder) *ConfirmOrder {
	return &ConfirmOrder{
		orderRepository: orderRepository,
		transition:      transition,
	}
}

// Execute confirms the order
func (uc *ConfirmOrder) Execute(ctx context.Context, cmd *ConfirmOrderCommand) (*ConfirmOrderResponse, error) {
	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	response, err := uc.transition.Execute(ctx, &UpdateOrderStatusCommand{
		OrderID:        cmd.OrderID,
		Status:         string(models.OrderStatusConfirmed),
		ExpectedStatus: string(models.OrderStatusPendingPayment),
	})
	if err != nil && err != ErrTransitionNotAllowed {
		return nil, err
	}

	if err == nil && response.Applied {
		return &ConfirmOrderResponse{OrderID: cmd.OrderID, Status: string(models.OrderStatusConfirmed)}, nil
	}

	// Guard lost or transition rejected; tolerate the already-confirmed case.
	order, findErr := uc.orderRepository.FindByID(ctx, orderID)
	if findErr != nil {
		return nil, errors.Wrap(findErr, "failed to find order")
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if order.Status == models.OrderStatusConfirmed {
		return &ConfirmOrderResponse{OrderID: cmd.OrderID, Status: string(order.Status)}, nil
	}

	return nil, ErrOrderNotConfirmable
}
