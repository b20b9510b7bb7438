package application

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/order-service/domain"
	"github.com/quickeats/delivery-system/shared/models"
)

// CompensateOrderCommand represents the command to roll an order back
type CompensateOrderCommand struct {
	OrderID string
	Reason  string
}

// CompensateOrderResponse represents the response after compensating
type CompensateOrderResponse struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// CompensateOrder cancels an order as part of a saga rollback. The call is
// idempotent: an order that is already cancelled, or already delivered,
// reports its current status instead of failing, because compensation
// records can be replayed.
type CompensateOrder struct {
	orderRepository domain.OrderRepository
	transition      *TransitionOrder
}

// NewCompensateOrder creates a new CompensateOrder use case
func NewCompensateOrder(orderRepository domain.OrderRepository, transition *TransitionOrder) *CompensateOrder {
	return &CompensateOrder{
		orderRepository: orderRepository,
		transition:      transition,
	}
}

// Execute cancels the order if it is still cancellable
func (uc *CompensateOrder) Execute(ctx context.Context, cmd *CompensateOrderCommand) (*CompensateOrderResponse, error) {
	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	order, err := uc.orderRepository.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	if order.Status.IsTerminal() {
		return &CompensateOrderResponse{OrderID: cmd.OrderID, Status: string(order.Status)}, nil
	}

	response, err := uc.transition.Execute(ctx, &UpdateOrderStatusCommand{
		OrderID:        cmd.OrderID,
		Status:         string(models.OrderStatusCancelled),
		ExpectedStatus: string(order.Status),
	})
	if err != nil {
		return nil, err
	}
	if !response.Applied {
		// Concurrent transition; re-read and report whatever won.
		order, err = uc.orderRepository.FindByID(ctx, orderID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to find order")
		}
		if order == nil {
			return nil, domain.ErrOrderNotFound
		}
		return &CompensateOrderResponse{OrderID: cmd.OrderID, Status: string(order.Status)}, nil
	}

	log.Printf("order %s cancelled (reason: %s)", cmd.OrderID, cmd.Reason)

	return &CompensateOrderResponse{OrderID: cmd.OrderID, Status: string(models.OrderStatusCancelled)}, nil
}
