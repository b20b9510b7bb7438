package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/order-service/domain"
	"github.com/quickeats/delivery-system/shared/models"
)

// GetOrderQuery represents the query to get an order
type GetOrderQuery struct {
	OrderID string
}

// GetOrder use case handles order retrieval
type GetOrder struct {
	orderRepository domain.OrderRepository
}

// NewGetOrder creates a new GetOrder use case
func NewGetOrder(orderRepository domain.OrderRepository) *GetOrder {
	return &GetOrder{orderRepository: orderRepository}
}

// Execute retrieves an order
func (uc *GetOrder) Execute(ctx context.Context, query *GetOrderQuery) (*domain.Order, error) {
	orderID, err := models.NewID(query.OrderID)
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

	return order, nil
}
