package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/payment-service/domain"
	"github.com/quickeats/delivery-system/shared/models"
)

// GetPaymentQuery represents the query to get a payment
type GetPaymentQuery struct {
	PaymentID string
	OrderID   string
}

// GetPayment use case handles payment retrieval by id or by order id.
type GetPayment struct {
	paymentRepository domain.PaymentRepository
}

// NewGetPayment creates a new GetPayment use case
func NewGetPayment(paymentRepository domain.PaymentRepository) *GetPayment {
	return &GetPayment{paymentRepository: paymentRepository}
}

// Execute retrieves a payment
func (uc *GetPayment) Execute(ctx context.Context, query *GetPaymentQuery) (*domain.Payment, error) {
	var payment *domain.Payment

	switch {
	case query.PaymentID != "":
		paymentID, err := models.NewID(query.PaymentID)
		if err != nil {
			return nil, errors.Wrap(err, "invalid payment ID")
		}
		payment, err = uc.paymentRepository.FindByID(ctx, paymentID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to find payment")
		}
	case query.OrderID != "":
		orderID, err := models.NewID(query.OrderID)
		if err != nil {
			return nil, errors.Wrap(err, "invalid order ID")
		}
		payment, err = uc.paymentRepository.FindByOrderID(ctx, orderID)
		if err != nil {
			return nil, errors.Wrap(err, "failed to find payment")
		}
	default:
		return nil, errors.New("either payment ID or order ID is required")
	}

	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}

	return payment, nil
}
