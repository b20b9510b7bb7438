package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/payment-service/domain"
	"github.com/quickeats/delivery-system/shared/models"
)

// CompensatePaymentCommand represents the command to roll a payment back
type CompensatePaymentCommand struct {
	PaymentID string
}

// CompensatePaymentResponse represents the response after compensating
type CompensatePaymentResponse struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

// CompensatePayment undoes a payment as part of a saga rollback: a
// succeeded payment is refunded, anything else is left as is. The call is
// idempotent so replayed compensation records are harmless.
type CompensatePayment struct {
	paymentRepository domain.PaymentRepository
	refundPayment     *RefundPayment
}

// NewCompensatePayment creates a new CompensatePayment use case
func NewCompensatePayment(paymentRepository domain.PaymentRepository, refundPayment *RefundPayment) *CompensatePayment {
	return &CompensatePayment{
		paymentRepository: paymentRepository,
		refundPayment:     refundPayment,
	}
}

// Execute compensates the payment
func (uc *CompensatePayment) Execute(ctx context.Context, cmd *CompensatePaymentCommand) (*CompensatePaymentResponse, error) {
	paymentID, err := models.NewID(cmd.PaymentID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid payment ID")
	}

	payment, err := uc.paymentRepository.FindByID(ctx, paymentID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find payment")
	}
	if payment == nil {
		return nil, domain.ErrPaymentNotFound
	}

	switch payment.Status {
	case models.PaymentStatusSucceeded:
		response, err := uc.refundPayment.Execute(ctx, &RefundPaymentCommand{
			PaymentID: cmd.PaymentID,
			Reason:    "saga compensation",
		})
		if err != nil {
			return nil, err
		}
		return &CompensatePaymentResponse{PaymentID: response.PaymentID, Status: response.Status}, nil
	default:
		// PENDING, FAILED and REFUNDED have nothing to undo.
		return &CompensatePaymentResponse{PaymentID: cmd.PaymentID, Status: string(payment.Status)}, nil
	}
}
