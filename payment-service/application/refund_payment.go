package application

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/payment-service/domain"
	"github.com/quickeats/delivery-system/shared/events"
	"github.com/quickeats/delivery-system/shared/models"
)

// RefundPaymentCommand represents the command to refund a payment
type RefundPaymentCommand struct {
	PaymentID string
	Reason    string
}

// RefundPaymentResponse represents the response after a refund
type RefundPaymentResponse struct {
	PaymentID string `json:"payment_id"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
}

// RefundPayment refunds a succeeded payment through the gateway. Refunding
// an already refunded payment succeeds without touching the gateway again.
type RefundPayment struct {
	paymentRepository domain.PaymentRepository
	gateway           domain.PaymentGateway
	eventPublisher    events.Publisher
}

// NewRefundPayment creates a new RefundPayment use case
func NewRefundPayment(
	paymentRepository domain.PaymentRepository,
	gateway domain.PaymentGateway,
	eventPublisher events.Publisher,
) *RefundPayment {
	return &RefundPayment{
		paymentRepository: paymentRepository,
		gateway:           gateway,
		eventPublisher:    eventPublisher,
	}
}

// Execute refunds the payment
func (uc *RefundPayment) Execute(ctx context.Context, cmd *RefundPaymentCommand) (*RefundPaymentResponse, error) {
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

	if payment.Status == models.PaymentStatusRefunded {
		return uc.response(payment), nil
	}

	if err := payment.Refund(); err != nil {
		return nil, err
	}

	if err := uc.gateway.RefundCharge(ctx, payment); err != nil {
		return nil, errors.Wrap(err, "gateway refund failed")
	}

	if err := uc.paymentRepository.Update(ctx, payment); err != nil {
		return nil, errors.Wrap(err, "failed to persist refunded payment")
	}

	event := events.NewEvent(payment.ID, events.PaymentRefundedEvent, domain.PaymentEventData{
		PaymentID: payment.ID,
		OrderID:   payment.OrderID,
		Amount:    payment.Amount,
		Status:    string(payment.Status),
		Reason:    cmd.Reason,
	})
	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		log.Printf("payment %s: failed to publish %s: %v", payment.ID, events.PaymentRefundedEvent, err)
	}

	return uc.response(payment), nil
}

func (uc *RefundPayment) response(payment *domain.Payment) *RefundPaymentResponse {
	return &RefundPaymentResponse{
		PaymentID: payment.ID.String(),
		OrderID:   payment.OrderID.String(),
		Status:    string(payment.Status),
	}
}
