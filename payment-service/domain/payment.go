package domain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/shared/models"
)

// Payment aggregate root
type Payment struct {
	ID               models.ID            `json:"id"`
	OrderID          models.ID            `json:"order_id"`
	CustomerID       models.ID            `json:"customer_id"`
	Amount           models.Money         `json:"amount"`
	Status           models.PaymentStatus `json:"status"`
	GatewayReference string               `json:"gateway_reference,omitempty"`
	FailureReason    string               `json:"failure_reason,omitempty"`
	Timestamps       models.Timestamps
	Version          models.Version
}

// CreatePayment factory method. New payments start PENDING until the
// gateway answers.
func CreatePayment(orderID, customerID models.ID, amount models.Money) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, errors.New("payment amount must be positive")
	}

	return &Payment{
		ID:         models.GenerateUUID(),
		OrderID:    orderID,
		CustomerID: customerID,
		Amount:     amount,
		Status:     models.PaymentStatusPending,
		Timestamps: models.NewTimestamps(),
		Version:    models.NewVersion(),
	}, nil
}

// MarkSucceeded records a successful charge
func (p *Payment) MarkSucceeded(gatewayReference string) {
	p.Status = models.PaymentStatusSucceeded
	p.GatewayReference = gatewayReference
	p.Timestamps = p.Timestamps.Update()
	p.Version = p.Version.Update()
}

// MarkFailed records a declined charge
func (p *Payment) MarkFailed(reason string) {
	p.Status = models.PaymentStatusFailed
	p.FailureReason = reason
	p.Timestamps = p.Timestamps.Update()
	p.Version = p.Version.Update()
}

// Refund moves a succeeded payment to REFUNDED. Refunding an already
// refunded payment is a no-op so compensation replays converge.
func (p *Payment) Refund() error {
	switch p.Status {
	case models.PaymentStatusRefunded:
		return nil
	case models.PaymentStatusSucceeded:
		p.Status = models.PaymentStatusRefunded
		p.Timestamps = p.Timestamps.Update()
		p.Version = p.Version.Update()
		return nil
	default:
		return ErrPaymentNotRefundable
	}
}

// PaymentRepository persists payments
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	FindByID(ctx context.Context, id models.ID) (*Payment, error)
	FindByOrderID(ctx context.Context, orderID models.ID) (*Payment, error)
}

// PaymentGateway charges a payment against the upstream processor.
type PaymentGateway interface {
	Charge(ctx context.Context, payment *Payment) (reference string, err error)
	RefundCharge(ctx context.Context, payment *Payment) error
}

var (
	// ErrPaymentNotFound is returned when no payment exists for the given id.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrPaymentDeclined is returned when the gateway refuses the charge.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrPaymentNotRefundable is returned when refunding a payment that
	// never succeeded.
	ErrPaymentNotRefundable = errors.New("payment is not refundable")
)

// PaymentEventData is the payload of payment lifecycle events
type PaymentEventData struct {
	PaymentID models.ID    `json:"payment_id"`
	OrderID   models.ID    `json:"order_id"`
	Amount    models.Money `json:"amount"`
	Status    string       `json:"status"`
	Reason    string       `json:"reason,omitempty"`
}
