package application

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/payment-service/domain"
	"github.com/quickeats/delivery-system/shared/events"
	"github.com/quickeats/delivery-system/shared/models"
	"github.com/quickeats/delivery-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ProcessPaymentCommand represents the command to charge a payment
type ProcessPaymentCommand struct {
	OrderID    string `json:"order_id"`
	CustomerID string `json:"customer_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
}

// ProcessPaymentResponse represents the response after a charge attempt.
// The id field is the identifier saga callers bind into compensation paths.
type ProcessPaymentResponse struct {
	ID        string       `json:"id"`
	PaymentID string       `json:"payment_id"`
	OrderID   string       `json:"order_id"`
	Amount    models.Money `json:"amount"`
	Status    string       `json:"status"`
}

// ProcessPayment creates a payment, charges the gateway and announces the
// outcome. A decline persists the FAILED payment and publishes
// payment.failed before the error is returned, so the record of the attempt
// survives the saga rollback.
type ProcessPayment struct {
	paymentRepository domain.PaymentRepository
	gateway           domain.PaymentGateway
	eventPublisher    events.Publisher
}

// NewProcessPayment creates a new ProcessPayment use case
func NewProcessPayment(
	paymentRepository domain.PaymentRepository,
	gateway domain.PaymentGateway,
	eventPublisher events.Publisher,
) *ProcessPayment {
	return &ProcessPayment{
		paymentRepository: paymentRepository,
		gateway:           gateway,
		eventPublisher:    eventPublisher,
	}
}

// Execute charges the payment
func (uc *ProcessPayment) Execute(ctx context.Context, cmd *ProcessPaymentCommand) (*ProcessPaymentResponse, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "process_payment",
		trace.WithAttributes(
			attribute.String("order_id", cmd.OrderID),
			attribute.Int64("amount", cmd.Amount),
		),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "payment_operations_total", "Total payment operations", 1,
			attribute.String("operation", "process_payment"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "payment_operation_duration_seconds", "Payment operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "process_payment"),
			attribute.String("status", status),
		)
	}()

	if err := uc.validateCommand(cmd); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "invalid command")
	}

	orderID, err := models.NewID(cmd.OrderID)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "invalid order ID")
	}

	customerID, err := models.NewID(cmd.CustomerID)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "invalid customer ID")
	}

	payment, err := domain.CreatePayment(orderID, customerID, models.NewMoney(cmd.Amount, cmd.Currency))
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to create payment")
	}

	if err := uc.paymentRepository.Save(ctx, payment); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to save payment")
	}

	reference, chargeErr := uc.gateway.Charge(ctx, payment)
	if chargeErr != nil {
		payment.MarkFailed(chargeErr.Error())
		if err := uc.paymentRepository.Update(ctx, payment); err != nil {
			span.RecordError(err)
			return nil, errors.Wrap(err, "failed to persist declined payment")
		}

		uc.publishOutcome(ctx, payment, events.PaymentFailedEvent, chargeErr.Error())

		status = "declined"
		span.RecordError(chargeErr)
		return nil, domain.ErrPaymentDeclined
	}

	payment.MarkSucceeded(reference)
	if err := uc.paymentRepository.Update(ctx, payment); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to persist succeeded payment")
	}

	uc.publishOutcome(ctx, payment, events.PaymentSucceededEvent, "")

	status = "success"
	span.SetAttributes(attribute.String("payment_id", payment.ID.String()))

	return &ProcessPaymentResponse{
		ID:        payment.ID.String(),
		PaymentID: payment.ID.String(),
		OrderID:   payment.OrderID.String(),
		Amount:    payment.Amount,
		Status:    string(payment.Status),
	}, nil
}

func (uc *ProcessPayment) validateCommand(cmd *ProcessPaymentCommand) error {
	if cmd.OrderID == "" {
		return errors.New("order ID is required")
	}
	if cmd.CustomerID == "" {
		return errors.New("customer ID is required")
	}
	if cmd.Amount <= 0 {
		return errors.New("amount must be positive")
	}
	if cmd.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}

func (uc *ProcessPayment) publishOutcome(ctx context.Context, payment *domain.Payment, eventType, reason string) {
	event := events.NewEvent(payment.ID, eventType, domain.PaymentEventData{
		PaymentID: payment.ID,
		OrderID:   payment.OrderID,
		Amount:    payment.Amount,
		Status:    string(payment.Status),
		Reason:    reason,
	})
	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		log.Printf("payment %s: failed to publish %s: %v", payment.ID, eventType, err)
	}
}
