package infrastructure

import (
	"context"
	"fmt"

	"github.com/quickeats/delivery-system/payment-service/domain"
	"github.com/quickeats/delivery-system/shared/models"
)

var _ domain.PaymentGateway = (*SimulatedPaymentGateway)(nil)

// SimulatedPaymentGateway stands in for a real card processor. The outcome
// is deterministic: charges whose cent amount ends in 99 are declined, which
// lets an operator provoke the failure path with a crafted total.
type SimulatedPaymentGateway struct{}

// NewSimulatedPaymentGateway creates a new simulated gateway
func NewSimulatedPaymentGateway() *SimulatedPaymentGateway {
	return &SimulatedPaymentGateway{}
}

// Charge simulates a gateway charge
func (g *SimulatedPaymentGateway) Charge(_ context.Context, payment *domain.Payment) (string, error) {
	if payment.Amount.Amount%100 == 99 {
		return "", domain.ErrPaymentDeclined
	}

	return fmt.Sprintf("sim_%s", models.GenerateUUID()), nil
}

// RefundCharge simulates a gateway refund. The simulator always accepts
// refunds for charges it issued.
func (g *SimulatedPaymentGateway) RefundCharge(_ context.Context, _ *domain.Payment) error {
	return nil
}
