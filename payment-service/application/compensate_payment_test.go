package application

import (
	"context"
	"testing"

	"github.com/quickeats/delivery-system/payment-service/domain"
	"github.com/quickeats/delivery-system/payment-service/mocks"
	"github.com/quickeats/delivery-system/shared/events"
	eventmocks "github.com/quickeats/delivery-system/shared/events/mocks"
	"github.com/quickeats/delivery-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCompensatePaymentFixture(t *testing.T) (*CompensatePayment, *mocks.MockPaymentRepository, *mocks.MockPaymentGateway, *eventmocks.MockPublisher) {
	repo := mocks.NewMockPaymentRepository(t)
	gateway := mocks.NewMockPaymentGateway(t)
	publisher := eventmocks.NewMockPublisher(t)
	refund := NewRefundPayment(repo, gateway, publisher)
	return NewCompensatePayment(repo, refund), repo, gateway, publisher
}

func TestCompensatePayment_Execute_RefundsSucceededPayment(t *testing.T) {
	uc, repo, gateway, publisher := newCompensatePaymentFixture(t)

	// First lookup decides the branch, second is the refund path's own read.
	repo.EXPECT().FindByID(mock.Anything, models.ID(testPaymentID)).Return(succeededPayment(), nil).Once()
	repo.EXPECT().FindByID(mock.Anything, models.ID(testPaymentID)).Return(succeededPayment(), nil).Once()
	gateway.EXPECT().RefundCharge(mock.Anything, mock.Anything).Return(nil).Once()
	repo.EXPECT().Update(mock.Anything, mock.Anything).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(event *events.Event) bool {
		return event.EventType == events.PaymentRefundedEvent
	})).Return(nil).Once()

	response, err := uc.Execute(context.Background(), &CompensatePaymentCommand{PaymentID: testPaymentID})

	require.NoError(t, err)
	assert.Equal(t, string(models.PaymentStatusRefunded), response.Status)
}

func TestCompensatePayment_Execute_NothingToUndo(t *testing.T) {
	tests := []struct {
		name   string
		status models.PaymentStatus
	}{
		{"pending payment", models.PaymentStatusPending},
		{"failed payment", models.PaymentStatusFailed},
		{"already refunded", models.PaymentStatusRefunded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, gateway, _ := newCompensatePaymentFixture(t)

			payment := succeededPayment()
			payment.Status = tt.status
			repo.EXPECT().FindByID(mock.Anything, models.ID(testPaymentID)).Return(payment, nil).Once()

			response, err := uc.Execute(context.Background(), &CompensatePaymentCommand{PaymentID: testPaymentID})

			require.NoError(t, err)
			assert.Equal(t, string(tt.status), response.Status)
			gateway.AssertNotCalled(t, "RefundCharge", mock.Anything, mock.Anything)
		})
	}
}

func TestCompensatePayment_Execute_UnknownPayment(t *testing.T) {
	uc, repo, _, _ := newCompensatePaymentFixture(t)

	repo.EXPECT().FindByID(mock.Anything, models.ID(testPaymentID)).Return(nil, nil).Once()

	_, err := uc.Execute(context.Background(), &CompensatePaymentCommand{PaymentID: testPaymentID})

	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
}
