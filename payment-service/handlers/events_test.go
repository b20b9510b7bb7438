package handlers

import (
	"context"
	"testing"

	"github.com/quickeats/delivery-system/payment-service/application"
	"github.com/quickeats/delivery-system/payment-service/domain"
	"github.com/quickeats/delivery-system/payment-service/mocks"
	"github.com/quickeats/delivery-system/shared/events"
	eventmocks "github.com/quickeats/delivery-system/shared/events/mocks"
	"github.com/quickeats/delivery-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testOrderID   = "33333333-3333-4333-8333-333333333333"
	testPaymentID = "44444444-4444-4444-8444-444444444444"
)

func newPaymentEventHandlersFixture(t *testing.T) (*PaymentEventHandlers, *mocks.MockPaymentRepository, *mocks.MockPaymentGateway, *eventmocks.MockPublisher) {
	repo := mocks.NewMockPaymentRepository(t)
	gateway := mocks.NewMockPaymentGateway(t)
	publisher := eventmocks.NewMockPublisher(t)
	refund := application.NewRefundPayment(repo, gateway, publisher)
	compensate := application.NewCompensatePayment(repo, refund)
	return NewPaymentEventHandlers(repo, compensate), repo, gateway, publisher
}

func testPayment(status models.PaymentStatus) *domain.Payment {
	return &domain.Payment{
		ID:      models.ID(testPaymentID),
		OrderID: models.ID(testOrderID),
		Amount:  models.NewMoney(2500, "USD"),
		Status:  status,
		Version: models.NewVersion(),
	}
}

func TestPaymentEventHandlers_OrderCancelledRefundsPayment(t *testing.T) {
	handlers, repo, gateway, publisher := newPaymentEventHandlersFixture(t)

	repo.EXPECT().FindByOrderID(mock.Anything, models.ID(testOrderID)).
		Return(testPayment(models.PaymentStatusSucceeded), nil).Once()
	repo.EXPECT().FindByID(mock.Anything, models.ID(testPaymentID)).
		Return(testPayment(models.PaymentStatusSucceeded), nil).Twice()
	gateway.EXPECT().RefundCharge(mock.Anything, mock.Anything).Return(nil).Once()
	repo.EXPECT().Update(mock.Anything, mock.Anything).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(event *events.Event) bool {
		return event.EventType == events.PaymentRefundedEvent
	})).Return(nil).Once()

	err := handlers.Handle(context.Background(), events.NewEvent(models.ID(testOrderID),
		events.OrderCancelledEvent, map[string]interface{}{"order_id": testOrderID}))

	require.NoError(t, err)
}

func TestPaymentEventHandlers_OrderCancelledWithoutPaymentIsNoOp(t *testing.T) {
	handlers, repo, gateway, _ := newPaymentEventHandlersFixture(t)

	repo.EXPECT().FindByOrderID(mock.Anything, models.ID(testOrderID)).Return(nil, nil).Once()

	err := handlers.Handle(context.Background(), events.NewEvent(models.ID(testOrderID),
		events.OrderCancelledEvent, map[string]interface{}{"order_id": testOrderID}))

	require.NoError(t, err)
	gateway.AssertNotCalled(t, "RefundCharge", mock.Anything, mock.Anything)
}

func TestPaymentEventHandlers_RedeliveredCancellationConverges(t *testing.T) {
	handlers, repo, gateway, _ := newPaymentEventHandlersFixture(t)

	// The first delivery already refunded; the replay finds REFUNDED and
	// does nothing.
	repo.EXPECT().FindByOrderID(mock.Anything, models.ID(testOrderID)).
		Return(testPayment(models.PaymentStatusRefunded), nil).Once()
	repo.EXPECT().FindByID(mock.Anything, models.ID(testPaymentID)).
		Return(testPayment(models.PaymentStatusRefunded), nil).Once()

	err := handlers.Handle(context.Background(), events.NewEvent(models.ID(testOrderID),
		events.OrderCancelledEvent, map[string]interface{}{"order_id": testOrderID}))

	require.NoError(t, err)
	gateway.AssertNotCalled(t, "RefundCharge", mock.Anything, mock.Anything)
}

func TestPaymentEventHandlers_UnknownEventTypeIgnored(t *testing.T) {
	handlers, _, _, _ := newPaymentEventHandlersFixture(t)

	err := handlers.Handle(context.Background(), events.NewEvent(models.ID(testOrderID),
		"inventory.restocked", map[string]interface{}{"order_id": testOrderID}))

	require.NoError(t, err)
}

func TestPaymentEventHandlers_SubscribedEvents(t *testing.T) {
	handlers, _, _, _ := newPaymentEventHandlersFixture(t)

	assert.Equal(t, []string{events.OrderCancelledEvent}, handlers.SubscribedEvents())
	assert.Equal(t, "payment-service-event-handler", handlers.HandlerID())
}
