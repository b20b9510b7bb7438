package application

import (
	"context"
	"testing"

	"github.com/quickeats/delivery-system/order-service/domain"
	"github.com/quickeats/delivery-system/order-service/mocks"
	"github.com/quickeats/delivery-system/shared/events"
	eventmocks "github.com/quickeats/delivery-system/shared/events/mocks"
	"github.com/quickeats/delivery-system/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCompensateOrderFixture(t *testing.T) (*CompensateOrder, *mocks.MockOrderRepository, *eventmocks.MockPublisher) {
	repo := mocks.NewMockOrderRepository(t)
	publisher := eventmocks.NewMockPublisher(t)
	transition := NewTransitionOrder(repo, publisher)
	return NewCompensateOrder(repo, transition), repo, publisher
}

func TestCompensateOrder_Execute_CancelsAndAnnounces(t *testing.T) {
	uc, repo, publisher := newCompensateOrderFixture(t)

	repo.EXPECT().FindByID(mock.Anything, models.ID(testOrderID)).Return(&domain.Order{
		ID:     models.ID(testOrderID),
		Status: models.OrderStatusPendingPayment,
	}, nil).Once()
	repo.EXPECT().UpdateStatusGuarded(mock.Anything, models.ID(testOrderID),
		models.OrderStatusPendingPayment, models.OrderStatusCancelled).Return(true, nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(event *events.Event) bool {
		return event.EventType == events.OrderCancelledEvent
	})).Return(nil).Once()

	response, err := uc.Execute(context.Background(), &CompensateOrderCommand{
		OrderID: testOrderID,
		Reason:  "payment declined",
	})

	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusCancelled), response.Status)
}

func TestCompensateOrder_Execute_TerminalOrderIsNoOp(t *testing.T) {
	tests := []struct {
		name   string
		status models.OrderStatus
	}{
		{"already cancelled", models.OrderStatusCancelled},
		{"already delivered", models.OrderStatusDelivered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, publisher := newCompensateOrderFixture(t)

			repo.EXPECT().FindByID(mock.Anything, models.ID(testOrderID)).Return(&domain.Order{
				ID:     models.ID(testOrderID),
				Status: tt.status,
			}, nil).Once()

			response, err := uc.Execute(context.Background(), &CompensateOrderCommand{
				OrderID: testOrderID,
				Reason:  "replayed compensation",
			})

			require.NoError(t, err)
			assert.Equal(t, string(tt.status), response.Status)
			publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}

func TestCompensateOrder_Execute_LostGuardReportsWinner(t *testing.T) {
	uc, repo, publisher := newCompensateOrderFixture(t)

	repo.EXPECT().FindByID(mock.Anything, models.ID(testOrderID)).Return(&domain.Order{
		ID:     models.ID(testOrderID),
		Status: models.OrderStatusPendingPayment,
	}, nil).Once()
	repo.EXPECT().UpdateStatusGuarded(mock.Anything, models.ID(testOrderID),
		models.OrderStatusPendingPayment, models.OrderStatusCancelled).Return(false, nil).Once()
	repo.EXPECT().FindByID(mock.Anything, models.ID(testOrderID)).Return(&domain.Order{
		ID:     models.ID(testOrderID),
		Status: models.OrderStatusConfirmed,
	}, nil).Once()

	response, err := uc.Execute(context.Background(), &CompensateOrderCommand{
		OrderID: testOrderID,
		Reason:  "saga rollback",
	})

	require.NoError(t, err)
	assert.Equal(t, string(models.OrderStatusConfirmed), response.Status)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCompensateOrder_Execute_UnknownOrder(t *testing.T) {
	uc, repo, _ := newCompensateOrderFixture(t)

	repo.EXPECT().FindByID(mock.Anything, models.ID(testOrderID)).Return(nil, nil).Once()

	_, err := uc.Execute(context.Background(), &CompensateOrderCommand{OrderID: testOrderID})

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
