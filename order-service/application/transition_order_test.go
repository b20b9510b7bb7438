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

func TestTransitionOrder_Execute_AppliesAndAnnounces(t *testing.T) {
	repo := mocks.NewMockOrderRepository(t)
	publisher := eventmocks.NewMockPublisher(t)

	repo.EXPECT().UpdateStatusGuarded(mock.Anything, models.ID(testOrderID),
		models.OrderStatusPendingPayment, models.OrderStatusConfirmed).Return(true, nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(event *events.Event) bool {
		return event.EventType == events.OrderConfirmedEvent
	})).Return(nil).Once()

	uc := NewTransitionOrder(repo, publisher)
	response, err := uc.Execute(context.Background(), &UpdateOrderStatusCommand{
		OrderID:        testOrderID,
		Status:         string(models.OrderStatusConfirmed),
		ExpectedStatus: string(models.OrderStatusPendingPayment),
	})

	require.NoError(t, err)
	assert.True(t, response.Applied)
	assert.Equal(t, string(models.OrderStatusConfirmed), response.Status)
}

func TestTransitionOrder_Execute_LostGuardStaysSilent(t *testing.T) {
	repo := mocks.NewMockOrderRepository(t)
	publisher := eventmocks.NewMockPublisher(t)

	repo.EXPECT().UpdateStatusGuarded(mock.Anything, models.ID(testOrderID),
		models.OrderStatusPendingPayment, models.OrderStatusConfirmed).Return(false, nil).Once()

	uc := NewTransitionOrder(repo, publisher)
	response, err := uc.Execute(context.Background(), &UpdateOrderStatusCommand{
		OrderID:        testOrderID,
		Status:         string(models.OrderStatusConfirmed),
		ExpectedStatus: string(models.OrderStatusPendingPayment),
	})

	require.NoError(t, err)
	assert.False(t, response.Applied)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestTransitionOrder_Execute_IllegalTransitionRejected(t *testing.T) {
	repo := mocks.NewMockOrderRepository(t)
	publisher := eventmocks.NewMockPublisher(t)

	uc := NewTransitionOrder(repo, publisher)
	_, err := uc.Execute(context.Background(), &UpdateOrderStatusCommand{
		OrderID:        testOrderID,
		Status:         string(models.OrderStatusDelivered),
		ExpectedStatus: string(models.OrderStatusPendingPayment),
	})

	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}

func TestTransitionOrder_Execute_ResolvesGuardFromStoredOrder(t *testing.T) {
	repo := mocks.NewMockOrderRepository(t)
	publisher := eventmocks.NewMockPublisher(t)

	repo.EXPECT().FindByID(mock.Anything, models.ID(testOrderID)).Return(&domain.Order{
		ID:     models.ID(testOrderID),
		Status: models.OrderStatusConfirmed,
	}, nil).Once()
	repo.EXPECT().UpdateStatusGuarded(mock.Anything, models.ID(testOrderID),
		models.OrderStatusConfirmed, models.OrderStatusAccepted).Return(true, nil).Once()
	publisher.EXPECT().Publish(mock.Anything, mock.MatchedBy(func(event *events.Event) bool {
		return event.EventType == events.OrderAcceptedEvent
	})).Return(nil).Once()

	uc := NewTransitionOrder(repo, publisher)
	response, err := uc.Execute(context.Background(), &UpdateOrderStatusCommand{
		OrderID: testOrderID,
		Status:  string(models.OrderStatusAccepted),
	})

	require.NoError(t, err)
	assert.True(t, response.Applied)
}

func TestTransitionOrder_Execute_UnknownOrder(t *testing.T) {
	repo := mocks.NewMockOrderRepository(t)
	publisher := eventmocks.NewMockPublisher(t)

	repo.EXPECT().FindByID(mock.Anything, models.ID(testOrderID)).Return(nil, nil).Once()

	uc := NewTransitionOrder(repo, publisher)
	_, err := uc.Execute(context.Background(), &UpdateOrderStatusCommand{
		OrderID: testOrderID,
		Status:  string(models.OrderStatusConfirmed),
	})

	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestTransitionOrder_Apply_NeverPublishes(t *testing.T) {
	repo := mocks.NewMockOrderRepository(t)
	publisher := eventmocks.NewMockPublisher(t)

	repo.EXPECT().UpdateStatusGuarded(mock.Anything, models.ID(testOrderID),
		models.OrderStatusPendingPayment, models.OrderStatusConfirmed).Return(true, nil).Once()

	uc := NewTransitionOrder(repo, publisher)
	applied, err := uc.Apply(context.Background(), models.ID(testOrderID),
		models.OrderStatusPendingPayment, models.OrderStatusConfirmed)

	require.NoError(t, err)
	assert.True(t, applied)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestTransitionOrder_Apply_IllegalTransition(t *testing.T) {
	repo := mocks.NewMockOrderRepository(t)
	publisher := eventmocks.NewMockPublisher(t)

	uc := NewTransitionOrder(repo, publisher)
	applied, err := uc.Apply(context.Background(), models.ID(testOrderID),
		models.OrderStatusDelivered, models.OrderStatusConfirmed)

	assert.False(t, applied)
	assert.ErrorIs(t, err, ErrTransitionNotAllowed)
}
