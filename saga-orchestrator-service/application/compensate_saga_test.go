package application

import (
	"context"
	"testing"

	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompensateSaga_Execute(t *testing.T) {
	tests := []struct {
		name          string
		status        domain.SagaStatus
		expectedError error
	}{
		{name: "completed saga is compensable", status: domain.SagaStatusCompleted},
		{name: "failed saga is compensable", status: domain.SagaStatusFailed},
		{name: "in progress saga is compensable", status: domain.SagaStatusInProgress},
		{name: "pending saga is not compensable", status: domain.SagaStatusPending, expectedError: ErrSagaNotCompensable},
		{name: "compensating saga is not compensable", status: domain.SagaStatusCompensating, expectedError: ErrSagaNotCompensable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, repo, invoker, publisher := newEngineFixture(t)
			uc := NewCompensateSaga(repo, engine)

			workflow := domain.OrderProcessingWorkflow()
			instance, steps := domain.NewSagaInstance(domain.SagaTypeOrderProcessing, "e1", workflow)
			instance.Status = tt.status
			instance.CompensationData = []domain.CompensationRecord{
				{StepName: "create_order", StepIndex: 0, EntityID: "order-123"},
			}
			steps[0].Status = domain.StepStatusCompleted

			repo.EXPECT().GetInstance(mock.Anything, instance.SagaID).Return(instance, nil).Once()

			if tt.expectedError == nil {
				repo.EXPECT().UpdateInstance(mock.Anything, instance).Return(nil)
				repo.EXPECT().UpdateStep(mock.Anything, mock.Anything).Return(nil)
				repo.EXPECT().GetSteps(mock.Anything, instance.SagaID).Return(steps, nil).Once()
				publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil)
				invoker.EXPECT().Compensate(mock.Anything, instance.CompensationData[0]).Return(nil).Once()
			}

			err := uc.Execute(context.Background(), &CompensateSagaCommand{SagaID: instance.SagaID})

			if tt.expectedError != nil {
				require.ErrorIs(t, err, tt.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, domain.StepStatusCompensated, steps[0].Status)
		})
	}
}

func TestCompensateSaga_UnknownSaga(t *testing.T) {
	engine, repo, _, _ := newEngineFixture(t)
	uc := NewCompensateSaga(repo, engine)

	repo.EXPECT().GetInstance(mock.Anything, "missing").Return(nil, nil).Once()

	err := uc.Execute(context.Background(), &CompensateSagaCommand{SagaID: "missing"})

	assert.ErrorIs(t, err, ErrSagaNotFound)
}
