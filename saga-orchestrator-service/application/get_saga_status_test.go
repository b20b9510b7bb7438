package application

import (
	"context"
	"testing"
	"time"

	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetSagaStatus_Execute(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name          string
		setupMocks    func(repo *mocks.MockSagaRepository)
		expectedError error
		check         func(t *testing.T, response *SagaStatusResponse)
	}{
		{
			name: "returns instance with ordered step summaries",
			setupMocks: func(repo *mocks.MockSagaRepository) {
				repo.EXPECT().GetInstance(mock.Anything, "order_processing_e1_abcd1234").Return(&domain.SagaInstance{
					SagaID:      "order_processing_e1_abcd1234",
					SagaType:    domain.SagaTypeOrderProcessing,
					EntityID:    "e1",
					Status:      domain.SagaStatusCompleted,
					CurrentStep: 2,
					CreatedAt:   now,
					UpdatedAt:   now,
					CompletedAt: &now,
				}, nil).Once()
				repo.EXPECT().GetSteps(mock.Anything, "order_processing_e1_abcd1234").Return([]*domain.SagaStep{
					{SagaID: "order_processing_e1_abcd1234", StepIndex: 0, StepName: "create_order", ServiceName: "order-service", Status: domain.StepStatusCompleted, StartedAt: &now, CompletedAt: &now},
					{SagaID: "order_processing_e1_abcd1234", StepIndex: 1, StepName: "process_payment", ServiceName: "payment-service", Status: domain.StepStatusCompleted, StartedAt: &now, CompletedAt: &now},
				}, nil).Once()
			},
			check: func(t *testing.T, response *SagaStatusResponse) {
				assert.Equal(t, "COMPLETED", response.Status)
				assert.Equal(t, 2, response.CurrentStep)
				require.Len(t, response.Steps, 2)
				assert.Equal(t, "create_order", response.Steps[0].StepName)
				assert.Equal(t, "process_payment", response.Steps[1].StepName)
				assert.Equal(t, "COMPLETED", response.Steps[1].Status)
			},
		},
		{
			name: "unknown saga id",
			setupMocks: func(repo *mocks.MockSagaRepository) {
				repo.EXPECT().GetInstance(mock.Anything, "missing").Return(nil, nil).Once()
			},
			expectedError: ErrSagaNotFound,
		},
		{
			name: "repository failure",
			setupMocks: func(repo *mocks.MockSagaRepository) {
				repo.EXPECT().GetInstance(mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()
			},
			expectedError: assert.AnError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockSagaRepository(t)
			tt.setupMocks(repo)

			uc := NewGetSagaStatus(repo)
			sagaID := "order_processing_e1_abcd1234"
			if tt.expectedError != nil {
				sagaID = "missing"
			}

			response, err := uc.Execute(context.Background(), &GetSagaStatusQuery{SagaID: sagaID})

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, response)
				return
			}

			require.NoError(t, err)
			tt.check(t, response)
		})
	}
}
