package application

import (
	"context"
	"testing"

	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartSaga_UnknownSagaType(t *testing.T) {
	engine, _, _, _ := newEngineFixture(t)
	uc := NewStartSaga(domain.DefaultRegistry(), engine)

	result, err := uc.Execute(context.Background(), &StartSagaCommand{
		SagaType:     "bogus_workflow",
		EntityID:     "entity-1",
		StepPayloads: []map[string]interface{}{{}},
	})

	assert.Nil(t, result)
	var mismatch *domain.WorkflowMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "bogus_workflow", mismatch.SagaType)
}

func TestStartSaga_PayloadCountMismatch(t *testing.T) {
	engine, _, _, _ := newEngineFixture(t)
	uc := NewStartSaga(domain.DefaultRegistry(), engine)

	result, err := uc.Execute(context.Background(), &StartSagaCommand{
		SagaType:     domain.SagaTypeOrderProcessing,
		EntityID:     "entity-1",
		StepPayloads: []map[string]interface{}{{}, {}},
	})

	assert.Nil(t, result)
	var mismatch *domain.WorkflowMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.WorkflowSteps)
	assert.Equal(t, 2, mismatch.PayloadCount)
}

func TestStartSaga_CreateInstanceFailurePropagates(t *testing.T) {
	engine, repo, _, _ := newEngineFixture(t)
	uc := NewStartSaga(domain.DefaultRegistry(), engine)

	repo.EXPECT().CreateInstance(mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError).Once()

	result, err := uc.Execute(context.Background(), &StartSagaCommand{
		SagaType:     domain.SagaTypeOrderProcessing,
		EntityID:     "entity-1",
		StepPayloads: orderProcessingPayloads(),
	})

	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
