package domain

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSagaID_Format(t *testing.T) {
	id := NewSagaID(SagaTypeOrderProcessing, "order-123")

	assert.Regexp(t, regexp.MustCompile(`^order_processing_order-123_[0-9a-f]{8}$`), id)
	assert.NotEqual(t, id, NewSagaID(SagaTypeOrderProcessing, "order-123"))
}

func TestNewSagaInstance_InitializesPendingSteps(t *testing.T) {
	workflow := OrderProcessingWorkflow()

	instance, steps := NewSagaInstance(SagaTypeOrderProcessing, "order-123", workflow)

	assert.Equal(t, SagaStatusPending, instance.Status)
	assert.Equal(t, "order-123", instance.EntityID)
	assert.Zero(t, instance.CurrentStep)
	assert.Nil(t, instance.CompletedAt)

	require.Len(t, steps, len(workflow.Steps))
	for idx, step := range steps {
		assert.Equal(t, instance.SagaID, step.SagaID)
		assert.Equal(t, idx, step.StepIndex)
		assert.Equal(t, workflow.Steps[idx].StepName, step.StepName)
		assert.Equal(t, workflow.Steps[idx].ServiceName, step.ServiceName)
		assert.Equal(t, StepStatusPending, step.Status)
	}
}

func TestWorkflowMismatchError_Messages(t *testing.T) {
	unknown := &WorkflowMismatchError{SagaType: "bogus"}
	assert.Equal(t, "unknown saga type: bogus", unknown.Error())

	mismatch := &WorkflowMismatchError{SagaType: SagaTypeOrderProcessing, WorkflowSteps: 3, PayloadCount: 1}
	assert.Contains(t, mismatch.Error(), "doesn't match")
	assert.Contains(t, mismatch.Error(), "order_processing")
}

func TestStepExecutionError_PrefersStatusCode(t *testing.T) {
	withStatus := &StepExecutionError{StepName: "process_payment", StatusCode: 402, Body: "declined"}
	assert.Equal(t, "step process_payment failed: HTTP 402: declined", withStatus.Error())

	withCause := &StepExecutionError{StepName: "create_order", Cause: assert.AnError}
	assert.Contains(t, withCause.Error(), "create_order")
	assert.ErrorIs(t, withCause, assert.AnError)
}
