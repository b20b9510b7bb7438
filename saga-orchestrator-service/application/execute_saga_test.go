package application

import (
	"context"
	"testing"

	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/mocks"
	eventmocks "github.com/quickeats/delivery-system/shared/events/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stepNamed(name string) interface{} {
	return mock.MatchedBy(func(step domain.StepDefinition) bool {
		return step.StepName == name
	})
}

func anyPayload() interface{} {
	return mock.MatchedBy(func(map[string]interface{}) bool { return true })
}

func newEngineFixture(t *testing.T) (*SagaEngine, *mocks.MockSagaRepository, *mocks.MockStepInvoker, *eventmocks.MockPublisher) {
	repo := mocks.NewMockSagaRepository(t)
	invoker := mocks.NewMockStepInvoker(t)
	publisher := eventmocks.NewMockPublisher(t)
	return NewSagaEngine(repo, invoker, publisher), repo, invoker, publisher
}

func orderProcessingPayloads() []map[string]interface{} {
	return []map[string]interface{}{
		{"customer_id": "cust-1", "restaurant_id": "rest-1"},
		{"amount": float64(2500), "currency": "USD"},
		{},
	}
}

func TestSagaEngine_CreateInstance_PayloadMismatch(t *testing.T) {
	engine, _, _, _ := newEngineFixture(t)
	workflow := domain.OrderProcessingWorkflow()

	instance, err := engine.CreateInstance(context.Background(), domain.SagaTypeOrderProcessing, "entity-1", workflow, []map[string]interface{}{{}})

	assert.Nil(t, instance)
	var mismatch *domain.WorkflowMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 3, mismatch.WorkflowSteps)
	assert.Equal(t, 1, mismatch.PayloadCount)
}

func TestSagaEngine_ExecuteSaga_HappyPath(t *testing.T) {
	engine, repo, invoker, publisher := newEngineFixture(t)
	workflow := domain.OrderProcessingWorkflow()
	instance, steps := domain.NewSagaInstance(domain.SagaTypeOrderProcessing, "entity-1", workflow)

	repo.EXPECT().UpdateInstance(mock.Anything, instance).Return(nil)
	repo.EXPECT().UpdateStep(mock.Anything, mock.Anything).Return(nil)
	repo.EXPECT().GetSteps(mock.Anything, instance.SagaID).Return(steps, nil)
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil)

	invoker.EXPECT().Invoke(mock.Anything, stepNamed("create_order"), anyPayload()).
		Return(domain.StepResult{
			Ok:       true,
			Data:     map[string]interface{}{"id": "order-123", "status": "PENDING_PAYMENT"},
			EntityID: "order-123",
			Compensation: domain.CompensationRecord{
				StepName:         "create_order",
				ServiceName:      "order-service",
				CompensationPath: "/orders/{order_id}/compensate",
				EntityID:         "order-123",
			},
		}).Once()

	invoker.EXPECT().Invoke(mock.Anything, stepNamed("process_payment"), mock.MatchedBy(func(payload map[string]interface{}) bool {
		// Bindings must have forwarded the created order id.
		return payload["order_id"] == "order-123"
	})).Return(domain.StepResult{
		Ok:       true,
		Data:     map[string]interface{}{"id": "payment-456", "order_id": "order-123"},
		EntityID: "payment-456",
		Compensation: domain.CompensationRecord{
			StepName:         "process_payment",
			ServiceName:      "payment-service",
			CompensationPath: "/payments/{payment_id}/compensate",
			EntityID:         "payment-456",
		},
	}).Once()

	invoker.EXPECT().Invoke(mock.Anything, stepNamed("confirm_order"), mock.MatchedBy(func(payload map[string]interface{}) bool {
		return payload["order_id"] == "order-123"
	})).Return(domain.StepResult{
		Ok:       true,
		Data:     map[string]interface{}{"order_id": "order-123", "status": "CONFIRMED"},
		EntityID: "order-123",
		Compensation: domain.CompensationRecord{
			StepName: "confirm_order",
			EntityID: "order-123",
		},
	}).Once()

	result := engine.ExecuteSaga(context.Background(), instance, workflow, orderProcessingPayloads())

	require.True(t, result.Success)
	assert.Equal(t, instance.SagaID, result.SagaID)
	assert.Equal(t, domain.SagaStatusCompleted, instance.Status)
	assert.NotNil(t, instance.CompletedAt)
	assert.Equal(t, "order-123", result.Data["order_id"])
	assert.Equal(t, "payment-456", result.Data["payment_id"])
	assert.Equal(t, "completed", result.Data["status"])
	assert.Len(t, instance.CompensationData, 3)
}

func TestSagaEngine_ExecuteSaga_NullStepPayloadsStillBind(t *testing.T) {
	engine, repo, invoker, publisher := newEngineFixture(t)
	workflow := domain.OrderProcessingWorkflow()
	instance, steps := domain.NewSagaInstance(domain.SagaTypeOrderProcessing, "entity-1", workflow)

	repo.EXPECT().UpdateInstance(mock.Anything, instance).Return(nil)
	repo.EXPECT().UpdateStep(mock.Anything, mock.Anything).Return(nil)
	repo.EXPECT().GetSteps(mock.Anything, instance.SagaID).Return(steps, nil)
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil)

	invoker.EXPECT().Invoke(mock.Anything, stepNamed("create_order"), anyPayload()).
		Return(domain.StepResult{
			Ok:       true,
			Data:     map[string]interface{}{"id": "order-123"},
			EntityID: "order-123",
			Compensation: domain.CompensationRecord{
				StepName:         "create_order",
				ServiceName:      "order-service",
				CompensationPath: "/orders/{order_id}/compensate",
				EntityID:         "order-123",
			},
		}).Once()

	invoker.EXPECT().Invoke(mock.Anything, stepNamed("process_payment"), mock.MatchedBy(func(payload map[string]interface{}) bool {
		return payload["order_id"] == "order-123"
	})).Return(domain.StepResult{
		Ok:       true,
		Data:     map[string]interface{}{"id": "payment-456"},
		EntityID: "payment-456",
		Compensation: domain.CompensationRecord{
			StepName: "process_payment",
			EntityID: "payment-456",
		},
	}).Once()

	invoker.EXPECT().Invoke(mock.Anything, stepNamed("confirm_order"), mock.MatchedBy(func(payload map[string]interface{}) bool {
		return payload["order_id"] == "order-123"
	})).Return(domain.StepResult{
		Ok:           true,
		Data:         map[string]interface{}{"order_id": "order-123"},
		EntityID:     "order-123",
		Compensation: domain.CompensationRecord{StepName: "confirm_order"},
	}).Once()

	// A JSON null element in step_data arrives as a nil map. The engine has
	// to treat it like an empty payload rather than crash mid-saga with the
	// instance stuck IN_PROGRESS.
	payloads := []map[string]interface{}{
		{"customer_id": "cust-1", "restaurant_id": "rest-1"},
		nil,
		nil,
	}

	result := engine.ExecuteSaga(context.Background(), instance, workflow, payloads)

	require.True(t, result.Success)
	assert.Equal(t, domain.SagaStatusCompleted, instance.Status)
}

func TestSagaEngine_ExecuteSaga_PaymentFailureCompensatesCreateOrder(t *testing.T) {
	engine, repo, invoker, publisher := newEngineFixture(t)
	workflow := domain.OrderProcessingWorkflow()
	instance, steps := domain.NewSagaInstance(domain.SagaTypeOrderProcessing, "entity-1", workflow)

	repo.EXPECT().UpdateInstance(mock.Anything, instance).Return(nil)
	repo.EXPECT().UpdateStep(mock.Anything, mock.Anything).Return(nil)
	repo.EXPECT().GetSteps(mock.Anything, instance.SagaID).Return(steps, nil)
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil)

	invoker.EXPECT().Invoke(mock.Anything, stepNamed("create_order"), anyPayload()).
		Return(domain.StepResult{
			Ok:       true,
			Data:     map[string]interface{}{"id": "order-123"},
			EntityID: "order-123",
			Compensation: domain.CompensationRecord{
				StepName:         "create_order",
				ServiceName:      "order-service",
				CompensationPath: "/orders/{order_id}/compensate",
				EntityID:         "order-123",
			},
		}).Once()

	invoker.EXPECT().Invoke(mock.Anything, stepNamed("process_payment"), anyPayload()).
		Return(domain.StepResult{
			Ok: false,
			Err: &domain.StepExecutionError{
				StepName:   "process_payment",
				StatusCode: 402,
				Body:       "payment declined",
			},
		}).Once()

	// Only the completed step is compensated, exactly once.
	invoker.EXPECT().Compensate(mock.Anything, mock.MatchedBy(func(record domain.CompensationRecord) bool {
		return record.StepName == "create_order" && record.EntityID == "order-123"
	})).Return(nil).Once()

	result := engine.ExecuteSaga(context.Background(), instance, workflow, orderProcessingPayloads())

	require.False(t, result.Success)
	assert.Equal(t, "process_payment", result.FailedStep)
	assert.Contains(t, result.Error, "process_payment")
	assert.Equal(t, domain.SagaStatusFailed, instance.Status)
	assert.Contains(t, instance.ErrorMessage, "process_payment")

	// The completed create_order step row ends COMPENSATED.
	assert.Equal(t, domain.StepStatusCompensated, steps[0].Status)
	assert.NotNil(t, steps[0].CompensatedAt)
	// The failed step itself is never compensated.
	assert.Equal(t, domain.StepStatusFailed, steps[1].Status)
	// The step after the failure never ran.
	assert.Equal(t, domain.StepStatusPending, steps[2].Status)
}

func TestSagaEngine_ExecuteSaga_FirstStepFailureNothingToCompensate(t *testing.T) {
	engine, repo, invoker, publisher := newEngineFixture(t)
	workflow := domain.OrderProcessingWorkflow()
	instance, steps := domain.NewSagaInstance(domain.SagaTypeOrderProcessing, "entity-1", workflow)

	repo.EXPECT().UpdateInstance(mock.Anything, instance).Return(nil)
	repo.EXPECT().UpdateStep(mock.Anything, mock.Anything).Return(nil)
	repo.EXPECT().GetSteps(mock.Anything, instance.SagaID).Return(steps, nil)
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil)

	invoker.EXPECT().Invoke(mock.Anything, stepNamed("create_order"), anyPayload()).
		Return(domain.StepResult{
			Ok:  false,
			Err: &domain.StepExecutionError{StepName: "create_order", StatusCode: 500},
		}).Once()

	result := engine.ExecuteSaga(context.Background(), instance, workflow, orderProcessingPayloads())

	require.False(t, result.Success)
	assert.Equal(t, "create_order", result.FailedStep)
	assert.Equal(t, domain.SagaStatusFailed, instance.Status)
	// No Compensate expectation was registered; mockery asserts none happened.
}

func TestSagaEngine_CompensateSaga_FailedCompensationDoesNotAbortPass(t *testing.T) {
	engine, repo, invoker, publisher := newEngineFixture(t)
	workflow := domain.OrderProcessingWorkflow()
	instance, steps := domain.NewSagaInstance(domain.SagaTypeOrderProcessing, "entity-1", workflow)

	steps[0].Status = domain.StepStatusCompleted
	steps[1].Status = domain.StepStatusCompleted

	records := []domain.CompensationRecord{
		{StepName: "create_order", StepIndex: 0, EntityID: "order-123"},
		{StepName: "process_payment", StepIndex: 1, EntityID: "payment-456"},
	}

	repo.EXPECT().UpdateInstance(mock.Anything, instance).Return(nil)
	repo.EXPECT().UpdateStep(mock.Anything, mock.Anything).Return(nil)
	repo.EXPECT().GetSteps(mock.Anything, instance.SagaID).Return(steps, nil)
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil)

	// Reverse order: process_payment compensation fails, create_order still runs.
	invoker.EXPECT().Compensate(mock.Anything, records[1]).
		Return(assert.AnError).Once()
	invoker.EXPECT().Compensate(mock.Anything, records[0]).
		Return(nil).Once()

	engine.CompensateSaga(context.Background(), instance, records)

	assert.Equal(t, domain.StepStatusCompensated, steps[0].Status)
	assert.Equal(t, domain.StepStatusCompleted, steps[1].Status)
	assert.Contains(t, steps[1].ErrorMessage, "process_payment")
}

func TestSagaEngine_CompensateSaga_SkipsNonCompletedSteps(t *testing.T) {
	engine, repo, invoker, publisher := newEngineFixture(t)
	workflow := domain.OrderProcessingWorkflow()
	instance, steps := domain.NewSagaInstance(domain.SagaTypeOrderProcessing, "entity-1", workflow)

	steps[0].Status = domain.StepStatusCompensated

	records := []domain.CompensationRecord{
		{StepName: "create_order", StepIndex: 0, EntityID: "order-123"},
	}

	repo.EXPECT().UpdateInstance(mock.Anything, instance).Return(nil)
	repo.EXPECT().GetSteps(mock.Anything, instance.SagaID).Return(steps, nil)
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(nil)

	engine.CompensateSaga(context.Background(), instance, records)

	// Already compensated; replaying the pass never calls the invoker.
	invoker.AssertNotCalled(t, "Compensate", mock.Anything, mock.Anything)
}
