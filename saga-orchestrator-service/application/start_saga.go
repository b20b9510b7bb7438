package application

import (
	"context"
	"log"

	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
)

// StartSagaCommand is the input to start a saga
type StartSagaCommand struct {
	SagaType     string           `json:"saga_type"`
	EntityID     string           `json:"entity_id"`
	StepPayloads []map[string]any `json:"step_data"`
}

// StartSaga validates a start request against the workflow registry, creates
// the saga instance and executes it to completion or failure. Validation
// errors are returned before any state exists.
type StartSaga struct {
	registry *domain.WorkflowRegistry
	engine   *SagaEngine
}

// NewStartSaga creates a new StartSaga use case
func NewStartSaga(registry *domain.WorkflowRegistry, engine *SagaEngine) *StartSaga {
	return &StartSaga{
		registry: registry,
		engine:   engine,
	}
}

// Execute starts a saga. A *domain.WorkflowMismatchError is returned for an
// unknown saga type or a payload/step count mismatch; in either case no
// instance row was created.
func (uc *StartSaga) Execute(ctx context.Context, cmd *StartSagaCommand) (*SagaResult, error) {
	workflow, ok := uc.registry.Get(cmd.SagaType)
	if !ok {
		return nil, &domain.WorkflowMismatchError{SagaType: cmd.SagaType}
	}

	instance, err := uc.engine.CreateInstance(ctx, cmd.SagaType, cmd.EntityID, workflow, cmd.StepPayloads)
	if err != nil {
		return nil, err
	}

	log.Printf("starting saga %s (type=%s entity=%s)", instance.SagaID, cmd.SagaType, cmd.EntityID)

	return uc.engine.ExecuteSaga(ctx, instance, workflow, cmd.StepPayloads), nil
}
