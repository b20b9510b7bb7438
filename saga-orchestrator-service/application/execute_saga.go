package application

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
	"github.com/quickeats/delivery-system/shared/events"
	"github.com/quickeats/delivery-system/shared/models"
	"github.com/quickeats/delivery-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// SagaResult is the structured outcome returned to the saga's caller. Step
// failures never escape as errors; they are folded into this value after the
// compensation pass has run.
type SagaResult struct {
	Success    bool           `json:"success"`
	SagaID     string         `json:"saga_id"`
	Data       map[string]any `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
	FailedStep string         `json:"failed_step,omitempty"`
}

// SagaEngine drives a saga instance through its workflow's steps: strictly
// sequential execution, per-step persistence, and reverse-order best-effort
// compensation when a step fails.
type SagaEngine struct {
	repository domain.SagaRepository
	invoker    domain.StepInvoker
	publisher  events.Publisher
}

// NewSagaEngine creates a new saga engine
func NewSagaEngine(repository domain.SagaRepository, invoker domain.StepInvoker, publisher events.Publisher) *SagaEngine {
	return &SagaEngine{
		repository: repository,
		invoker:    invoker,
		publisher:  publisher,
	}
}

// CreateInstance persists one PENDING instance plus one PENDING step row per
// workflow step. The payload count is validated first: on mismatch nothing
// is written and a WorkflowMismatchError is returned.
func (e *SagaEngine) CreateInstance(ctx context.Context, sagaType, entityID string, workflow domain.Workflow, stepPayloads []map[string]any) (*domain.SagaInstance, error) {
	if len(stepPayloads) != len(workflow.Steps) {
		return nil, &domain.WorkflowMismatchError{
			SagaType:      sagaType,
			WorkflowSteps: len(workflow.Steps),
			PayloadCount:  len(stepPayloads),
		}
	}

	instance, steps := domain.NewSagaInstance(sagaType, entityID, workflow)

	if err := e.repository.CreateInstance(ctx, instance, steps); err != nil {
		return nil, errors.Wrap(err, "failed to create saga instance")
	}

	return instance, nil
}

// ExecuteSaga runs the instance through the workflow. It returns the
// structured result; persistence errors along the way abort the run with
// status FAILED.
func (e *SagaEngine) ExecuteSaga(ctx context.Context, instance *domain.SagaInstance, workflow domain.Workflow, stepPayloads []map[string]any) *SagaResult {
	ctx, span := telemetry.StartSpan(ctx, "saga.execute")
	defer span.End()
	span.SetAttributes(
		attribute.String("saga.id", instance.SagaID),
		attribute.String("saga.type", instance.SagaType),
	)

	instance.Status = domain.SagaStatusInProgress
	if err := e.repository.UpdateInstance(ctx, instance); err != nil {
		return e.failSaga(ctx, instance, "", err)
	}

	e.publishSagaEvent(ctx, events.SagaStartedEvent, instance, "")

	steps, err := e.repository.GetSteps(ctx, instance.SagaID)
	if err != nil {
		return e.failSaga(ctx, instance, "", err)
	}

	var completed []domain.CompensationRecord

	for idx, def := range workflow.Steps {
		step := steps[idx]
		payload := stepPayloads[idx]
		if payload == nil {
			// A JSON null in step_data decodes to a nil map; bindings from
			// the preceding step need a real map to write into.
			payload = map[string]any{}
			stepPayloads[idx] = payload
		}

		now := time.Now()
		step.Status = domain.StepStatusInProgress
		step.StartedAt = &now
		step.RequestData = payload
		instance.CurrentStep = idx

		if err := e.repository.UpdateStep(ctx, step); err != nil {
			return e.failSaga(ctx, instance, def.StepName, err)
		}
		if err := e.repository.UpdateInstance(ctx, instance); err != nil {
			return e.failSaga(ctx, instance, def.StepName, err)
		}

		result := e.invoker.Invoke(ctx, def, payload)
		if !result.Ok {
			return e.failStep(ctx, instance, workflow, step, completed, result.Err)
		}

		finished := time.Now()
		record := result.Compensation
		record.StepIndex = idx

		step.Status = domain.StepStatusCompleted
		step.CompletedAt = &finished
		step.ResponseData = result.Data
		step.CompensationData = &record
		completed = append(completed, record)

		if err := e.repository.UpdateStep(ctx, step); err != nil {
			return e.failSaga(ctx, instance, def.StepName, err)
		}

		if idx+1 < len(workflow.Steps) {
			applyBindings(workflow, def.StepName, workflow.Steps[idx+1].StepName, result, payload, stepPayloads[idx+1])
		}

		log.Printf("saga %s: step %s completed", instance.SagaID, def.StepName)
	}

	now := time.Now()
	instance.Status = domain.SagaStatusCompleted
	instance.CompletedAt = &now
	instance.CompensationData = completed
	if err := e.repository.UpdateInstance(ctx, instance); err != nil {
		return e.failSaga(ctx, instance, "", err)
	}

	e.publishSagaEvent(ctx, events.SagaCompletedEvent, instance, "")
	telemetry.RecordCounter(ctx, "saga_completed_total", "Completed sagas", 1,
		attribute.String("saga_type", instance.SagaType))

	log.Printf("saga %s completed successfully", instance.SagaID)

	return &SagaResult{
		Success: true,
		SagaID:  instance.SagaID,
		Data:    resultData(workflow, completed),
	}
}

// failStep handles a step whose outbound call failed: the step row becomes
// FAILED, every previously completed step is compensated in reverse, and the
// instance ends FAILED. The failed step itself is never compensated.
func (e *SagaEngine) failStep(ctx context.Context, instance *domain.SagaInstance, workflow domain.Workflow, step *domain.SagaStep, completed []domain.CompensationRecord, stepErr *domain.StepExecutionError) *SagaResult {
	log.Printf("saga %s: step %s failed: %v", instance.SagaID, step.StepName, stepErr)

	now := time.Now()
	step.Status = domain.StepStatusFailed
	step.ErrorMessage = stepErr.Error()
	step.CompletedAt = &now
	if err := e.repository.UpdateStep(ctx, step); err != nil {
		log.Printf("saga %s: failed to persist step failure: %v", instance.SagaID, err)
	}

	e.CompensateSaga(ctx, instance, completed)

	instance.Status = domain.SagaStatusFailed
	instance.ErrorMessage = fmt.Sprintf("step %s failed: %v", step.StepName, stepErr)
	instance.CompensationData = completed
	if err := e.repository.UpdateInstance(ctx, instance); err != nil {
		log.Printf("saga %s: failed to persist saga failure: %v", instance.SagaID, err)
	}

	e.publishSagaEvent(ctx, events.SagaFailedEvent, instance, step.StepName)
	telemetry.RecordCounter(ctx, "saga_failed_total", "Failed sagas", 1,
		attribute.String("saga_type", instance.SagaType),
		attribute.String("failed_step", step.StepName))

	return &SagaResult{
		Success:    false,
		SagaID:     instance.SagaID,
		Error:      stepErr.Error(),
		FailedStep: step.StepName,
	}
}

// failSaga handles engine-internal failures (persistence, missing rows).
func (e *SagaEngine) failSaga(ctx context.Context, instance *domain.SagaInstance, stepName string, err error) *SagaResult {
	log.Printf("saga %s execution error: %v", instance.SagaID, err)

	instance.Status = domain.SagaStatusFailed
	instance.ErrorMessage = err.Error()
	if updateErr := e.repository.UpdateInstance(ctx, instance); updateErr != nil {
		log.Printf("saga %s: failed to persist saga failure: %v", instance.SagaID, updateErr)
	}

	e.publishSagaEvent(ctx, events.SagaFailedEvent, instance, stepName)

	return &SagaResult{
		Success:    false,
		SagaID:     instance.SagaID,
		Error:      err.Error(),
		FailedStep: stepName,
	}
}

// CompensateSaga invokes the compensation of every COMPLETED step in strict
// reverse index order. A failing compensation is logged on its step row and
// does not abort the rest of the pass: compensation is best-effort, not
// all-or-nothing.
func (e *SagaEngine) CompensateSaga(ctx context.Context, instance *domain.SagaInstance, records []domain.CompensationRecord) {
	if len(records) == 0 {
		return
	}

	ctx, span := telemetry.StartSpan(ctx, "saga.compensate")
	defer span.End()

	log.Printf("starting compensation for saga %s", instance.SagaID)

	instance.Status = domain.SagaStatusCompensating
	if err := e.repository.UpdateInstance(ctx, instance); err != nil {
		log.Printf("saga %s: failed to persist compensating status: %v", instance.SagaID, err)
	}

	steps, err := e.repository.GetSteps(ctx, instance.SagaID)
	if err != nil {
		log.Printf("saga %s: failed to load steps for compensation: %v", instance.SagaID, err)
		return
	}

	stepsByIndex := make(map[int]*domain.SagaStep, len(steps))
	for _, step := range steps {
		stepsByIndex[step.StepIndex] = step
	}

	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]

		step, ok := stepsByIndex[record.StepIndex]
		if !ok || step.Status != domain.StepStatusCompleted {
			continue
		}

		if err := e.invoker.Compensate(ctx, record); err != nil {
			compErr := &domain.CompensationError{StepName: record.StepName, Cause: err}
			log.Printf("saga %s: %v", instance.SagaID, compErr)
			step.ErrorMessage = compErr.Error()
			if err := e.repository.UpdateStep(ctx, step); err != nil {
				log.Printf("saga %s: failed to persist compensation error: %v", instance.SagaID, err)
			}
			continue
		}

		now := time.Now()
		step.Status = domain.StepStatusCompensated
		step.CompensatedAt = &now
		if err := e.repository.UpdateStep(ctx, step); err != nil {
			log.Printf("saga %s: failed to persist compensated step: %v", instance.SagaID, err)
		}

		log.Printf("saga %s: compensated step %s", instance.SagaID, record.StepName)
	}

	e.publishSagaEvent(ctx, events.SagaCompensatedEvent, instance, "")
}

// applyBindings forwards values from the just-completed step into the next
// step's payload according to the workflow's declarative binding table.
func applyBindings(workflow domain.Workflow, fromStep, toStep string, result domain.StepResult, payload, nextPayload map[string]any) {
	for _, binding := range workflow.BindingsFrom(fromStep, toStep) {
		switch binding.Source {
		case domain.BindingFromResponse:
			if binding.OutputKey == "id" && result.EntityID != "" {
				nextPayload[binding.InputKey] = result.EntityID
			} else if value, ok := result.Data[binding.OutputKey]; ok && value != nil {
				nextPayload[binding.InputKey] = value
			}
		case domain.BindingFromPayload:
			if value, ok := payload[binding.OutputKey]; ok && value != nil {
				nextPayload[binding.InputKey] = value
			}
		}
	}
}

// resultData derives the caller-visible identifiers from completed steps via
// the workflow's result bindings.
func resultData(workflow domain.Workflow, records []domain.CompensationRecord) map[string]any {
	data := map[string]any{"status": "completed"}
	for _, binding := range workflow.Results {
		for _, record := range records {
			if record.StepName == binding.StepName && record.EntityID != "" {
				data[binding.Key] = record.EntityID
			}
		}
	}
	return data
}

func (e *SagaEngine) publishSagaEvent(ctx context.Context, eventType string, instance *domain.SagaInstance, failedStep string) {
	data := map[string]any{
		"saga_id":   instance.SagaID,
		"saga_type": instance.SagaType,
		"entity_id": instance.EntityID,
		"status":    string(instance.Status),
	}
	if failedStep != "" {
		data["failed_step"] = failedStep
	}

	event := events.NewEvent(models.ID(instance.SagaID), eventType, data)
	if err := e.publisher.Publish(ctx, event); err != nil {
		log.Printf("saga %s: failed to publish %s: %v", instance.SagaID, eventType, err)
	}
}
