package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
)

// ErrSagaNotFound is returned when no instance exists for the given id.
var ErrSagaNotFound = errors.New("saga not found")

// GetSagaStatusQuery is the input for a status query
type GetSagaStatusQuery struct {
	SagaID string
}

// StepSummary is one step row in a status response
type StepSummary struct {
	StepIndex     int        `json:"step_index"`
	StepName      string     `json:"step_name"`
	ServiceName   string     `json:"service_name"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CompensatedAt *time.Time `json:"compensated_at,omitempty"`
}

// SagaStatusResponse is the full status of a saga instance
type SagaStatusResponse struct {
	SagaID       string        `json:"saga_id"`
	SagaType     string        `json:"saga_type"`
	EntityID     string        `json:"entity_id"`
	Status       string        `json:"status"`
	CurrentStep  int           `json:"current_step"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
	Steps        []StepSummary `json:"steps"`
}

// GetSagaStatus returns an instance plus its ordered step summaries.
type GetSagaStatus struct {
	repository domain.SagaRepository
}

// NewGetSagaStatus creates a new GetSagaStatus use case
func NewGetSagaStatus(repository domain.SagaRepository) *GetSagaStatus {
	return &GetSagaStatus{repository: repository}
}

// Execute runs the status query
func (uc *GetSagaStatus) Execute(ctx context.Context, query *GetSagaStatusQuery) (*SagaStatusResponse, error) {
	instance, err := uc.repository.GetInstance(ctx, query.SagaID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load saga instance")
	}
	if instance == nil {
		return nil, ErrSagaNotFound
	}

	steps, err := uc.repository.GetSteps(ctx, query.SagaID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load saga steps")
	}

	summaries := make([]StepSummary, len(steps))
	for i, step := range steps {
		summaries[i] = StepSummary{
			StepIndex:     step.StepIndex,
			StepName:      step.StepName,
			ServiceName:   step.ServiceName,
			Status:        string(step.Status),
			ErrorMessage:  step.ErrorMessage,
			StartedAt:     step.StartedAt,
			CompletedAt:   step.CompletedAt,
			CompensatedAt: step.CompensatedAt,
		}
	}

	return &SagaStatusResponse{
		SagaID:       instance.SagaID,
		SagaType:     instance.SagaType,
		EntityID:     instance.EntityID,
		Status:       string(instance.Status),
		CurrentStep:  instance.CurrentStep,
		CreatedAt:    instance.CreatedAt,
		UpdatedAt:    instance.UpdatedAt,
		CompletedAt:  instance.CompletedAt,
		ErrorMessage: instance.ErrorMessage,
		Steps:        summaries,
	}, nil
}
