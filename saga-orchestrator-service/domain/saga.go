package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SagaStatus represents the status of a saga instance. The engine sets it
// explicitly at each transition; it is never derived from step rows.
type SagaStatus string

const (
	SagaStatusPending      SagaStatus = "PENDING"
	SagaStatusInProgress   SagaStatus = "IN_PROGRESS"
	SagaStatusCompleted    SagaStatus = "COMPLETED"
	SagaStatusCompensating SagaStatus = "COMPENSATING"
	SagaStatusFailed       SagaStatus = "FAILED"
)

// StepStatus represents the status of a single saga step
type StepStatus string

const (
	StepStatusPending     StepStatus = "PENDING"
	StepStatusInProgress  StepStatus = "IN_PROGRESS"
	StepStatusCompleted   StepStatus = "COMPLETED"
	StepStatusFailed      StepStatus = "FAILED"
	StepStatusCompensated StepStatus = "COMPENSATED"
)

// SagaInstance is the durable record of one saga execution. Instances are
// retained indefinitely for audit and status queries.
type SagaInstance struct {
	SagaID           string
	SagaType         string
	EntityID         string
	Status           SagaStatus
	CurrentStep      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
	CompensationData []CompensationRecord
	ErrorMessage     string
}

// SagaStep is one step row owned by exactly one instance. StepIndex matches
// the step's position in the originating workflow.
type SagaStep struct {
	SagaID           string
	StepIndex        int
	StepName         string
	ServiceName      string
	Status           StepStatus
	RequestData      map[string]any
	ResponseData     map[string]any
	CompensationData *CompensationRecord
	ErrorMessage     string
	StartedAt        *time.Time
	CompletedAt      *time.Time
	CompensatedAt    *time.Time
}

// NewSagaID derives a saga id from the type, the entity and a random suffix.
func NewSagaID(sagaType, entityID string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return sagaType + "_" + entityID + "_" + suffix
}

// NewSagaInstance creates a PENDING instance with one PENDING step row per
// workflow step.
func NewSagaInstance(sagaType, entityID string, workflow Workflow) (*SagaInstance, []*SagaStep) {
	now := time.Now()
	instance := &SagaInstance{
		SagaID:    NewSagaID(sagaType, entityID),
		SagaType:  sagaType,
		EntityID:  entityID,
		Status:    SagaStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	steps := make([]*SagaStep, len(workflow.Steps))
	for idx, def := range workflow.Steps {
		steps[idx] = &SagaStep{
			SagaID:      instance.SagaID,
			StepIndex:   idx,
			StepName:    def.StepName,
			ServiceName: def.ServiceName,
			Status:      StepStatusPending,
		}
	}

	return instance, steps
}

// CompensationRecord is everything needed to undo one completed step. The
// engine collects records in completion order and replays them in reverse.
type CompensationRecord struct {
	StepName           string         `json:"step_name"`
	StepIndex          int            `json:"step_index"`
	ServiceName        string         `json:"service_name"`
	CompensationPath   string         `json:"compensation_path"`
	CompensationMethod string         `json:"compensation_method"`
	EntityID           string         `json:"entity_id"`
	Data               map[string]any `json:"data"`
}

// StepResult is the outcome of invoking one step: either Ok with the
// response and a compensation record, or Err. Failure is a value handled by
// branching, not a panic.
type StepResult struct {
	Ok           bool
	Data         map[string]any
	EntityID     string
	Compensation CompensationRecord
	Err          *StepExecutionError
}

// StepInvoker executes exactly one step as a bounded outbound call, and one
// compensation call. It performs no retries.
type StepInvoker interface {
	Invoke(ctx context.Context, step StepDefinition, payload map[string]any) StepResult
	Compensate(ctx context.Context, record CompensationRecord) error
}

// SagaRepository is the durable state store for instances and steps.
type SagaRepository interface {
	// CreateInstance persists the instance and all of its step rows
	// atomically; nothing is written if any insert fails.
	CreateInstance(ctx context.Context, instance *SagaInstance, steps []*SagaStep) error
	GetInstance(ctx context.Context, sagaID string) (*SagaInstance, error)
	UpdateInstance(ctx context.Context, instance *SagaInstance) error
	GetSteps(ctx context.Context, sagaID string) ([]*SagaStep, error)
	UpdateStep(ctx context.Context, step *SagaStep) error
}

// Identifier of the order entity inside step payloads and path templates.
const (
	OrderIDKey    = "order_id"
	PaymentIDKey  = "payment_id"
	CustomerIDKey = "customer_id"
)
