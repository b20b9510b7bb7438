package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
)

var _ domain.SagaRepository = (*PostgresSagaRepository)(nil)

// PostgresSagaRepository implements the saga state store using PostgreSQL.
// Payloads cross the persistence boundary as serialized JSON; everything
// engine-side stays typed.
type PostgresSagaRepository struct {
	db *sqlx.DB
}

// NewPostgresSagaRepository creates a new PostgresSagaRepository
func NewPostgresSagaRepository(db *sqlx.DB) *PostgresSagaRepository {
	return &PostgresSagaRepository{db: db}
}

type postgresSagaInstance struct {
	SagaID           string     `db:"saga_id"`
	SagaType         string     `db:"saga_type"`
	EntityID         string     `db:"entity_id"`
	Status           string     `db:"status"`
	CurrentStep      int        `db:"current_step"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
	CompletedAt      *time.Time `db:"completed_at"`
	CompensationData *string    `db:"compensation_data"`
	ErrorMessage     *string    `db:"error_message"`
}

type postgresSagaStep struct {
	SagaID           string     `db:"saga_id"`
	StepIndex        int        `db:"step_index"`
	StepName         string     `db:"step_name"`
	ServiceName      string     `db:"service_name"`
	Status           string     `db:"status"`
	RequestData      *string    `db:"request_data"`
	ResponseData     *string    `db:"response_data"`
	CompensationData *string    `db:"compensation_data"`
	ErrorMessage     *string    `db:"error_message"`
	StartedAt        *time.Time `db:"started_at"`
	CompletedAt      *time.Time `db:"completed_at"`
	CompensatedAt    *time.Time `db:"compensated_at"`
}

// CreateInstance inserts the instance row and all step rows in one
// transaction.
func (r *PostgresSagaRepository) CreateInstance(ctx context.Context, instance *domain.SagaInstance, steps []*domain.SagaStep) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	pgInstance, err := toPostgresInstance(instance)
	if err != nil {
		return err
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO saga_instances (
			saga_id, saga_type, entity_id, status, current_step,
			created_at, updated_at, completed_at, compensation_data, error_message
		) VALUES (
			:saga_id, :saga_type, :entity_id, :status, :current_step,
			:created_at, :updated_at, :completed_at, :compensation_data, :error_message
		)`, pgInstance)
	if err != nil {
		return errors.Wrap(err, "failed to insert saga instance")
	}

	for _, step := range steps {
		pgStep, err := toPostgresStep(step)
		if err != nil {
			return err
		}

		_, err = tx.NamedExecContext(ctx, `
			INSERT INTO saga_steps (
				saga_id, step_index, step_name, service_name, status,
				request_data, response_data, compensation_data, error_message,
				started_at, completed_at, compensated_at
			) VALUES (
				:saga_id, :step_index, :step_name, :service_name, :status,
				:request_data, :response_data, :compensation_data, :error_message,
				:started_at, :completed_at, :compensated_at
			)`, pgStep)
		if err != nil {
			return errors.Wrap(err, "failed to insert saga step")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit saga instance")
	}

	return nil
}

// GetInstance finds an instance by saga id, nil when absent.
func (r *PostgresSagaRepository) GetInstance(ctx context.Context, sagaID string) (*domain.SagaInstance, error) {
	var pgInstance postgresSagaInstance
	err := r.db.GetContext(ctx, &pgInstance, `
		SELECT saga_id, saga_type, entity_id, status, current_step,
		       created_at, updated_at, completed_at, compensation_data, error_message
		FROM saga_instances
		WHERE saga_id = $1`, sagaID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find saga instance")
	}

	return toDomainInstance(&pgInstance)
}

// UpdateInstance persists the mutable fields of the instance.
func (r *PostgresSagaRepository) UpdateInstance(ctx context.Context, instance *domain.SagaInstance) error {
	instance.UpdatedAt = time.Now()

	pgInstance, err := toPostgresInstance(instance)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `
		UPDATE saga_instances
		SET status = :status, current_step = :current_step, updated_at = :updated_at,
		    completed_at = :completed_at, compensation_data = :compensation_data,
		    error_message = :error_message
		WHERE saga_id = :saga_id`, pgInstance)
	if err != nil {
		return errors.Wrap(err, "failed to update saga instance")
	}

	return nil
}

// GetSteps returns the step rows of an instance ordered by step index.
func (r *PostgresSagaRepository) GetSteps(ctx context.Context, sagaID string) ([]*domain.SagaStep, error) {
	var pgSteps []postgresSagaStep
	err := r.db.SelectContext(ctx, &pgSteps, `
		SELECT saga_id, step_index, step_name, service_name, status,
		       request_data, response_data, compensation_data, error_message,
		       started_at, completed_at, compensated_at
		FROM saga_steps
		WHERE saga_id = $1
		ORDER BY step_index`, sagaID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find saga steps")
	}

	steps := make([]*domain.SagaStep, len(pgSteps))
	for i := range pgSteps {
		step, err := toDomainStep(&pgSteps[i])
		if err != nil {
			return nil, err
		}
		steps[i] = step
	}

	return steps, nil
}

// UpdateStep persists the mutable fields of one step row.
func (r *PostgresSagaRepository) UpdateStep(ctx context.Context, step *domain.SagaStep) error {
	pgStep, err := toPostgresStep(step)
	if err != nil {
		return err
	}

	_, err = r.db.NamedExecContext(ctx, `
		UPDATE saga_steps
		SET status = :status, request_data = :request_data, response_data = :response_data,
		    compensation_data = :compensation_data, error_message = :error_message,
		    started_at = :started_at, completed_at = :completed_at, compensated_at = :compensated_at
		WHERE saga_id = :saga_id AND step_index = :step_index`, pgStep)
	if err != nil {
		return errors.Wrap(err, "failed to update saga step")
	}

	return nil
}

func toPostgresInstance(instance *domain.SagaInstance) (*postgresSagaInstance, error) {
	pg := &postgresSagaInstance{
		SagaID:      instance.SagaID,
		SagaType:    instance.SagaType,
		EntityID:    instance.EntityID,
		Status:      string(instance.Status),
		CurrentStep: instance.CurrentStep,
		CreatedAt:   instance.CreatedAt,
		UpdatedAt:   instance.UpdatedAt,
		CompletedAt: instance.CompletedAt,
	}

	if instance.ErrorMessage != "" {
		pg.ErrorMessage = &instance.ErrorMessage
	}

	if instance.CompensationData != nil {
		data, err := json.Marshal(instance.CompensationData)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal compensation data")
		}
		s := string(data)
		pg.CompensationData = &s
	}

	return pg, nil
}

func toDomainInstance(pg *postgresSagaInstance) (*domain.SagaInstance, error) {
	instance := &domain.SagaInstance{
		SagaID:      pg.SagaID,
		SagaType:    pg.SagaType,
		EntityID:    pg.EntityID,
		Status:      domain.SagaStatus(pg.Status),
		CurrentStep: pg.CurrentStep,
		CreatedAt:   pg.CreatedAt,
		UpdatedAt:   pg.UpdatedAt,
		CompletedAt: pg.CompletedAt,
	}

	if pg.ErrorMessage != nil {
		instance.ErrorMessage = *pg.ErrorMessage
	}

	if pg.CompensationData != nil {
		if err := json.Unmarshal([]byte(*pg.CompensationData), &instance.CompensationData); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal compensation data")
		}
	}

	return instance, nil
}

func toPostgresStep(step *domain.SagaStep) (*postgresSagaStep, error) {
	pg := &postgresSagaStep{
		SagaID:        step.SagaID,
		StepIndex:     step.StepIndex,
		StepName:      step.StepName,
		ServiceName:   step.ServiceName,
		Status:        string(step.Status),
		StartedAt:     step.StartedAt,
		CompletedAt:   step.CompletedAt,
		CompensatedAt: step.CompensatedAt,
	}

	if step.ErrorMessage != "" {
		pg.ErrorMessage = &step.ErrorMessage
	}

	var err error
	if pg.RequestData, err = marshalOptional(step.RequestData); err != nil {
		return nil, err
	}
	if pg.ResponseData, err = marshalOptional(step.ResponseData); err != nil {
		return nil, err
	}
	if step.CompensationData != nil {
		data, err := json.Marshal(step.CompensationData)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal step compensation data")
		}
		s := string(data)
		pg.CompensationData = &s
	}

	return pg, nil
}

func toDomainStep(pg *postgresSagaStep) (*domain.SagaStep, error) {
	step := &domain.SagaStep{
		SagaID:        pg.SagaID,
		StepIndex:     pg.StepIndex,
		StepName:      pg.StepName,
		ServiceName:   pg.ServiceName,
		Status:        domain.StepStatus(pg.Status),
		StartedAt:     pg.StartedAt,
		CompletedAt:   pg.CompletedAt,
		CompensatedAt: pg.CompensatedAt,
	}

	if pg.ErrorMessage != nil {
		step.ErrorMessage = *pg.ErrorMessage
	}

	if pg.RequestData != nil {
		if err := json.Unmarshal([]byte(*pg.RequestData), &step.RequestData); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal request data")
		}
	}
	if pg.ResponseData != nil {
		if err := json.Unmarshal([]byte(*pg.ResponseData), &step.ResponseData); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal response data")
		}
	}
	if pg.CompensationData != nil {
		var record domain.CompensationRecord
		if err := json.Unmarshal([]byte(*pg.CompensationData), &record); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal step compensation data")
		}
		step.CompensationData = &record
	}

	return step, nil
}

func marshalOptional(data map[string]any) (*string, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal payload")
	}
	s := string(raw)
	return &s, nil
}
