package application

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
)

// ErrSagaNotCompensable is returned when a manual compensation is requested
// for an instance whose status does not allow it.
var ErrSagaNotCompensable = errors.New("saga is not in a compensable status")

// CompensateSagaCommand is the input for a manual compensation
type CompensateSagaCommand struct {
	SagaID string
}

// CompensateSaga re-runs the reverse compensation pass out-of-band, using
// the compensation records stored on the instance. Steps already
// COMPENSATED are skipped, so repeating the trigger is safe.
type CompensateSaga struct {
	repository domain.SagaRepository
	engine     *SagaEngine
}

// NewCompensateSaga creates a new CompensateSaga use case
func NewCompensateSaga(repository domain.SagaRepository, engine *SagaEngine) *CompensateSaga {
	return &CompensateSaga{
		repository: repository,
		engine:     engine,
	}
}

// Execute triggers the compensation pass
func (uc *CompensateSaga) Execute(ctx context.Context, cmd *CompensateSagaCommand) error {
	instance, err := uc.repository.GetInstance(ctx, cmd.SagaID)
	if err != nil {
		return errors.Wrap(err, "failed to load saga instance")
	}
	if instance == nil {
		return ErrSagaNotFound
	}

	switch instance.Status {
	case domain.SagaStatusCompleted, domain.SagaStatusInProgress, domain.SagaStatusFailed:
	default:
		return ErrSagaNotCompensable
	}

	uc.engine.CompensateSaga(ctx, instance, instance.CompensationData)
	return nil
}
