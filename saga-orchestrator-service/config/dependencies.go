package config

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/application"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/domain"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/handlers"
	"github.com/quickeats/delivery-system/saga-orchestrator-service/infrastructure"
	sharedinfra "github.com/quickeats/delivery-system/shared/infrastructure"
	"github.com/quickeats/delivery-system/shared/telemetry"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	SagaRepository *infrastructure.PostgresSagaRepository

	// Domain
	WorkflowRegistry *domain.WorkflowRegistry
	StepInvoker      *infrastructure.HTTPStepInvoker

	// Use Cases
	SagaEngine     *application.SagaEngine
	StartSaga      *application.StartSaga
	GetSagaStatus  *application.GetSagaStatus
	CompensateSaga *application.CompensateSaga

	// HTTP Handlers
	SagaHandlers *handlers.SagaHandlers

	// Infrastructure
	EventPublisher *sharedinfra.SNSPublisherAdapter

	// Telemetry
	Telemetry         *telemetry.Telemetry
	TelemetryShutdown func()
}

func BuildDependencies(ctx context.Context, config *Config) (*Dependencies, error) {
	deps := &Dependencies{}

	// Initialize telemetry first
	if config.Telemetry.Enabled {
		telConfig := telemetry.SagaOrchestratorConfig.WithOTLPEndpoint(config.Telemetry.OTLPEndpoint)
		tel, telemetryShutdown, err := telemetry.InitTelemetry(ctx, telConfig)
		if err != nil {
			log.Printf("Failed to initialize telemetry: %v", err)
			// Continue without telemetry rather than failing
		} else {
			deps.Telemetry = tel
			deps.TelemetryShutdown = telemetryShutdown
		}
	}

	// Initialize database
	db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	deps.DB = db

	// Initialize AWS infrastructure
	eventPublisher, err := sharedinfra.NewSNSPublisherAdapter(ctx, config.AWS.SNSTopicArn)
	if err != nil {
		return nil, fmt.Errorf("failed to create SNS publisher: %w", err)
	}
	deps.EventPublisher = eventPublisher

	// Initialize repositories and domain services
	deps.SagaRepository = infrastructure.NewPostgresSagaRepository(db)
	deps.WorkflowRegistry = domain.DefaultRegistry()
	deps.StepInvoker = infrastructure.NewHTTPStepInvoker(config.ServiceURLs())

	// Initialize use cases
	deps.SagaEngine = application.NewSagaEngine(deps.SagaRepository, deps.StepInvoker, eventPublisher)
	deps.StartSaga = application.NewStartSaga(deps.WorkflowRegistry, deps.SagaEngine)
	deps.GetSagaStatus = application.NewGetSagaStatus(deps.SagaRepository)
	deps.CompensateSaga = application.NewCompensateSaga(deps.SagaRepository, deps.SagaEngine)

	// Initialize handlers
	deps.SagaHandlers = handlers.NewSagaHandlers(deps.StartSaga, deps.GetSagaStatus, deps.CompensateSaga)

	return deps, nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if d.EventPublisher != nil {
		if err := d.EventPublisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}

	if d.TelemetryShutdown != nil {
		d.TelemetryShutdown()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
