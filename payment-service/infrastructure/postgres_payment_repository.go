package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/payment-service/domain"
	"github.com/quickeats/delivery-system/shared/models"
)

var _ domain.PaymentRepository = (*PostgresPaymentRepository)(nil)

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	db *sqlx.DB
}

// NewPostgresPaymentRepository creates a new PostgresPaymentRepository
func NewPostgresPaymentRepository(db *sqlx.DB) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{db: db}
}

// postgresPayment represents a payment in the database
type postgresPayment struct {
	ID               string    `db:"id"`
	OrderID          string    `db:"order_id"`
	CustomerID       string    `db:"customer_id"`
	Amount           int64     `db:"amount"`
	Currency         string    `db:"currency"`
	Status           string    `db:"status"`
	GatewayReference *string   `db:"gateway_reference"`
	FailureReason    *string   `db:"failure_reason"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
	Version          int       `db:"version"`
}

// Save inserts a new payment
func (r *PostgresPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			id, order_id, customer_id, amount, currency, status,
			gateway_reference, failure_reason, created_at, updated_at, version
		) VALUES (
			:id, :order_id, :customer_id, :amount, :currency, :status,
			:gateway_reference, :failure_reason, :created_at, :updated_at, :version
		)`

	_, err := r.db.NamedExecContext(ctx, query, toPostgresPayment(payment))
	if err != nil {
		return errors.Wrap(err, "failed to insert payment")
	}

	return nil
}

// Update persists the mutable fields of a payment with optimistic locking.
func (r *PostgresPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	query := `
		UPDATE payments
		SET status = :status, gateway_reference = :gateway_reference,
		    failure_reason = :failure_reason, updated_at = :updated_at, version = :version
		WHERE id = :id AND version = :old_version`

	pg := toPostgresPayment(payment)
	_, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":                pg.ID,
		"status":            pg.Status,
		"gateway_reference": pg.GatewayReference,
		"failure_reason":    pg.FailureReason,
		"updated_at":        pg.UpdatedAt,
		"version":           pg.Version,
		"old_version":       pg.Version - 1, // Optimistic locking
	})
	if err != nil {
		return errors.Wrap(err, "failed to update payment")
	}

	return nil
}

// FindByID finds a payment by ID, nil when absent.
func (r *PostgresPaymentRepository) FindByID(ctx context.Context, id models.ID) (*domain.Payment, error) {
	return r.findOne(ctx, "id = $1", id.String())
}

// FindByOrderID finds the payment charged for an order, nil when absent.
func (r *PostgresPaymentRepository) FindByOrderID(ctx context.Context, orderID models.ID) (*domain.Payment, error) {
	return r.findOne(ctx, "order_id = $1", orderID.String())
}

func (r *PostgresPaymentRepository) findOne(ctx context.Context, predicate, arg string) (*domain.Payment, error) {
	query := `
		SELECT id, order_id, customer_id, amount, currency, status,
		       gateway_reference, failure_reason, created_at, updated_at, version
		FROM payments
		WHERE ` + predicate

	var pg postgresPayment
	err := r.db.GetContext(ctx, &pg, query, arg)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find payment")
	}

	return toDomainPayment(&pg), nil
}

func toPostgresPayment(payment *domain.Payment) *postgresPayment {
	pg := &postgresPayment{
		ID:         payment.ID.String(),
		OrderID:    payment.OrderID.String(),
		CustomerID: payment.CustomerID.String(),
		Amount:     payment.Amount.Amount,
		Currency:   payment.Amount.Currency,
		Status:     string(payment.Status),
		CreatedAt:  payment.Timestamps.CreatedAt,
		UpdatedAt:  payment.Timestamps.UpdatedAt,
		Version:    payment.Version.Value,
	}

	if payment.GatewayReference != "" {
		pg.GatewayReference = &payment.GatewayReference
	}
	if payment.FailureReason != "" {
		pg.FailureReason = &payment.FailureReason
	}

	return pg
}

func toDomainPayment(pg *postgresPayment) *domain.Payment {
	payment := &domain.Payment{
		ID:         models.ID(pg.ID),
		OrderID:    models.ID(pg.OrderID),
		CustomerID: models.ID(pg.CustomerID),
		Amount:     models.NewMoney(pg.Amount, pg.Currency),
		Status:     models.PaymentStatus(pg.Status),
		Timestamps: models.Timestamps{
			CreatedAt: pg.CreatedAt,
			UpdatedAt: pg.UpdatedAt,
		},
		Version: models.Version{Value: pg.Version},
	}

	if pg.GatewayReference != nil {
		payment.GatewayReference = *pg.GatewayReference
	}
	if pg.FailureReason != nil {
		payment.FailureReason = *pg.FailureReason
	}

	return payment
}
