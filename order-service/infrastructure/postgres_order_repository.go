package infrastructure

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/order-service/domain"
	"github.com/quickeats/delivery-system/shared/models"
)

var _ domain.OrderRepository = (*PostgresOrderRepository)(nil)

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *sqlx.DB
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository
func NewPostgresOrderRepository(db *sqlx.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// postgresOrder represents an order in the database
type postgresOrder struct {
	ID              string    `db:"id"`
	CustomerID      string    `db:"customer_id"`
	RestaurantID    string    `db:"restaurant_id"`
	Items           string    `db:"items"`
	TotalAmount     int64     `db:"total_amount"`
	Currency        string    `db:"currency"`
	DeliveryAddress string    `db:"delivery_address"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
	Version         int       `db:"version"`
}

// Save inserts a new order
func (r *PostgresOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return errors.Wrap(err, "failed to marshal order items")
	}

	query := `
		INSERT INTO orders (
			id, customer_id, restaurant_id, items, total_amount, currency,
			delivery_address, status, created_at, updated_at, version
		) VALUES (
			:id, :customer_id, :restaurant_id, :items, :total_amount, :currency,
			:delivery_address, :status, :created_at, :updated_at, :version
		)`

	_, err = r.db.NamedExecContext(ctx, query, &postgresOrder{
		ID:              order.ID.String(),
		CustomerID:      order.CustomerID.String(),
		RestaurantID:    order.RestaurantID.String(),
		Items:           string(items),
		TotalAmount:     order.Total.Amount,
		Currency:        order.Total.Currency,
		DeliveryAddress: order.DeliveryAddress,
		Status:          string(order.Status),
		CreatedAt:       order.Timestamps.CreatedAt,
		UpdatedAt:       order.Timestamps.UpdatedAt,
		Version:         order.Version.Value,
	})
	if err != nil {
		return errors.Wrap(err, "failed to insert order")
	}

	return nil
}

// FindByID finds an order by ID, nil when absent.
func (r *PostgresOrderRepository) FindByID(ctx context.Context, id models.ID) (*domain.Order, error) {
	query := `
		SELECT id, customer_id, restaurant_id, items, total_amount, currency,
		       delivery_address, status, created_at, updated_at, version
		FROM orders
		WHERE id = $1`

	var pgOrder postgresOrder
	err := r.db.GetContext(ctx, &pgOrder, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to find order")
	}

	return toDomainOrder(&pgOrder)
}

// UpdateStatusGuarded applies a compare-and-set transition. At-least-once
// event delivery means the same transition can be requested twice; the
// status predicate makes the replay a zero-row update.
func (r *PostgresOrderRepository) UpdateStatusGuarded(ctx context.Context, id models.ID, expected, next models.OrderStatus) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = $2, version = version + 1
		WHERE id = $3 AND status = $4`,
		string(next), time.Now(), id.String(), string(expected))
	if err != nil {
		return false, errors.Wrap(err, "failed to update order status")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}

	return rows == 1, nil
}

func toDomainOrder(pg *postgresOrder) (*domain.Order, error) {
	var items []domain.OrderItem
	if pg.Items != "" {
		if err := json.Unmarshal([]byte(pg.Items), &items); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal order items")
		}
	}

	return &domain.Order{
		ID:              models.ID(pg.ID),
		CustomerID:      models.ID(pg.CustomerID),
		RestaurantID:    models.ID(pg.RestaurantID),
		Items:           items,
		Total:           models.NewMoney(pg.TotalAmount, pg.Currency),
		DeliveryAddress: pg.DeliveryAddress,
		Status:          models.OrderStatus(pg.Status),
		Timestamps: models.Timestamps{
			CreatedAt: pg.CreatedAt,
			UpdatedAt: pg.UpdatedAt,
		},
		Version: models.Version{Value: pg.Version},
	}, nil
}
