package domain

import (
	"context"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/shared/events"
	"github.com/quickeats/delivery-system/shared/models"
)

// OrderItem is one line of an order
type OrderItem struct {
	ProductID string       `json:"product_id"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	UnitPrice models.Money `json:"unit_price"`
}

// Order aggregate root. Status transitions follow the lifecycle contract in
// shared/models; asynchronous writers must go through the repository's
// guarded update.
type Order struct {
	ID              models.ID          `json:"id"`
	CustomerID      models.ID          `json:"customer_id"`
	RestaurantID    models.ID          `json:"restaurant_id"`
	Items           []OrderItem        `json:"items"`
	Total           models.Money       `json:"total"`
	DeliveryAddress string             `json:"delivery_address"`
	Status          models.OrderStatus `json:"status"`
	Timestamps      models.Timestamps
	Version         models.Version
}

// CreateOrder factory method. New orders always start in PENDING_PAYMENT.
func CreateOrder(customerID, restaurantID models.ID, items []OrderItem, deliveryAddress, currency string) (*Order, error) {
	if len(items) == 0 {
		return nil, errors.New("order must contain at least one item")
	}

	var total int64
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, errors.New("item quantity must be positive")
		}
		if !item.UnitPrice.IsPositive() {
			return nil, errors.New("item unit price must be positive")
		}
		total += item.UnitPrice.Amount * int64(item.Quantity)
	}

	return &Order{
		ID:              models.GenerateUUID(),
		CustomerID:      customerID,
		RestaurantID:    restaurantID,
		Items:           items,
		Total:           models.NewMoney(total, currency),
		DeliveryAddress: deliveryAddress,
		Status:          models.OrderStatusPendingPayment,
		Timestamps:      models.NewTimestamps(),
		Version:         models.NewVersion(),
	}, nil
}

// OrderRepository persists orders
type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id models.ID) (*Order, error)
	// UpdateStatusGuarded applies the transition only if the stored status
	// still equals expected. The bool result says whether a row changed;
	// false with a nil error means another writer got there first.
	UpdateStatusGuarded(ctx context.Context, id models.ID, expected, next models.OrderStatus) (bool, error)
}

// ErrOrderNotFound is returned when no order exists for the given id.
var ErrOrderNotFound = errors.New("order not found")

// statusEventTypes maps a reached status to the lifecycle event announcing it.
var statusEventTypes = map[models.OrderStatus]string{
	models.OrderStatusConfirmed:        events.OrderConfirmedEvent,
	models.OrderStatusAccepted:         events.OrderAcceptedEvent,
	models.OrderStatusPreparing:        events.OrderPreparingEvent,
	models.OrderStatusReadyForDelivery: events.OrderReadyForDeliveryEvent,
	models.OrderStatusDelivered:        events.OrderDeliveredEvent,
	models.OrderStatusCancelled:        events.OrderCancelledEvent,
}

// EventTypeForStatus returns the lifecycle event type announcing that an
// order reached the given status.
func EventTypeForStatus(status models.OrderStatus) (string, bool) {
	eventType, ok := statusEventTypes[status]
	return eventType, ok
}

// OrderCreatedData is the payload of order.created
type OrderCreatedData struct {
	OrderID      models.ID    `json:"order_id"`
	CustomerID   models.ID    `json:"customer_id"`
	RestaurantID models.ID    `json:"restaurant_id"`
	Total        models.Money `json:"total"`
	Status       string       `json:"status"`
}

// OrderStatusChangedData is the payload of every lifecycle transition event
type OrderStatusChangedData struct {
	OrderID        models.ID `json:"order_id"`
	PreviousStatus string    `json:"previous_status"`
	Status         string    `json:"status"`
}
