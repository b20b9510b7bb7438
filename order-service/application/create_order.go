package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/quickeats/delivery-system/order-service/domain"
	"github.com/quickeats/delivery-system/shared/events"
	"github.com/quickeats/delivery-system/shared/models"
	"github.com/quickeats/delivery-system/shared/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrderItemInput is one requested order line
type OrderItemInput struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// CreateOrderCommand represents the command to create an order
type CreateOrderCommand struct {
	CustomerID      string           `json:"customer_id"`
	RestaurantID    string           `json:"restaurant_id"`
	Items           []OrderItemInput `json:"items"`
	DeliveryAddress string           `json:"delivery_address"`
	Currency        string           `json:"currency"`
}

// CreateOrderResponse represents the response after creating an order. The
// id field is the identifier saga callers bind into downstream steps.
type CreateOrderResponse struct {
	ID              string       `json:"id"`
	CustomerID      string       `json:"customer_id"`
	RestaurantID    string       `json:"restaurant_id"`
	Total           models.Money `json:"total"`
	DeliveryAddress string       `json:"delivery_address"`
	Status          string       `json:"status"`
}

// CreateOrder use case creates an order in PENDING_PAYMENT and announces it.
type CreateOrder struct {
	orderRepository domain.OrderRepository
	eventPublisher  events.Publisher
}

// NewCreateOrder creates a new CreateOrder use case
func NewCreateOrder(orderRepository domain.OrderRepository, eventPublisher events.Publisher) *CreateOrder {
	return &CreateOrder{
		orderRepository: orderRepository,
		eventPublisher:  eventPublisher,
	}
}

// Execute creates an order
func (uc *CreateOrder) Execute(ctx context.Context, cmd *CreateOrderCommand) (*CreateOrderResponse, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "create_order",
		trace.WithAttributes(
			attribute.String("customer_id", cmd.CustomerID),
			attribute.String("restaurant_id", cmd.RestaurantID),
		),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "order_operations_total", "Total order operations", 1,
			attribute.String("operation", "create_order"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "order_operation_duration_seconds", "Order operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "create_order"),
			attribute.String("status", status),
		)
	}()

	if err := uc.validateCommand(cmd); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "invalid command")
	}

	customerID, err := models.NewID(cmd.CustomerID)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "invalid customer ID")
	}

	restaurantID, err := models.NewID(cmd.RestaurantID)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "invalid restaurant ID")
	}

	items := make([]domain.OrderItem, len(cmd.Items))
	for i, item := range cmd.Items {
		items[i] = domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: models.NewMoney(item.UnitPrice, cmd.Currency),
		}
	}

	order, err := domain.CreateOrder(customerID, restaurantID, items, cmd.DeliveryAddress, cmd.Currency)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to create order")
	}

	if err := uc.orderRepository.Save(ctx, order); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to save order")
	}

	event := events.NewEvent(order.ID, events.OrderCreatedEvent, domain.OrderCreatedData{
		OrderID:      order.ID,
		CustomerID:   order.CustomerID,
		RestaurantID: order.RestaurantID,
		Total:        order.Total,
		Status:       string(order.Status),
	})
	if err := uc.eventPublisher.Publish(ctx, event); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to publish order created event")
	}

	status = "success"
	span.SetAttributes(attribute.String("order_id", order.ID.String()))

	return &CreateOrderResponse{
		ID:              order.ID.String(),
		CustomerID:      order.CustomerID.String(),
		RestaurantID:    order.RestaurantID.String(),
		Total:           order.Total,
		DeliveryAddress: order.DeliveryAddress,
		Status:          string(order.Status),
	}, nil
}

func (uc *CreateOrder) validateCommand(cmd *CreateOrderCommand) error {
	if cmd.CustomerID == "" {
		return errors.New("customer ID is required")
	}
	if cmd.RestaurantID == "" {
		return errors.New("restaurant ID is required")
	}
	if len(cmd.Items) == 0 {
		return errors.New("at least one item is required")
	}
	if cmd.DeliveryAddress == "" {
		return errors.New("delivery address is required")
	}
	if cmd.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}
