package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ID represents a unique identifier
type ID string

// GenerateUUID creates a new UUID
func GenerateUUID() ID {
	return ID(uuid.New().String())
}

// NewID creates an ID from string
func NewID(id string) (ID, error) {
	_, err := uuid.Parse(id)
	if err != nil {
		return "", err
	}
	return ID(id), nil
}

// String returns string representation
func (id ID) String() string {
	return string(id)
}

// Timestamps represents creation and update times
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// NewTimestamps creates new timestamps
func NewTimestamps() Timestamps {
	now := time.Now()
	return Timestamps{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Update updates the UpdatedAt timestamp
func (t Timestamps) Update() Timestamps {
	t.UpdatedAt = time.Now()
	return t
}

// Version represents entity version for optimistic locking
type Version struct {
	Value int
}

// NewVersion creates new version
func NewVersion() Version {
	return Version{Value: 1}
}

// Update increments version
func (v Version) Update() Version {
	v.Value++
	return v
}

// Money represents monetary amount
type Money struct {
	Amount   int64  `json:"amount"`   // Amount in cents
	Currency string `json:"currency"` // Currency code (USD, EUR, etc.)
}

// NewMoney creates a new money value
func NewMoney(amount int64, currency string) Money {
	return Money{
		Amount:   amount,
		Currency: currency,
	}
}

// IsZero checks if money is zero
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// IsPositive checks if money is positive
func (m Money) IsPositive() bool {
	return m.Amount > 0
}

// OrderStatus represents the lifecycle state of an order.
//
// The order entity is written by two independent caller classes: the saga
// orchestrator (synchronous step calls) and asynchronous event handlers in
// other services. Every transition applied by an asynchronous handler must be
// a guarded compare-and-set against the expected prior status, because
// at-least-once delivery can replay an event after its transition has already
// been applied.
type OrderStatus string

const (
	OrderStatusPendingPayment   OrderStatus = "PENDING_PAYMENT"
	OrderStatusConfirmed        OrderStatus = "CONFIRMED"
	OrderStatusAccepted         OrderStatus = "ACCEPTED"
	OrderStatusPreparing        OrderStatus = "PREPARING"
	OrderStatusReadyForDelivery OrderStatus = "READY_FOR_DELIVERY"
	OrderStatusPickedUp         OrderStatus = "PICKED_UP"
	OrderStatusInTransit        OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
)

// orderTransitions is the set of allowed forward transitions. CANCELLED is
// reachable from every non-terminal status.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendingPayment:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:        {OrderStatusAccepted, OrderStatusCancelled},
	OrderStatusAccepted:         {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:        {OrderStatusReadyForDelivery, OrderStatusCancelled},
	OrderStatusReadyForDelivery: {OrderStatusPickedUp, OrderStatusCancelled},
	OrderStatusPickedUp:         {OrderStatusInTransit, OrderStatusCancelled},
	OrderStatusInTransit:        {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransitionTo reports whether the transition from s to next is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// ErrInvalidOrderStatus is returned when parsing an unknown order status.
var ErrInvalidOrderStatus = errors.New("invalid order status")

// ParseOrderStatus validates a raw status string.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(raw)
	switch status {
	case OrderStatusPendingPayment, OrderStatusConfirmed, OrderStatusAccepted,
		OrderStatusPreparing, OrderStatusReadyForDelivery, OrderStatusPickedUp,
		OrderStatusInTransit, OrderStatusDelivered, OrderStatusCancelled:
		return status, nil
	}
	return "", ErrInvalidOrderStatus
}

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusRefunded  PaymentStatus = "REFUNDED"
)

// DriverStatus represents the availability of a delivery driver
type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "AVAILABLE"
	DriverStatusBusy      DriverStatus = "BUSY"
	DriverStatusOffline   DriverStatus = "OFFLINE"
)
