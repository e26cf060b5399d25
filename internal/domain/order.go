package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order-related domain errors.
var (
	ErrOrderNotFound        = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrSubmissionInFlight   = &Error{Code: ECONFLICT, Message: "An order submission is already in progress"}
	ErrPhoneRequired        = &Error{Code: EPRECONDITION, Message: "A contact phone is required before ordering"}
	ErrOrderTerminal        = &Error{Code: ECONFLICT, Message: "Order is in a terminal state"}
	ErrIllegalTransition    = &Error{Code: ECONFLICT, Message: "Illegal order status transition"}
	ErrOperatorOnly         = &Error{Code: EFORBIDDEN, Message: "Operator access required"}
	ErrAddressNotOwned      = &Error{Code: EFORBIDDEN, Message: "Address belongs to a different customer"}
)

// OrderService provides order submission and retrieval for customers.
type OrderService interface {
	// Submit consumes the pending checkout snapshot and converts the cart
	// into an order. Item prices are resolved from the catalog at this
	// moment, never from the cart.
	Submit(ctx context.Context, userID uuid.UUID) (*OrderDetail, error)

	// Get retrieves one of the customer's orders with items and address.
	Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderDetail, error)

	// List retrieves the customer's orders whose status is in the given
	// set, newest first. An empty set means all statuses.
	List(ctx context.Context, userID uuid.UUID, statuses []OrderStatus) ([]Order, error)
}

// OrderStatusService drives the operator-facing status machine.
type OrderStatusService interface {
	// UpdateStatus applies one legal transition to an order. The caller
	// must be an allow-listed operator; both the allow-list and the
	// transition table are enforced here regardless of the client.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, next OrderStatus) (*Order, error)

	// ListAll retrieves orders across customers for the admin screen,
	// optionally filtered by status, newest first.
	ListAll(ctx context.Context, statuses []OrderStatus, limit int) ([]AdminOrder, error)
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "pending"
	StatusConfirmed      OrderStatus = "confirmed"
	StatusOutForDelivery OrderStatus = "out_for_delivery"
	StatusDelivered      OrderStatus = "delivered"
	StatusCanceled       OrderStatus = "canceled"
)

// Valid reports whether the status is one of the known values.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusOutForDelivery, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCanceled
}

// statusTransitions is the complete legal transition table. Forward
// progress is linear; cancellation is reachable from every non-terminal
// state.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:        {StatusConfirmed, StatusCanceled},
	StatusConfirmed:      {StatusOutForDelivery, StatusCanceled},
	StatusOutForDelivery: {StatusDelivered, StatusCanceled},
	StatusDelivered:      {},
	StatusCanceled:       {},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given one.
func NextStatuses(from OrderStatus) []OrderStatus {
	return statusTransitions[from]
}

// ActiveStatuses are the states shown on the customer's "current orders"
// tab; HistoryStatuses are the settled ones.
var (
	ActiveStatuses  = []OrderStatus{StatusPending, StatusConfirmed, StatusOutForDelivery}
	HistoryStatuses = []OrderStatus{StatusDelivered, StatusCanceled}
)

// Order is a placed order. Monetary fields are integer cents; TotalCents
// is subtotal minus discount, floored at zero, fixed at submission.
type Order struct {
	ID              uuid.UUID      `json:"id"`
	UserID          uuid.UUID      `json:"user_id"`
	AddressID       uuid.UUID      `json:"address_id"`
	Status          OrderStatus    `json:"status"`
	DeliveryType    DeliveryType   `json:"delivery_type"`
	ScheduledDate   string         `json:"scheduled_date,omitempty"`
	ScheduledPeriod DeliveryPeriod `json:"scheduled_period,omitempty"`
	PaymentMethod   PaymentMethod  `json:"payment_method"`
	DiscountCents   int64          `json:"discount_cents"`
	TotalCents      int64          `json:"total_cents"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// OrderItem is one line of a placed order. UnitPriceCents is the catalog
// price at the moment of submission and never changes afterwards.
type OrderItem struct {
	ID             uuid.UUID `json:"id"`
	OrderID        uuid.UUID `json:"order_id"`
	ProductID      uuid.UUID `json:"product_id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// LineTotal returns unit price times quantity for this line.
func (i OrderItem) LineTotal() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// OrderDetail aggregates an order with its items and delivery address.
type OrderDetail struct {
	Order   Order       `json:"order"`
	Items   []OrderItem `json:"items"`
	Address Address     `json:"address"`
}

// AdminOrder is the operator list view: the order plus customer contact
// fields and the item count.
type AdminOrder struct {
	Order
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	ItemCount     int    `json:"item_count"`
}

// OrderTotal computes the charge for an order: subtotal minus the clamped
// discount, never negative.
func OrderTotal(subtotalCents, discountCents int64) int64 {
	total := subtotalCents - ClampDiscount(discountCents, subtotalCents)
	if total < 0 {
		return 0
	}
	return total
}
