package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfillment state of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipping  OrderStatus = "shipping"
	OrderStatusDelivered OrderStatus = "delivered"
)

// orderStatusRank orders the fulfillment states for monotonicity checks
var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusShipping:  1,
	OrderStatusDelivered: 2,
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderStatusRank[s]
	return ok
}

// CanTransitionOrderStatus reports whether an order may move from one status
// to another. Transitions are strictly forward: pending -> shipping ->
// delivered. Privileged callers may skip ahead (pending -> delivered), but
// never move backwards or repeat the current state.
func CanTransitionOrderStatus(from, to OrderStatus) bool {
	fromRank, ok := orderStatusRank[from]
	if !ok {
		return false
	}
	toRank, ok := orderStatusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// OrderLineRequest is a single (book, quantity) pair in a placement request.
// Input only, never persisted.
type OrderLineRequest struct {
	BookID   uuid.UUID `json:"book_id"`
	Quantity int       `json:"quantity"`
}

// OrderLine is a committed order line with the unit price captured at commit
// time. Later catalog price changes never alter it.
type OrderLine struct {
	BookID         uuid.UUID `json:"book_id"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// Order is a committed purchase. Total is immutable once set; status only
// moves forward through CanTransitionOrderStatus.
type Order struct {
	ID         uuid.UUID   `json:"id"`
	UserID     string      `json:"user_id"`
	Lines      []OrderLine `json:"lines"`
	TotalCents int64       `json:"total_cents"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
}

// OrderFilter narrows order listings. A nil UserID lists all orders
// (privileged callers only).
type OrderFilter struct {
	UserID *string
	Limit  int
}

// Caller identifies who is invoking an order operation. Authorization itself
// is an upstream concern; services only use this to scope visibility and to
// gate privileged mutations.
type Caller struct {
	UserID     string
	Privileged bool
}
