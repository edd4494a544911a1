package models

import (
	"time"

	"github.com/google/uuid"
)

// Order types. Anything other than OrderTypeInward counts as outward
// for reporting purposes, unrecognised values included.
const (
	OrderTypeInward  = "inward"
	OrderTypeOutward = "outward"
)

type Order struct {
	ID           uuid.UUID   `json:"id" db:"id"`
	OrderType    string      `json:"order_type" db:"order_type"`
	Counterparty string      `json:"counterparty" db:"counterparty"`
	HandledBy    uuid.UUID   `json:"handled_by" db:"handled_by"`
	Lines        []OrderLine `json:"lines"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderLine is one product entry within an order. UnitPrice and Category
// are optional denormalized copies taken at order time; when nil the
// referenced product's own price/category apply. Quantity defaults to 1
// when nil.
type OrderLine struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	OrderID   uuid.UUID   `json:"order_id" db:"order_id"`
	ProductID *uuid.UUID  `json:"product_id" db:"product_id"`
	Product   *ProductRef `json:"product,omitempty"`
	Quantity  *int        `json:"quantity" db:"quantity"`
	UnitPrice *float64    `json:"unit_price" db:"unit_price"`
	Category  *string     `json:"category" db:"category"`
}

// IsInward reports whether the order adds stock.
func (o *Order) IsInward() bool {
	return o.OrderType == OrderTypeInward
}
