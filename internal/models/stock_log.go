package models

import (
	"time"

	"github.com/google/uuid"
)

type StockLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ProductID uuid.UUID  `json:"product_id" db:"product_id"`
	Action    string     `json:"action" db:"action"`
	Quantity  int        `json:"quantity" db:"quantity"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	OrderID   *uuid.UUID `json:"order_id" db:"order_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
