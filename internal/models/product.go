package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductSearchFilter holds search and filter criteria for product queries
type ProductSearchFilter struct {
	Query        string     `json:"query,omitempty"`         // Full-text search across name, description, sku, category
	Category     *string    `json:"category,omitempty"`      // Filter by category
	Status       *string    `json:"status,omitempty"`        // Status filter (Available, Out of Stock, etc.)
	MinQuantity  *int       `json:"min_quantity,omitempty"`  // Minimum stock quantity
	MaxQuantity  *int       `json:"max_quantity,omitempty"`  // Maximum stock quantity
	ExpiryBefore *time.Time `json:"expiry_before,omitempty"` // Expiry before date
	ExpiryAfter  *time.Time `json:"expiry_after,omitempty"`  // Expiry after date
	SortBy       string     `json:"sort_by,omitempty"`       // Sort field: name, created_at, stock_qty, price
	SortOrder    string     `json:"sort_order,omitempty"`    // Sort order: asc, desc
	Limit        int        `json:"limit,omitempty"`         // Page size (default: 50)
	Offset       int        `json:"offset,omitempty"`        // Page offset
}

type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	SKU         string     `json:"sku" db:"sku"`
	Category    string     `json:"category" db:"category"`
	Description *string    `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	StockQty    int        `json:"stock_qty" db:"stock_qty"`
	Status      string     `json:"status" db:"status"`
	Location    *string    `json:"location" db:"location"`
	ImageObject *string    `json:"image_object" db:"image_object"`
	ExpiryDate  *time.Time `json:"expiry_date" db:"expiry_date"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// ProductRef is the minimal projection of a product joined into an order
// line (name, category, sku, price, expiry_date, stock_qty).
type ProductRef struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	SKU        string     `json:"sku"`
	Category   string     `json:"category"`
	Price      float64    `json:"price"`
	ExpiryDate *time.Time `json:"expiry_date"`
	StockQty   int        `json:"stock_qty"`
}

// Ref returns the joined projection of the product.
func (p *Product) Ref() *ProductRef {
	return &ProductRef{
		ID:         p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		Category:   p.Category,
		Price:      p.Price,
		ExpiryDate: p.ExpiryDate,
		StockQty:   p.StockQty,
	}
}
