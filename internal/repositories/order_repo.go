package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stocksense/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, limit, offset int) ([]*models.Order, error)
	// ListByHandler returns the orders handled by one user, newest first,
	// with each line's referenced product joined in.
	ListByHandler(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type orderRepo struct {
	db DB
}

func NewOrderRepository(db DB) OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, order_type, counterparty, handled_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := r.db.Exec(ctx, query, order.ID, order.OrderType, order.Counterparty, order.HandledBy, createdAt); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	lineQuery := `
		INSERT INTO order_lines (id, order_id, product_id, quantity, unit_price, category)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.OrderID = order.ID
		if _, err := r.db.Exec(ctx, lineQuery, line.ID, line.OrderID, line.ProductID, line.Quantity, line.UnitPrice, line.Category); err != nil {
			return fmt.Errorf("create order line: %w", err)
		}
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `
		SELECT id, order_type, counterparty, handled_by, created_at, updated_at
		FROM orders
		WHERE id = $1
	`
	order := &models.Order{}
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.OrderType, &order.Counterparty,
		&order.HandledBy, &order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}

	lines, err := r.loadLines(ctx, []uuid.UUID{order.ID})
	if err != nil {
		return nil, err
	}
	order.Lines = lines[order.ID]
	return order, nil
}

func (r *orderRepo) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	query := `
		SELECT id, order_type, counterparty, handled_by, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	var ids []uuid.UUID
	for rows.Next() {
		order := &models.Order{}
		if err := rows.Scan(&order.ID, &order.OrderType, &order.Counterparty, &order.HandledBy,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, order := range orders {
		order.Lines = lines[order.ID]
	}
	return orders, nil
}

func (r *orderRepo) ListByHandler(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	query := `
		SELECT id, order_type, counterparty, handled_by, created_at, updated_at
		FROM orders
		WHERE handled_by = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by handler: %w", err)
	}
	defer rows.Close()

	var orders []models.Order
	var ids []uuid.UUID
	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.OrderType, &order.Counterparty, &order.HandledBy,
			&order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Lines = lines[orders[i].ID]
	}
	return orders, nil
}

func (r *orderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, "DELETE FROM order_lines WHERE order_id = $1", id); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	tag, err := r.db.Exec(ctx, "DELETE FROM orders WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// loadLines fetches the lines for a set of orders with the minimal product
// projection (name, sku, category, price, expiry_date, stock_qty) joined in.
// Lines whose product was deleted keep a nil Product.
func (r *orderRepo) loadLines(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID][]models.OrderLine, error) {
	result := make(map[uuid.UUID][]models.OrderLine, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT ol.id, ol.order_id, ol.product_id, ol.quantity, ol.unit_price, ol.category,
		       p.id, p.name, p.sku, p.category, p.price, p.expiry_date, p.stock_qty
		FROM order_lines ol
		LEFT JOIN products p ON p.id = ol.product_id
		WHERE ol.order_id = ANY($1)
		ORDER BY ol.id
	`
	rows, err := r.db.Query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.OrderLine
		var (
			productID  *uuid.UUID
			name       *string
			sku        *string
			category   *string
			price      *float64
			expiryDate *time.Time
			stockQty   *int
		)
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &line.UnitPrice,
			&line.Category, &productID, &name, &sku, &category, &price, &expiryDate, &stockQty); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		if productID != nil {
			line.Product = &models.ProductRef{
				ID:         *productID,
				Name:       derefString(name),
				SKU:        derefString(sku),
				Category:   derefString(category),
				Price:      derefFloat(price),
				ExpiryDate: expiryDate,
				StockQty:   derefInt(stockQty),
			}
		}
		result[line.OrderID] = append(result[line.OrderID], line)
	}
	return result, rows.Err()
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
