package repositories

import (
	"context"
	"errors"
	"fmt"

	"stocksense/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type StockLogRepository interface {
	Create(ctx context.Context, log *models.StockLog) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.StockLog, error)
	List(ctx context.Context, limit, offset int) ([]*models.StockLog, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type stockLogRepo struct {
	db DB
}

func NewStockLogRepository(db DB) StockLogRepository {
	return &stockLogRepo{db: db}
}

func (r *stockLogRepo) Create(ctx context.Context, log *models.StockLog) error {
	query := `
		INSERT INTO stock_logs (id, product_id, action, quantity, user_id, order_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`
	_, err := r.db.Exec(ctx, query, log.ID, log.ProductID, log.Action, log.Quantity, log.UserID, log.OrderID)
	if err != nil {
		return fmt.Errorf("create stock log: %w", err)
	}
	return nil
}

func (r *stockLogRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.StockLog, error) {
	query := `
		SELECT id, product_id, action, quantity, user_id, order_id, created_at
		FROM stock_logs
		WHERE id = $1
	`
	log := &models.StockLog{}
	err := r.db.QueryRow(ctx, query, id).Scan(&log.ID, &log.ProductID, &log.Action, &log.Quantity,
		&log.UserID, &log.OrderID, &log.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get stock log: %w", err)
	}
	return log, nil
}

func (r *stockLogRepo) List(ctx context.Context, limit, offset int) ([]*models.StockLog, error) {
	query := `
		SELECT id, product_id, action, quantity, user_id, order_id, created_at
		FROM stock_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.StockLog
	for rows.Next() {
		log := &models.StockLog{}
		if err := rows.Scan(&log.ID, &log.ProductID, &log.Action, &log.Quantity, &log.UserID,
			&log.OrderID, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock log: %w", err)
		}
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

func (r *stockLogRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM stock_logs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete stock log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
