package repositories

import (
	"context"
	"errors"
	"fmt"

	"stocksense/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotFound = errors.New("record not found")

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	UpdateImageObject(ctx context.Context, id uuid.UUID, objectName string) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
}

type productRepo struct {
	db DB
}

func NewProductRepository(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = "id, name, sku, category, description, price, stock_qty, status, location, image_object, expiry_date, created_at, updated_at"

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, sku, category, description, price, stock_qty, status, location, image_object, expiry_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.SKU, product.Category,
		product.Description, product.Price, product.StockQty, product.Status, product.Location,
		product.ImageObject, product.ExpiryDate)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	return r.scanProduct(r.db.QueryRow(ctx, query, id))
}

func (r *productRepo) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE sku = $1", productColumns)
	return r.scanProduct(r.db.QueryRow(ctx, query, sku))
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, description = $4, price = $5, stock_qty = $6, status = $7, location = $8, expiry_date = $9, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Category, product.Description,
		product.Price, product.StockQty, product.Status, product.Location, product.ExpiryDate)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) UpdateImageObject(ctx context.Context, id uuid.UUID, objectName string) error {
	query := `UPDATE products SET image_object = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, objectName)
	if err != nil {
		return fmt.Errorf("update product image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2", productColumns)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.Name, &product.SKU, &product.Category, &product.Description,
		&product.Price, &product.StockQty, &product.Status, &product.Location, &product.ImageObject,
		&product.ExpiryDate, &product.CreatedAt, &product.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return product, nil
}
