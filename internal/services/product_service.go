package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"stocksense/internal/caching"
	"stocksense/internal/common"
	"stocksense/internal/models"
	"stocksense/internal/repositories"

	"github.com/google/uuid"
)

const (
	productCacheTTL    = 10 * time.Minute
	imageURLExpiry     = 15 * time.Minute
	productImageBucket = "product-images"
)

type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	UploadProductImage(ctx context.Context, id uuid.UUID, contentType string, reader io.Reader, size int64) error
	GetProductImageURL(ctx context.Context, id uuid.UUID) (string, error)
}

type productService struct {
	productRepo repositories.ProductRepository
	storage     ObjectStorage
	cache       caching.CacheService
}

func NewProductService(productRepo repositories.ProductRepository, storage ObjectStorage, cache caching.CacheService) ProductServiceInterface {
	return &productService{
		productRepo: productRepo,
		storage:     storage,
		cache:       cache,
	}
}

// CreateProduct persists a new product, generating a SKU and defaulting
// the status when the caller omits them.
func (s *productService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := common.ValidateRequiredString(product.Name, "name"); err != nil {
		return err
	}
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.SKU == "" {
		product.SKU = fmt.Sprintf("SKU-%d", time.Now().UnixMilli())
	}
	if product.Status == "" {
		product.Status = "Available"
	}
	if product.StockQty < 0 {
		return fmt.Errorf("stock quantity cannot be negative")
	}
	return s.productRepo.Create(ctx, product)
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cache.GetProduct(ctx, id); err == nil {
		return cached, nil
	} else if !errors.Is(err, caching.ErrCacheMiss) {
		log.Printf("Product cache read failed for %s: %v", id.String(), err)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetProduct(ctx, product, productCacheTTL); err != nil {
		log.Printf("Product cache write failed for %s: %v", id.String(), err)
	}
	return product, nil
}

func (s *productService) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.productRepo.List(ctx, limit, offset)
}

func (s *productService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := common.ValidateRequiredString(product.Name, "name"); err != nil {
		return err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	if err := s.cache.DeleteProduct(ctx, product.ID); err != nil {
		log.Printf("Product cache invalidation failed for %s: %v", product.ID.String(), err)
	}
	return nil
}

func (s *productService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	if product.ImageObject != nil {
		if err := s.storage.Delete(ctx, productImageBucket, *product.ImageObject); err != nil {
			log.Printf("Product image cleanup failed for %s: %v", id.String(), err)
		}
	}
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		log.Printf("Product cache invalidation failed for %s: %v", id.String(), err)
	}
	return nil
}

func (s *productService) UploadProductImage(ctx context.Context, id uuid.UUID, contentType string, reader io.Reader, size int64) error {
	if _, err := s.productRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.storage.EnsureBucketExists(ctx, productImageBucket); err != nil {
		return fmt.Errorf("ensure image bucket: %w", err)
	}

	objectName := fmt.Sprintf("products/%s", id.String())
	if err := s.storage.Upload(ctx, productImageBucket, objectName, contentType, reader, size); err != nil {
		return fmt.Errorf("upload product image: %w", err)
	}
	if err := s.productRepo.UpdateImageObject(ctx, id, objectName); err != nil {
		return err
	}
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		log.Printf("Product cache invalidation failed for %s: %v", id.String(), err)
	}
	return nil
}

func (s *productService) GetProductImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return "", err
	}
	if product.ImageObject == nil {
		return "", repositories.ErrNotFound
	}
	return s.storage.GetPresignedURL(ctx, productImageBucket, *product.ImageObject, imageURLExpiry)
}
