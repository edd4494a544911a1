package services

import (
	"context"
	"time"

	"stocksense/internal/models"
	"stocksense/internal/report"
	"stocksense/internal/repositories"

	"github.com/google/uuid"
)

// allProductsLimit bounds the expiry scan fetch. Should paginate once
// catalogues outgrow it.
const allProductsLimit = 10000

// SalesReport bundles the rendered report with the envelope counters the
// reporting endpoint returns.
type SalesReport struct {
	Report        string
	Analysis      *report.Analysis
	OrderCount    int
	ProductCount  int
	InwardOrders  int
	OutwardOrders int
	GeneratedAt   time.Time
}

type ReportServiceInterface interface {
	// GenerateSalesReport analyzes the orders handled by one user against
	// the whole product catalogue and renders the textual report. A user
	// with no orders gets a canned no-data message, not an error.
	GenerateSalesReport(ctx context.Context, userID uuid.UUID) (*SalesReport, error)
	// AnalyzeSales returns the structured analysis for API consumers that
	// want the data rather than the rendered text.
	AnalyzeSales(ctx context.Context, userID uuid.UUID) (*report.Analysis, error)
}

type reportService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	now         func() time.Time
}

func NewReportService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository) ReportServiceInterface {
	return &reportService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		now:         time.Now,
	}
}

func (s *reportService) GenerateSalesReport(ctx context.Context, userID uuid.UUID) (*SalesReport, error) {
	orders, products, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	analysis := report.Analyze(orders, products, now)

	text := report.NoDataMessage
	if len(orders) > 0 {
		text = report.Render(analysis)
	}

	result := &SalesReport{
		Report:       text,
		Analysis:     analysis,
		OrderCount:   len(orders),
		ProductCount: len(products),
		GeneratedAt:  now,
	}
	for i := range orders {
		switch orders[i].OrderType {
		case models.OrderTypeInward:
			result.InwardOrders++
		case models.OrderTypeOutward:
			result.OutwardOrders++
		}
	}
	return result, nil
}

func (s *reportService) AnalyzeSales(ctx context.Context, userID uuid.UUID) (*report.Analysis, error) {
	orders, products, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	return report.Analyze(orders, products, s.now()), nil
}

func (s *reportService) fetch(ctx context.Context, userID uuid.UUID) ([]models.Order, []models.Product, error) {
	orders, err := s.orderRepo.ListByHandler(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	// The full catalogue, so expiry scanning covers products that never
	// appear in any order.
	listed, err := s.productRepo.List(ctx, allProductsLimit, 0)
	if err != nil {
		return nil, nil, err
	}
	products := make([]models.Product, 0, len(listed))
	for _, p := range listed {
		products = append(products, *p)
	}
	return orders, products, nil
}
