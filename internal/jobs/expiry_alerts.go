package jobs

import (
	"context"
	"log"
	"time"

	"stocksense/internal/models"
	"stocksense/internal/report"
	"stocksense/internal/repositories"
)

const (
	alertScanLimit       = 10000
	defaultLowStockFloor = 10
)

// ExpiryAlertService scans the catalogue for products expiring within
// the 30-day horizon and for low stock levels.
type ExpiryAlertService struct {
	productRepo repositories.ProductRepository
	now         func() time.Time
}

func NewExpiryAlertService(productRepo repositories.ProductRepository) *ExpiryAlertService {
	return &ExpiryAlertService{
		productRepo: productRepo,
		now:         time.Now,
	}
}

// CheckExpiry returns the current expiry watch-list, soonest first.
func (a *ExpiryAlertService) CheckExpiry(ctx context.Context) ([]report.ExpiryAlert, error) {
	products, err := a.productRepo.List(ctx, alertScanLimit, 0)
	if err != nil {
		log.Printf("Failed to list products for expiry scan: %v", err)
		return nil, err
	}

	catalogue := make([]models.Product, 0, len(products))
	for _, p := range products {
		catalogue = append(catalogue, *p)
	}

	return report.ScanExpiry(catalogue, a.now()), nil
}

// LogExpiryAlerts writes the watch-list to the application log.
func (a *ExpiryAlertService) LogExpiryAlerts(alerts []report.ExpiryAlert) {
	if len(alerts) == 0 {
		log.Println("No products on the expiry watch-list")
		return
	}

	log.Printf("Expiry watch-list (%d products):", len(alerts))
	for _, alert := range alerts {
		log.Printf("- [%s] %s (%s): %d days until expiry, %d units in stock",
			alert.Status, alert.Name, alert.SKU, alert.DaysUntilExpiry, alert.StockQty)
	}
}

// CheckLowStock returns products at or below the stock floor.
func (a *ExpiryAlertService) CheckLowStock(ctx context.Context, floor int) ([]*models.Product, error) {
	if floor <= 0 {
		floor = defaultLowStockFloor
	}

	products, err := a.productRepo.List(ctx, alertScanLimit, 0)
	if err != nil {
		log.Printf("Failed to list products for low stock scan: %v", err)
		return nil, err
	}

	var low []*models.Product
	for _, p := range products {
		if p.StockQty <= floor {
			low = append(low, p)
		}
	}
	return low, nil
}

// ScheduledExpiryCheck is the entry point the scheduler invokes daily.
func (a *ExpiryAlertService) ScheduledExpiryCheck(ctx context.Context) error {
	log.Println("Starting scheduled expiry check")

	alerts, err := a.CheckExpiry(ctx)
	if err != nil {
		return err
	}
	a.LogExpiryAlerts(alerts)

	low, err := a.CheckLowStock(ctx, defaultLowStockFloor)
	if err != nil {
		return err
	}
	if len(low) > 0 {
		log.Printf("ALERT: %d products at or below %d units", len(low), defaultLowStockFloor)
		for _, p := range low {
			log.Printf("- Product '%s' (%s) has %d units", p.Name, p.SKU, p.StockQty)
		}
	}

	log.Println("Completed scheduled expiry check")
	return nil
}
