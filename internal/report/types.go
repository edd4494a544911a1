package report

import "time"

// Sales trend labels derived from the daily order histogram.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Expiry statuses, mutually exclusive, evaluated in this precedence order.
const (
	ExpiryExpired  = "expired"
	ExpiryCritical = "critical"
	ExpiryWarning  = "warning"
)

// Expiry window thresholds in days.
const (
	expiryHorizonDays  = 30
	expiryCriticalDays = 7
)

// Trend threshold: percentage change must be strictly beyond +/-20.
const trendThresholdPct = 20.0

// PeriodNone is the period sentinel for an empty order set.
const PeriodNone = "No period"

// ProductStat accumulates per-product sales. SKU and Category are the
// values observed on first encounter, not re-derived per line.
type ProductStat struct {
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// CategoryStat accumulates per-category sales.
type CategoryStat struct {
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// SupplierStat accumulates inward quantity per counterparty. Products
// lists distinct product names in first-encounter order.
type SupplierStat struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Products []string `json:"products"`
}

// CustomerStat accumulates outward quantity and revenue per counterparty.
type CustomerStat struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// ExpiryAlert is one watch-list entry for a product expiring within the
// 30-day horizon (already-expired products included).
type ExpiryAlert struct {
	Name            string    `json:"name"`
	SKU             string    `json:"sku"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	Status          string    `json:"status"`
	StockQty        int       `json:"stock_qty"`
	ExpiryDate      time.Time `json:"expiry_date"`
}

// DayCount is one bucket of the daily order histogram.
type DayCount struct {
	Day    string `json:"day"` // 2006-01-02
	Orders int    `json:"orders"`
}

// Analysis is the structured output of Analyze. It is a fresh value per
// call; the engine keeps no state between invocations.
type Analysis struct {
	TotalOrders      int            `json:"total_orders"`
	TotalInward      int            `json:"total_inward"`
	TotalOutward     int            `json:"total_outward"`
	TotalItems       int            `json:"total_items"`
	TotalRevenue     float64        `json:"total_revenue"`
	Period           string         `json:"period"`
	TopProducts      []ProductStat  `json:"top_products"`
	BottomProducts   []ProductStat  `json:"bottom_products"`
	TopCategories    []CategoryStat `json:"top_categories"`
	TopSuppliers     []SupplierStat `json:"top_suppliers"`
	TopCustomers     []CustomerStat `json:"top_customers"`
	ExpiringProducts []ExpiryAlert  `json:"expiring_products"`
	SalesTrend       string         `json:"sales_trend"`
	DailyOrders      []DayCount     `json:"daily_orders"`
	GeneratedAt      time.Time      `json:"generated_at"`
}
