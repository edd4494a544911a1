package report

import (
	"fmt"
	"math"
	"sort"
	"time"

	"stocksense/internal/models"
)

const (
	dayKeyFormat = "2006-01-02"
	dateFormat   = "02 Jan 2006"
)

// Ranking sizes.
const (
	topProductCount    = 10
	bottomProductCount = 5
	topCategoryCount   = 5
	topSupplierCount   = 5
	topCustomerCount   = 5
)

// resolvedLine is an order line after applying the fallback chain:
// line-level field, then the referenced product's field, then a default.
type resolvedLine struct {
	name     string
	sku      string
	category string
	quantity int
	price    float64
}

func resolveLine(line models.OrderLine) resolvedLine {
	r := resolvedLine{
		name:     "Unknown Product",
		sku:      "No SKU",
		category: "Uncategorized",
		quantity: 1,
	}
	if line.Product != nil {
		if line.Product.Name != "" {
			r.name = line.Product.Name
		}
		if line.Product.SKU != "" {
			r.sku = line.Product.SKU
		}
		if line.Product.Category != "" {
			r.category = line.Product.Category
		}
		r.price = line.Product.Price
	}
	if line.Category != nil && *line.Category != "" {
		r.category = *line.Category
	}
	if line.UnitPrice != nil {
		r.price = *line.UnitPrice
	}
	if line.Quantity != nil {
		r.quantity = *line.Quantity
	}
	return r
}

// Analyze scans orders and products once each and returns grouped
// statistics, ranked views, the expiry watch-list and the sales trend.
// The inputs are never mutated and now is the snapshot time for expiry
// and period calculations, so callers can pin it in tests. An empty
// order set yields zero totals, empty rankings and a stable trend.
func Analyze(orders []models.Order, products []models.Product, now time.Time) *Analysis {
	productStats := make(map[string]*ProductStat)
	var productKeys []string
	categoryStats := make(map[string]*CategoryStat)
	var categoryKeys []string
	supplierStats := make(map[string]*SupplierStat)
	supplierSeen := make(map[string]map[string]bool)
	var supplierKeys []string
	customerStats := make(map[string]*CustomerStat)
	var customerKeys []string
	dailyOrders := make(map[string]int)
	var dayKeys []string

	analysis := &Analysis{
		TotalOrders: len(orders),
		SalesTrend:  TrendStable,
		Period:      PeriodNone,
		GeneratedAt: now,
	}

	var earliest, latest time.Time
	for i := range orders {
		order := &orders[i]

		day := order.CreatedAt.Format(dayKeyFormat)
		if _, ok := dailyOrders[day]; !ok {
			dayKeys = append(dayKeys, day)
		}
		dailyOrders[day]++

		if earliest.IsZero() || order.CreatedAt.Before(earliest) {
			earliest = order.CreatedAt
		}
		if latest.IsZero() || order.CreatedAt.After(latest) {
			latest = order.CreatedAt
		}

		inward := order.IsInward()
		for _, line := range order.Lines {
			resolved := resolveLine(line)
			revenue := float64(resolved.quantity) * resolved.price

			stat, ok := productStats[resolved.name]
			if !ok {
				stat = &ProductStat{
					Name:     resolved.name,
					SKU:      resolved.sku,
					Category: resolved.category,
				}
				productStats[resolved.name] = stat
				productKeys = append(productKeys, resolved.name)
			}
			stat.Quantity += resolved.quantity
			stat.Revenue += revenue

			cat, ok := categoryStats[resolved.category]
			if !ok {
				cat = &CategoryStat{Category: resolved.category}
				categoryStats[resolved.category] = cat
				categoryKeys = append(categoryKeys, resolved.category)
			}
			cat.Quantity += resolved.quantity
			cat.Revenue += revenue

			if inward {
				analysis.TotalInward += resolved.quantity
				if order.Counterparty != "" {
					sup, ok := supplierStats[order.Counterparty]
					if !ok {
						sup = &SupplierStat{Name: order.Counterparty}
						supplierStats[order.Counterparty] = sup
						supplierSeen[order.Counterparty] = make(map[string]bool)
						supplierKeys = append(supplierKeys, order.Counterparty)
					}
					sup.Quantity += resolved.quantity
					if !supplierSeen[order.Counterparty][resolved.name] {
						supplierSeen[order.Counterparty][resolved.name] = true
						sup.Products = append(sup.Products, resolved.name)
					}
				}
			} else {
				analysis.TotalOutward += resolved.quantity
				if order.Counterparty != "" {
					cust, ok := customerStats[order.Counterparty]
					if !ok {
						cust = &CustomerStat{Name: order.Counterparty}
						customerStats[order.Counterparty] = cust
						customerKeys = append(customerKeys, order.Counterparty)
					}
					cust.Quantity += resolved.quantity
					cust.Revenue += revenue
				}
			}

			analysis.TotalItems += resolved.quantity
			analysis.TotalRevenue += revenue
		}
	}

	if len(orders) > 0 {
		analysis.Period = fmt.Sprintf("%s to %s", earliest.Format(dateFormat), latest.Format(dateFormat))
	}

	allProducts := make([]ProductStat, 0, len(productKeys))
	for _, name := range productKeys {
		allProducts = append(allProducts, *productStats[name])
	}
	analysis.TopProducts = rankProducts(allProducts, false, topProductCount)
	analysis.BottomProducts = rankProducts(allProducts, true, bottomProductCount)

	categories := make([]CategoryStat, 0, len(categoryKeys))
	for _, name := range categoryKeys {
		categories = append(categories, *categoryStats[name])
	}
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Revenue > categories[j].Revenue
	})
	analysis.TopCategories = truncateCategories(categories, topCategoryCount)

	suppliers := make([]SupplierStat, 0, len(supplierKeys))
	for _, name := range supplierKeys {
		suppliers = append(suppliers, *supplierStats[name])
	}
	sort.SliceStable(suppliers, func(i, j int) bool {
		return suppliers[i].Quantity > suppliers[j].Quantity
	})
	if len(suppliers) > topSupplierCount {
		suppliers = suppliers[:topSupplierCount]
	}
	analysis.TopSuppliers = suppliers

	customers := make([]CustomerStat, 0, len(customerKeys))
	for _, name := range customerKeys {
		customers = append(customers, *customerStats[name])
	}
	sort.SliceStable(customers, func(i, j int) bool {
		return customers[i].Revenue > customers[j].Revenue
	})
	if len(customers) > topCustomerCount {
		customers = customers[:topCustomerCount]
	}
	analysis.TopCustomers = customers

	analysis.ExpiringProducts = ScanExpiry(products, now)

	sort.Strings(dayKeys)
	analysis.DailyOrders = make([]DayCount, 0, len(dayKeys))
	for _, day := range dayKeys {
		analysis.DailyOrders = append(analysis.DailyOrders, DayCount{Day: day, Orders: dailyOrders[day]})
	}
	analysis.SalesTrend = salesTrend(analysis.DailyOrders)

	return analysis
}

// rankProducts sorts a copy of stats by revenue (stable, so ties keep
// first-encountered order) and truncates to at most n entries.
func rankProducts(stats []ProductStat, ascending bool, n int) []ProductStat {
	ranked := make([]ProductStat, len(stats))
	copy(ranked, stats)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ascending {
			return ranked[i].Revenue < ranked[j].Revenue
		}
		return ranked[i].Revenue > ranked[j].Revenue
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func truncateCategories(stats []CategoryStat, n int) []CategoryStat {
	if len(stats) > n {
		return stats[:n]
	}
	return stats
}

// salesTrend compares order counts on the chronologically first and last
// active days. Fewer than two distinct days, or a zero count on the first
// day, resolve to stable.
func salesTrend(days []DayCount) string {
	if len(days) < 2 {
		return TrendStable
	}
	first := days[0].Orders
	last := days[len(days)-1].Orders
	if first == 0 {
		return TrendStable
	}
	pctChange := float64(last-first) / float64(first) * 100
	switch {
	case pctChange > trendThresholdPct:
		return TrendIncreasing
	case pctChange < -trendThresholdPct:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// ScanExpiry classifies every product with an expiry date falling within
// the 30-day horizon (already-expired included) and returns the watch-list
// sorted soonest-expiring first. Products without an expiry date never
// appear.
func ScanExpiry(products []models.Product, now time.Time) []ExpiryAlert {
	var alerts []ExpiryAlert
	for i := range products {
		p := &products[i]
		if p.ExpiryDate == nil {
			continue
		}
		days := daysUntil(*p.ExpiryDate, now)
		if days > expiryHorizonDays {
			continue
		}
		alerts = append(alerts, ExpiryAlert{
			Name:            p.Name,
			SKU:             p.SKU,
			DaysUntilExpiry: days,
			Status:          expiryStatus(days),
			StockQty:        p.StockQty,
			ExpiryDate:      *p.ExpiryDate,
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DaysUntilExpiry < alerts[j].DaysUntilExpiry
	})
	return alerts
}

func daysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

func expiryStatus(days int) string {
	switch {
	case days <= 0:
		return ExpiryExpired
	case days <= expiryCriticalDays:
		return ExpiryCritical
	default:
		return ExpiryWarning
	}
}
