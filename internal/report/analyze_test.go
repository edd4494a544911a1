package report

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"stocksense/internal/models"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int              { return &v }
func floatPtr(v float64) *float64    { return &v }
func stringPtr(v string) *string     { return &v }
func timePtr(v time.Time) *time.Time { return &v }

func testProductRef(name, sku, category string, price float64) *models.ProductRef {
	return &models.ProductRef{
		ID:       uuid.New(),
		Name:     name,
		SKU:      sku,
		Category: category,
		Price:    price,
	}
}

func testOrder(orderType, counterparty string, createdAt time.Time, lines ...models.OrderLine) models.Order {
	return models.Order{
		ID:           uuid.New(),
		OrderType:    orderType,
		Counterparty: counterparty,
		CreatedAt:    createdAt,
		Lines:        lines,
	}
}

func testLine(product *models.ProductRef, quantity *int, unitPrice *float64, category *string) models.OrderLine {
	var productID *uuid.UUID
	if product != nil {
		productID = &product.ID
	}
	return models.OrderLine{
		ID:        uuid.New(),
		ProductID: productID,
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Category:  category,
	}
}

func TestAnalyze_EmptyOrders(t *testing.T) {
	analysis := Analyze(nil, nil, testNow)

	assert.Equal(t, 0, analysis.TotalOrders)
	assert.Equal(t, 0, analysis.TotalInward)
	assert.Equal(t, 0, analysis.TotalOutward)
	assert.Equal(t, 0, analysis.TotalItems)
	assert.Equal(t, 0.0, analysis.TotalRevenue)
	assert.Empty(t, analysis.TopProducts)
	assert.Empty(t, analysis.BottomProducts)
	assert.Empty(t, analysis.TopCategories)
	assert.Empty(t, analysis.TopSuppliers)
	assert.Empty(t, analysis.TopCustomers)
	assert.Equal(t, TrendStable, analysis.SalesTrend)
	assert.Equal(t, PeriodNone, analysis.Period)
}

func TestAnalyze_DirectionalTotalsMatchLineQuantities(t *testing.T) {
	widget := testProductRef("Widget", "SKU-1", "Tools", 10)
	gadget := testProductRef("Gadget", "SKU-2", "Tools", 25)

	orders := []models.Order{
		testOrder(models.OrderTypeInward, "Acme Supply", testNow,
			testLine(widget, intPtr(5), nil, nil),
			testLine(gadget, intPtr(2), nil, nil)),
		testOrder(models.OrderTypeOutward, "Corner Shop", testNow,
			testLine(widget, intPtr(3), nil, nil)),
		// An unrecognised order type counts as outward, by policy.
		testOrder("transfer", "Depot", testNow,
			testLine(gadget, intPtr(4), nil, nil)),
		// Missing quantity defaults to 1.
		testOrder(models.OrderTypeOutward, "Corner Shop", testNow,
			testLine(widget, nil, nil, nil)),
	}

	analysis := Analyze(orders, nil, testNow)

	assert.Equal(t, 7, analysis.TotalInward)
	assert.Equal(t, 8, analysis.TotalOutward)
	assert.Equal(t, analysis.TotalItems, analysis.TotalInward+analysis.TotalOutward)
	assert.Equal(t, 15, analysis.TotalItems)
}

func TestAnalyze_RevenueFallbackChain(t *testing.T) {
	widget := testProductRef("Widget", "SKU-1", "Tools", 10)

	orders := []models.Order{
		testOrder(models.OrderTypeOutward, "Shop", testNow,
			// Line price overrides the product price.
			testLine(widget, intPtr(2), floatPtr(12.5), nil),
			// No line price: product price applies.
			testLine(widget, intPtr(3), nil, nil),
			// No product reference at all: price defaults to zero.
			testLine(nil, intPtr(4), nil, nil)),
	}

	analysis := Analyze(orders, nil, testNow)

	// Reference computation of the fallback rule: 2*12.5 + 3*10 + 4*0.
	assert.InDelta(t, 55.0, analysis.TotalRevenue, 1e-9)

	// The dangling line groups under the fallback name.
	var unknown *ProductStat
	for i := range analysis.TopProducts {
		if analysis.TopProducts[i].Name == "Unknown Product" {
			unknown = &analysis.TopProducts[i]
		}
	}
	if assert.NotNil(t, unknown) {
		assert.Equal(t, 4, unknown.Quantity)
		assert.Equal(t, 0.0, unknown.Revenue)
		assert.Equal(t, "No SKU", unknown.SKU)
		assert.Equal(t, "Uncategorized", unknown.Category)
	}
}

func TestAnalyze_CategoryFallbackPrefersLineCategory(t *testing.T) {
	widget := testProductRef("Widget", "SKU-1", "Tools", 10)

	orders := []models.Order{
		testOrder(models.OrderTypeOutward, "Shop", testNow,
			testLine(widget, intPtr(1), nil, stringPtr("Clearance"))),
	}

	analysis := Analyze(orders, nil, testNow)

	if assert.Len(t, analysis.TopCategories, 1) {
		assert.Equal(t, "Clearance", analysis.TopCategories[0].Category)
	}
}

func TestAnalyze_RepeatedProductAccumulatesSingleEntry(t *testing.T) {
	first := testProductRef("Widget", "SKU-A", "Tools", 10)
	// Same name seen later with different sku/category metadata.
	second := testProductRef("Widget", "SKU-B", "Hardware", 20)

	orders := []models.Order{
		testOrder(models.OrderTypeOutward, "Shop", testNow, testLine(first, intPtr(1), nil, nil)),
		testOrder(models.OrderTypeOutward, "Shop", testNow, testLine(second, intPtr(2), nil, nil)),
	}

	analysis := Analyze(orders, nil, testNow)

	if assert.Len(t, analysis.TopProducts, 1) {
		stat := analysis.TopProducts[0]
		assert.Equal(t, 3, stat.Quantity)
		assert.InDelta(t, 50.0, stat.Revenue, 1e-9)
		// Metadata sticks from the first encounter.
		assert.Equal(t, "SKU-A", stat.SKU)
		assert.Equal(t, "Tools", stat.Category)
	}
}

func TestAnalyze_SupplierAndCustomerSplit(t *testing.T) {
	widget := testProductRef("Widget", "SKU-1", "Tools", 10)
	gadget := testProductRef("Gadget", "SKU-2", "Tools", 25)

	orders := []models.Order{
		testOrder(models.OrderTypeInward, "Acme Supply", testNow,
			testLine(widget, intPtr(5), nil, nil),
			testLine(gadget, intPtr(2), nil, nil)),
		testOrder(models.OrderTypeInward, "Acme Supply", testNow,
			testLine(widget, intPtr(1), nil, nil)),
		testOrder(models.OrderTypeOutward, "Corner Shop", testNow,
			testLine(widget, intPtr(3), nil, nil)),
		// No counterparty: contributes to totals but not the rankings.
		testOrder(models.OrderTypeOutward, "", testNow,
			testLine(widget, intPtr(2), nil, nil)),
	}

	analysis := Analyze(orders, nil, testNow)

	if assert.Len(t, analysis.TopSuppliers, 1) {
		sup := analysis.TopSuppliers[0]
		assert.Equal(t, "Acme Supply", sup.Name)
		assert.Equal(t, 8, sup.Quantity)
		// Distinct product names, first-encounter order.
		assert.Equal(t, []string{"Widget", "Gadget"}, sup.Products)
	}
	if assert.Len(t, analysis.TopCustomers, 1) {
		cust := analysis.TopCustomers[0]
		assert.Equal(t, "Corner Shop", cust.Name)
		assert.Equal(t, 3, cust.Quantity)
		assert.InDelta(t, 30.0, cust.Revenue, 1e-9)
	}
	assert.Equal(t, 5, analysis.TotalOutward)
}

func TestAnalyze_Idempotent(t *testing.T) {
	widget := testProductRef("Widget", "SKU-1", "Tools", 10)
	gadget := testProductRef("Gadget", "SKU-2", "Tools", 10)
	products := []models.Product{
		{ID: uuid.New(), Name: "Milk", SKU: "SKU-9", ExpiryDate: timePtr(testNow.Add(3 * 24 * time.Hour)), StockQty: 12},
	}
	orders := []models.Order{
		testOrder(models.OrderTypeOutward, "Shop A", testNow,
			// Equal revenue on both lines: tie resolved by insertion order.
			testLine(widget, intPtr(2), nil, nil),
			testLine(gadget, intPtr(2), nil, nil)),
		testOrder(models.OrderTypeInward, "Acme", testNow.Add(24*time.Hour),
			testLine(widget, intPtr(1), nil, nil)),
	}

	first := Analyze(orders, products, testNow)
	second := Analyze(orders, products, testNow)

	assert.True(t, reflect.DeepEqual(first, second))
	assert.Equal(t, Render(first), Render(second))

	// Tied revenues keep first-encountered order.
	if assert.Len(t, first.TopProducts, 2) {
		assert.Equal(t, "Widget", first.TopProducts[0].Name)
		assert.Equal(t, "Gadget", first.TopProducts[1].Name)
	}
}

func TestScanExpiry_Boundaries(t *testing.T) {
	day := 24 * time.Hour
	products := []models.Product{
		{ID: uuid.New(), Name: "Exactly Now", ExpiryDate: timePtr(testNow), StockQty: 1},
		{ID: uuid.New(), Name: "Yesterday", ExpiryDate: timePtr(testNow.Add(-1 * day)), StockQty: 2},
		{ID: uuid.New(), Name: "Week Out", ExpiryDate: timePtr(testNow.Add(7 * day)), StockQty: 3},
		{ID: uuid.New(), Name: "Eight Days", ExpiryDate: timePtr(testNow.Add(8 * day)), StockQty: 4},
		{ID: uuid.New(), Name: "Month Edge", ExpiryDate: timePtr(testNow.Add(30 * day)), StockQty: 5},
		{ID: uuid.New(), Name: "Too Far", ExpiryDate: timePtr(testNow.Add(31 * day)), StockQty: 6},
		{ID: uuid.New(), Name: "No Expiry", StockQty: 7},
	}

	alerts := ScanExpiry(products, testNow)

	byName := make(map[string]ExpiryAlert)
	for _, alert := range alerts {
		byName[alert.Name] = alert
	}

	assert.Equal(t, ExpiryExpired, byName["Exactly Now"].Status)
	assert.Equal(t, 0, byName["Exactly Now"].DaysUntilExpiry)
	assert.Equal(t, ExpiryExpired, byName["Yesterday"].Status)
	assert.Equal(t, -1, byName["Yesterday"].DaysUntilExpiry)
	assert.Equal(t, ExpiryCritical, byName["Week Out"].Status)
	assert.Equal(t, ExpiryWarning, byName["Eight Days"].Status)
	assert.Equal(t, ExpiryWarning, byName["Month Edge"].Status)
	assert.NotContains(t, byName, "Too Far")
	assert.NotContains(t, byName, "No Expiry")

	// Soonest-expiring first.
	assert.Equal(t, "Yesterday", alerts[0].Name)
	assert.Equal(t, "Month Edge", alerts[len(alerts)-1].Name)
}

func TestAnalyze_TrendBoundaries(t *testing.T) {
	widget := testProductRef("Widget", "SKU-1", "Tools", 10)
	day1 := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	ordersOnDay := func(day time.Time, n int) []models.Order {
		orders := make([]models.Order, 0, n)
		for i := 0; i < n; i++ {
			orders = append(orders, testOrder(models.OrderTypeOutward, "Shop", day,
				testLine(widget, intPtr(1), nil, nil)))
		}
		return orders
	}

	// Exactly 20% change is not strictly greater than the threshold.
	stable := Analyze(append(ordersOnDay(day1, 10), ordersOnDay(day2, 12)...), nil, testNow)
	assert.Equal(t, TrendStable, stable.SalesTrend)

	increasing := Analyze(append(ordersOnDay(day1, 10), ordersOnDay(day2, 13)...), nil, testNow)
	assert.Equal(t, TrendIncreasing, increasing.SalesTrend)

	decreasing := Analyze(append(ordersOnDay(day1, 10), ordersOnDay(day2, 7)...), nil, testNow)
	assert.Equal(t, TrendDecreasing, decreasing.SalesTrend)

	single := Analyze(ordersOnDay(day1, 10), nil, testNow)
	assert.Equal(t, TrendStable, single.SalesTrend)
}

func TestSalesTrend_ZeroFirstDayIsStable(t *testing.T) {
	// A zero-count first bucket cannot arise from bucketed orders, but the
	// division guard must still hold.
	trend := salesTrend([]DayCount{{Day: "2025-06-01", Orders: 0}, {Day: "2025-06-02", Orders: 5}})
	assert.Equal(t, TrendStable, trend)
}

func TestAnalyze_Period(t *testing.T) {
	widget := testProductRef("Widget", "SKU-1", "Tools", 10)
	orders := []models.Order{
		testOrder(models.OrderTypeOutward, "Shop", time.Date(2025, 6, 3, 10, 0, 0, 0, time.UTC),
			testLine(widget, intPtr(1), nil, nil)),
		testOrder(models.OrderTypeOutward, "Shop", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			testLine(widget, intPtr(1), nil, nil)),
	}

	analysis := Analyze(orders, nil, testNow)
	assert.Equal(t, "01 Jun 2025 to 03 Jun 2025", analysis.Period)
}

func TestAnalyze_WidgetEndToEnd(t *testing.T) {
	product := models.Product{ID: uuid.New(), Name: "Widget", SKU: "SKU-1", Category: "Tools", Price: 10}
	orders := []models.Order{
		testOrder(models.OrderTypeOutward, "Shop", testNow,
			testLine(product.Ref(), intPtr(3), nil, nil)),
	}

	analysis := Analyze(orders, []models.Product{product}, testNow)

	assert.InDelta(t, 30.0, analysis.TotalRevenue, 1e-9)
	if assert.Len(t, analysis.TopProducts, 1) {
		assert.Equal(t, "Widget", analysis.TopProducts[0].Name)
		assert.Equal(t, 3, analysis.TopProducts[0].Quantity)
		assert.InDelta(t, 30.0, analysis.TopProducts[0].Revenue, 1e-9)
	}

	rendered := Render(analysis)
	assert.Contains(t, rendered, "Widget")
	assert.Contains(t, rendered, "$30.00")
}

func TestAnalyze_RankingTruncation(t *testing.T) {
	orders := make([]models.Order, 0, 16)
	for i := 0; i < 16; i++ {
		name := string(rune('A' + i))
		ref := testProductRef("Product "+name, "SKU-"+name, "Misc", float64(160-i*10))
		orders = append(orders, testOrder(models.OrderTypeOutward, "Shop", testNow,
			testLine(ref, intPtr(1), nil, nil)))
	}

	analysis := Analyze(orders, nil, testNow)

	if assert.Len(t, analysis.TopProducts, 10) {
		for i := 1; i < len(analysis.TopProducts); i++ {
			assert.GreaterOrEqual(t, analysis.TopProducts[i-1].Revenue, analysis.TopProducts[i].Revenue)
		}
	}
	if assert.Len(t, analysis.BottomProducts, 5) {
		for i := 1; i < len(analysis.BottomProducts); i++ {
			assert.LessOrEqual(t, analysis.BottomProducts[i-1].Revenue, analysis.BottomProducts[i].Revenue)
		}
	}

	// With 16 distinct products the two rankings cannot overlap.
	topNames := make(map[string]bool)
	for _, p := range analysis.TopProducts {
		topNames[p.Name] = true
	}
	for _, p := range analysis.BottomProducts {
		assert.False(t, topNames[p.Name], "product %s in both rankings", p.Name)
	}
}

func TestAnalyze_DoesNotMutateInputs(t *testing.T) {
	widget := testProductRef("Widget", "SKU-1", "Tools", 10)
	orders := []models.Order{
		testOrder(models.OrderTypeOutward, "Shop", testNow, testLine(widget, intPtr(3), nil, nil)),
		testOrder(models.OrderTypeInward, "Acme", testNow, testLine(widget, intPtr(1), nil, nil)),
	}
	products := []models.Product{
		{ID: uuid.New(), Name: "Milk", ExpiryDate: timePtr(testNow.Add(48 * time.Hour)), StockQty: 2},
	}

	ordersBefore := make([]models.Order, len(orders))
	copy(ordersBefore, orders)
	productsBefore := make([]models.Product, len(products))
	copy(productsBefore, products)

	Analyze(orders, products, testNow)

	assert.True(t, reflect.DeepEqual(ordersBefore, orders))
	assert.True(t, reflect.DeepEqual(productsBefore, products))
}
