package report

import (
	"fmt"
	"strings"
)

// NoDataMessage is returned in place of a report when there are no orders
// to analyze. A zero-order dataset is a valid input, not an error.
const NoDataMessage = "No orders available to analyze. Please generate some sales data first."

const sectionRule = 40

// Render formats an Analysis as a fixed-section plain-text report. It is
// pure formatting: sections whose backing list is empty are omitted
// entirely, and percentage figures render as 0.0% when total revenue is
// zero rather than propagating NaN.
func Render(a *Analysis) string {
	var b strings.Builder

	b.WriteString("SMART INVENTORY REPORT\n")
	b.WriteString(strings.Repeat("=", 70) + "\n\n")

	b.WriteString("EXECUTIVE SUMMARY:\n")
	fmt.Fprintf(&b, "- Period Analyzed: %s\n", a.Period)
	fmt.Fprintf(&b, "- Total Orders: %d\n", a.TotalOrders)
	fmt.Fprintf(&b, "- Inward Stock: %d units\n", a.TotalInward)
	fmt.Fprintf(&b, "- Outward Sales: %d units\n", a.TotalOutward)
	fmt.Fprintf(&b, "- Total Revenue: $%.2f\n", a.TotalRevenue)
	fmt.Fprintf(&b, "- Sales Trend: %s\n", strings.ToUpper(a.SalesTrend))
	fmt.Fprintf(&b, "- Report Date: %s\n\n", a.GeneratedAt.Format(dateFormat))

	if len(a.TopProducts) > 0 {
		b.WriteString("TOP SELLING PRODUCTS (by revenue):\n")
		for i, p := range a.TopProducts {
			fmt.Fprintf(&b, "%d. %s (SKU: %s): %d units ($%.2f)\n", i+1, p.Name, p.SKU, p.Quantity, p.Revenue)
		}
		b.WriteString("\n")
	}

	if len(a.BottomProducts) > 0 {
		b.WriteString("LOW PERFORMING PRODUCTS (need attention):\n")
		for i, p := range a.BottomProducts {
			fmt.Fprintf(&b, "%d. %s: Only %d units sold ($%.2f)\n", i+1, p.Name, p.Quantity, p.Revenue)
		}
		b.WriteString("\n")
	}

	if len(a.TopCategories) > 0 {
		b.WriteString("CATEGORY PERFORMANCE:\n")
		for i, c := range a.TopCategories {
			fmt.Fprintf(&b, "%d. %s: $%.2f (%.1f%% of revenue)\n",
				i+1, strings.ToUpper(c.Category), c.Revenue, revenueShare(c.Revenue, a.TotalRevenue))
		}
		b.WriteString("\n")
	}

	if len(a.ExpiringProducts) > 0 {
		b.WriteString("CRITICAL: EXPIRY ALERTS\n")
		b.WriteString(strings.Repeat("=", sectionRule) + "\n")
		for _, alert := range a.ExpiringProducts {
			fmt.Fprintf(&b, "[%s] %s: %d days until expiry (%d units)\n",
				strings.ToUpper(alert.Status), alert.Name, alert.DaysUntilExpiry, alert.StockQty)
			fmt.Fprintf(&b, "   Expiry Date: %s\n", alert.ExpiryDate.Format(dateFormat))
			fmt.Fprintf(&b, "   ACTION: %s\n\n", expiryAction(alert.Status))
		}
	}

	if len(a.TopProducts) > 0 {
		b.WriteString("RESTOCKING PRIORITIES:\n")
		for _, p := range firstProducts(a.TopProducts, 3) {
			fmt.Fprintf(&b, "- %s: High demand (%d units sold)\n", p.Name, p.Quantity)
		}
		b.WriteString("\n")
	}

	renderReplacements(&b, a)

	if len(a.TopSuppliers) > 0 {
		b.WriteString("SUPPLIER NOTES:\n")
		for _, s := range a.TopSuppliers[:minInt(2, len(a.TopSuppliers))] {
			fmt.Fprintf(&b, "- Maintain relationship with %s (%d units supplied)\n", s.Name, s.Quantity)
		}
		b.WriteString("\n")
	}

	b.WriteString("BUSINESS INSIGHTS:\n")
	b.WriteString(strings.Repeat("=", sectionRule) + "\n")
	switch a.SalesTrend {
	case TrendIncreasing:
		b.WriteString("- Sales are trending upward - consider increasing inventory levels\n")
	case TrendDecreasing:
		b.WriteString("- Sales are slowing down - review marketing strategies\n")
	default:
		b.WriteString("- Sales are stable - maintain current inventory levels\n")
	}
	if len(a.TopCategories) > 0 {
		top := a.TopCategories[0]
		fmt.Fprintf(&b, "- Top category (%s) represents %.1f%% of revenue\n",
			top.Category, revenueShare(top.Revenue, a.TotalRevenue))
	}
	if critical := criticalCount(a.ExpiringProducts); critical > 0 {
		fmt.Fprintf(&b, "- %d products require immediate attention due to expiry\n", critical)
	}
	b.WriteString("\n")

	b.WriteString("PREDICTIVE ANALYSIS (Next 30 days):\n")
	b.WriteString(strings.Repeat("=", sectionRule) + "\n")
	switch a.SalesTrend {
	case TrendIncreasing:
		b.WriteString("- Expected: 15-20% sales growth based on current trend\n")
	case TrendDecreasing:
		b.WriteString("- Expected: 10-15% sales decline - implement promotions\n")
	default:
		b.WriteString("- Expected: Stable sales pattern continuing\n")
	}
	b.WriteString("- Recommended: Maintain 20% safety stock above current levels\n")
	if len(a.ExpiringProducts) > 0 {
		fmt.Fprintf(&b, "- Alert: %d products will expire in the next 30 days\n", len(a.ExpiringProducts))
	}
	b.WriteString("\n")

	b.WriteString(strings.Repeat("=", 70) + "\n")
	fmt.Fprintf(&b, "Report generated on: %s\n", a.GeneratedAt.Format(dateFormat+" 15:04:05"))
	fmt.Fprintf(&b, "Products analyzed: %d\n", len(a.TopProducts))
	fmt.Fprintf(&b, "Orders analyzed: %d\n", a.TotalOrders)

	return b.String()
}

func renderReplacements(b *strings.Builder, a *Analysis) {
	if len(a.BottomProducts) == 0 || len(a.TopProducts) == 0 {
		return
	}
	var lines []string
	for _, low := range firstProducts(a.BottomProducts, 2) {
		var candidates []string
		for _, top := range a.TopProducts {
			if top.Category == low.Category && top.Name != low.Name {
				candidates = append(candidates, top.Name)
			}
			if len(candidates) == 2 {
				break
			}
		}
		if len(candidates) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("- Replace %q with: %s\n  Reason: Poor performance (only %d units) in %s category",
			low.Name, strings.Join(candidates, ", "), low.Quantity, low.Category))
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("PRODUCT REPLACEMENT SUGGESTIONS:\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

// revenueShare guards the division so a zero-revenue analysis renders
// 0.0% instead of NaN.
func revenueShare(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

func expiryAction(status string) string {
	switch status {
	case ExpiryExpired:
		return "remove from inventory"
	case ExpiryCritical:
		return "prioritize sales/discount"
	default:
		return "monitor closely"
	}
}

func criticalCount(alerts []ExpiryAlert) int {
	count := 0
	for _, alert := range alerts {
		if alert.Status == ExpiryExpired || alert.Status == ExpiryCritical {
			count++
		}
	}
	return count
}

func firstProducts(stats []ProductStat, n int) []ProductStat {
	if len(stats) > n {
		return stats[:n]
	}
	return stats
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
