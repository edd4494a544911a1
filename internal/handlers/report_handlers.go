package handlers

import (
	"log"
	"net/http"
	"time"

	"stocksense/internal/common"
	"stocksense/internal/services"

	"github.com/labstack/echo/v4"
)

const reportSource = "sales-analysis"

// ReportHandlers handles HTTP requests for sales reports
type ReportHandlers struct {
	reportService services.ReportServiceInterface
	appEnv        string
}

func NewReportHandlers(reportService services.ReportServiceInterface, appEnv string) *ReportHandlers {
	return &ReportHandlers{
		reportService: reportService,
		appEnv:        appEnv,
	}
}

// GenerateSalesReport handles GET /reports/sales. The response carries
// the rendered report plus headline counts so the client can show a
// summary without parsing the text.
func (h *ReportHandlers) GenerateSalesReport(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	result, err := h.reportService.GenerateSalesReport(ctx, userID)
	if err != nil {
		log.Printf("sales report generation failed for user %s: %v", userID, err)
		return c.JSON(http.StatusInternalServerError, h.failureEnvelope(err))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":       true,
		"report":        result.Report,
		"orderCount":    result.OrderCount,
		"productCount":  result.ProductCount,
		"inwardOrders":  result.InwardOrders,
		"outwardOrders": result.OutwardOrders,
		"generatedAt":   result.GeneratedAt.UTC().Format(time.RFC3339),
		"source":        reportSource,
	})
}

// GetSalesAnalysis handles GET /reports/analysis. It returns the
// structured analysis instead of the rendered text.
func (h *ReportHandlers) GetSalesAnalysis(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	analysis, err := h.reportService.AnalyzeSales(ctx, userID)
	if err != nil {
		log.Printf("sales analysis failed for user %s: %v", userID, err)
		return c.JSON(http.StatusInternalServerError, h.failureEnvelope(err))
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": analysis,
	})
}

// failureEnvelope hides the raw error in production and surfaces it
// everywhere else.
func (h *ReportHandlers) failureEnvelope(err error) map[string]interface{} {
	body := map[string]interface{}{
		"success": false,
		"message": "Failed to generate report",
	}
	if h.appEnv != "production" {
		body["error"] = err.Error()
	} else {
		body["error"] = "Internal server error"
	}
	return body
}
