package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"stocksense/internal/common"
	"stocksense/internal/models"
	"stocksense/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// StockLogHandlers handles HTTP requests for stock movement logs
type StockLogHandlers struct {
	stockLogRepo repositories.StockLogRepository
}

func NewStockLogHandlers(stockLogRepo repositories.StockLogRepository) *StockLogHandlers {
	return &StockLogHandlers{stockLogRepo: stockLogRepo}
}

// CreateStockLog handles POST /stock-logs. Recording movements is
// restricted to admins and managers.
func (h *StockLogHandlers) CreateStockLog(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	role, _ := common.GetUserRoleFromContext(ctx)
	user := models.User{Role: role}
	if !user.CanManageStock() {
		return common.SendForbiddenError(c, "Only admins and managers can record stock movements")
	}

	var req struct {
		ProductID string  `json:"product_id"`
		Action    string  `json:"action"`
		Quantity  int     `json:"quantity"`
		OrderID   *string `json:"order_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	productID, err := common.ValidateUUID(req.ProductID, "product_id")
	if err != nil {
		return common.SendValidationError(c, "product_id", "must be a valid UUID")
	}
	if err := common.ValidateStockAction(req.Action); err != nil {
		return common.SendValidationError(c, "action", err.Error())
	}
	if req.Quantity <= 0 {
		return common.SendValidationError(c, "quantity", "must be positive")
	}

	var orderID *uuid.UUID
	if req.OrderID != nil && *req.OrderID != "" {
		id, err := common.ValidateUUID(*req.OrderID, "order_id")
		if err != nil {
			return common.SendValidationError(c, "order_id", "must be a valid UUID")
		}
		orderID = &id
	}

	entry := &models.StockLog{
		ID:        uuid.New(),
		ProductID: productID,
		Action:    req.Action,
		Quantity:  req.Quantity,
		UserID:    userID,
		OrderID:   orderID,
	}

	if err := h.stockLogRepo.Create(ctx, entry); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "Stock movement recorded",
		"stock_log": entry,
	})
}

// ListStockLogs handles GET /stock-logs
func (h *StockLogHandlers) ListStockLogs(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 50
	offset := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil && o >= 0 {
			offset = o
		}
	}

	logs, err := h.stockLogRepo.List(ctx, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"stock_logs": logs,
		"limit":      limit,
		"offset":     offset,
	})
}

// GetStockLog handles GET /stock-logs/:id
func (h *StockLogHandlers) GetStockLog(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	entry, err := h.stockLogRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "stock log")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, entry)
}

// DeleteStockLog handles DELETE /stock-logs/:id
func (h *StockLogHandlers) DeleteStockLog(c echo.Context) error {
	ctx := c.Request().Context()

	role, _ := common.GetUserRoleFromContext(ctx)
	user := models.User{Role: role}
	if !user.CanManageStock() {
		return common.SendForbiddenError(c, "Only admins and managers can delete stock movements")
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	if err := h.stockLogRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "stock log")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Stock movement deleted",
	})
}
