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

// OrderHandlers handles HTTP requests for inward and outward orders
type OrderHandlers struct {
	orderRepo repositories.OrderRepository
}

func NewOrderHandlers(orderRepo repositories.OrderRepository) *OrderHandlers {
	return &OrderHandlers{orderRepo: orderRepo}
}

type orderLineRequest struct {
	ProductID *string  `json:"product_id"`
	Quantity  *int     `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
	Category  *string  `json:"category"`
}

type orderRequest struct {
	OrderType    string             `json:"order_type"`
	Counterparty string             `json:"counterparty"`
	Lines        []orderLineRequest `json:"lines"`
}

// CreateOrder handles POST /orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := common.ValidateOrderType(req.OrderType); err != nil {
		return common.SendValidationError(c, "order_type", err.Error())
	}
	if len(req.Lines) == 0 {
		return common.SendValidationError(c, "lines", "at least one order line is required")
	}

	order := &models.Order{
		ID:           uuid.New(),
		OrderType:    req.OrderType,
		Counterparty: req.Counterparty,
		HandledBy:    userID,
	}

	for i, line := range req.Lines {
		if line.Quantity != nil && *line.Quantity <= 0 {
			return common.SendValidationError(c, "lines", "line quantities must be positive")
		}
		if line.UnitPrice != nil && *line.UnitPrice < 0 {
			return common.SendValidationError(c, "lines", "line prices cannot be negative")
		}

		var productID *uuid.UUID
		if line.ProductID != nil && *line.ProductID != "" {
			id, err := common.ValidateUUID(*line.ProductID, "product_id")
			if err != nil {
				return common.SendValidationError(c, "lines", "line "+strconv.Itoa(i)+" has an invalid product_id")
			}
			productID = &id
		}

		order.Lines = append(order.Lines, models.OrderLine{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: productID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Category:  line.Category,
		})
	}

	if err := h.orderRepo.Create(ctx, order); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Order created successfully",
		"order":   order,
	})
}

// ListOrders handles GET /orders
func (h *OrderHandlers) ListOrders(c echo.Context) error {
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

	orders, err := h.orderRepo.List(ctx, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	order, err := h.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "order")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/:id
func (h *OrderHandlers) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "must be a valid UUID")
	}

	if err := h.orderRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "order")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Order deleted successfully",
	})
}
