package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/middleware"
	"storefront/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.orderService.ListUserOrders(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *OrderHandler) GetMyOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetUserOrder(ctx, middleware.UserID(c), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrNotOrderOwner):
			return echo.NewHTTPError(http.StatusForbidden, "not your order")
		}
		return err
	}

	return c.JSON(http.StatusOK, order)
}
