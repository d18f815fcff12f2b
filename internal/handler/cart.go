package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/cart"
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.cartService.Get(ctx, middleware.SessionID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	result, err := h.cartService.Add(ctx, middleware.SessionID(c), req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		case errors.Is(err, service.ErrOutOfStock):
			return echo.NewHTTPError(http.StatusConflict, "product out of stock")
		case errors.Is(err, cart.ErrQuantityInvalid):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateQuantityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.cartService.UpdateQuantity(ctx, middleware.SessionID(c), c.Param("productId"), req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrNotInCart):
			return echo.NewHTTPError(http.StatusNotFound, "product not in cart")
		case errors.Is(err, cart.ErrQuantityInvalid):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.cartService.Remove(ctx, middleware.SessionID(c), c.Param("productId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
