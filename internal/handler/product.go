package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"
)

type ProductHandler struct {
	catalogService service.CatalogService
	authService    service.AuthService
}

func NewProductHandler(catalogService service.CatalogService, authService service.AuthService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		authService:    authService,
	}
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("perPage"))

	query := repository.ProductQuery{
		Keyword:  c.QueryParam("keyword"),
		Category: c.QueryParam("category"),
		Brand:    c.QueryParam("brand"),
		PriceMin: c.QueryParam("priceMin"),
		PriceMax: c.QueryParam("priceMax"),
		Page:     page,
		PerPage:  perPage,
	}

	products, total, err := h.catalogService.ListProducts(ctx, query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"count":    total,
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.catalogService.GetProduct(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ListBrands(c echo.Context) error {
	ctx := c.Request().Context()

	brands, err := h.catalogService.Brands(ctx, c.QueryParam("category"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"brands": brands})
}

func (h *ProductHandler) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()

	reviews, err := h.catalogService.ListReviews(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"reviews": reviews})
}

func (h *ProductHandler) SubmitReview(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.authService.GetUser(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	if err := h.catalogService.SubmitReview(ctx, c.Param("id"), user, req.Rating, req.Comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]string{"status": "review saved"})
}
