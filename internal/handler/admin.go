package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"storefront/internal/report"
	"storefront/internal/service"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	summary, err := h.adminService.Summary(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.adminService.CreateProduct(ctx, req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req service.ProductInput
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	product, err := h.adminService.UpdateProduct(ctx, c.Param("id"), req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.adminService.DeleteProduct(ctx, c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "product not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	orders, err := h.adminService.ListOrders(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *AdminHandler) UpdateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.adminService.UpdateOrderStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, "invalid order status")
		}
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *AdminHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.adminService.DeleteOrder(ctx, c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.adminService.ListUsers(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

func (h *AdminHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	user, err := h.adminService.GetUser(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) UpdateUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	user, err := h.adminService.UpdateUser(ctx, c.Param("id"), req.Name, req.Email, req.Role)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.adminService.DeleteUser(ctx, c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()

	reviews, err := h.adminService.ListReviews(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"reviews": reviews})
}

func (h *AdminHandler) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.adminService.DeleteReview(ctx, c.Param("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "review not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}

// Report streams the aggregated back-office report as a PDF download.
func (h *AdminHandler) Report(c echo.Context) error {
	ctx := c.Request().Context()

	var buf bytes.Buffer
	if err := h.adminService.WriteReportPDF(ctx, &buf); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+report.AdminReportFilename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}
