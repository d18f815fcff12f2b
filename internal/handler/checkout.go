package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/checkout"
	"storefront/internal/dto"
	"storefront/internal/middleware"
	"storefront/internal/report"
	"storefront/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	authService     service.AuthService
}

func NewCheckoutHandler(checkoutService service.CheckoutService, authService service.AuthService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		authService:     authService,
	}
}

func (h *CheckoutHandler) SaveShipping(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ShippingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	sess, err := h.checkoutService.SaveShipping(ctx, middleware.SessionID(c), middleware.UserID(c), req.ShippingInfo)
	if err != nil {
		if errors.Is(err, checkout.ErrShippingIncomplete) {
			return echo.NewHTTPError(http.StatusBadRequest, "all shipping fields are required")
		}
		return err
	}

	return c.JSON(http.StatusOK, sess)
}

// ConfirmOrder computes the quote. Entering the confirm step without a
// shipping address is a navigation error, not a failure: redirect back
// to the shipping form.
func (h *CheckoutHandler) ConfirmOrder(c echo.Context) error {
	ctx := c.Request().Context()

	sess, cartState, err := h.checkoutService.Confirm(ctx, middleware.SessionID(c), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrShippingIncomplete):
			return c.Redirect(http.StatusFound, "/shipping")
		case errors.Is(err, service.ErrCartEmpty):
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		case errors.Is(err, service.ErrStockChanged):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session":   sess,
		"items":     cartState.Items,
		"orderInfo": sess.Quote,
	})
}

// ProcessPayment creates the payment intent and returns the
// client-confirmable secret for the processor's browser SDK.
func (h *CheckoutHandler) ProcessPayment(c echo.Context) error {
	ctx := c.Request().Context()

	_, intent, err := h.checkoutService.SubmitPayment(ctx, middleware.SessionID(c), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrShippingIncomplete):
			return c.Redirect(http.StatusFound, "/shipping")
		case errors.Is(err, checkout.ErrNotConfirmed):
			return c.Redirect(http.StatusFound, "/order/confirm")
		case errors.Is(err, checkout.ErrCompleted):
			return echo.NewHTTPError(http.StatusConflict, "checkout already completed")
		}
		return err
	}

	return c.JSON(http.StatusOK, dto.PaymentProcessResponse{
		ClientSecret: intent.ClientSecret,
		IntentID:     intent.ID,
		Amount:       intent.Amount,
	})
}

// CompletePayment receives the processor confirmation result. A
// non-succeeded status creates no order and leaves the payment form
// ready for a manual retry.
func (h *CheckoutHandler) CompletePayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CompletePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	order, err := h.checkoutService.CompletePayment(ctx, middleware.SessionID(c), middleware.UserID(c), req.PaymentInfo)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentFailed):
			return echo.NewHTTPError(http.StatusPaymentRequired, "payment failed, please try again")
		case errors.Is(err, checkout.ErrNotConfirmed), errors.Is(err, checkout.ErrNotSubmitted):
			return c.Redirect(http.StatusFound, "/order/confirm")
		case errors.Is(err, service.ErrCartEmpty):
			return echo.NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"order":   order,
		"success": true,
	})
}

// OrderReport renders the confirm-step order summary PDF.
func (h *CheckoutHandler) OrderReport(c echo.Context) error {
	ctx := c.Request().Context()

	sess, cartState, err := h.checkoutService.Confirm(ctx, middleware.SessionID(c), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, checkout.ErrShippingIncomplete) {
			return c.Redirect(http.StatusFound, "/shipping")
		}
		return err
	}

	name := middleware.UserID(c)
	if user, err := h.authService.GetUser(ctx, name); err == nil {
		name = user.Name
	}

	var buf bytes.Buffer
	if err := report.WriteOrderPDF(&buf, name, sess.Shipping, cartState.Items, *sess.Quote); err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+report.OrderReportFilename+`"`)
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

// PaymentQR renders the payable total as a QR PNG for the payment view.
func (h *CheckoutHandler) PaymentQR(c echo.Context) error {
	ctx := c.Request().Context()

	sess, err := h.checkoutService.Session(ctx, middleware.SessionID(c))
	if err != nil {
		return err
	}
	if sess == nil || sess.Quote == nil {
		return c.Redirect(http.StatusFound, "/order/confirm")
	}

	png, err := report.PaymentQR(sess.Quote.TotalPrice, 150)
	if err != nil {
		return err
	}

	return c.Blob(http.StatusOK, "image/png", png)
}
