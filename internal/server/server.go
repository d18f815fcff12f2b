package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"storefront/internal/handler"
	"storefront/internal/middleware"
)

type Server struct {
	echo  *echo.Echo
	guard *middleware.Guard

	productHandler  *handler.ProductHandler
	userHandler     *handler.UserHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	orderHandler    *handler.OrderHandler
	adminHandler    *handler.AdminHandler

	stripePublicKey string
}

// route is one entry of the declarative route table: path, handler and
// the capability a caller must hold. The guard evaluates the capability
// centrally; no handler carries its own access check.
type route struct {
	method     string
	path       string
	handler    echo.HandlerFunc
	capability middleware.Capability
}

func NewServer(
	guard *middleware.Guard,
	productHandler *handler.ProductHandler,
	userHandler *handler.UserHandler,
	cartHandler *handler.CartHandler,
	checkoutHandler *handler.CheckoutHandler,
	orderHandler *handler.OrderHandler,
	adminHandler *handler.AdminHandler,
	stripePublicKey string,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.Session())

	s := &Server{
		echo:            e,
		guard:           guard,
		productHandler:  productHandler,
		userHandler:     userHandler,
		cartHandler:     cartHandler,
		checkoutHandler: checkoutHandler,
		orderHandler:    orderHandler,
		adminHandler:    adminHandler,
		stripePublicKey: stripePublicKey,
	}

	s.setupRoutes()
	return s
}

func (s *Server) routes() []route {
	return []route{
		// -------- public --------
		{http.MethodGet, "/health", s.health, middleware.CapNone},
		{http.MethodGet, "/stripeapi", s.stripeAPIKey, middleware.CapNone},
		{http.MethodGet, "/products", s.productHandler.ListProducts, middleware.CapNone},
		{http.MethodGet, "/products/:id", s.productHandler.GetProduct, middleware.CapNone},
		{http.MethodGet, "/products/:id/reviews", s.productHandler.ListReviews, middleware.CapNone},
		{http.MethodGet, "/brands", s.productHandler.ListBrands, middleware.CapNone},
		{http.MethodPost, "/register", s.userHandler.Register, middleware.CapNone},
		{http.MethodPost, "/login", s.userHandler.Login, middleware.CapNone},
		{http.MethodPost, "/logout", s.userHandler.Logout, middleware.CapNone},

		// -------- authenticated --------
		{http.MethodGet, "/me", s.userHandler.Profile, middleware.CapAuthenticated},
		{http.MethodPut, "/me", s.userHandler.UpdateProfile, middleware.CapAuthenticated},
		{http.MethodPut, "/me/password", s.userHandler.UpdatePassword, middleware.CapAuthenticated},
		{http.MethodPost, "/products/:id/reviews", s.productHandler.SubmitReview, middleware.CapAuthenticated},
		{http.MethodGet, "/cart", s.cartHandler.GetCart, middleware.CapAuthenticated},
		{http.MethodPost, "/cart", s.cartHandler.AddItem, middleware.CapAuthenticated},
		{http.MethodPut, "/cart/:productId", s.cartHandler.UpdateItem, middleware.CapAuthenticated},
		{http.MethodDelete, "/cart/:productId", s.cartHandler.RemoveItem, middleware.CapAuthenticated},
		{http.MethodPost, "/shipping", s.checkoutHandler.SaveShipping, middleware.CapAuthenticated},
		{http.MethodGet, "/order/confirm", s.checkoutHandler.ConfirmOrder, middleware.CapAuthenticated},
		{http.MethodGet, "/order/confirm/report", s.checkoutHandler.OrderReport, middleware.CapAuthenticated},
		{http.MethodPost, "/payment/process", s.checkoutHandler.ProcessPayment, middleware.CapAuthenticated},
		{http.MethodPost, "/payment/complete", s.checkoutHandler.CompletePayment, middleware.CapAuthenticated},
		{http.MethodGet, "/payment/qr", s.checkoutHandler.PaymentQR, middleware.CapAuthenticated},
		{http.MethodGet, "/orders", s.orderHandler.ListMyOrders, middleware.CapAuthenticated},
		{http.MethodGet, "/orders/:id", s.orderHandler.GetMyOrder, middleware.CapAuthenticated},

		// -------- admin --------
		{http.MethodGet, "/admin/dashboard", s.adminHandler.Dashboard, middleware.CapAdmin},
		{http.MethodGet, "/admin/products", s.productHandler.ListProducts, middleware.CapAdmin},
		{http.MethodPost, "/admin/products", s.adminHandler.CreateProduct, middleware.CapAdmin},
		{http.MethodPut, "/admin/products/:id", s.adminHandler.UpdateProduct, middleware.CapAdmin},
		{http.MethodDelete, "/admin/products/:id", s.adminHandler.DeleteProduct, middleware.CapAdmin},
		{http.MethodGet, "/admin/orders", s.adminHandler.ListOrders, middleware.CapAdmin},
		{http.MethodPut, "/admin/orders/:id", s.adminHandler.UpdateOrder, middleware.CapAdmin},
		{http.MethodDelete, "/admin/orders/:id", s.adminHandler.DeleteOrder, middleware.CapAdmin},
		{http.MethodGet, "/admin/users", s.adminHandler.ListUsers, middleware.CapAdmin},
		{http.MethodGet, "/admin/users/:id", s.adminHandler.GetUser, middleware.CapAdmin},
		{http.MethodPut, "/admin/users/:id", s.adminHandler.UpdateUser, middleware.CapAdmin},
		{http.MethodDelete, "/admin/users/:id", s.adminHandler.DeleteUser, middleware.CapAdmin},
		{http.MethodGet, "/admin/reviews", s.adminHandler.ListReviews, middleware.CapAdmin},
		{http.MethodDelete, "/admin/reviews/:id", s.adminHandler.DeleteReview, middleware.CapAdmin},
		{http.MethodGet, "/admin/report", s.adminHandler.Report, middleware.CapAdmin},
	}
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api/v1")

	for _, r := range s.routes() {
		api.Add(r.method, r.path, r.handler, s.guard.Require(r.capability))
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) stripeAPIKey(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"stripeApiKey": s.stripePublicKey})
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
