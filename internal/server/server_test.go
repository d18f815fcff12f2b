package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/events"
	"storefront/internal/handler"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/session"
)

type serverStripe struct{}

func (serverStripe) CreatePaymentIntent(ctx context.Context, req *client.PaymentIntentRequest) (*client.PaymentIntent, error) {
	return &client.PaymentIntent{
		ID:           "pi_test",
		ClientSecret: "pi_test_secret",
		Status:       "requires_payment_method",
		Amount:       req.Amount,
	}, nil
}

func (serverStripe) RetrievePaymentIntent(ctx context.Context, intentID string) (*client.PaymentIntent, error) {
	return &client.PaymentIntent{ID: intentID, Status: "succeeded"}, nil
}

type fixture struct {
	srv       *Server
	auth      service.AuthService
	userRepo  repository.UserRepository
	userToken string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := client.InitSQLiteClient(fmt.Sprintf("file:server_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)

	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	ctx := context.Background()
	require.NoError(t, productRepo.Create(ctx, &model.Product{
		ID: "p1", Name: "Widget", Price: decimal.NewFromInt(100), Stock: 5,
	}))
	require.NoError(t, productRepo.Create(ctx, &model.Product{
		ID: "p2", Name: "Gadget", Price: decimal.NewFromInt(150), Stock: 5,
	}))

	authCfg := &config.Auth{JWTSecret: "test-secret", TokenTTLMin: 60, CookieName: "token"}
	store := session.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authService := service.NewAuthService(userRepo, authCfg)
	catalogService := service.NewCatalogService(productRepo, reviewRepo)
	cartService := service.NewCartService(store, productRepo, time.Hour)
	checkoutService := service.NewCheckoutService(
		db, serverStripe{}, cartService,
		orderRepo, productRepo, userRepo,
		events.NoopPublisher{}, store, pricing.DefaultRules(),
		"usd", time.Hour, logger,
	)
	orderService := service.NewOrderService(orderRepo)
	adminService := service.NewAdminService(productRepo, orderRepo, userRepo, reviewRepo)

	guard := middleware.NewGuard(authService, authCfg.CookieName)

	srv := NewServer(
		guard,
		handler.NewProductHandler(catalogService, authService),
		handler.NewUserHandler(authService, authCfg.CookieName),
		handler.NewCartHandler(cartService),
		handler.NewCheckoutHandler(checkoutService, authService),
		handler.NewOrderHandler(orderService),
		handler.NewAdminHandler(adminService),
		"pk_test",
	)

	f := &fixture{srv: srv, auth: authService, userRepo: userRepo}

	_, token, err := authService.Register(ctx, "Ann", "ann@example.com", "password1")
	require.NoError(t, err)
	f.userToken = token

	return f
}

func (f *fixture) adminToken(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	user, token, err := f.auth.Register(ctx, "Root", "root@example.com", "password1")
	require.NoError(t, err)

	user.Role = model.RoleAdmin
	require.NoError(t, f.userRepo.Update(ctx, user))

	// re-login so the token carries the admin role claim
	_, token, err = f.auth.Login(ctx, "root@example.com", "password1")
	require.NoError(t, err)
	return token
}

func (f *fixture) do(method, path, token, sessionID string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "storefront_session", Value: sessionID})
	}

	w := httptest.NewRecorder()
	f.srv.echo.ServeHTTP(w, req)
	return w
}

func TestGuardRedirectsAnonymousFromAuthenticatedRoutes(t *testing.T) {
	f := newFixture(t)

	for _, r := range f.srv.routes() {
		if r.capability != middleware.CapAuthenticated {
			continue
		}
		w := f.do(r.method, "/api/v1"+routePath(r.path), "", "", "")
		assert.Equal(t, http.StatusFound, w.Code, "%s %s", r.method, r.path)
		assert.Equal(t, "/login", w.Header().Get("Location"), "%s %s", r.method, r.path)
	}
}

func TestGuardRedirectsNonAdminFromAdminRoutes(t *testing.T) {
	f := newFixture(t)

	for _, r := range f.srv.routes() {
		if r.capability != middleware.CapAdmin {
			continue
		}
		w := f.do(r.method, "/api/v1"+routePath(r.path), f.userToken, "", "")
		assert.Equal(t, http.StatusFound, w.Code, "%s %s", r.method, r.path)
		assert.Equal(t, "/login", w.Header().Get("Location"), "%s %s", r.method, r.path)
	}
}

func TestGuardAllowsAdmin(t *testing.T) {
	f := newFixture(t)
	token := f.adminToken(t)

	w := f.do(http.MethodGet, "/api/v1/admin/dashboard", token, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var summary struct {
		ProductCount int `json:"productCount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.ProductCount)
}

func TestPublicRoutesNeedNoAuth(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/products", "", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/v1/health", "", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConfirmWithoutShippingRedirects(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/api/v1/order/confirm", f.userToken, "sess-1", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/shipping", w.Header().Get("Location"))
}

func TestCheckoutEndToEnd(t *testing.T) {
	f := newFixture(t)
	sid := "sess-e2e"

	w := f.do(http.MethodPost, "/api/v1/cart", f.userToken, sid, `{"productId":"p1","quantity":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(http.MethodPost, "/api/v1/cart", f.userToken, sid, `{"productId":"p2","quantity":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	shipping := `{"address":"1 Main St","city":"Springfield","state":"IL","postalCode":"62701","country":"US","phoneNo":"555-0100"}`
	w = f.do(http.MethodPost, "/api/v1/shipping", f.userToken, sid, shipping)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodGet, "/api/v1/order/confirm", f.userToken, sid, "")
	require.Equal(t, http.StatusOK, w.Code)

	var confirm struct {
		OrderInfo struct {
			ItemsPrice    string `json:"itemsPrice"`
			ShippingPrice string `json:"shippingPrice"`
			TaxPrice      string `json:"taxPrice"`
			TotalPrice    string `json:"totalPrice"`
		} `json:"orderInfo"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &confirm))
	assert.Equal(t, "250", confirm.OrderInfo.ItemsPrice)
	assert.Equal(t, "0", confirm.OrderInfo.ShippingPrice)
	assert.Equal(t, "12.5", confirm.OrderInfo.TaxPrice)
	assert.Equal(t, "262.5", confirm.OrderInfo.TotalPrice)

	// completing before any payment was submitted is a navigation error
	w = f.do(http.MethodPost, "/api/v1/payment/complete", f.userToken, sid,
		`{"paymentInfo":{"id":"pi_test","status":"succeeded"}}`)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/order/confirm", w.Header().Get("Location"))

	w = f.do(http.MethodPost, "/api/v1/payment/process", f.userToken, sid, "{}")
	require.Equal(t, http.StatusOK, w.Code)

	var process struct {
		ClientSecret string `json:"client_secret"`
		Amount       int64  `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &process))
	assert.Equal(t, "pi_test_secret", process.ClientSecret)
	assert.Equal(t, int64(26250), process.Amount)

	// failed confirmation: no order, submit stays retryable
	w = f.do(http.MethodPost, "/api/v1/payment/complete", f.userToken, sid,
		`{"paymentInfo":{"id":"pi_test","status":"requires_payment_method"}}`)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	w = f.do(http.MethodGet, "/api/v1/orders", f.userToken, sid, "")
	require.Equal(t, http.StatusOK, w.Code)
	var orders struct {
		Orders []json.RawMessage `json:"orders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Empty(t, orders.Orders)

	// retry and succeed
	w = f.do(http.MethodPost, "/api/v1/payment/process", f.userToken, sid, "{}")
	require.Equal(t, http.StatusOK, w.Code)
	w = f.do(http.MethodPost, "/api/v1/payment/complete", f.userToken, sid,
		`{"paymentInfo":{"id":"pi_test","status":"succeeded"}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	// cart cleared, exactly one order recorded
	w = f.do(http.MethodGet, "/api/v1/cart", f.userToken, sid, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":null}`, w.Body.String())

	w = f.do(http.MethodGet, "/api/v1/orders", f.userToken, sid, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders.Orders, 1)
}

// routePath substitutes dummy values for path params so the route can
// be requested directly.
func routePath(path string) string {
	return strings.NewReplacer(":id", "any", ":productId", "any").Replace(path)
}
