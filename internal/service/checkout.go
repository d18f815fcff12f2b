package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/client"
	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
	"storefront/internal/session"
)

var (
	ErrCartEmpty     = errors.New("cart is empty")
	ErrPaymentFailed = errors.New("payment not succeeded")
	ErrStockChanged  = errors.New("item quantity exceeds current stock")
)

func checkoutKey(sessionID string) string {
	return "orderInfo:" + sessionID
}

// CheckoutService drives the shipping → confirm → pay → success
// workflow. The checkout session value object carries everything
// between steps; nothing is read from ambient storage.
type CheckoutService interface {
	SaveShipping(ctx context.Context, sessionID, userID string, info model.ShippingInfo) (*checkout.Session, error)
	Confirm(ctx context.Context, sessionID, userID string) (*checkout.Session, *cart.Cart, error)
	SubmitPayment(ctx context.Context, sessionID, userID string) (*checkout.Session, *client.PaymentIntent, error)
	CompletePayment(ctx context.Context, sessionID, userID string, payment model.PaymentInfo) (*model.Order, error)
	Session(ctx context.Context, sessionID string) (*checkout.Session, error)
}

type checkoutServiceImpl struct {
	db          *gorm.DB
	stripe      client.StripeClient
	carts       CartService
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	publisher   events.Publisher
	sessions    session.Store
	rules       pricing.Rules
	currency    string
	ttl         time.Duration
	logger      *slog.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	stripe client.StripeClient,
	carts CartService,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	publisher events.Publisher,
	sessions session.Store,
	rules pricing.Rules,
	currency string,
	ttl time.Duration,
	logger *slog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:          db,
		stripe:      stripe,
		carts:       carts,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		publisher:   publisher,
		sessions:    sessions,
		rules:       rules,
		currency:    currency,
		ttl:         ttl,
		logger:      logger,
	}
}

func (s *checkoutServiceImpl) SaveShipping(ctx context.Context, sessionID, userID string, info model.ShippingInfo) (*checkout.Session, error) {
	sess, err := s.loadOrCreate(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if err := sess.EnterShipping(info); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Confirm re-validates the cart against current stock, computes the
// quote and locks it into the session. A missing shipping address is
// reported as checkout.ErrShippingIncomplete so the handler can
// redirect to /shipping instead of failing.
func (s *checkoutServiceImpl) Confirm(ctx context.Context, sessionID, userID string) (*checkout.Session, *cart.Cart, error) {
	sess, err := s.loadOrCreate(ctx, sessionID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !sess.Shipping.Complete() {
		return nil, nil, checkout.ErrShippingIncomplete
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if c.IsEmpty() {
		return nil, nil, ErrCartEmpty
	}

	if err := s.validateStock(ctx, c); err != nil {
		return nil, nil, err
	}

	quote := s.rules.Quote(c.Subtotal())
	if err := sess.Confirm(quote); err != nil {
		return nil, nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, nil, err
	}
	return sess, c, nil
}

// SubmitPayment creates the payment intent for the confirmed quote.
// The session's idempotency key rides along, so a double submit comes
// back with the same intent instead of a second charge attempt.
func (s *checkoutServiceImpl) SubmitPayment(ctx context.Context, sessionID, userID string) (*checkout.Session, *client.PaymentIntent, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess == nil || sess.Quote == nil {
		return nil, nil, checkout.ErrNotConfirmed
	}
	if sess.Terminal() {
		return nil, nil, checkout.ErrCompleted
	}
	if !sess.Shipping.Complete() {
		return nil, nil, checkout.ErrShippingIncomplete
	}

	customerName := userID
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil {
		customerName = user.Name
	}

	intent, err := s.stripe.CreatePaymentIntent(ctx, &client.PaymentIntentRequest{
		Amount:         sess.Quote.AmountMinor(),
		Currency:       s.currency,
		CustomerName:   customerName,
		Shipping:       sess.Shipping,
		IdempotencyKey: sess.IdempotencyKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create payment intent: %w", err)
	}

	if err := sess.SubmitPayment(intent.ID); err != nil {
		return nil, nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, nil, err
	}
	return sess, intent, nil
}

// CompletePayment applies the processor's confirmation result. Exactly
// one order is created per succeeded payment; any other status leaves
// nothing persisted and the session in PaymentFailed, ready for a
// manual retry. The client-reported status is advisory: before
// anything is written, the intent is re-read from the processor and
// its status decides.
func (s *checkoutServiceImpl) CompletePayment(ctx context.Context, sessionID, userID string, payment model.PaymentInfo) (*model.Order, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, checkout.ErrNotConfirmed
	}

	if sess.Terminal() {
		// completion replay after success: hand back the existing order
		return s.orderRepo.FindByIntentID(ctx, sess.IntentID)
	}
	if sess.State != checkout.StatePaymentSubmitted || sess.Quote == nil {
		return nil, checkout.ErrNotSubmitted
	}

	if payment.Status != "succeeded" {
		if err := sess.Complete(payment.Status); err != nil {
			return nil, err
		}
		if err := s.save(ctx, sess); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: status %q", ErrPaymentFailed, payment.Status)
	}

	intent, err := s.stripe.RetrievePaymentIntent(ctx, sess.IntentID)
	if err != nil {
		return nil, fmt.Errorf("verify payment intent: %w", err)
	}
	if intent.Status != "succeeded" {
		if err := sess.Complete(intent.Status); err != nil {
			return nil, err
		}
		if err := s.save(ctx, sess); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: processor reports %q", ErrPaymentFailed, intent.Status)
	}

	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrCartEmpty
	}

	order := buildOrder(userID, sess, c, model.PaymentInfo{IntentID: sess.IntentID, Status: intent.Status})

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range c.Items {
			if err := s.productRepo.AdjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return fmt.Errorf("adjust stock for %s: %w", item.ProductID, err)
			}
		}
		return s.orderRepo.Create(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	if err := sess.Complete(intent.Status); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("clear cart after order", "session", sessionID, "error", err)
	}

	if err := s.publisher.PublishOrderCreated(ctx, orderCreatedPayload(order)); err != nil {
		s.logger.Warn("publish order created", "order", order.ID, "error", err)
	}

	return order, nil
}

func (s *checkoutServiceImpl) Session(ctx context.Context, sessionID string) (*checkout.Session, error) {
	return s.load(ctx, sessionID)
}

func (s *checkoutServiceImpl) validateStock(ctx context.Context, c *cart.Cart) error {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindMany(ctx, ids)
	if err != nil {
		return err
	}
	stock := make(map[string]int, len(products))
	for _, p := range products {
		stock[p.ID] = p.Stock
	}

	for _, item := range c.Items {
		if item.Quantity > stock[item.ProductID] {
			return fmt.Errorf("%w: %s", ErrStockChanged, item.Name)
		}
	}
	return nil
}

func (s *checkoutServiceImpl) load(ctx context.Context, sessionID string) (*checkout.Session, error) {
	raw, err := s.sessions.Get(ctx, checkoutKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("load checkout session: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	sess := &checkout.Session{}
	if err := json.Unmarshal([]byte(raw), sess); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	return sess, nil
}

func (s *checkoutServiceImpl) loadOrCreate(ctx context.Context, sessionID, userID string) (*checkout.Session, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.Terminal() {
		sess = checkout.NewSession(sessionID, userID)
	}
	return sess, nil
}

func (s *checkoutServiceImpl) save(ctx context.Context, sess *checkout.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode checkout session: %w", err)
	}
	return s.sessions.Set(ctx, checkoutKey(sess.ID), string(raw), s.ttl)
}

func buildOrder(userID string, sess *checkout.Session, c *cart.Cart, payment model.PaymentInfo) *model.Order {
	now := time.Now()
	order := &model.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		Status:        model.OrderStatusPaid,
		Shipping:      sess.Shipping,
		Payment:       payment,
		ItemsPrice:    sess.Quote.ItemsPrice,
		ShippingPrice: sess.Quote.ShippingPrice,
		TaxPrice:      sess.Quote.TaxPrice,
		TotalPrice:    sess.Quote.TotalPrice,
		PaidAt:        &now,
	}
	for _, item := range c.Items {
		order.Items = append(order.Items, model.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Image:     item.Image,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return order
}

func orderCreatedPayload(order *model.Order) events.OrderCreatedPayload {
	payload := events.OrderCreatedPayload{
		OrderID:    order.ID,
		UserID:     order.UserID,
		TotalPrice: order.TotalPrice,
		IntentID:   order.Payment.IntentID,
	}
	for _, item := range order.Items {
		payload.Items = append(payload.Items, events.OrderCreatedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return payload
}
