package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"storefront/internal/model"
	"storefront/internal/pricing"
)

// State of one checkout session. The flow is linear:
//
//	NoShipping → ShippingEntered → OrderConfirmed → PaymentSubmitted
//	                                       ↑                │
//	                                       └── PaymentFailed ┘ → PaymentSucceeded
//
// PaymentFailed is recoverable: the user resubmits and the session goes
// back through PaymentSubmitted. PaymentSucceeded is terminal.
type State string

const (
	StateNoShipping       State = "NO_SHIPPING"
	StateShippingEntered  State = "SHIPPING_ENTERED"
	StateOrderConfirmed   State = "ORDER_CONFIRMED"
	StatePaymentSubmitted State = "PAYMENT_SUBMITTED"
	StatePaymentSucceeded State = "PAYMENT_SUCCEEDED"
	StatePaymentFailed    State = "PAYMENT_FAILED"
)

var (
	// ErrShippingIncomplete means the confirm step was entered without a
	// full shipping address. Handlers turn it into a redirect to
	// /shipping, not an error page.
	ErrShippingIncomplete = errors.New("shipping information incomplete")
	ErrNotConfirmed       = errors.New("order not confirmed")
	ErrNotSubmitted       = errors.New("no payment submitted")
	ErrCompleted          = errors.New("checkout already completed")
)

// Session is the checkout value object threaded through the workflow.
// It replaces ambient scratch-storage keys: everything the payment step
// needs was written here by the confirm step.
type Session struct {
	ID       string             `json:"id"`
	UserID   string             `json:"userId"`
	State    State              `json:"state"`
	Shipping model.ShippingInfo `json:"shipping"`
	Quote    *pricing.Quote     `json:"orderInfo,omitempty"`

	// IdempotencyKey is generated exactly once, when the session first
	// reaches OrderConfirmed, and sent with every payment-intent request
	// for this session. A double submit therefore reuses one intent.
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
	IntentID       string `json:"intentId,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func NewSession(id, userID string) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		State:     StateNoShipping,
		UpdatedAt: time.Now(),
	}
}

func (s *Session) Terminal() bool {
	return s.State == StatePaymentSucceeded
}

// EnterShipping records the address. Allowed any time before the
// payment succeeds, so the user can go back and edit.
func (s *Session) EnterShipping(info model.ShippingInfo) error {
	if s.Terminal() {
		return ErrCompleted
	}
	if !info.Complete() {
		return ErrShippingIncomplete
	}
	s.Shipping = info
	s.State = StateShippingEntered
	s.touch()
	return nil
}

// Confirm locks in the quote and moves to OrderConfirmed. The
// idempotency key is minted here, once per session.
func (s *Session) Confirm(quote pricing.Quote) error {
	if s.Terminal() {
		return ErrCompleted
	}
	if !s.Shipping.Complete() {
		return ErrShippingIncomplete
	}
	s.Quote = &quote
	if s.IdempotencyKey == "" {
		s.IdempotencyKey = uuid.NewString()
	}
	s.State = StateOrderConfirmed
	s.touch()
	return nil
}

// SubmitPayment records the created payment intent. Valid from
// OrderConfirmed, or from PaymentFailed for a manual retry.
func (s *Session) SubmitPayment(intentID string) error {
	if s.Terminal() {
		return ErrCompleted
	}
	if s.State != StateOrderConfirmed && s.State != StatePaymentFailed && s.State != StatePaymentSubmitted {
		return ErrNotConfirmed
	}
	if s.Quote == nil {
		return ErrNotConfirmed
	}
	s.IntentID = intentID
	s.State = StatePaymentSubmitted
	s.touch()
	return nil
}

// Complete applies the processor's confirmation result. Anything but
// "succeeded" lands in PaymentFailed with the form re-enabled.
func (s *Session) Complete(status string) error {
	if s.Terminal() {
		return ErrCompleted
	}
	if s.State != StatePaymentSubmitted {
		return ErrNotSubmitted
	}
	if status == "succeeded" {
		s.State = StatePaymentSucceeded
	} else {
		s.State = StatePaymentFailed
	}
	s.touch()
	return nil
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now()
}
