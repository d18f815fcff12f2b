package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
	"storefront/internal/pricing"
)

func completeShipping() model.ShippingInfo {
	return model.ShippingInfo{
		Address:    "1 Main St",
		City:       "Springfield",
		State:      "IL",
		PostalCode: "62701",
		Country:    "US",
		PhoneNo:    "555-0100",
	}
}

func testQuote() pricing.Quote {
	return pricing.DefaultRules().Quote(decimal.NewFromInt(250))
}

func TestNewSessionStartsWithoutShipping(t *testing.T) {
	sess := NewSession("s1", "u1")
	assert.Equal(t, StateNoShipping, sess.State)
	assert.False(t, sess.Terminal())
}

func TestEnterShippingRequiresAllFields(t *testing.T) {
	sess := NewSession("s1", "u1")

	incomplete := completeShipping()
	incomplete.PostalCode = ""
	assert.ErrorIs(t, sess.EnterShipping(incomplete), ErrShippingIncomplete)
	assert.Equal(t, StateNoShipping, sess.State)

	require.NoError(t, sess.EnterShipping(completeShipping()))
	assert.Equal(t, StateShippingEntered, sess.State)
}

func TestConfirmRequiresShipping(t *testing.T) {
	sess := NewSession("s1", "u1")
	assert.ErrorIs(t, sess.Confirm(testQuote()), ErrShippingIncomplete)
}

func TestConfirmMintsIdempotencyKeyOnce(t *testing.T) {
	sess := NewSession("s1", "u1")
	require.NoError(t, sess.EnterShipping(completeShipping()))

	require.NoError(t, sess.Confirm(testQuote()))
	key := sess.IdempotencyKey
	require.NotEmpty(t, key)

	// re-confirming (user went back and forth) keeps the same key
	require.NoError(t, sess.Confirm(testQuote()))
	assert.Equal(t, key, sess.IdempotencyKey)
}

func TestSubmitPaymentRequiresConfirm(t *testing.T) {
	sess := NewSession("s1", "u1")
	require.NoError(t, sess.EnterShipping(completeShipping()))

	assert.ErrorIs(t, sess.SubmitPayment("pi_1"), ErrNotConfirmed)

	require.NoError(t, sess.Confirm(testQuote()))
	require.NoError(t, sess.SubmitPayment("pi_1"))
	assert.Equal(t, StatePaymentSubmitted, sess.State)
	assert.Equal(t, "pi_1", sess.IntentID)
}

func TestCompleteSucceeded(t *testing.T) {
	sess := NewSession("s1", "u1")
	require.NoError(t, sess.EnterShipping(completeShipping()))
	require.NoError(t, sess.Confirm(testQuote()))
	require.NoError(t, sess.SubmitPayment("pi_1"))

	require.NoError(t, sess.Complete("succeeded"))
	assert.Equal(t, StatePaymentSucceeded, sess.State)
	assert.True(t, sess.Terminal())

	// terminal: nothing else moves the session
	assert.ErrorIs(t, sess.EnterShipping(completeShipping()), ErrCompleted)
	assert.ErrorIs(t, sess.Confirm(testQuote()), ErrCompleted)
	assert.ErrorIs(t, sess.SubmitPayment("pi_2"), ErrCompleted)
	assert.ErrorIs(t, sess.Complete("succeeded"), ErrCompleted)
}

func TestCompleteFailedAllowsRetry(t *testing.T) {
	sess := NewSession("s1", "u1")
	require.NoError(t, sess.EnterShipping(completeShipping()))
	require.NoError(t, sess.Confirm(testQuote()))
	require.NoError(t, sess.SubmitPayment("pi_1"))

	require.NoError(t, sess.Complete("requires_payment_method"))
	assert.Equal(t, StatePaymentFailed, sess.State)
	assert.False(t, sess.Terminal())

	// manual resubmit goes straight back through PaymentSubmitted,
	// carrying the same idempotency key
	key := sess.IdempotencyKey
	require.NoError(t, sess.SubmitPayment("pi_1"))
	assert.Equal(t, StatePaymentSubmitted, sess.State)
	assert.Equal(t, key, sess.IdempotencyKey)

	require.NoError(t, sess.Complete("succeeded"))
	assert.True(t, sess.Terminal())
}

func TestCompleteRequiresSubmission(t *testing.T) {
	sess := NewSession("s1", "u1")
	require.NoError(t, sess.EnterShipping(completeShipping()))
	require.NoError(t, sess.Confirm(testQuote()))

	assert.ErrorIs(t, sess.Complete("succeeded"), ErrNotSubmitted)
}
