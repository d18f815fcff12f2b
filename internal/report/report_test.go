package report

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/cart"
	"storefront/internal/model"
	"storefront/internal/pricing"
)

func sampleCollections() ([]*model.Product, []*model.Order, []*model.User) {
	products := []*model.Product{
		{ID: "p1", Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5},
		{ID: "p2", Name: "Gadget", Price: decimal.NewFromInt(20), Stock: 0},
		{ID: "p3", Name: "Gizmo", Price: decimal.NewFromInt(30), Stock: 0},
	}
	orders := []*model.Order{
		{ID: "o1", Status: model.OrderStatusPaid, TotalPrice: decimal.RequireFromString("262.50")},
		{ID: "o2", Status: model.OrderStatusShipped, TotalPrice: decimal.RequireFromString("37.49")},
	}
	users := []*model.User{
		{ID: "u1", Name: "Ann", Email: "ann@example.com"},
	}
	return products, orders, users
}

func TestSummarize(t *testing.T) {
	products, orders, users := sampleCollections()

	summary := Summarize(products, orders, users)

	assert.Equal(t, 3, summary.ProductCount)
	assert.Equal(t, 2, summary.OrderCount)
	assert.Equal(t, 1, summary.UserCount)
	assert.Equal(t, 2, summary.OutOfStock)
	assert.Equal(t, "299.99", summary.TotalAmount.String())
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil, nil, nil)

	assert.Zero(t, summary.ProductCount)
	assert.Zero(t, summary.OutOfStock)
	assert.True(t, summary.TotalAmount.IsZero())
}

func TestWriteAdminPDF(t *testing.T) {
	products, orders, users := sampleCollections()

	var buf bytes.Buffer
	require.NoError(t, WriteAdminPDF(&buf, products, orders, users))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestWriteOrderPDF(t *testing.T) {
	items := []cart.Item{
		{ProductID: "p1", Name: "Widget", Price: decimal.NewFromInt(100), Quantity: 1},
		{ProductID: "p2", Name: "Gadget", Price: decimal.NewFromInt(150), Quantity: 1},
	}
	quote := pricing.DefaultRules().Quote(decimal.NewFromInt(250))
	shipping := model.ShippingInfo{
		Address: "1 Main St", City: "Springfield", State: "IL",
		PostalCode: "62701", Country: "US", PhoneNo: "555-0100",
	}

	var buf bytes.Buffer
	require.NoError(t, WriteOrderPDF(&buf, "Ann", shipping, items, quote))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPaymentQR(t *testing.T) {
	png, err := PaymentQR(decimal.RequireFromString("262.50"), 150)
	require.NoError(t, err)

	// PNG magic
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
