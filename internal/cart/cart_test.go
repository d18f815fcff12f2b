package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string, price string, qty, stock int) Item {
	return Item{
		ProductID: id,
		Name:      "product " + id,
		Price:     decimal.RequireFromString(price),
		Quantity:  qty,
		Stock:     stock,
	}
}

func TestAddMergesByProductID(t *testing.T) {
	c := &Cart{}

	require.NoError(t, c.Add(item("p1", "10", 2, 50)))
	require.NoError(t, c.Add(item("p1", "10", 3, 50)))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestAddCapsAtStock(t *testing.T) {
	c := &Cart{}

	require.NoError(t, c.Add(item("p1", "10", 4, 5)))
	require.NoError(t, c.Add(item("p1", "10", 4, 5)))

	require.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)

	require.NoError(t, c.Add(item("p2", "10", 9, 3)))
	assert.Equal(t, 3, c.Items[1].Quantity)
}

func TestAddRejectsZeroQuantity(t *testing.T) {
	c := &Cart{}
	assert.ErrorIs(t, c.Add(item("p1", "10", 0, 5)), ErrQuantityInvalid)
}

func TestUpdateQuantity(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item("p1", "10", 1, 5)))

	require.NoError(t, c.UpdateQuantity("p1", 3))
	assert.Equal(t, 3, c.Items[0].Quantity)

	// capped at snapshotted stock
	require.NoError(t, c.UpdateQuantity("p1", 99))
	assert.Equal(t, 5, c.Items[0].Quantity)

	assert.ErrorIs(t, c.UpdateQuantity("p1", 0), ErrQuantityInvalid)
	assert.ErrorIs(t, c.UpdateQuantity("missing", 1), ErrNotInCart)
}

func TestRemove(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item("p1", "10", 1, 5)))
	require.NoError(t, c.Add(item("p2", "20", 1, 5)))

	c.Remove("p1")

	require.Len(t, c.Items, 1)
	assert.Equal(t, "p2", c.Items[0].ProductID)

	// removing an absent product is a no-op
	c.Remove("p1")
	assert.Len(t, c.Items, 1)
}

func TestClear(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item("p1", "10", 1, 5)))

	c.Clear()

	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())
}

func TestSubtotal(t *testing.T) {
	c := &Cart{}
	require.NoError(t, c.Add(item("p1", "100", 1, 5)))
	require.NoError(t, c.Add(item("p2", "150", 1, 5)))

	assert.Equal(t, "250", c.Subtotal().String())

	require.NoError(t, c.UpdateQuantity("p2", 2))
	assert.Equal(t, "400", c.Subtotal().String())
}
