package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrQuantityInvalid = errors.New("quantity must be at least 1")
	ErrNotInCart       = errors.New("product not in cart")
)

// Item is one cart line. Price and Stock are snapshots taken when the
// product was added; they are not refreshed against the catalog until
// the confirm step re-validates stock.
type Item struct {
	ProductID string          `json:"product"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	Stock     int             `json:"stock"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart lives in the session store, one per session, until the order
// completes or the session expires.
type Cart struct {
	Items []Item `json:"items"`
}

// Add merges by product id: adding a product already in the cart sums
// the quantities, capped at the snapshotted stock.
func (c *Cart) Add(item Item) error {
	if item.Quantity < 1 {
		return ErrQuantityInvalid
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			qty := c.Items[i].Quantity + item.Quantity
			if item.Stock > 0 && qty > item.Stock {
				qty = item.Stock
			}
			c.Items[i].Quantity = qty
			c.Items[i].Stock = item.Stock
			return nil
		}
	}
	if item.Stock > 0 && item.Quantity > item.Stock {
		item.Quantity = item.Stock
	}
	c.Items = append(c.Items, item)
	return nil
}

func (c *Cart) UpdateQuantity(productID string, qty int) error {
	if qty < 1 {
		return ErrQuantityInvalid
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if c.Items[i].Stock > 0 && qty > c.Items[i].Stock {
				qty = c.Items[i].Stock
			}
			c.Items[i].Quantity = qty
			return nil
		}
	}
	return ErrNotInCart
}

func (c *Cart) Remove(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Clear empties the cart. Called on order completion.
func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}
