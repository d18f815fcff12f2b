// Package report builds the back-office aggregations and their
// exported documents. Aggregation is pure read-side work over
// collections already fetched into memory.
package report

import (
	"github.com/shopspring/decimal"

	"storefront/internal/model"
)

// Summary is the admin dashboard aggregation.
type Summary struct {
	ProductCount int             `json:"productCount"`
	OrderCount   int             `json:"orderCount"`
	UserCount    int             `json:"userCount"`
	OutOfStock   int             `json:"outOfStock"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
}

func Summarize(products []*model.Product, orders []*model.Order, users []*model.User) Summary {
	summary := Summary{
		ProductCount: len(products),
		OrderCount:   len(orders),
		UserCount:    len(users),
		TotalAmount:  decimal.Zero,
	}

	for _, product := range products {
		if product.Stock == 0 {
			summary.OutOfStock++
		}
	}
	for _, order := range orders {
		summary.TotalAmount = summary.TotalAmount.Add(order.TotalPrice)
	}

	return summary
}
