package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/config"
)

// Rules hold the storefront pricing constants: orders above
// FreeShippingOver ship free, everything else pays ShippingFee,
// and TaxRate is applied to the item subtotal.
type Rules struct {
	FreeShippingOver decimal.Decimal
	ShippingFee      decimal.Decimal
	TaxRate          decimal.Decimal
}

func DefaultRules() Rules {
	return Rules{
		FreeShippingOver: decimal.NewFromInt(200),
		ShippingFee:      decimal.NewFromInt(25),
		TaxRate:          decimal.NewFromFloat(0.05),
	}
}

func RulesFromConfig(cfg config.Checkout) (Rules, error) {
	over, err := decimal.NewFromString(cfg.FreeShippingOver)
	if err != nil {
		return Rules{}, fmt.Errorf("parse free shipping threshold: %w", err)
	}
	fee, err := decimal.NewFromString(cfg.ShippingFee)
	if err != nil {
		return Rules{}, fmt.Errorf("parse shipping fee: %w", err)
	}
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return Rules{}, fmt.Errorf("parse tax rate: %w", err)
	}
	return Rules{FreeShippingOver: over, ShippingFee: fee, TaxRate: rate}, nil
}

// Quote is the computed order pricing. It is serialized into the
// checkout session under the orderInfo key between the confirm and
// payment steps.
type Quote struct {
	ItemsPrice    decimal.Decimal `json:"itemsPrice"`
	ShippingPrice decimal.Decimal `json:"shippingPrice"`
	TaxPrice      decimal.Decimal `json:"taxPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// Quote derives the order pricing from the item subtotal. Tax is
// rounded to cents before summation; the total is rounded after.
func (r Rules) Quote(subtotal decimal.Decimal) Quote {
	fee := r.ShippingFee
	if subtotal.GreaterThan(r.FreeShippingOver) {
		fee = decimal.Zero
	}
	tax := r.TaxRate.Mul(subtotal).Round(2)
	total := subtotal.Add(fee).Add(tax).Round(2)

	return Quote{
		ItemsPrice:    subtotal.Round(2),
		ShippingPrice: fee.Round(2),
		TaxPrice:      tax,
		TotalPrice:    total,
	}
}

// AmountMinor converts the total into minor currency units for the
// payment processor (cents for USD).
func (q Quote) AmountMinor() int64 {
	return q.TotalPrice.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
