package catalog

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// EffectivePrice is the unit price after the percent discount. A negative
// price counts as zero and the discount is clamped to 0..100, so the result
// is never negative.
func EffectivePrice(p Product) decimal.Decimal {
	price := decimal.Max(decimal.NewFromFloat(p.Price), decimal.Zero)
	if p.Discount == nil {
		return price
	}
	discount := decimal.NewFromInt(int64(*p.Discount))
	discount = decimal.Min(decimal.Max(discount, decimal.Zero), hundred)
	return price.Mul(hundred.Sub(discount).Div(hundred))
}

// DisplayAmount rounds an amount to the two places the storefront shows.
func DisplayAmount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
