package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// DisplayOptions controls how a stored price is shown to customers.
type DisplayOptions struct {
	// Rounding is the increment the VAT-inclusive price is rounded to; zero
	// leaves it unrounded.
	Rounding float64
	ShowVAT  bool
}

var half = decimal.NewFromFloat(0.5)

// DisplayPrice turns a VAT-exclusive price into the number shown on a price
// list. Rounding always happens on the VAT-inclusive amount, half up, and VAT
// is removed again afterwards when ShowVAT is false.
//
// The arithmetic is exact decimal, so a true tie rounds up: 1500 with 15% VAT
// is exactly 1725 and shows as 1750 at a step of 50. Float math would see
// 1724.999... and round down to 1700.
func DisplayPrice(price, vatRate float64, opts DisplayOptions) float64 {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return price
	}
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(vatRate))
	amount := decimal.NewFromFloat(price).Mul(factor)

	if opts.Rounding > 0 {
		step := decimal.NewFromFloat(opts.Rounding)
		amount = amount.Div(step).Add(half).Floor().Mul(step)
	}
	if !opts.ShowVAT {
		amount = amount.Div(factor)
	}

	f, _ := amount.Float64()
	return f
}
