package models

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// CollectionPercentage returns collected/expected as a percentage rounded to
// two decimals, or zero when nothing is expected.
func CollectionPercentage(collected, expected decimal.Decimal) decimal.Decimal {
	if expected.IsZero() {
		return decimal.Zero
	}
	return collected.Div(expected).Mul(hundred).Round(2)
}
