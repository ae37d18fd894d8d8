package billing

import "github.com/shopspring/decimal"

// round2 rounds to 2 decimal places, half away from zero. Every monetary
// value is rounded at the step that produces it; aggregates sum pre-rounded
// values rather than rounding once at the end.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

var two = decimal.NewFromInt(2)

var hundred = decimal.NewFromInt(100)
