package utils

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Round2 rounds an amount to paise.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Percent returns pct% of amount, rounded to paise.
func Percent(amount, pct float64) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(pct)).
		Div(hundred).
		Round(2).
		InexactFloat64()
}

// Mul multiplies and rounds to paise.
func Mul(a, b float64) float64 {
	return decimal.NewFromFloat(a).Mul(decimal.NewFromFloat(b)).Round(2).InexactFloat64()
}

// Div divides a by b and returns 0 when b <= 0. The quotient is kept to
// four places because it is a rate, not an amount.
func Div(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return decimal.NewFromFloat(a).Div(decimal.NewFromFloat(b)).Round(4).InexactFloat64()
}

// Sum adds amounts without float drift.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.Round(2).InexactFloat64()
}
