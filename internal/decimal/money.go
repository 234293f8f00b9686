// Package decimal wraps shopspring/decimal with helpers for invoice
// amounts. Croatian amounts carry two decimal places (lipa, or cents
// after the euro changeover).
package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromString parses a decimal amount from its string form
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Mul multiplies two decimals, rounds to 2 places
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(2)
}

// CalculateVAT computes the tax amount: base * (percent/100), rounded
// to 2 places.
func CalculateVAT(base, percent decimal.Decimal) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return base.Mul(percent).Div(hundred).Round(2)
}

// SumStrings parses and sums string amounts. The second return value
// is false when any amount fails to parse.
func SumStrings(values []string) (decimal.Decimal, bool) {
	result := Zero
	for _, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return Zero, false
		}
		result = result.Add(d)
	}
	return result, true
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}
