package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// hundred is the minor-unit scale (céntimos per sol)
var hundred = decimal.NewFromInt(100)

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round2 rounds to minor-unit precision (2 places, half away from zero)
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Fixed2 formats with exactly two fractional digits: 10 -> "10.00"
func Fixed2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Split returns the integer part and the two-digit fraction of an amount.
// Negative amounts are split on their absolute value.
func Split(d decimal.Decimal) (whole int64, cents int64) {
	d = Round2(d.Abs())
	intPart := d.Truncate(0)
	return intPart.IntPart(), d.Sub(intPart).Mul(hundred).IntPart()
}
