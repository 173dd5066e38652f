// Package numbers centralizes the arbitrary-precision decimal math used for
// every monetary amount in a distribution. Amounts live as base-unit integer
// strings at rest and as decimal.Decimal in flight; nothing here ever routes
// through a float.
package numbers

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DivisionPrecision is the number of decimal digits carried through every
// division. 42 digits comfortably covers uint256-scale token amounts divided
// by 18-decimal supplies.
const DivisionPrecision = 42

// FromString parses a base-unit amount string into a decimal.
func FromString(amount string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal amount '%s': %w", amount, err)
	}
	return d, nil
}

// Div divides a by b at DivisionPrecision digits, rounding toward zero on the
// final digit. Callers are responsible for flooring the result if it feeds an
// integer amount.
func Div(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, DivisionPrecision)
}

// DivFloor divides at DivisionPrecision and floors the quotient. Truncation
// always rounds down, never to nearest: a quotient a hair under an integer
// stays below it, so per-account amounts can undershoot a budget but never
// overshoot it.
func DivFloor(a, b decimal.Decimal) decimal.Decimal {
	return Div(a, b).Floor()
}

// FloorToString truncates d to an integer base-unit amount string.
func FloorToString(d decimal.Decimal) string {
	return d.Floor().String()
}

// FormatProRata renders a pro-rata rate without scientific notation.
// Rates of one token-unit or more render as a plain integer; fractional rates
// keep 18 decimal places. Downstream merkle tooling does not parse exponent
// notation, so this formatting is load-bearing.
func FormatProRata(rate decimal.Decimal) string {
	if rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return rate.Truncate(0).String()
	}
	return rate.StringFixed(18)
}

// TenPow returns 10^exp as a decimal, used to shift between whole-token and
// base-unit representations.
func TenPow(exp uint8) decimal.Decimal {
	return decimal.New(1, int32(exp))
}
