package valueobject

import (
	"github.com/shopspring/decimal"
)

// Epsilon is the tolerance used for all monetary comparisons. Repeated
// rounding of sums must not flip "fully paid" or "exceeds balance" checks
// at the boundary, so every such check goes through ApproxEqual/ApproxGTE
// instead of exact decimal comparison.
var Epsilon = decimal.New(1, -6) // 1e-6

// Round2 rounds a decimal amount to 2 places (half away from zero),
// the rounding applied to every stored monetary value.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// ApproxEqual reports whether a and b are equal within Epsilon.
func ApproxEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// ApproxGTE reports whether a >= b - Epsilon.
func ApproxGTE(a, b decimal.Decimal) bool {
	return a.GreaterThanOrEqual(b.Sub(Epsilon))
}
