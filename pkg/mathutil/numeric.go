// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/quarterly-report/pkg/constants"
)

// RoundHalfUp rounds to the nearest integer with ties going toward positive
// infinity, so 2.5 becomes 3 and -2.5 becomes -2.
func RoundHalfUp(val float64) float64 {
	rounded := math.Round(val)
	if val < 0 && rounded-val == -0.5 {
		return rounded + 1
	}
	return rounded
}

// Finite returns val, or zero when val is NaN or infinite. Negative zero
// becomes positive zero.
func Finite(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) || val == 0 {
		return 0
	}
	return val
}

// ExceedsTolerance checks if two values differ by strictly more than tolerance.
// NaN operands never exceed.
func ExceedsTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) > tolerance
}

// Max returns the maximum of two float64 values. NaN propagates.
func Max(a, b float64) float64 {
	return math.Max(a, b)
}

// NonNegative clamps val at zero.
func NonNegative(val float64) float64 {
	return math.Max(0, val)
}

// Margin expresses value as a percentage of base, with the denominator
// floored at constants.MarginDivisorFloor.
func Margin(value, base float64) float64 {
	return value / math.Max(constants.MarginDivisorFloor, base) * constants.PercentageMultiplier
}
