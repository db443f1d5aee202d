// Package mathutil provides rounding and comparison helpers shared by the
// calculators.
package mathutil

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/shopspring/decimal"
)

// RoundPlaces rounds half away from zero to the given number of decimal
// places. Non-finite values are returned unchanged.
func RoundPlaces(val float64, places int32) float64 {
	if !IsFinite(val) {
		return val
	}
	return decimal.NewFromFloat(val).Round(places).InexactFloat64()
}

// Round rounds a value to two decimals, i.e. to whole paise.
func Round(val float64) float64 {
	return RoundPlaces(val, constants.PercentPlaces)
}

// RoundUnit rounds a value to the nearest whole currency unit.
func RoundUnit(val float64) float64 {
	return RoundPlaces(val, constants.CurrencyPlaces)
}

// IsFinite reports whether val is neither NaN nor an infinity.
func IsFinite(val float64) bool {
	return !math.IsNaN(val) && !math.IsInf(val, 0)
}

// IsZero checks if a value is effectively zero (within one paisa)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// Min returns the smallest of the given values.
func Min(first float64, rest ...float64) float64 {
	m := first
	for _, v := range rest {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest of the given values.
func Max(first float64, rest ...float64) float64 {
	m := first
	for _, v := range rest {
		if v > m {
			m = v
		}
	}
	return m
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return value / total * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * percentage / constants.PercentageMultiplier
}
