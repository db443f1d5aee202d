// Package finance provides the compounding and annuity primitives the
// calculators are built from.
package finance

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
)

// PeriodicRate converts an annual percentage into a per-period decimal rate.
func PeriodicRate(annualPercent float64, periodsPerYear int) float64 {
	return annualPercent / float64(periodsPerYear) / constants.PercentageMultiplier
}

// PercentToDecimal converts a percentage (7.1) to a decimal rate (0.071).
func PercentToDecimal(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// CompoundFutureValue grows principal at periodicRate for numPeriods periods.
func CompoundFutureValue(principal, periodicRate, numPeriods float64) float64 {
	return principal * math.Pow(1+periodicRate, numPeriods)
}

// AnnuityFutureValue is the future value of a payment made at the start of
// each period (annuity-due). A zero rate divides by zero and yields NaN, so
// callers must validate the rate first.
func AnnuityFutureValue(periodicPayment, periodicRate, numPeriods float64) float64 {
	return periodicPayment * ((math.Pow(1+periodicRate, numPeriods) - 1) / periodicRate) * (1 + periodicRate)
}

// AmortizedPayment is the level payment that retires principal over
// numPeriods at periodicRate.
func AmortizedPayment(principal, periodicRate, numPeriods float64) float64 {
	factor := math.Pow(1+periodicRate, numPeriods)
	return principal * periodicRate * factor / (factor - 1)
}
