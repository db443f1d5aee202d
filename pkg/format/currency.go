// Package format renders rupee amounts with Indian digit grouping.
package format

import (
	"fmt"
	"math"
	"strings"
)

// RupeeSymbol prefixes formatted currency.
const RupeeSymbol = "₹"

// Rupees returns a currency string with the rupee sign and Indian digit
// grouping (e.g., "-₹12,34,567.89").
func Rupees(amount float64) string {
	formatted := groupIndian(math.Abs(amount), 2)
	if amount < 0 {
		return "-" + RupeeSymbol + formatted
	}
	return RupeeSymbol + formatted
}

// WholeRupees is like Rupees but rounds to whole rupees (e.g., "₹3,00,000").
func WholeRupees(amount float64) string {
	formatted := groupIndian(math.Abs(amount), 0)
	if amount < 0 && formatted != "0" {
		return "-" + RupeeSymbol + formatted
	}
	return RupeeSymbol + formatted
}

// Number groups a value without a symbol, dropping the decimals of whole
// numbers (e.g., "3,00,000" and "4,339.12").
func Number(value float64) string {
	places := 2
	if value == math.Trunc(value) {
		places = 0
	}
	sign := ""
	if value < 0 {
		sign = "-"
	}
	return sign + groupIndian(math.Abs(value), places)
}

// groupIndian places the first separator after three digits and every
// following one after two: 1,23,45,678.
func groupIndian(value float64, places int) string {
	formatted := fmt.Sprintf("%.*f", places, value)
	intPart, decPart, hasDec := strings.Cut(formatted, ".")

	if len(intPart) > 3 {
		head := intPart[:len(intPart)-3]
		tail := intPart[len(intPart)-3:]

		var builder strings.Builder
		for i, digit := range head {
			if i > 0 && (len(head)-i)%2 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		builder.WriteByte(',')
		builder.WriteString(tail)
		intPart = builder.String()
	}

	if !hasDec {
		return intPart
	}
	return intPart + "." + decPart
}
