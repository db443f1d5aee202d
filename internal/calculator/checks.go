package calculator

import (
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// Bounds that keep every period loop short.
const (
	maxYears    = 100
	maxRate     = 100
	maxAgeYears = 100
)

// years requires a whole, positive number of years.
func years(c *validation.Collector, field string, v float64) {
	c.Positive(field, v)
	c.Integer(field, v)
	c.AtMost(field, v, maxYears)
}

// rate requires an annual percentage in (0, 100].
func rate(c *validation.Collector, field string, v float64) {
	c.Positive(field, v)
	c.AtMost(field, v, maxRate)
}

// age requires a whole age within [min, max].
func age(c *validation.Collector, field string, v, min, max float64) {
	c.Integer(field, v)
	c.Range(field, v, min, max)
}

func roundPaise(v float64) float64 {
	return mathutil.Round(v)
}

func roundUnit(v float64) float64 {
	return mathutil.RoundUnit(v)
}
