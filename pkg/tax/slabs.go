// Package tax walks progressive slab tables.
package tax

import (
	"fmt"
	"math"

	"github.com/iwvelando/finance-calculators/pkg/format"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// Slab is one bracket of a progressive table. Income above the previous slab's
// UpperBound and up to this one is taxed at Rate percent.
type Slab struct {
	UpperBound float64 `json:"upperBound" yaml:"upperBound"`
	Rate       float64 `json:"rate" yaml:"rate"`
}

// SlabTax is the share of the total tax raised by one slab.
type SlabTax struct {
	Slab   string  `json:"slab" yaml:"slab"`
	Income float64 `json:"income" yaml:"income"`
	Rate   float64 `json:"rate" yaml:"rate"`
	Tax    float64 `json:"tax" yaml:"tax"`
}

// Assessment is the outcome of a slab walk.
type Assessment struct {
	TaxableIncome float64
	Total         float64
	Breakdown     []SlabTax
}

// Validate checks that slabs partition [0, +Inf): bounds strictly ascending and
// positive, the last bound infinite, every rate within [0, 100].
func Validate(slabs []Slab) error {
	var c validation.Collector
	if len(slabs) == 0 {
		c.Fail("slabs", "must not be empty")
		return c.Err()
	}

	previous := 0.0
	for i, slab := range slabs {
		field := fmt.Sprintf("slabs[%d]", i)
		c.Check(!math.IsNaN(slab.UpperBound) && slab.UpperBound > previous, field+".upperBound",
			fmt.Sprintf("must be greater than %s", format.WholeRupees(previous)))
		c.Range(field+".rate", slab.Rate, 0, 100)
		previous = slab.UpperBound
	}
	c.Check(math.IsInf(slabs[len(slabs)-1].UpperBound, 1), fmt.Sprintf("slabs[%d].upperBound", len(slabs)-1),
		"must be unbounded")
	return c.Err()
}

// Walk applies the slab table to income. Only slabs that raise a positive
// amount of income appear in the breakdown, and their taxes sum to Total.
// Negative income is taxed as zero.
func Walk(slabs []Slab, income float64) Assessment {
	assessment := Assessment{TaxableIncome: math.Max(0, income)}

	remaining := assessment.TaxableIncome
	previous := 0.0
	for _, slab := range slabs {
		if remaining <= 0 {
			break
		}
		slabIncome := math.Min(math.Max(0, remaining), slab.UpperBound-previous)
		if slabIncome > 0 {
			slabTax := slabIncome * slab.Rate / 100
			assessment.Total += slabTax
			assessment.Breakdown = append(assessment.Breakdown, SlabTax{
				Slab:   Label(previous, slab.UpperBound),
				Income: slabIncome,
				Rate:   slab.Rate,
				Tax:    slabTax,
			})
		}
		remaining -= slabIncome
		previous = slab.UpperBound
	}
	return assessment
}

// Label names the band between two bounds, e.g. "₹3,00,000-₹6,00,000" or
// "₹15,00,000-Above" for the unbounded slab.
func Label(lower, upper float64) string {
	if math.IsInf(upper, 1) {
		return format.WholeRupees(lower) + "-Above"
	}
	return format.WholeRupees(lower) + "-" + format.WholeRupees(upper)
}
