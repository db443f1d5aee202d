package tax

import "github.com/iwvelando/finance-calculators/pkg/constants"

// Regime names a personal income tax regime.
type Regime string

const (
	RegimeNew Regime = "new"
	RegimeOld Regime = "old"
)

// Regimes lists every supported regime.
var Regimes = []Regime{RegimeNew, RegimeOld}

// AllowsDeductions reports whether deductions reduce taxable income under r.
func (r Regime) AllowsDeductions() bool {
	return r == RegimeOld
}

// Slabs returns a fresh copy of the slab table for r. Unknown regimes fall back to the new regime.
func (r Regime) Slabs() []Slab {
	if r == RegimeOld {
		return []Slab{
			{UpperBound: 250000, Rate: 0},
			{UpperBound: 500000, Rate: 5},
			{UpperBound: 1000000, Rate: 20},
			{UpperBound: constants.Unbounded, Rate: 30},
		}
	}
	return []Slab{
		{UpperBound: 300000, Rate: 0},
		{UpperBound: 600000, Rate: 5},
		{UpperBound: 900000, Rate: 10},
		{UpperBound: 1200000, Rate: 15},
		{UpperBound: 1500000, Rate: 20},
		{UpperBound: constants.Unbounded, Rate: 30},
	}
}
