package calculator

import (
	"math"
	"strconv"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/finance"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

var compoundingFrequencies = []string{
	strconv.Itoa(constants.AnnualPeriods),
	strconv.Itoa(constants.SemiAnnualPeriods),
	strconv.Itoa(constants.QuartersPerYear),
	strconv.Itoa(constants.MonthsPerYear),
}

// frequency requires one of the supported compounding frequencies per year.
func frequency(c *validation.Collector, field string, v float64) {
	if v != math.Trunc(v) {
		c.Fail(field, "must be a whole number")
		return
	}
	c.OneOf(field, strconv.Itoa(int(v)), compoundingFrequencies...)
}

// InterestInput is a principal growing at Rate percent a year for Time years.
// Frequency is the number of compounding periods per year.
type InterestInput struct {
	Principal float64 `mapstructure:"principal"`
	Rate      float64 `mapstructure:"rate"`
	Time      float64 `mapstructure:"time"`
	Frequency float64 `mapstructure:"frequency"`
}

// InterestResult is the amount owed and the interest component.
type InterestResult struct {
	Amount   float64 `json:"amount" yaml:"amount"`
	Interest float64 `json:"interest" yaml:"interest"`

	series []finance.SeriesPoint
}

// Series returns the amount at the end of each year.
func (r *InterestResult) Series() []finance.SeriesPoint { return r.series }

// CompoundInterest compounds principal Frequency times a year.
func CompoundInterest(in InterestInput) (*InterestResult, error) {
	var c validation.Collector
	c.Positive("principal", in.Principal)
	rate(&c, "rate", in.Rate)
	years(&c, "time", in.Time)
	frequency(&c, "frequency", in.Frequency)
	if err := c.Err(); err != nil {
		return nil, err
	}

	f := int(in.Frequency)
	r := finance.PeriodicRate(in.Rate, f)
	amount := finance.CompoundFutureValue(in.Principal, r, in.Frequency*in.Time)

	return checkFinite(&InterestResult{
		Amount:   amount,
		Interest: amount - in.Principal,
		series: finance.BuildSeries(int(in.Time), finance.YearLabel, func(i int) float64 {
			return finance.CompoundFutureValue(in.Principal, r, float64(f*i))
		}),
	})
}

// SimpleInterest charges interest on the original principal only. Frequency is ignored.
func SimpleInterest(in InterestInput) (*InterestResult, error) {
	var c validation.Collector
	c.Positive("principal", in.Principal)
	rate(&c, "rate", in.Rate)
	years(&c, "time", in.Time)
	if err := c.Err(); err != nil {
		return nil, err
	}

	interestAt := func(t float64) float64 {
		return in.Principal * in.Rate * t / constants.PercentageMultiplier
	}
	interest := interestAt(in.Time)

	return checkFinite(&InterestResult{
		Amount:   in.Principal + interest,
		Interest: interest,
		series: finance.BuildSeries(int(in.Time), finance.YearLabel, func(i int) float64 {
			return in.Principal + interestAt(float64(i))
		}),
	})
}

// InflationInput is a present cost rising at InflationRate percent a year.
type InflationInput struct {
	CurrentCost   float64 `mapstructure:"currentCost"`
	InflationRate float64 `mapstructure:"inflationRate"`
	Years         float64 `mapstructure:"years"`
}

// InflationResult compares today's cost with its future equivalent.
type InflationResult struct {
	FutureCost       float64 `json:"futureCost" yaml:"futureCost"`
	CostIncrease     float64 `json:"costIncrease" yaml:"costIncrease"`
	PurchasingPower  float64 `json:"purchasingPower" yaml:"purchasingPower"`
	PowerLossPercent float64 `json:"powerLossPercent" yaml:"powerLossPercent"`

	series []finance.SeriesPoint
}

// Series returns the inflated cost per year.
func (r *InflationResult) Series() []finance.SeriesPoint { return r.series }

// Inflation projects a cost forward. PurchasingPower is what CurrentCost buys after Years,
// expressed in today's money.
func Inflation(in InflationInput) (*InflationResult, error) {
	var c validation.Collector
	c.Positive("currentCost", in.CurrentCost)
	rate(&c, "inflationRate", in.InflationRate)
	years(&c, "years", in.Years)
	if err := c.Err(); err != nil {
		return nil, err
	}

	r := finance.PercentToDecimal(in.InflationRate)
	future := finance.CompoundFutureValue(in.CurrentCost, r, in.Years)
	power := in.CurrentCost * in.CurrentCost / future

	return checkFinite(&InflationResult{
		FutureCost:       future,
		CostIncrease:     future - in.CurrentCost,
		PurchasingPower:  power,
		PowerLossPercent: (1 - power/in.CurrentCost) * constants.PercentageMultiplier,
		series: finance.BuildSeries(int(in.Years), finance.YearLabel, func(i int) float64 {
			return finance.CompoundFutureValue(in.CurrentCost, r, float64(i))
		}),
	})
}
