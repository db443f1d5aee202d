package calculator

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/finance"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// SIPInput is a fixed monthly investment.
type SIPInput struct {
	MonthlyInvestment float64 `mapstructure:"monthlyInvestment"`
	Years             float64 `mapstructure:"years"`
	ExpectedReturn    float64 `mapstructure:"expectedReturn"`
}

// InvestmentResult is shared by products that report contributions against a maturity value.
type InvestmentResult struct {
	TotalInvestment float64 `json:"totalInvestment" yaml:"totalInvestment"`
	TotalReturns    float64 `json:"totalReturns" yaml:"totalReturns"`
	MaturityValue   float64 `json:"maturityValue" yaml:"maturityValue"`

	series []finance.SeriesPoint
}

// Series returns the corpus per period.
func (r *InvestmentResult) Series() []finance.SeriesPoint { return r.series }

// SIP values a monthly investment made at the start of each month.
func SIP(in SIPInput) (*InvestmentResult, error) {
	var c validation.Collector
	c.Positive("monthlyInvestment", in.MonthlyInvestment)
	years(&c, "years", in.Years)
	rate(&c, "expectedReturn", in.ExpectedReturn)
	if err := c.Err(); err != nil {
		return nil, err
	}

	r := finance.PeriodicRate(in.ExpectedReturn, constants.MonthsPerYear)
	months := int(in.Years) * constants.MonthsPerYear
	maturity := finance.AnnuityFutureValue(in.MonthlyInvestment, r, float64(months))
	invested := in.MonthlyInvestment * float64(months)

	return checkFinite(&InvestmentResult{
		TotalInvestment: invested,
		TotalReturns:    maturity - invested,
		MaturityValue:   maturity,
		series: finance.BuildSeries(months, finance.MonthLabel, func(i int) float64 {
			return finance.AnnuityFutureValue(in.MonthlyInvestment, r, float64(i))
		}),
	})
}

// StepUpSIPInput is a monthly investment raised by AnnualIncrement percent every year.
type StepUpSIPInput struct {
	InitialMonthlyInvestment float64 `mapstructure:"initialMonthlyInvestment"`
	Years                    float64 `mapstructure:"years"`
	ExpectedReturn           float64 `mapstructure:"expectedReturn"`
	AnnualIncrement          float64 `mapstructure:"annualIncrement"`
}

// StepUpSIP compounds monthly; the contribution steps up at months 13, 25, and so on.
// Totals are rounded to whole units.
func StepUpSIP(in StepUpSIPInput) (*InvestmentResult, error) {
	var c validation.Collector
	c.Positive("initialMonthlyInvestment", in.InitialMonthlyInvestment)
	years(&c, "years", in.Years)
	rate(&c, "expectedReturn", in.ExpectedReturn)
	c.Range("annualIncrement", in.AnnualIncrement, 0, 100)
	if err := c.Err(); err != nil {
		return nil, err
	}

	months := int(in.Years) * constants.MonthsPerYear
	acc := finance.NewAccumulator(finance.PeriodicRate(in.ExpectedReturn, constants.MonthsPerYear), 0)
	contribution := in.InitialMonthlyInvestment
	series := []finance.SeriesPoint{{Label: finance.MonthLabel(0), Value: 0}}

	for i := 1; i <= months; i++ {
		if i > constants.MonthsPerYear && i%constants.MonthsPerYear == 1 {
			contribution *= 1 + in.AnnualIncrement/constants.PercentageMultiplier
		}
		acc.Add(contribution)
		series = append(series, finance.SeriesPoint{Label: finance.MonthLabel(i), Value: roundUnit(acc.Balance)})
	}

	return checkFinite(&InvestmentResult{
		TotalInvestment: roundUnit(acc.Contributed),
		TotalReturns:    roundUnit(acc.Returns()),
		MaturityValue:   roundUnit(acc.Balance),
		series:          series,
	})
}

// LumpsumInput is a one-time investment.
type LumpsumInput struct {
	Principal      float64 `mapstructure:"principal"`
	Years          float64 `mapstructure:"years"`
	ExpectedReturn float64 `mapstructure:"expectedReturn"`
}

// Lumpsum compounds a one-time investment annually.
func Lumpsum(in LumpsumInput) (*InvestmentResult, error) {
	var c validation.Collector
	c.Positive("principal", in.Principal)
	years(&c, "years", in.Years)
	rate(&c, "expectedReturn", in.ExpectedReturn)
	if err := c.Err(); err != nil {
		return nil, err
	}

	r := finance.PercentToDecimal(in.ExpectedReturn)
	n := int(in.Years)
	maturity := finance.CompoundFutureValue(in.Principal, r, float64(n))

	return checkFinite(&InvestmentResult{
		TotalInvestment: in.Principal,
		TotalReturns:    maturity - in.Principal,
		MaturityValue:   maturity,
		series: finance.BuildSeries(n, finance.YearLabel, func(i int) float64 {
			return finance.CompoundFutureValue(in.Principal, r, float64(i))
		}),
	})
}

// CAGRInput is a start and end value over a number of years.
type CAGRInput struct {
	InitialValue float64 `mapstructure:"initialValue"`
	FinalValue   float64 `mapstructure:"finalValue"`
	Years        float64 `mapstructure:"years"`
}

// CAGRResult holds the growth rate, rounded to two decimals.
type CAGRResult struct {
	CAGRPercentage float64 `json:"cagrPercentage" yaml:"cagrPercentage"`

	series []finance.SeriesPoint
}

// Series returns the value per year when compounding at the derived rate.
func (r *CAGRResult) Series() []finance.SeriesPoint { return r.series }

// CAGR derives the compound annual growth rate between two values.
func CAGR(in CAGRInput) (*CAGRResult, error) {
	var c validation.Collector
	c.Positive("initialValue", in.InitialValue)
	c.Positive("finalValue", in.FinalValue)
	years(&c, "years", in.Years)
	if err := c.Err(); err != nil {
		return nil, err
	}

	n := int(in.Years)
	cagr := (math.Pow(in.FinalValue/in.InitialValue, 1/in.Years) - 1) * constants.PercentageMultiplier

	return checkFinite(&CAGRResult{
		CAGRPercentage: roundPaise(cagr),
		series: finance.BuildSeries(n, finance.YearLabel, func(i int) float64 {
			return finance.CompoundFutureValue(in.InitialValue, finance.PercentToDecimal(cagr), float64(i))
		}),
	})
}
