package calculator

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/finance"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// FIRE strategies.
const (
	FireLean = "lean"
	FireMid  = "mid"
	FireFat  = "fat"
)

// fireMultipliers is the corpus needed as a multiple of annual expenses.
var fireMultipliers = map[string]float64{
	FireLean: 30,
	FireMid:  25,
	FireFat:  20,
}

// RetirementInput describes savings habits up to a target retirement age. Expense and
// investment increases are annual percentages on top of inflation.
type RetirementInput struct {
	CurrentAge               float64 `mapstructure:"currentAge"`
	RetirementAge            float64 `mapstructure:"retirementAge"`
	MonthlyExpenses          float64 `mapstructure:"monthlyExpenses"`
	CurrentSavings           float64 `mapstructure:"currentSavings"`
	MonthlyInvestment        float64 `mapstructure:"monthlyInvestment"`
	ExpectedReturn           float64 `mapstructure:"expectedReturn"`
	InflationRate            float64 `mapstructure:"inflationRate"`
	AnnualExpenseIncrease    float64 `mapstructure:"annualExpenseIncrease"`
	AnnualInvestmentIncrease float64 `mapstructure:"annualInvestmentIncrease"`
	FireType                 string  `mapstructure:"fireType"`
}

// RetirementResult compares the corpus required with the corpus expected.
type RetirementResult struct {
	FutureMonthlyExpenses   float64 `json:"futureMonthlyExpenses" yaml:"futureMonthlyExpenses"`
	RequiredCorpus          float64 `json:"requiredCorpus" yaml:"requiredCorpus"`
	CurrentCorpus           float64 `json:"currentCorpus" yaml:"currentCorpus"`
	Shortfall               float64 `json:"shortfall" yaml:"shortfall"`
	MonthlyInvestmentNeeded float64 `json:"monthlyInvestmentNeeded" yaml:"monthlyInvestmentNeeded"`
	WithdrawalRate          float64 `json:"withdrawalRate" yaml:"withdrawalRate"`
	Multiplier              float64 `json:"multiplier" yaml:"multiplier"`

	series []finance.SeriesPoint
}

// Series returns the projected balance at each age up to retirement.
func (r *RetirementResult) Series() []finance.SeriesPoint { return r.series }

// Retirement inflates today's expenses to the retirement date and sizes the corpus
// with the FIRE multiplier. CurrentCorpus is the grown current savings plus the
// yearly investments, each compounded annually. A shortfall is converted into the
// additional monthly investment that would close it.
func Retirement(in RetirementInput) (*RetirementResult, error) {
	var c validation.Collector
	c.Integer("currentAge", in.CurrentAge)
	c.Positive("currentAge", in.CurrentAge)
	c.Integer("retirementAge", in.RetirementAge)
	c.AtMost("retirementAge", in.RetirementAge, maxAgeYears)
	c.Check(in.RetirementAge > in.CurrentAge, "retirementAge", "must be greater than currentAge")
	c.Positive("monthlyExpenses", in.MonthlyExpenses)
	c.NonNegative("currentSavings", in.CurrentSavings)
	c.NonNegative("monthlyInvestment", in.MonthlyInvestment)
	rate(&c, "expectedReturn", in.ExpectedReturn)
	c.Range("inflationRate", in.InflationRate, 0, maxRate)
	c.Range("annualExpenseIncrease", in.AnnualExpenseIncrease, 0, maxRate)
	c.Range("annualInvestmentIncrease", in.AnnualInvestmentIncrease, 0, maxRate)
	c.OneOf("fireType", in.FireType, FireLean, FireMid, FireFat)
	if err := c.Err(); err != nil {
		return nil, err
	}

	n := int(in.RetirementAge - in.CurrentAge)
	multiplier := fireMultipliers[in.FireType]
	annualReturn := finance.PercentToDecimal(in.ExpectedReturn)

	futureExpenses := finance.CompoundFutureValue(in.MonthlyExpenses,
		finance.PercentToDecimal(in.InflationRate+in.AnnualExpenseIncrease), float64(n))
	required := futureExpenses * constants.MonthsPerYear * multiplier

	grownSavings := finance.CompoundFutureValue(in.CurrentSavings, annualReturn, float64(n))
	investments := finance.NewAccumulator(annualReturn, 0)
	projection := finance.NewAccumulator(annualReturn, in.CurrentSavings)
	balances := []float64{in.CurrentSavings}
	yearly := in.MonthlyInvestment * constants.MonthsPerYear
	for year := 1; year <= n; year++ {
		investments.Add(yearly)
		projection.Add(yearly)
		balances = append(balances, projection.Balance)
		yearly *= 1 + in.AnnualInvestmentIncrease/constants.PercentageMultiplier
	}
	expected := grownSavings + investments.Balance

	shortfall := mathutil.Max(0, required-expected)
	needed := 0.0
	if shortfall > 0 {
		r := finance.PeriodicRate(in.ExpectedReturn, constants.MonthsPerYear)
		months := float64(n * constants.MonthsPerYear)
		needed = shortfall * r / (math.Pow(1+r, months) - 1) / (1 + r)
	}

	series := finance.BuildSeries(n, func(i int) string {
		return finance.AgeLabel(int(in.CurrentAge) + i)
	}, func(i int) float64 { return balances[i] })

	return checkFinite(&RetirementResult{
		FutureMonthlyExpenses:   futureExpenses,
		RequiredCorpus:          required,
		CurrentCorpus:           expected,
		Shortfall:               shortfall,
		MonthlyInvestmentNeeded: needed,
		WithdrawalRate:          constants.PercentageMultiplier / multiplier,
		Multiplier:              multiplier,
		series:                  series,
	})
}
