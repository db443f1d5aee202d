package calculator

import (
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/finance"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// maxPayoffMonths bounds the credit card payoff simulation at 100 years.
const maxPayoffMonths = 1200

var scheduler = loans.NewAmortizationScheduleGenerator(nil)

// LoanInput is an amortizing loan repaid monthly. Tenure is in years. A one-time
// prepayment can be applied on top of the installment in PrepaymentMonth.
type LoanInput struct {
	Principal       float64 `mapstructure:"principal"`
	Rate            float64 `mapstructure:"rate"`
	Tenure          float64 `mapstructure:"tenure"`
	DownPayment     float64 `mapstructure:"downPayment"`
	Prepayment      float64 `mapstructure:"prepayment"`
	PrepaymentMonth float64 `mapstructure:"prepaymentMonth"`
}

// LoanResult summarizes an amortization schedule.
type LoanResult struct {
	EMI           float64 `json:"emi" yaml:"emi"`
	LoanAmount    float64 `json:"loanAmount" yaml:"loanAmount"`
	TotalInterest float64 `json:"totalInterest" yaml:"totalInterest"`
	TotalPayment  float64 `json:"totalPayment" yaml:"totalPayment"`
	MonthsToRepay int     `json:"monthsToRepay" yaml:"monthsToRepay"`
	InterestSaved float64 `json:"interestSaved" yaml:"interestSaved"`

	series []finance.SeriesPoint
}

// Series returns the outstanding balance before each month's payment.
func (r *LoanResult) Series() []finance.SeriesPoint { return r.series }

func (in LoanInput) validate() error {
	var c validation.Collector
	c.Positive("principal", in.Principal)
	rate(&c, "rate", in.Rate)
	years(&c, "tenure", in.Tenure)
	c.NonNegative("downPayment", in.DownPayment)
	c.Check(in.DownPayment < in.Principal, "downPayment", "must be less than principal")
	c.NonNegative("prepayment", in.Prepayment)
	if in.Prepayment > 0 {
		c.Integer("prepaymentMonth", in.PrepaymentMonth)
		c.Range("prepaymentMonth", in.PrepaymentMonth, 1, in.Tenure*constants.MonthsPerYear)
	}
	return c.Err()
}

// EMI amortizes a loan with equal monthly installments.
func EMI(in LoanInput) (*LoanResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	terms := loans.LoanTerms{
		Name:         "emi",
		Principal:    in.Principal,
		DownPayment:  in.DownPayment,
		InterestRate: in.Rate,
		Term:         int(in.Tenure) * constants.MonthsPerYear,
	}
	if in.Prepayment > 0 {
		terms.ExtraPrincipal = map[int]float64{int(in.PrepaymentMonth): in.Prepayment}
	}

	schedule, err := scheduler.GenerateSchedule(terms)
	if err != nil {
		return nil, validation.NewInvalidInput("principal", err.Error())
	}

	totalInterest := schedule.TotalInterest()
	balances := schedule.Balances()

	saved := 0.0
	if in.Prepayment > 0 {
		scheduled := schedule.MonthlyPayment * float64(terms.Term)
		saved = scheduled - terms.Financed() - totalInterest
	}

	return checkFinite(&LoanResult{
		EMI:           schedule.MonthlyPayment,
		LoanAmount:    terms.Financed(),
		TotalInterest: totalInterest,
		TotalPayment:  schedule.TotalPayment(),
		MonthsToRepay: len(schedule.Payments),
		InterestSaved: saved,
		series: finance.BuildSeries(len(balances)-1, finance.MonthLabel, func(i int) float64 {
			return balances[i]
		}),
	})
}

// FlatVsReducingInput compares a flat-rate loan with a reducing-balance loan.
type FlatVsReducingInput struct {
	Principal    float64 `mapstructure:"principal"`
	Tenure       float64 `mapstructure:"tenure"`
	FlatRate     float64 `mapstructure:"flatRate"`
	ReducingRate float64 `mapstructure:"reducingRate"`
}

// LoanPlan is one side of a flat versus reducing comparison, rounded to whole units.
type LoanPlan struct {
	EMI           float64               `json:"emi" yaml:"emi"`
	TotalInterest float64               `json:"totalInterest" yaml:"totalInterest"`
	TotalPayment  float64               `json:"totalPayment" yaml:"totalPayment"`
	MonthlyData   []finance.SeriesPoint `json:"monthlyData" yaml:"monthlyData"`
}

// RateComparison is the gap between the two plans.
type RateComparison struct {
	InterestSaved     float64 `json:"interestSaved" yaml:"interestSaved"`
	EffectiveRateDiff float64 `json:"effectiveRateDiff" yaml:"effectiveRateDiff"`
}

// FlatVsReducingResult holds both plans and their comparison.
type FlatVsReducingResult struct {
	FlatInterest     LoanPlan       `json:"flatInterest" yaml:"flatInterest"`
	ReducingInterest LoanPlan       `json:"reducingInterest" yaml:"reducingInterest"`
	Comparison       RateComparison `json:"comparison" yaml:"comparison"`
}

// Series returns the reducing-balance outstanding principal.
func (r *FlatVsReducingResult) Series() []finance.SeriesPoint { return r.ReducingInterest.MonthlyData }

// FlatVsReducing charges flat interest on the full principal for the whole tenure and
// compares it with a standard amortizing loan.
func FlatVsReducing(in FlatVsReducingInput) (*FlatVsReducingResult, error) {
	var c validation.Collector
	c.Positive("principal", in.Principal)
	years(&c, "tenure", in.Tenure)
	rate(&c, "flatRate", in.FlatRate)
	rate(&c, "reducingRate", in.ReducingRate)
	if err := c.Err(); err != nil {
		return nil, err
	}

	months := int(in.Tenure) * constants.MonthsPerYear

	flatEMI := loans.CalculateFlatRatePayment(in.Principal, in.FlatRate, months)
	flatTotal := flatEMI * float64(months)
	flatInterest := flatTotal - in.Principal
	flatBalances := loans.FlatRateBalances(in.Principal, months)

	reducingEMI := finance.AmortizedPayment(in.Principal, finance.PeriodicRate(in.ReducingRate, constants.MonthsPerYear), float64(months))
	schedule, err := scheduler.GenerateSchedule(loans.LoanTerms{
		Name:         "reducing",
		Principal:    in.Principal,
		InterestRate: in.ReducingRate,
		Term:         months,
	})
	if err != nil {
		return nil, validation.NewInvalidInput("principal", err.Error())
	}
	reducingBalances := schedule.Balances()
	reducingTotal := reducingEMI * float64(months)
	reducingInterest := reducingTotal - in.Principal

	saved := flatInterest - reducingInterest

	return checkFinite(&FlatVsReducingResult{
		FlatInterest: LoanPlan{
			EMI:           roundUnit(flatEMI),
			TotalInterest: roundUnit(flatInterest),
			TotalPayment:  roundUnit(flatTotal),
			MonthlyData: finance.BuildSeries(months, finance.MonthLabel, func(i int) float64 {
				return flatBalances[i]
			}),
		},
		ReducingInterest: LoanPlan{
			EMI:           roundUnit(reducingEMI),
			TotalInterest: roundUnit(reducingInterest),
			TotalPayment:  roundUnit(reducingTotal),
			MonthlyData: finance.BuildSeries(months, finance.MonthLabel, func(i int) float64 {
				return reducingBalances[i]
			}),
		},
		Comparison: RateComparison{
			InterestSaved:     roundUnit(saved),
			EffectiveRateDiff: roundPaise(saved / (in.Principal * in.Tenure) * constants.PercentageMultiplier),
		},
	})
}

// CreditCardInput is a revolving balance repaid with a fixed monthly payment.
type CreditCardInput struct {
	Balance        float64 `mapstructure:"balance"`
	APR            float64 `mapstructure:"apr"`
	MonthlyPayment float64 `mapstructure:"monthlyPayment"`
}

// CreditCardResult summarizes the payoff.
type CreditCardResult struct {
	MonthsToPayOff        int     `json:"monthsToPayOff" yaml:"monthsToPayOff"`
	TotalInterest         float64 `json:"totalInterest" yaml:"totalInterest"`
	TotalPayment          float64 `json:"totalPayment" yaml:"totalPayment"`
	PaidOff               bool    `json:"paidOff" yaml:"paidOff"`
	MinimumPaymentWarning bool    `json:"minimumPaymentWarning" yaml:"minimumPaymentWarning"`

	series []finance.SeriesPoint
}

// Series returns the balance at the start of each month.
func (r *CreditCardResult) Series() []finance.SeriesPoint { return r.series }

// minimumPaymentShare is the share of the balance below which a payment is flagged.
const minimumPaymentShare = 0.03

// CreditCard simulates paying off a card balance, stopping after 1200 months if the
// payment never clears it.
func CreditCard(in CreditCardInput) (*CreditCardResult, error) {
	var c validation.Collector
	c.Positive("balance", in.Balance)
	rate(&c, "apr", in.APR)
	c.Positive("monthlyPayment", in.MonthlyPayment)
	if err := c.Err(); err != nil {
		return nil, err
	}

	payoff := loans.CalculatePayoff(in.Balance, in.APR, in.MonthlyPayment, maxPayoffMonths)

	return checkFinite(&CreditCardResult{
		MonthsToPayOff:        payoff.Months,
		TotalInterest:         payoff.TotalInterest,
		TotalPayment:          in.Balance + payoff.TotalInterest,
		PaidOff:               payoff.PaidOff,
		MinimumPaymentWarning: in.MonthlyPayment < in.Balance*minimumPaymentShare,
		series: finance.BuildSeries(payoff.Months, finance.MonthLabel, func(i int) float64 {
			return payoff.Balances[i]
		}),
	})
}
