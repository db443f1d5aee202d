package calculator

import (
	"math"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/finance"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// Statutory rates, annual percent.
const (
	ppfRate   = 7.1
	nscRate   = 6.8
	scssRate  = 8.2
	pomisRate = 7.4
	apyReturn = 8.0
)

// Scheme limits.
const (
	ppfMinYears       = 15
	ppfMaxYears       = 50
	scssMinDeposit    = 1000
	scssMaxDeposit    = 3000000
	scssMinAge        = 60
	scssTerm          = 5
	scssExtendedTerm  = 8
	pomisTerm         = 5
	pomisMinDeposit   = 1000
	pomisMaxSingle    = 900000
	pomisMaxJoint     = 1500000
	apyMinAge         = 18
	apyMaxAge         = 40
	apyMaturityAge    = 60
	apyMinPension     = 1000
	apyMaxPension     = 5000
	apyCorpusMultiple = 170
	npsMinAge         = 18
	npsMaxEntryAge    = 65
	npsMinExitAge     = 60
	npsMaxExitAge     = 75
	npsMaxEquity      = 75
	npsMinAnnuity     = 40
)

// SchemeResult is shared by deposit schemes that report interest against a maturity value.
type SchemeResult struct {
	TotalInvestment float64 `json:"totalInvestment" yaml:"totalInvestment"`
	TotalInterest   float64 `json:"totalInterest" yaml:"totalInterest"`
	MaturityValue   float64 `json:"maturityValue" yaml:"maturityValue"`

	series []finance.SeriesPoint
}

// Series returns the balance per year.
func (r *SchemeResult) Series() []finance.SeriesPoint { return r.series }

// PPFInput is a yearly deposit into the Public Provident Fund.
type PPFInput struct {
	YearlyInvestment float64 `mapstructure:"yearlyInvestment"`
	Years            float64 `mapstructure:"years"`
}

// PPF credits 7.1% on the opening balance each year, then adds the year's deposit.
func PPF(in PPFInput) (*SchemeResult, error) {
	var c validation.Collector
	c.Positive("yearlyInvestment", in.YearlyInvestment)
	c.Integer("years", in.Years)
	c.Range("years", in.Years, ppfMinYears, ppfMaxYears)
	if err := c.Err(); err != nil {
		return nil, err
	}

	n := int(in.Years)
	r := finance.PercentToDecimal(ppfRate)
	balances := make([]float64, n+1)
	interest := 0.0
	for i := 1; i <= n; i++ {
		yearInterest := balances[i-1] * r
		interest += yearInterest
		balances[i] = balances[i-1] + yearInterest + in.YearlyInvestment
	}

	return checkFinite(&SchemeResult{
		TotalInvestment: in.YearlyInvestment * float64(n),
		TotalInterest:   interest,
		MaturityValue:   balances[n],
		series:          finance.BuildSeries(n, finance.YearLabel, func(i int) float64 { return balances[i] }),
	})
}

// FDInput is a fixed deposit compounded CompoundingFrequency times a year.
type FDInput struct {
	Principal            float64 `mapstructure:"principal"`
	Rate                 float64 `mapstructure:"rate"`
	Years                float64 `mapstructure:"years"`
	CompoundingFrequency float64 `mapstructure:"compoundingFrequency"`
}

// FD compounds a fixed deposit.
func FD(in FDInput) (*SchemeResult, error) {
	var c validation.Collector
	c.Positive("principal", in.Principal)
	rate(&c, "rate", in.Rate)
	years(&c, "years", in.Years)
	frequency(&c, "compoundingFrequency", in.CompoundingFrequency)
	if err := c.Err(); err != nil {
		return nil, err
	}

	f := int(in.CompoundingFrequency)
	r := finance.PeriodicRate(in.Rate, f)
	n := int(in.Years)
	maturity := finance.CompoundFutureValue(in.Principal, r, float64(n*f))

	return checkFinite(&SchemeResult{
		TotalInvestment: in.Principal,
		TotalInterest:   maturity - in.Principal,
		MaturityValue:   maturity,
		series: finance.BuildSeries(n, finance.YearLabel, func(i int) float64 {
			return finance.CompoundFutureValue(in.Principal, r, float64(i*f))
		}),
	})
}

// RDInput is a monthly recurring deposit.
type RDInput struct {
	MonthlyInvestment float64 `mapstructure:"monthlyInvestment"`
	Rate              float64 `mapstructure:"rate"`
	Years             float64 `mapstructure:"years"`
}

// RD grows every deposit monthly until maturity: the deposit made in month i
// earns (1+r)^(n-i). The series shows the value of the deposits made so far at
// each anniversary.
func RD(in RDInput) (*SchemeResult, error) {
	var c validation.Collector
	c.Positive("monthlyInvestment", in.MonthlyInvestment)
	rate(&c, "rate", in.Rate)
	years(&c, "years", in.Years)
	if err := c.Err(); err != nil {
		return nil, err
	}

	r := finance.PeriodicRate(in.Rate, constants.MonthsPerYear)
	n := int(in.Years)
	months := n * constants.MonthsPerYear
	valueAt := func(m int) float64 {
		total := 0.0
		for i := 0; i < m; i++ {
			total += in.MonthlyInvestment * math.Pow(1+r, float64(m-i))
		}
		return total
	}
	maturity := valueAt(months)
	invested := in.MonthlyInvestment * float64(months)

	return checkFinite(&SchemeResult{
		TotalInvestment: invested,
		TotalInterest:   maturity - invested,
		MaturityValue:   maturity,
		series: finance.BuildSeries(n, finance.YearLabel, func(i int) float64 {
			return valueAt(i * constants.MonthsPerYear)
		}),
	})
}

// NSCInput is a National Savings Certificate purchase.
type NSCInput struct {
	Principal float64 `mapstructure:"principal"`
	Years     float64 `mapstructure:"years"`
}

// NSC compounds annually at 6.8%.
func NSC(in NSCInput) (*SchemeResult, error) {
	var c validation.Collector
	c.Positive("principal", in.Principal)
	years(&c, "years", in.Years)
	if err := c.Err(); err != nil {
		return nil, err
	}

	n := int(in.Years)
	acc := finance.NewAccumulator(finance.PercentToDecimal(nscRate), in.Principal)
	balances := []float64{in.Principal}
	for i := 1; i <= n; i++ {
		acc.Add(0)
		balances = append(balances, acc.Balance)
	}

	return checkFinite(&SchemeResult{
		TotalInvestment: in.Principal,
		TotalInterest:   acc.Balance - in.Principal,
		MaturityValue:   acc.Balance,
		series:          finance.BuildSeries(n, finance.YearLabel, func(i int) float64 { return balances[i] }),
	})
}

// PayoutResult describes a scheme that pays interest out instead of compounding it.
type PayoutResult struct {
	PeriodicIncome float64 `json:"periodicIncome" yaml:"periodicIncome"`
	AnnualIncome   float64 `json:"annualIncome" yaml:"annualIncome"`
	TotalInterest  float64 `json:"totalInterest" yaml:"totalInterest"`
	MaturityAmount float64 `json:"maturityAmount" yaml:"maturityAmount"`
	TotalReceived  float64 `json:"totalReceived" yaml:"totalReceived"`

	series []finance.SeriesPoint
}

// Series returns the cumulative interest paid out by the end of each year.
func (r *PayoutResult) Series() []finance.SeriesPoint { return r.series }

func payout(deposit, annualRate float64, periodsPerYear, term int) *PayoutResult {
	annual := deposit * finance.PercentToDecimal(annualRate)
	total := annual * float64(term)
	return &PayoutResult{
		PeriodicIncome: annual / float64(periodsPerYear),
		AnnualIncome:   annual,
		TotalInterest:  total,
		MaturityAmount: deposit,
		TotalReceived:  deposit + total,
		series: finance.BuildSeries(term, finance.YearLabel, func(i int) float64 {
			return annual * float64(i)
		}),
	}
}

// SCSSInput is a Senior Citizens Savings Scheme deposit.
type SCSSInput struct {
	Deposit float64 `mapstructure:"deposit"`
	Age     float64 `mapstructure:"age"`
	Years   float64 `mapstructure:"years"`
}

// SCSS pays 8.2% a year in quarterly installments and returns the deposit at maturity.
// The term is five years, or eight with the three-year extension.
func SCSS(in SCSSInput) (*PayoutResult, error) {
	var c validation.Collector
	c.Range("deposit", in.Deposit, scssMinDeposit, scssMaxDeposit)
	age(&c, "age", in.Age, scssMinAge, maxAgeYears)
	c.Check(in.Years == scssTerm || in.Years == scssExtendedTerm, "years", "must be 5 or 8")
	if err := c.Err(); err != nil {
		return nil, err
	}

	return checkFinite(payout(in.Deposit, scssRate, constants.QuartersPerYear, int(in.Years)))
}

// Post office monthly income scheme account types.
const (
	AccountSingle = "single"
	AccountJoint  = "joint"
)

// POMISInput is a Post Office Monthly Income Scheme deposit.
type POMISInput struct {
	Deposit     float64 `mapstructure:"deposit"`
	AccountType string  `mapstructure:"accountType"`
}

// POMIS pays 7.4% a year in monthly installments for five years.
func POMIS(in POMISInput) (*PayoutResult, error) {
	var c validation.Collector
	c.OneOf("accountType", in.AccountType, AccountSingle, AccountJoint)
	limit := float64(pomisMaxSingle)
	if in.AccountType == AccountJoint {
		limit = pomisMaxJoint
	}
	c.Range("deposit", in.Deposit, pomisMinDeposit, limit)
	if err := c.Err(); err != nil {
		return nil, err
	}

	return checkFinite(payout(in.Deposit, pomisRate, constants.MonthsPerYear, pomisTerm))
}

// apyContributions is the monthly contribution for a 1000 pension by entry age.
var apyContributions = map[int]float64{
	18: 42, 19: 46, 20: 50, 21: 54, 22: 59, 23: 64, 24: 70, 25: 76,
	26: 82, 27: 89, 28: 97, 29: 106, 30: 115, 31: 125, 32: 137, 33: 149,
	34: 162, 35: 177, 36: 192, 37: 210, 38: 230, 39: 251, 40: 274,
}

var apyPensionSlabs = []float64{1000, 2000, 3000, 4000, 5000}

// APYInput is an Atal Pension Yojana enrolment.
type APYInput struct {
	CurrentAge     float64 `mapstructure:"currentAge"`
	DesiredPension float64 `mapstructure:"desiredPension"`
}

// APYResult is the contribution plan for the chosen pension slab.
type APYResult struct {
	MonthlyContribution float64 `json:"monthlyContribution" yaml:"monthlyContribution"`
	TotalInvestment     float64 `json:"totalInvestment" yaml:"totalInvestment"`
	CorpusAtMaturity    float64 `json:"corpusAtMaturity" yaml:"corpusAtMaturity"`
	MonthlyPension      float64 `json:"monthlyPension" yaml:"monthlyPension"`

	series []finance.SeriesPoint
}

// Series returns the projected corpus by age at an assumed 8% return.
func (r *APYResult) Series() []finance.SeriesPoint { return r.series }

// nearestPensionSlab picks the slab closest to desired; on a tie the lower slab wins.
func nearestPensionSlab(desired float64) float64 {
	nearest := apyPensionSlabs[0]
	for _, slab := range apyPensionSlabs[1:] {
		if math.Abs(slab-desired) < math.Abs(nearest-desired) {
			nearest = slab
		}
	}
	return nearest
}

// APY looks up the contribution chart for the entry age and scales it to the nearest slab.
func APY(in APYInput) (*APYResult, error) {
	var c validation.Collector
	age(&c, "currentAge", in.CurrentAge, apyMinAge, apyMaxAge)
	c.Range("desiredPension", in.DesiredPension, apyMinPension, apyMaxPension)
	if err := c.Err(); err != nil {
		return nil, err
	}

	entryAge := int(in.CurrentAge)
	slab := nearestPensionSlab(in.DesiredPension)
	contribution := roundUnit(apyContributions[entryAge] * slab / apyMinPension)
	yearsToMaturity := apyMaturityAge - entryAge

	acc := finance.NewAccumulator(finance.PercentToDecimal(apyReturn), 0)
	corpus := make([]float64, yearsToMaturity+1)
	for i := range corpus {
		acc.Add(contribution * constants.MonthsPerYear)
		corpus[i] = acc.Balance
	}

	return checkFinite(&APYResult{
		MonthlyContribution: contribution,
		TotalInvestment:     contribution * constants.MonthsPerYear * float64(yearsToMaturity),
		CorpusAtMaturity:    slab * constants.MonthsPerYear * apyCorpusMultiple,
		MonthlyPension:      slab,
		series: finance.BuildSeries(yearsToMaturity, func(i int) string {
			return finance.AgeLabel(entryAge + i)
		}, func(i int) float64 { return corpus[i] }),
	})
}

// NPSInput is a National Pension System subscription.
type NPSInput struct {
	MonthlyContribution float64 `mapstructure:"monthlyContribution"`
	CurrentAge          float64 `mapstructure:"currentAge"`
	RetirementAge       float64 `mapstructure:"retirementAge"`
	EquityAllocation    float64 `mapstructure:"equityAllocation"`
	ExpectedReturn      float64 `mapstructure:"expectedReturn"`
	AnnuityPercent      float64 `mapstructure:"annuityPercent"`
	AnnuityRate         float64 `mapstructure:"annuityRate"`
}

// NPSResult splits the retirement corpus into a lump sum and an annuity.
type NPSResult struct {
	TotalInvestment float64 `json:"totalInvestment" yaml:"totalInvestment"`
	TotalReturns    float64 `json:"totalReturns" yaml:"totalReturns"`
	MaturityValue   float64 `json:"maturityValue" yaml:"maturityValue"`
	LumpSum         float64 `json:"lumpSum" yaml:"lumpSum"`
	AnnuityCorpus   float64 `json:"annuityCorpus" yaml:"annuityCorpus"`
	MonthlyPension  float64 `json:"monthlyPension" yaml:"monthlyPension"`

	series []finance.SeriesPoint
}

// Series returns the corpus at the end of each year.
func (r *NPSResult) Series() []finance.SeriesPoint { return r.series }

// NPS accumulates monthly contributions until retirement, then applies the annuity split.
// Equity allocation only bounds the scheme choice; the return is taken as given.
func NPS(in NPSInput) (*NPSResult, error) {
	var c validation.Collector
	c.Positive("monthlyContribution", in.MonthlyContribution)
	c.Integer("currentAge", in.CurrentAge)
	c.Check(in.CurrentAge >= npsMinAge && in.CurrentAge < npsMaxEntryAge, "currentAge", "must be at least 18 and less than 65")
	age(&c, "retirementAge", in.RetirementAge, npsMinExitAge, npsMaxExitAge)
	c.Check(in.RetirementAge > in.CurrentAge, "retirementAge", "must be greater than currentAge")
	c.Range("equityAllocation", in.EquityAllocation, 0, npsMaxEquity)
	rate(&c, "expectedReturn", in.ExpectedReturn)
	c.Range("annuityPercent", in.AnnuityPercent, npsMinAnnuity, 100)
	rate(&c, "annuityRate", in.AnnuityRate)
	if err := c.Err(); err != nil {
		return nil, err
	}

	n := int(in.RetirementAge - in.CurrentAge)
	acc := finance.NewAccumulator(finance.PeriodicRate(in.ExpectedReturn, constants.MonthsPerYear), 0)
	corpus := []float64{0}
	for year := 1; year <= n; year++ {
		for month := 0; month < constants.MonthsPerYear; month++ {
			acc.Add(in.MonthlyContribution)
		}
		corpus = append(corpus, acc.Balance)
	}

	annuityCorpus := acc.Balance * in.AnnuityPercent / constants.PercentageMultiplier

	return checkFinite(&NPSResult{
		TotalInvestment: acc.Contributed,
		TotalReturns:    acc.Returns(),
		MaturityValue:   acc.Balance,
		LumpSum:         acc.Balance - annuityCorpus,
		AnnuityCorpus:   annuityCorpus,
		MonthlyPension:  annuityCorpus * finance.PeriodicRate(in.AnnuityRate, constants.MonthsPerYear),
		series:          finance.BuildSeries(n, finance.YearLabel, func(i int) float64 { return corpus[i] }),
	})
}
