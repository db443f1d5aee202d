package calculator

import (
	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/finance"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/tax"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// IncomeTaxInput is an annual income under one of the two regimes. Deductions
// only apply under the old regime.
type IncomeTaxInput struct {
	Income      float64 `mapstructure:"income"`
	OtherIncome float64 `mapstructure:"otherIncome"`
	Deductions  float64 `mapstructure:"deductions"`
	Regime      string  `mapstructure:"regime"`
}

// IncomeTaxResult is the assessed tax with its slab breakdown.
type IncomeTaxResult struct {
	GrossIncome      float64       `json:"grossIncome" yaml:"grossIncome"`
	TaxableIncome    float64       `json:"taxableIncome" yaml:"taxableIncome"`
	TaxAmount        float64       `json:"taxAmount" yaml:"taxAmount"`
	EffectiveTaxRate float64       `json:"effectiveTaxRate" yaml:"effectiveTaxRate"`
	TakeHome         float64       `json:"takeHome" yaml:"takeHome"`
	SlabwiseBreakup  []tax.SlabTax `json:"slabwiseBreakup" yaml:"slabwiseBreakup"`
}

// IncomeTax walks the regime's slab table. TaxAmount is rounded to whole units;
// the effective rate is taken on the unrounded tax.
func IncomeTax(in IncomeTaxInput) (*IncomeTaxResult, error) {
	var c validation.Collector
	c.NonNegative("income", in.Income)
	c.NonNegative("otherIncome", in.OtherIncome)
	c.NonNegative("deductions", in.Deductions)
	c.OneOf("regime", in.Regime, string(tax.RegimeNew), string(tax.RegimeOld))
	if err := c.Err(); err != nil {
		return nil, err
	}

	regime := tax.Regime(in.Regime)
	gross := in.Income + in.OtherIncome
	taxable := gross
	if regime.AllowsDeductions() {
		taxable = mathutil.Max(0, gross-in.Deductions)
	}

	assessment := tax.Walk(regime.Slabs(), taxable)
	divisor := assessment.TaxableIncome
	if divisor == 0 {
		divisor = 1
	}
	taxAmount := roundUnit(assessment.Total)

	breakdown := assessment.Breakdown
	if breakdown == nil {
		breakdown = []tax.SlabTax{}
	}

	return checkFinite(&IncomeTaxResult{
		GrossIncome:      gross,
		TaxableIncome:    assessment.TaxableIncome,
		TaxAmount:        taxAmount,
		EffectiveTaxRate: roundPaise(assessment.Total / divisor * constants.PercentageMultiplier),
		TakeHome:         gross - taxAmount,
		SlabwiseBreakup:  breakdown,
	})
}

// TDS payment types.
const (
	PaymentSalary           = "salary"
	PaymentProfessionalFees = "professional_fees"
	PaymentRent             = "rent"
	PaymentCommission       = "commission"
	PaymentInterest         = "interest"
	PaymentContractor       = "contractor"
)

type tdsRule struct {
	resident    float64
	nonResident float64
	threshold   float64
}

var tdsRules = map[string]tdsRule{
	PaymentSalary:           {resident: 10, nonResident: 20, threshold: 50000},
	PaymentProfessionalFees: {resident: 10, nonResident: 20, threshold: 30000},
	PaymentRent:             {resident: 10, nonResident: 30, threshold: 20000},
	PaymentCommission:       {resident: 5, nonResident: 20, threshold: 15000},
	PaymentInterest:         {resident: 10, nonResident: 20, threshold: 40000},
	PaymentContractor:       {resident: 2, nonResident: 20, threshold: 30000},
}

// TDSInput is a single payment subject to tax deducted at source.
type TDSInput struct {
	Amount        float64 `mapstructure:"amount"`
	PaymentType   string  `mapstructure:"paymentType"`
	IsNonResident bool    `mapstructure:"isNonResident"`
}

// TDSResult is the deduction for one payment. Amounts are rounded to paise.
type TDSResult struct {
	GrossAmount     float64 `json:"grossAmount" yaml:"grossAmount"`
	TDSAmount       float64 `json:"tdsAmount" yaml:"tdsAmount"`
	NetAmount       float64 `json:"netAmount" yaml:"netAmount"`
	TDSRate         float64 `json:"tdsRate" yaml:"tdsRate"`
	TDSThreshold    float64 `json:"tdsThreshold" yaml:"tdsThreshold"`
	IsTDSApplicable bool    `json:"isTDSApplicable" yaml:"isTDSApplicable"`
}

// TDS deducts the payment type's rate once the amount reaches its threshold.
func TDS(in TDSInput) (*TDSResult, error) {
	var c validation.Collector
	c.Positive("amount", in.Amount)
	c.OneOf("paymentType", in.PaymentType, PaymentSalary, PaymentProfessionalFees, PaymentRent,
		PaymentCommission, PaymentInterest, PaymentContractor)
	if err := c.Err(); err != nil {
		return nil, err
	}

	rule := tdsRules[in.PaymentType]
	ratePercent := rule.resident
	if in.IsNonResident {
		ratePercent = rule.nonResident
	}
	applicable := in.Amount >= rule.threshold

	deducted := 0.0
	if applicable {
		deducted = mathutil.ApplyPercentage(in.Amount, ratePercent)
	}

	return checkFinite(&TDSResult{
		GrossAmount:     roundPaise(in.Amount),
		TDSAmount:       roundPaise(deducted),
		NetAmount:       roundPaise(in.Amount - deducted),
		TDSRate:         ratePercent,
		TDSThreshold:    rule.threshold,
		IsTDSApplicable: applicable,
	})
}

// GSTInput is an amount with Goods and Services Tax at GSTRate percent. When
// IsInclusive is set, Amount already contains the tax.
type GSTInput struct {
	Amount      float64 `mapstructure:"amount"`
	GSTRate     float64 `mapstructure:"gstRate"`
	IsInclusive bool    `mapstructure:"isInclusive"`
}

// GSTBreakdown holds the central and state shares of the rate.
type GSTBreakdown struct {
	CGSTRate float64 `json:"cgstRate" yaml:"cgstRate"`
	SGSTRate float64 `json:"sgstRate" yaml:"sgstRate"`
}

// GSTResult splits the tax equally between central and state GST, rounded to whole units.
type GSTResult struct {
	BaseAmount  float64      `json:"baseAmount" yaml:"baseAmount"`
	CGST        float64      `json:"cgst" yaml:"cgst"`
	SGST        float64      `json:"sgst" yaml:"sgst"`
	TotalGST    float64      `json:"totalGST" yaml:"totalGST"`
	TotalAmount float64      `json:"totalAmount" yaml:"totalAmount"`
	Breakdown   GSTBreakdown `json:"breakdown" yaml:"breakdown"`
}

// GST adds tax to an exclusive amount or extracts it from an inclusive one.
func GST(in GSTInput) (*GSTResult, error) {
	var c validation.Collector
	c.Positive("amount", in.Amount)
	rate(&c, "gstRate", in.GSTRate)
	if err := c.Err(); err != nil {
		return nil, err
	}

	half := in.GSTRate / 2
	base, total := in.Amount, in.Amount*(1+in.GSTRate/constants.PercentageMultiplier)
	if in.IsInclusive {
		base = in.Amount * constants.PercentageMultiplier / (constants.PercentageMultiplier + in.GSTRate)
		total = in.Amount
	}
	cgst := mathutil.ApplyPercentage(base, half)
	sgst := mathutil.ApplyPercentage(base, half)

	return checkFinite(&GSTResult{
		BaseAmount:  roundUnit(base),
		CGST:        roundUnit(cgst),
		SGST:        roundUnit(sgst),
		TotalGST:    roundUnit(cgst + sgst),
		TotalAmount: roundUnit(total),
		Breakdown:   GSTBreakdown{CGSTRate: half, SGSTRate: half},
	})
}

// City types for the HRA exemption.
const (
	CityMetro    = "metro"
	CityNonMetro = "non-metro"
)

// HRAInput is a monthly basic salary and rent.
type HRAInput struct {
	BasicSalary float64 `mapstructure:"basicSalary"`
	RentPaid    float64 `mapstructure:"rentPaid"`
	CityType    string  `mapstructure:"cityType"`
}

// HRAResult is the house rent allowance split into exempt and taxable parts.
type HRAResult struct {
	HRAReceived  float64 `json:"hraReceived" yaml:"hraReceived"`
	HRAExemption float64 `json:"hraExemption" yaml:"hraExemption"`
	TaxableHRA   float64 `json:"taxableHRA" yaml:"taxableHRA"`

	series []finance.SeriesPoint
}

// Series returns the allowance received in each month of the year.
func (r *HRAResult) Series() []finance.SeriesPoint { return r.series }

// HRA assumes an allowance of 40% of basic and exempts the least of the allowance,
// the city share of basic (50% metro, 40% otherwise) and rent above 10% of basic.
func HRA(in HRAInput) (*HRAResult, error) {
	var c validation.Collector
	c.Positive("basicSalary", in.BasicSalary)
	c.Positive("rentPaid", in.RentPaid)
	c.OneOf("cityType", in.CityType, CityMetro, CityNonMetro)
	if err := c.Err(); err != nil {
		return nil, err
	}

	received := in.BasicSalary * 0.4
	cityShare := 0.4
	if in.CityType == CityMetro {
		cityShare = 0.5
	}
	exemption := mathutil.Min(received, in.BasicSalary*cityShare, mathutil.Max(0, in.RentPaid-in.BasicSalary*0.1))

	series := make([]finance.SeriesPoint, constants.MonthsPerYear)
	for i := range series {
		series[i] = finance.SeriesPoint{Label: finance.MonthLabel(i + 1), Value: received}
	}

	return checkFinite(&HRAResult{
		HRAReceived:  received,
		HRAExemption: exemption,
		TaxableHRA:   received - exemption,
		series:       series,
	})
}

// Monthly salary deduction rules.
const (
	pfShare               = 12.0
	pfCap                 = 1800.0
	professionalTax       = 200.0
	professionalTaxFloor  = 15000.0
	salaryTaxShare        = 10.0
	salaryTaxAnnualFloor  = 500000.0
	monthsForAnnualSalary = constants.MonthsPerYear
)

// SalaryInput is one month's pay components.
type SalaryInput struct {
	BasicSalary         float64 `mapstructure:"basicSalary"`
	HRA                 float64 `mapstructure:"hra"`
	BasicAllowance      float64 `mapstructure:"basicAllowance"`
	SpecialAllowance    float64 `mapstructure:"specialAllowance"`
	ConveyanceAllowance float64 `mapstructure:"conveyanceAllowance"`
	MedicalAllowance    float64 `mapstructure:"medicalAllowance"`
	OtherAllowances     float64 `mapstructure:"otherAllowances"`
	ExtraDeductions     float64 `mapstructure:"extraDeductions"`
}

// SalaryDeductions are the statutory monthly deductions.
type SalaryDeductions struct {
	ProvidentFund   float64 `json:"providentFund" yaml:"providentFund"`
	ProfessionalTax float64 `json:"professionalTax" yaml:"professionalTax"`
	IncomeTax       float64 `json:"incomeTax" yaml:"incomeTax"`
}

// SalaryBreakdown echoes the allowances that make up gross pay.
type SalaryBreakdown struct {
	HRA                 float64 `json:"hra" yaml:"hra"`
	BasicAllowance      float64 `json:"basicAllowance" yaml:"basicAllowance"`
	SpecialAllowance    float64 `json:"specialAllowance" yaml:"specialAllowance"`
	ConveyanceAllowance float64 `json:"conveyanceAllowance" yaml:"conveyanceAllowance"`
	MedicalAllowance    float64 `json:"medicalAllowance" yaml:"medicalAllowance"`
	OtherAllowances     float64 `json:"otherAllowances" yaml:"otherAllowances"`
}

// SalaryResult is the monthly take-home.
type SalaryResult struct {
	BasicSalary      float64          `json:"basicSalary" yaml:"basicSalary"`
	GrossSalary      float64          `json:"grossSalary" yaml:"grossSalary"`
	Deductions       SalaryDeductions `json:"deductions" yaml:"deductions"`
	TotalDeductions  float64          `json:"totalDeductions" yaml:"totalDeductions"`
	NetSalary        float64          `json:"netSalary" yaml:"netSalary"`
	MonthlyBreakdown SalaryBreakdown  `json:"monthlyBreakdown" yaml:"monthlyBreakdown"`
}

// Salary applies provident fund (12% of basic, capped at 1800), a flat professional tax
// above 15000 gross, and a simplified 10% income tax when annual gross exceeds 5 lakh.
func Salary(in SalaryInput) (*SalaryResult, error) {
	var c validation.Collector
	c.Positive("basicSalary", in.BasicSalary)
	c.NonNegative("hra", in.HRA)
	c.NonNegative("basicAllowance", in.BasicAllowance)
	c.NonNegative("specialAllowance", in.SpecialAllowance)
	c.NonNegative("conveyanceAllowance", in.ConveyanceAllowance)
	c.NonNegative("medicalAllowance", in.MedicalAllowance)
	c.NonNegative("otherAllowances", in.OtherAllowances)
	c.NonNegative("extraDeductions", in.ExtraDeductions)
	if err := c.Err(); err != nil {
		return nil, err
	}

	breakdown := SalaryBreakdown{
		HRA:                 in.HRA,
		BasicAllowance:      in.BasicAllowance,
		SpecialAllowance:    in.SpecialAllowance,
		ConveyanceAllowance: in.ConveyanceAllowance,
		MedicalAllowance:    in.MedicalAllowance,
		OtherAllowances:     in.OtherAllowances,
	}
	gross := in.BasicSalary + in.HRA + in.BasicAllowance + in.SpecialAllowance +
		in.ConveyanceAllowance + in.MedicalAllowance + in.OtherAllowances

	deductions := SalaryDeductions{
		ProvidentFund: mathutil.Min(mathutil.ApplyPercentage(in.BasicSalary, pfShare), pfCap),
	}
	if gross > professionalTaxFloor {
		deductions.ProfessionalTax = professionalTax
	}
	if gross*monthsForAnnualSalary > salaryTaxAnnualFloor {
		deductions.IncomeTax = mathutil.ApplyPercentage(gross, salaryTaxShare)
	}
	total := deductions.ProvidentFund + deductions.ProfessionalTax + deductions.IncomeTax + in.ExtraDeductions

	return checkFinite(&SalaryResult{
		BasicSalary:      in.BasicSalary,
		GrossSalary:      gross,
		Deductions:       deductions,
		TotalDeductions:  total,
		NetSalary:        gross - total,
		MonthlyBreakdown: breakdown,
	})
}

// Gratuity rules under the Payment of Gratuity Act.
const (
	gratuityMinYears    = 5
	gratuityWorkingDays = 26
	gratuityDaysPerYear = 15
	gratuityCap         = 2000000
)

// GratuityInput is the last drawn monthly basic salary and completed service.
type GratuityInput struct {
	BasicSalary    float64 `mapstructure:"basicSalary"`
	YearsOfService float64 `mapstructure:"yearsOfService"`
}

// GratuityBreakdown shows the intermediate wages, rounded to whole units.
type GratuityBreakdown struct {
	DailyWage         float64 `json:"dailyWage" yaml:"dailyWage"`
	FifteenDaysSalary float64 `json:"fifteenDaysSalary" yaml:"fifteenDaysSalary"`
	YearsConsidered   float64 `json:"yearsConsidered" yaml:"yearsConsidered"`
}

// GratuityResult is the payable gratuity.
type GratuityResult struct {
	GratuityAmount       float64           `json:"gratuityAmount" yaml:"gratuityAmount"`
	IsEligible           bool              `json:"isEligible" yaml:"isEligible"`
	CalculationBreakdown GratuityBreakdown `json:"calculationBreakdown" yaml:"calculationBreakdown"`
}

// Gratuity pays fifteen days' wages per year of service once five years are complete,
// capped at 20 lakh.
func Gratuity(in GratuityInput) (*GratuityResult, error) {
	var c validation.Collector
	c.Positive("basicSalary", in.BasicSalary)
	c.Positive("yearsOfService", in.YearsOfService)
	c.AtMost("yearsOfService", in.YearsOfService, maxYears)
	if err := c.Err(); err != nil {
		return nil, err
	}

	daily := in.BasicSalary / gratuityWorkingDays
	fifteenDays := daily * gratuityDaysPerYear
	eligible := in.YearsOfService >= gratuityMinYears

	amount := 0.0
	if eligible {
		amount = mathutil.Min(fifteenDays*in.YearsOfService, gratuityCap)
	}

	return checkFinite(&GratuityResult{
		GratuityAmount: roundUnit(amount),
		IsEligible:     eligible,
		CalculationBreakdown: GratuityBreakdown{
			DailyWage:         roundUnit(daily),
			FifteenDaysSalary: roundUnit(fifteenDays),
			YearsConsidered:   in.YearsOfService,
		},
	})
}
