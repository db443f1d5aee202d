package calculator

import (
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/tax"
)

// Calculator types.
const (
	TypeSIP              = "sip"
	TypeStepUpSIP        = "step-up-sip"
	TypeLumpsum          = "lumpsum"
	TypeCAGR             = "cagr"
	TypeEMI              = "emi"
	TypeHomeLoan         = "home-loan"
	TypeCarLoan          = "car-loan"
	TypeFlatVsReducing   = "flat-vs-reducing"
	TypeCreditCard       = "credit-card"
	TypeCompoundInterest = "compound-interest"
	TypeSimpleInterest   = "simple-interest"
	TypeInflation        = "inflation"
	TypePPF              = "ppf"
	TypeFD               = "fd"
	TypeRD               = "rd"
	TypeNSC              = "nsc"
	TypeSCSS             = "scss"
	TypePOMIS            = "pomis"
	TypeAPY              = "apy"
	TypeNPS              = "nps"
	TypeIncomeTax        = "income-tax"
	TypeTDS              = "tds"
	TypeGST              = "gst"
	TypeHRA              = "hra"
	TypeSalary           = "salary"
	TypeGratuity         = "gratuity"
	TypeRetirement       = "retirement"
	TypeBrokerage        = "brokerage"
	TypeMargin           = "margin"
	TypeStockAverage     = "stock-average"
)

var registry = buildRegistry()

func buildRegistry() map[string]Definition {
	tables := make(map[tax.Regime][]tax.Slab, len(tax.Regimes))
	for _, regime := range tax.Regimes {
		tables[regime] = regime.Slabs()
	}
	if err := validateSlabTables(tables); err != nil {
		panic(err)
	}

	defs := []Definition{
		define(Definition{
			Type: TypeSIP, Name: "SIP Calculator", Category: CategoryInvestment,
			Description: "Maturity value of a fixed monthly investment",
		}, SIPInput{MonthlyInvestment: 5000, Years: 10, ExpectedReturn: 12}, currency(), SIP),
		define(Definition{
			Type: TypeStepUpSIP, Name: "Step-up SIP Calculator", Category: CategoryInvestment,
			Description: "Monthly investment raised by a fixed percentage every year",
		}, StepUpSIPInput{InitialMonthlyInvestment: 10000, Years: 10, ExpectedReturn: 12, AnnualIncrement: 10},
			currency(), StepUpSIP),
		define(Definition{
			Type: TypeLumpsum, Name: "Lumpsum Calculator", Category: CategoryInvestment,
			Description: "Growth of a one-time investment compounded annually",
		}, LumpsumInput{Principal: 100000, Years: 5, ExpectedReturn: 12}, currency(), Lumpsum),
		define(Definition{
			Type: TypeCAGR, Name: "CAGR Calculator", Category: CategoryInvestment,
			Description: "Compound annual growth rate between two values",
		}, CAGRInput{InitialValue: 100000, FinalValue: 200000, Years: 5}, currency("cagrPercentage"), CAGR),

		define(Definition{
			Type: TypeEMI, Name: "EMI Calculator", Category: CategoryLoan,
			Description: "Equated monthly installment and amortization of a loan",
		}, LoanInput{Principal: 500000, Rate: 8.5, Tenure: 20}, currency(), EMI),
		define(Definition{
			Type: TypeHomeLoan, Name: "Home Loan Calculator", Category: CategoryLoan,
			Description: "Home loan installment with optional down payment and prepayment",
		}, LoanInput{Principal: 5000000, Rate: 8.5, Tenure: 20}, currency(), EMI),
		define(Definition{
			Type: TypeCarLoan, Name: "Car Loan Calculator", Category: CategoryLoan,
			Description: "Car loan installment with optional down payment and prepayment",
		}, LoanInput{Principal: 800000, Rate: 9, Tenure: 5}, currency(), EMI),
		define(Definition{
			Type: TypeFlatVsReducing, Name: "Flat vs Reducing Rate Calculator", Category: CategoryLoan,
			Description: "Compares a flat-rate loan with a reducing-balance loan",
		}, FlatVsReducingInput{Principal: 100000, Tenure: 2, FlatRate: 12, ReducingRate: 12},
			currency("effectiveRateDiff"), FlatVsReducing),
		define(Definition{
			Type: TypeCreditCard, Name: "Credit Card Payoff Calculator", Category: CategoryLoan,
			Description: "Months and interest needed to clear a card balance",
		}, CreditCardInput{Balance: 10000, APR: 18, MonthlyPayment: 500}, currency(), CreditCard),

		define(Definition{
			Type: TypeCompoundInterest, Name: "Compound Interest Calculator", Category: CategoryInterest,
			Description: "Interest compounded yearly, half-yearly, quarterly or monthly",
		}, InterestInput{Principal: 10000, Rate: 10, Time: 5, Frequency: 1}, currency(), CompoundInterest),
		define(Definition{
			Type: TypeSimpleInterest, Name: "Simple Interest Calculator", Category: CategoryInterest,
			Description: "Interest on the original principal only",
		}, InterestInput{Principal: 10000, Rate: 5, Time: 5, Frequency: 1}, currency(), SimpleInterest),
		define(Definition{
			Type: TypeInflation, Name: "Inflation Calculator", Category: CategoryInterest,
			Description: "Future cost and purchasing power under steady inflation",
		}, InflationInput{CurrentCost: 100000, InflationRate: 6, Years: 10}, currency("powerLossPercent"), Inflation),

		define(Definition{
			Type: TypePPF, Name: "PPF Calculator", Category: CategoryScheme,
			Description: "Public Provident Fund at 7.1% with yearly deposits",
		}, PPFInput{YearlyInvestment: 150000, Years: 15}, currency(), PPF),
		define(Definition{
			Type: TypeFD, Name: "FD Calculator", Category: CategoryScheme,
			Description: "Fixed deposit maturity value",
		}, FDInput{Principal: 100000, Rate: 7, Years: 5, CompoundingFrequency: 4}, currency(), FD),
		define(Definition{
			Type: TypeRD, Name: "RD Calculator", Category: CategoryScheme,
			Description: "Recurring deposit maturity value",
		}, RDInput{MonthlyInvestment: 5000, Rate: 7, Years: 5}, currency(), RD),
		define(Definition{
			Type: TypeNSC, Name: "NSC Calculator", Category: CategoryScheme,
			Description: "National Savings Certificate at 6.8% compounded annually",
		}, NSCInput{Principal: 10000, Years: 5}, currency(), NSC),
		define(Definition{
			Type: TypeSCSS, Name: "SCSS Calculator", Category: CategoryScheme,
			Description: "Senior Citizens Savings Scheme at 8.2% paid quarterly",
		}, SCSSInput{Deposit: 1500000, Age: 60, Years: 5}, currency(), SCSS),
		define(Definition{
			Type: TypePOMIS, Name: "Post Office MIS Calculator", Category: CategoryScheme,
			Description: "Post Office Monthly Income Scheme at 7.4% paid monthly",
		}, POMISInput{Deposit: 900000, AccountType: AccountSingle}, currency(), POMIS),
		define(Definition{
			Type: TypeAPY, Name: "APY Calculator", Category: CategoryScheme,
			Description: "Atal Pension Yojana contribution for a guaranteed pension",
		}, APYInput{CurrentAge: 25, DesiredPension: 1000}, currency(), APY),
		define(Definition{
			Type: TypeNPS, Name: "NPS Calculator", Category: CategoryScheme,
			Description: "National Pension System corpus, lump sum and pension",
		}, NPSInput{
			MonthlyContribution: 5000, CurrentAge: 30, RetirementAge: 60, EquityAllocation: 50,
			ExpectedReturn: 10, AnnuityPercent: 40, AnnuityRate: 6,
		}, currency(), NPS),

		define(Definition{
			Type: TypeIncomeTax, Name: "Income Tax Calculator", Category: CategoryTax,
			Description: "Income tax under the old or new regime with slab breakdown",
		}, IncomeTaxInput{Income: 800000, Deductions: 150000, Regime: string(tax.RegimeNew)},
			currency("effectiveTaxRate", "rate"), IncomeTax),
		define(Definition{
			Type: TypeTDS, Name: "TDS Calculator", Category: CategoryTax,
			Description: "Tax deducted at source for common payment types",
		}, TDSInput{Amount: 100000, PaymentType: PaymentSalary}, paise(), TDS),
		define(Definition{
			Type: TypeGST, Name: "GST Calculator", Category: CategoryTax,
			Description: "Goods and Services Tax on an inclusive or exclusive amount",
		}, GSTInput{Amount: 1000, GSTRate: 18}, currency("cgstRate", "sgstRate"), GST),
		define(Definition{
			Type: TypeHRA, Name: "HRA Calculator", Category: CategoryTax,
			Description: "House rent allowance exemption",
		}, HRAInput{BasicSalary: 50000, RentPaid: 20000, CityType: CityMetro}, currency(), HRA),
		define(Definition{
			Type: TypeSalary, Name: "Salary Calculator", Category: CategoryTax,
			Description: "Monthly take-home pay after statutory deductions",
		}, SalaryInput{
			BasicSalary: 50000, HRA: 20000, BasicAllowance: 5000, SpecialAllowance: 8000,
			ConveyanceAllowance: 1600, MedicalAllowance: 1250,
		}, currency(), Salary),
		define(Definition{
			Type: TypeGratuity, Name: "Gratuity Calculator", Category: CategoryTax,
			Description: "Statutory gratuity after five years of service",
		}, GratuityInput{BasicSalary: 50000, YearsOfService: 10}, currency("yearsConsidered"), Gratuity),

		define(Definition{
			Type: TypeRetirement, Name: "Retirement Calculator", Category: CategoryPlanning,
			Description: "Retirement corpus needed under lean, mid or fat FIRE",
		}, RetirementInput{
			CurrentAge: 30, RetirementAge: 60, MonthlyExpenses: 50000, CurrentSavings: 1000000,
			MonthlyInvestment: 20000, ExpectedReturn: 12, InflationRate: 6, FireType: FireMid,
		}, currency("withdrawalRate"), Retirement),

		define(Definition{
			Type: TypeBrokerage, Name: "Brokerage Calculator", Category: CategoryTrading,
			Description: "Brokerage, taxes and break-even price of a round-trip trade",
		}, BrokerageInput{Type: TradeDelivery, BuyPrice: 100, SellPrice: 110, Quantity: 100}, paise(), Brokerage),
		define(Definition{
			Type: TypeMargin, Name: "Margin Calculator", Category: CategoryTrading,
			Description: "VaR, exposure and SPAN margin of a position",
		}, MarginInput{Type: TradeEquity, Price: 100, Quantity: 100, LotSize: 1, Volatility: 15}, paise(), Margin),
		define(Definition{
			Type: TypeStockAverage, Name: "Stock Average Calculator", Category: CategoryTrading,
			Description: "Average purchase price across several buys",
		}, StockAverageInput{}, paise(), StockAverage),
	}

	registry := make(map[string]Definition, len(defs))
	for _, def := range defs {
		registry[def.Type] = def
	}
	return registry
}

// validateSlabTables checks the slab table of every regime the income tax
// calculator accepts.
func validateSlabTables(tables map[tax.Regime][]tax.Slab) error {
	for regime, slabs := range tables {
		if err := tax.Validate(slabs); err != nil {
			return fmt.Errorf("%s regime slab table: %w", regime, err)
		}
	}
	return nil
}
