package calculator

import (
	"errors"
	"testing"

	"github.com/iwvelando/finance-calculators/pkg/tax"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

func TestIncomeTax(t *testing.T) {
	tests := []struct {
		name          string
		input         IncomeTaxInput
		wantTaxable   float64
		wantTax       float64
		wantEffective float64
	}{
		{
			name:          "new regime ignores deductions",
			input:         IncomeTaxInput{Income: 1000000, Deductions: 150000, Regime: string(tax.RegimeNew)},
			wantTaxable:   1000000,
			wantTax:       60000,
			wantEffective: 6,
		},
		{
			name:          "old regime applies deductions",
			input:         IncomeTaxInput{Income: 1000000, Deductions: 150000, Regime: string(tax.RegimeOld)},
			wantTaxable:   850000,
			wantTax:       82500,
			wantEffective: 9.71,
		},
		{
			name:          "other income is added",
			input:         IncomeTaxInput{Income: 600000, OtherIncome: 300000, Regime: string(tax.RegimeNew)},
			wantTaxable:   900000,
			wantTax:       45000,
			wantEffective: 5,
		},
		{
			name:          "deductions above income floor at zero",
			input:         IncomeTaxInput{Income: 100000, Deductions: 200000, Regime: string(tax.RegimeOld)},
			wantTaxable:   0,
			wantTax:       0,
			wantEffective: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IncomeTax(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.TaxableIncome != tt.wantTaxable {
				t.Errorf("taxableIncome = %v, want %v", got.TaxableIncome, tt.wantTaxable)
			}
			if got.TaxAmount != tt.wantTax {
				t.Errorf("taxAmount = %v, want %v", got.TaxAmount, tt.wantTax)
			}
			if got.EffectiveTaxRate != tt.wantEffective {
				t.Errorf("effectiveTaxRate = %v, want %v", got.EffectiveTaxRate, tt.wantEffective)
			}
			if got.TakeHome != got.GrossIncome-got.TaxAmount {
				t.Errorf("takeHome = %v, want gross minus tax", got.TakeHome)
			}
			if got.SlabwiseBreakup == nil {
				t.Fatal("slab breakdown is nil")
			}

			total := 0.0
			for _, slab := range got.SlabwiseBreakup {
				total += slab.Tax
			}
			assertClose(t, "breakdown total", total, tt.wantTax, 0.5)
		})
	}
}

func TestIncomeTaxRejectsUnknownRegime(t *testing.T) {
	_, err := IncomeTax(IncomeTaxInput{Income: 500000, Regime: "flat"})
	expectInvalid(t, err, "regime")
}

func TestValidateSlabTables(t *testing.T) {
	tables := map[tax.Regime][]tax.Slab{}
	for _, regime := range tax.Regimes {
		tables[regime] = regime.Slabs()
	}
	if err := validateSlabTables(tables); err != nil {
		t.Fatalf("shipped slab tables rejected: %v", err)
	}

	tables[tax.RegimeOld] = []tax.Slab{
		{UpperBound: 500000, Rate: 0},
		{UpperBound: 250000, Rate: 5},
		{UpperBound: 1000000, Rate: 20},
	}
	err := validateSlabTables(tables)
	if err == nil {
		t.Fatal("expected an error for an unordered, bounded table")
	}
	if !errors.Is(err, validation.ErrInvalidInput) {
		t.Errorf("expected an invalid input error, got %v", err)
	}
}

func TestTDS(t *testing.T) {
	tests := []struct {
		name           string
		input          TDSInput
		wantApplicable bool
		wantRate       float64
		wantTDS        float64
	}{
		{
			name:           "resident salary",
			input:          TDSInput{Amount: 100000, PaymentType: PaymentSalary},
			wantApplicable: true,
			wantRate:       10,
			wantTDS:        10000,
		},
		{
			name:           "non-resident rent",
			input:          TDSInput{Amount: 50000, PaymentType: PaymentRent, IsNonResident: true},
			wantApplicable: true,
			wantRate:       30,
			wantTDS:        15000,
		},
		{
			name:           "below threshold",
			input:          TDSInput{Amount: 40000, PaymentType: PaymentSalary},
			wantApplicable: false,
			wantRate:       10,
			wantTDS:        0,
		},
		{
			name:           "at threshold",
			input:          TDSInput{Amount: 30000, PaymentType: PaymentContractor},
			wantApplicable: true,
			wantRate:       2,
			wantTDS:        600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TDS(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.IsTDSApplicable != tt.wantApplicable {
				t.Errorf("isTDSApplicable = %v, want %v", got.IsTDSApplicable, tt.wantApplicable)
			}
			if got.TDSRate != tt.wantRate {
				t.Errorf("tdsRate = %v, want %v", got.TDSRate, tt.wantRate)
			}
			if got.TDSAmount != tt.wantTDS {
				t.Errorf("tdsAmount = %v, want %v", got.TDSAmount, tt.wantTDS)
			}
			if got.NetAmount != tt.input.Amount-tt.wantTDS {
				t.Errorf("netAmount = %v, want %v", got.NetAmount, tt.input.Amount-tt.wantTDS)
			}
		})
	}
}

func TestGST(t *testing.T) {
	tests := []struct {
		name      string
		input     GSTInput
		wantBase  float64
		wantGST   float64
		wantTotal float64
	}{
		{name: "exclusive", input: GSTInput{Amount: 1000, GSTRate: 18}, wantBase: 1000, wantGST: 180, wantTotal: 1180},
		{name: "inclusive", input: GSTInput{Amount: 1180, GSTRate: 18, IsInclusive: true}, wantBase: 1000, wantGST: 180, wantTotal: 1180},
		{name: "five percent", input: GSTInput{Amount: 2000, GSTRate: 5}, wantBase: 2000, wantGST: 100, wantTotal: 2100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GST(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.BaseAmount != tt.wantBase || got.TotalGST != tt.wantGST || got.TotalAmount != tt.wantTotal {
				t.Errorf("got base %v gst %v total %v, want %v %v %v",
					got.BaseAmount, got.TotalGST, got.TotalAmount, tt.wantBase, tt.wantGST, tt.wantTotal)
			}
			if got.CGST != got.SGST || got.CGST != tt.wantGST/2 {
				t.Errorf("cgst %v and sgst %v should each be %v", got.CGST, got.SGST, tt.wantGST/2)
			}
			if got.Breakdown.CGSTRate != tt.input.GSTRate/2 {
				t.Errorf("cgstRate = %v, want %v", got.Breakdown.CGSTRate, tt.input.GSTRate/2)
			}
		})
	}
}

func TestHRA(t *testing.T) {
	tests := []struct {
		name          string
		input         HRAInput
		wantExemption float64
		wantTaxable   float64
	}{
		{
			name:          "rent based exemption in a metro",
			input:         HRAInput{BasicSalary: 50000, RentPaid: 20000, CityType: CityMetro},
			wantExemption: 15000,
			wantTaxable:   5000,
		},
		{
			name:          "fully exempt outside a metro",
			input:         HRAInput{BasicSalary: 50000, RentPaid: 30000, CityType: CityNonMetro},
			wantExemption: 20000,
			wantTaxable:   0,
		},
		{
			name:          "rent below ten percent of basic",
			input:         HRAInput{BasicSalary: 50000, RentPaid: 4000, CityType: CityMetro},
			wantExemption: 0,
			wantTaxable:   20000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HRA(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.HRAReceived != 20000 {
				t.Errorf("hraReceived = %v, want 20000", got.HRAReceived)
			}
			if got.HRAExemption != tt.wantExemption || got.TaxableHRA != tt.wantTaxable {
				t.Errorf("exemption %v taxable %v, want %v %v", got.HRAExemption, got.TaxableHRA, tt.wantExemption, tt.wantTaxable)
			}
			series := got.Series()
			if len(series) != 12 || series[0].Label != "Month 1" || series[11].Label != "Month 12" {
				t.Errorf("unexpected series %+v", series)
			}
		})
	}
}

func TestSalary(t *testing.T) {
	tests := []struct {
		name      string
		input     SalaryInput
		wantGross float64
		wantPF    float64
		wantPT    float64
		wantTax   float64
		wantNet   float64
	}{
		{
			name: "all components",
			input: SalaryInput{
				BasicSalary: 50000, HRA: 20000, BasicAllowance: 5000, SpecialAllowance: 8000,
				ConveyanceAllowance: 1600, MedicalAllowance: 1250,
			},
			wantGross: 85850, wantPF: 1800, wantPT: 200, wantTax: 8585, wantNet: 75265,
		},
		{
			name:      "low salary",
			input:     SalaryInput{BasicSalary: 10000},
			wantGross: 10000, wantPF: 1200, wantPT: 0, wantTax: 0, wantNet: 8800,
		},
		{
			name:      "extra deductions",
			input:     SalaryInput{BasicSalary: 20000, ExtraDeductions: 1000},
			wantGross: 20000, wantPF: 1800, wantPT: 200, wantTax: 0, wantNet: 17000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Salary(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.GrossSalary != tt.wantGross {
				t.Errorf("grossSalary = %v, want %v", got.GrossSalary, tt.wantGross)
			}
			d := got.Deductions
			if d.ProvidentFund != tt.wantPF || d.ProfessionalTax != tt.wantPT || d.IncomeTax != tt.wantTax {
				t.Errorf("deductions = %+v, want pf %v pt %v tax %v", d, tt.wantPF, tt.wantPT, tt.wantTax)
			}
			assertClose(t, "netSalary", got.NetSalary, tt.wantNet, 1e-6)
		})
	}
}

func TestGratuity(t *testing.T) {
	tests := []struct {
		name         string
		input        GratuityInput
		wantAmount   float64
		wantEligible bool
	}{
		{name: "ten years", input: GratuityInput{BasicSalary: 50000, YearsOfService: 10}, wantAmount: 288462, wantEligible: true},
		{name: "not yet eligible", input: GratuityInput{BasicSalary: 50000, YearsOfService: 4}, wantAmount: 0},
		{name: "capped", input: GratuityInput{BasicSalary: 200000, YearsOfService: 30}, wantAmount: 2000000, wantEligible: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Gratuity(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.GratuityAmount != tt.wantAmount {
				t.Errorf("gratuityAmount = %v, want %v", got.GratuityAmount, tt.wantAmount)
			}
			if got.IsEligible != tt.wantEligible {
				t.Errorf("isEligible = %v, want %v", got.IsEligible, tt.wantEligible)
			}
		})
	}

	got, err := Gratuity(GratuityInput{BasicSalary: 50000, YearsOfService: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got.CalculationBreakdown.DailyWage != 1923 || got.CalculationBreakdown.FifteenDaysSalary != 28846 {
		t.Errorf("unexpected breakdown %+v", got.CalculationBreakdown)
	}
}
