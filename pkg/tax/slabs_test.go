package tax

import (
	"errors"
	"math"
	"testing"

	"github.com/iwvelando/finance-calculators/pkg/validation"
)

func TestWalk(t *testing.T) {
	tests := []struct {
		name          string
		regime        Regime
		income        float64
		expectedTax   float64
		expectedSlabs int
	}{
		{
			name:          "Income inside the zero slab",
			regime:        RegimeNew,
			income:        250000,
			expectedTax:   0,
			expectedSlabs: 1,
		},
		{
			name:          "New regime ten lakh",
			regime:        RegimeNew,
			income:        1000000,
			expectedTax:   60000, // 15000 + 30000 + 15000
			expectedSlabs: 4,
		},
		{
			name:          "New regime top slab",
			regime:        RegimeNew,
			income:        2000000,
			expectedTax:   300000, // 15000 + 30000 + 45000 + 60000 + 150000
			expectedSlabs: 6,
		},
		{
			name:          "Old regime ten lakh",
			regime:        RegimeOld,
			income:        1000000,
			expectedTax:   112500, // 12500 + 100000
			expectedSlabs: 3,
		},
		{
			name:          "Zero income",
			regime:        RegimeOld,
			income:        0,
			expectedTax:   0,
			expectedSlabs: 0,
		},
		{
			name:          "Negative income taxed as zero",
			regime:        RegimeNew,
			income:        -5000,
			expectedTax:   0,
			expectedSlabs: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Walk(tt.regime.Slabs(), tt.income)

			if math.Abs(result.Total-tt.expectedTax) > 0.01 {
				t.Errorf("Walk() total = %.2f, expected %.2f", result.Total, tt.expectedTax)
			}
			if len(result.Breakdown) != tt.expectedSlabs {
				t.Errorf("Walk() breakdown has %d slabs, expected %d", len(result.Breakdown), tt.expectedSlabs)
			}
		})
	}
}

func TestWalkBreakdownSumsToTotal(t *testing.T) {
	for _, regime := range []Regime{RegimeNew, RegimeOld} {
		for income := 0.0; income <= 3000000; income += 37500 {
			result := Walk(regime.Slabs(), income)

			sum := 0.0
			taxed := 0.0
			for _, slab := range result.Breakdown {
				if slab.Income <= 0 || slab.Tax < 0 {
					t.Errorf("%s regime income %.0f: slab %s has non-positive income or negative tax", regime, income, slab.Slab)
				}
				sum += slab.Tax
				taxed += slab.Income
			}
			if math.Abs(sum-result.Total) > 1e-6 {
				t.Errorf("%s regime income %.0f: slab sum %.2f != total %.2f", regime, income, sum, result.Total)
			}
			if math.Abs(taxed-income) > 1e-6 {
				t.Errorf("%s regime income %.0f: slabs cover %.2f", regime, income, taxed)
			}
		}
	}
}

func TestWalkLabels(t *testing.T) {
	result := Walk(RegimeNew.Slabs(), 2000000)
	expected := []string{
		"₹0-₹3,00,000",
		"₹3,00,000-₹6,00,000",
		"₹6,00,000-₹9,00,000",
		"₹9,00,000-₹12,00,000",
		"₹12,00,000-₹15,00,000",
		"₹15,00,000-Above",
	}
	for i, want := range expected {
		if result.Breakdown[i].Slab != want {
			t.Errorf("slab %d label = %q, expected %q", i, result.Breakdown[i].Slab, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name           string
		slabs          []Slab
		expectedErrors int
	}{
		{name: "New regime table", slabs: RegimeNew.Slabs()},
		{name: "Old regime table", slabs: RegimeOld.Slabs()},
		{name: "Empty table", slabs: nil, expectedErrors: 1},
		{
			name: "Bounded final slab",
			slabs: []Slab{
				{UpperBound: 100000, Rate: 0},
				{UpperBound: 200000, Rate: 10},
			},
			expectedErrors: 1,
		},
		{
			name: "Descending bounds and bad rate",
			slabs: []Slab{
				{UpperBound: 200000, Rate: 0},
				{UpperBound: 100000, Rate: 120},
				{UpperBound: math.Inf(1), Rate: 30},
			},
			expectedErrors: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.slabs)
			violations := validation.Violations(err)

			if len(violations) != tt.expectedErrors {
				t.Errorf("Validate() returned %d violations, expected %d: %v", len(violations), tt.expectedErrors, err)
			}
			if tt.expectedErrors > 0 && !errors.Is(err, validation.ErrInvalidInput) {
				t.Errorf("Validate() error should match ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestRegimeAllowsDeductions(t *testing.T) {
	if RegimeNew.AllowsDeductions() {
		t.Errorf("new regime should not allow deductions")
	}
	if !RegimeOld.AllowsDeductions() {
		t.Errorf("old regime should allow deductions")
	}
}
