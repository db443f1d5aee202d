package calculator

import (
	"testing"

	"github.com/iwvelando/finance-calculators/pkg/finance"
)

func TestSIP(t *testing.T) {
	tests := []struct {
		name         string
		input        SIPInput
		wantInvested float64
		wantMaturity float64
	}{
		{
			name:         "ten years at 12%",
			input:        SIPInput{MonthlyInvestment: 5000, Years: 10, ExpectedReturn: 12},
			wantInvested: 600000,
			wantMaturity: 1161695.38,
		},
		{
			name:         "single year",
			input:        SIPInput{MonthlyInvestment: 1000, Years: 1, ExpectedReturn: 12},
			wantInvested: 12000,
			wantMaturity: 12809.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SIP(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertClose(t, "totalInvestment", got.TotalInvestment, tt.wantInvested, 0.001)
			assertClose(t, "maturityValue", got.MaturityValue, tt.wantMaturity, 0.01)
			assertClose(t, "totalReturns", got.TotalReturns, got.MaturityValue-got.TotalInvestment, 1e-6)

			months := int(tt.input.Years) * 12
			series := got.Series()
			if len(series) != months+1 {
				t.Fatalf("series length = %d, want %d", len(series), months+1)
			}
			if series[0].Label != "Month 0" || series[0].Value != 0 {
				t.Errorf("first point = %+v", series[0])
			}
			assertClose(t, "last point", series[months].Value, tt.wantMaturity, 0.5)
		})
	}
}

func TestSIPValidation(t *testing.T) {
	tests := []struct {
		name   string
		input  SIPInput
		fields []string
	}{
		{name: "fractional years", input: SIPInput{MonthlyInvestment: 5000, Years: 2.5, ExpectedReturn: 12}, fields: []string{"years"}},
		{name: "zero rate", input: SIPInput{MonthlyInvestment: 5000, Years: 10}, fields: []string{"expectedReturn"}},
		{name: "rate above 100", input: SIPInput{MonthlyInvestment: 5000, Years: 10, ExpectedReturn: 101}, fields: []string{"expectedReturn"}},
		{name: "too many years", input: SIPInput{MonthlyInvestment: 5000, Years: 101, ExpectedReturn: 12}, fields: []string{"years"}},
		{name: "negative investment", input: SIPInput{MonthlyInvestment: -5, Years: 10, ExpectedReturn: 12}, fields: []string{"monthlyInvestment"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SIP(tt.input)
			expectInvalid(t, err, tt.fields...)
		})
	}
}

func TestStepUpSIP(t *testing.T) {
	got, err := StepUpSIP(StepUpSIPInput{InitialMonthlyInvestment: 10000, Years: 10, ExpectedReturn: 12, AnnualIncrement: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "totalInvestment", got.TotalInvestment, 1912491, 1)
	assertClose(t, "totalReturns", got.TotalReturns, 1461835, 1)
	assertClose(t, "maturityValue", got.MaturityValue, 3374326, 1)
	if len(got.Series()) != 121 {
		t.Errorf("series length = %d, want 121", len(got.Series()))
	}
}

func TestStepUpSIPWithoutIncrementMatchesSIP(t *testing.T) {
	stepUp, err := StepUpSIP(StepUpSIPInput{InitialMonthlyInvestment: 5000, Years: 10, ExpectedReturn: 12})
	if err != nil {
		t.Fatal(err)
	}
	sip, err := SIP(SIPInput{MonthlyInvestment: 5000, Years: 10, ExpectedReturn: 12})
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, "maturityValue", stepUp.MaturityValue, sip.MaturityValue, 0.5)
	assertClose(t, "totalInvestment", stepUp.TotalInvestment, sip.TotalInvestment, 0.5)
}

func TestLumpsum(t *testing.T) {
	got, err := Lumpsum(LumpsumInput{Principal: 100000, Years: 5, ExpectedReturn: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertClose(t, "maturityValue", got.MaturityValue, 176234.17, 0.01)
	assertClose(t, "totalReturns", got.TotalReturns, 76234.17, 0.01)

	series := got.Series()
	if len(series) != 6 || series[0].Label != "Year 0" || series[0].Value != 100000 {
		t.Errorf("unexpected series %+v", series)
	}
}

func TestCAGR(t *testing.T) {
	got, err := CAGR(CAGRInput{InitialValue: 100000, FinalValue: 200000, Years: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CAGRPercentage != 14.87 {
		t.Errorf("cagrPercentage = %v, want 14.87", got.CAGRPercentage)
	}

	// Compounding the initial value at the rounded rate lands within 0.1% of the final value.
	final := finance.CompoundFutureValue(100000, got.CAGRPercentage/100, 5)
	if diff := (final - 200000) / 200000; diff > 0.001 || diff < -0.001 {
		t.Errorf("round trip gave %.2f, more than 0.1%% from 200000", final)
	}

	series := got.Series()
	assertClose(t, "series end", series[len(series)-1].Value, 200000, 1)
}

func TestCAGRDecline(t *testing.T) {
	got, err := CAGR(CAGRInput{InitialValue: 200000, FinalValue: 100000, Years: 5})
	if err != nil {
		t.Fatal(err)
	}
	if got.CAGRPercentage >= 0 {
		t.Errorf("expected a negative growth rate, got %v", got.CAGRPercentage)
	}
}

func TestCAGRValidation(t *testing.T) {
	_, err := CAGR(CAGRInput{InitialValue: 0, FinalValue: -1, Years: 0})
	expectInvalid(t, err, "initialValue", "finalValue", "years")
}
