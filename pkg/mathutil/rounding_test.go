package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number away from zero", -1.235, -1.24},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Nearly two paise", 0.019, 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundUnit(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Gratuity midpoint", 288461.5384615385, 288462},
		{"Half rounds up", 2.5, 3},
		{"Below half", 1161695.38, 1161695},
		{"Negative half away from zero", -2.5, -3},
		{"Whole", 600000, 600000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := RoundUnit(tt.input); result != tt.expected {
				t.Errorf("RoundUnit(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundPlacesNonFinite(t *testing.T) {
	if result := RoundPlaces(math.NaN(), 2); !math.IsNaN(result) {
		t.Errorf("RoundPlaces(NaN) = %v, expected NaN", result)
	}
	if result := RoundPlaces(math.Inf(1), 0); !math.IsInf(result, 1) {
		t.Errorf("RoundPlaces(+Inf) = %v, expected +Inf", result)
	}
}

func TestIsFinite(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Ordinary", 12.5, true},
		{"Zero", 0, true},
		{"NaN", math.NaN(), false},
		{"Positive infinity", math.Inf(1), false},
		{"Negative infinity", math.Inf(-1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsFinite(tt.input); result != tt.expected {
				t.Errorf("IsFinite(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsZero(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected bool
	}{
		{"Exactly zero", 0.0, true},
		{"Sub-paisa positive", 0.001, true},
		{"Sub-paisa negative", -0.001, true},
		{"Exactly tolerance", 0.01, true},
		{"Just above tolerance", 0.02, false},
		{"Large negative", -100.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := IsZero(tt.input); result != tt.expected {
				t.Errorf("IsZero(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestMinMax(t *testing.T) {
	tests := []struct {
		name        string
		values      []float64
		expectedMin float64
		expectedMax float64
	}{
		{"Single value", []float64{3}, 3, 3},
		{"HRA exemption candidates", []float64{20000, 25000, 5000}, 5000, 25000},
		{"Negative values", []float64{-2, -1, -3}, -3, -1},
		{"Mixed signs", []float64{0, -1, 1}, -1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Min(tt.values[0], tt.values[1:]...); got != tt.expectedMin {
				t.Errorf("Min(%v) = %v, expected %v", tt.values, got, tt.expectedMin)
			}
			if got := Max(tt.values[0], tt.values[1:]...); got != tt.expectedMax {
				t.Errorf("Max(%v) = %v, expected %v", tt.values, got, tt.expectedMax)
			}
		})
	}
}

func TestPercentages(t *testing.T) {
	tests := []struct {
		name       string
		value      float64
		percentage float64
		expected   float64
	}{
		{"GST on base", 1000, 18, 180},
		{"PF on basic", 50000, 12, 6000},
		{"Zero percentage", 100, 0, 0},
		{"Percentage of zero", 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := ApplyPercentage(tt.value, tt.percentage); math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("ApplyPercentage(%v, %v) = %v, expected %v", tt.value, tt.percentage, result, tt.expected)
			}
		})
	}

	if got := CalculatePercentage(50, 200); math.Abs(got-25) > 0.001 {
		t.Errorf("CalculatePercentage(50, 200) = %v, expected 25", got)
	}
	if got := CalculatePercentage(50, 0); got != 0 {
		t.Errorf("CalculatePercentage(50, 0) = %v, expected 0", got)
	}
}
