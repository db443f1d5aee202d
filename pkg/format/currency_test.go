package format

import "testing"

func TestRupees(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Zero", 0, "₹0.00"},
		{"Hundreds", 999.5, "₹999.50"},
		{"Thousands", 1234.5, "₹1,234.50"},
		{"Lakh", 300000, "₹3,00,000.00"},
		{"Ten lakh", 1161695.38, "₹11,61,695.38"},
		{"Crore", 123456789.1, "₹12,34,56,789.10"},
		{"Negative", -1234567.891, "-₹12,34,567.89"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rupees(tt.amount); got != tt.expected {
				t.Errorf("Rupees(%v) = %q, expected %q", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestWholeRupees(t *testing.T) {
	tests := []struct {
		amount   float64
		expected string
	}{
		{250000, "₹2,50,000"},
		{1500000, "₹15,00,000"},
		{2000000, "₹20,00,000"},
		{-4339.4, "-₹4,339"},
		{-0.2, "₹0"},
	}

	for _, tt := range tests {
		if got := WholeRupees(tt.amount); got != tt.expected {
			t.Errorf("WholeRupees(%v) = %q, expected %q", tt.amount, got, tt.expected)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "0"},
		{240, "240"},
		{300000, "3,00,000"},
		{4339.12, "4,339.12"},
		{-1500.5, "-1,500.50"},
	}

	for _, tt := range tests {
		if got := Number(tt.value); got != tt.expected {
			t.Errorf("Number(%v) = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}
