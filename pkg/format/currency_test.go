package format

import (
	"math"
	"testing"
)

func TestMoneyFormat(t *testing.T) {
	money := DefaultMoney()

	tests := []struct {
		name     string
		amount   float64
		expected string
	}{
		{"Seed breakdown sum", 1100000, "$1.100.000"},
		{"Seed operating expenses", 500000, "$500.000"},
		{"Small amount", 950, "$950"},
		{"Ten thousand", 10000, "$10.000"},
		{"Zero", 0, "$0"},
		{"Negative amount", -700000, "-$700.000"},
		{"Rounds half away from zero", 12345.5, "$12.346"},
		{"Negative rounds half away from zero", -12345.5, "-$12.346"},
		{"Rounds down below midpoint", 159090.4, "$159.090"},
		{"Negative below half rounds to zero", -0.4, "$0"},
		{"NaN", math.NaN(), "$0"},
		{"Positive infinity", math.Inf(1), "$0"},
		{"Negative infinity", math.Inf(-1), "$0"},
		{"Large amount", 1234567890, "$1.234.567.890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := money.Format(tt.amount)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, expected %q", tt.amount, result, tt.expected)
			}
		})
	}
}

func TestMoneyNumber(t *testing.T) {
	money := DefaultMoney()
	if got := money.Number(-2600000); got != "-2.600.000" {
		t.Errorf("Number(-2600000) = %q, expected %q", got, "-2.600.000")
	}
}

func TestNewMoneyLocales(t *testing.T) {
	tests := []struct {
		locale   string
		code     string
		expected string
	}{
		{"es-CL", "CLP", "$3.500.000"},
		{"", "CLP", "$3.500.000"},
		{"en-US", "USD", "$3,500,000"},
		{"es-MX", "MXN", "$3,500,000"},
		{"de-DE", "EUR", "3.500.000\u00a0€"},
		{"es-ES", "EUR", "3.500.000\u00a0€"},
		{"en-GB", "GBP", "£3,500,000"},
	}

	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			money, err := NewMoney(tt.locale)
			if err != nil {
				t.Fatalf("NewMoney(%q) error = %v", tt.locale, err)
			}
			if money.CurrencyCode() != tt.code {
				t.Errorf("CurrencyCode() = %s, expected %s", money.CurrencyCode(), tt.code)
			}
			if got := money.Format(3500000); got != tt.expected {
				t.Errorf("Format(3500000) = %q, expected %q", got, tt.expected)
			}
			if got := money.Format(-3500000); got != "-"+tt.expected {
				t.Errorf("Format(-3500000) = %q, expected %q", got, "-"+tt.expected)
			}
		})
	}
}

func TestNewMoneyInvalidLocale(t *testing.T) {
	if _, err := NewMoney("not a locale!"); err == nil {
		t.Errorf("NewMoney() expected error for invalid locale")
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{2600000.0 / 4200000.0 * 100, "61.90%"},
		{50, "50.00%"},
		{-150, "-150.00%"},
		{0, "0.00%"},
	}

	for _, tt := range tests {
		if got := Percent(tt.value); got != tt.expected {
			t.Errorf("Percent(%v) = %q, expected %q", tt.value, got, tt.expected)
		}
	}

	if got := PercentDelta(48.57, 61.90); got != "13.33%" {
		t.Errorf("PercentDelta() = %q, expected %q", got, "13.33%")
	}
}
