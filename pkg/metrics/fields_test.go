package metrics

import (
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected float64
	}{
		{"Integer", "3500000", 3500000},
		{"Decimal", "12.5", 12.5},
		{"Negative", "-400", -400},
		{"Surrounding spaces", "  42 ", 42},
		{"Empty", "", 0},
		{"Blank", "   ", 0},
		{"Malformed", "12abc", 0},
		{"NaN text", "NaN", 0},
		{"Infinity text", "Inf", 0},
		{"Overflow", "1e400", 0},
		{"Hexadecimal", "0x10", 16},
		{"Upper hexadecimal", "0XFF", 255},
		{"Octal", "0o17", 15},
		{"Binary", "0b101", 5},
		{"Signed hexadecimal", "-0x10", 0},
		{"Hexadecimal float", "0x1p4", 0},
		{"Prefixed underscore", "0x1_0", 0},
		{"Bare prefix", "0x", 0},
		{"Leading zero decimal", "010", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseAmount(tt.raw); got != tt.expected {
				t.Errorf("ParseAmount(%q) = %v, expected %v", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestWithField(t *testing.T) {
	seed := Seed()

	tests := []struct {
		name  string
		key   string
		raw   string
		check func(Input) bool
	}{
		{"Text field", KeyCompany, "ACME", func(in Input) bool { return in.Company == "ACME" }},
		{"Period", KeyPeriod, "1ER TRIMESTRE", func(in Input) bool { return in.Period == "1ER TRIMESTRE" }},
		{"Year", KeyYear, "2025", func(in Input) bool { return in.Year == 2025 }},
		{"Fractional year truncates", KeyYear, "2025.7", func(in Input) bool { return in.Year == 2025 }},
		{"Revenue", KeyRevenueQ2, "5000000", func(in Input) bool { return in.RevenueQ2 == 5000000 }},
		{"Malformed amount coerces to zero", KeyOpexQ2, "abc", func(in Input) bool { return in.OpexQ2 == 0 }},
		{"Breakdown category", KeyBreakdownInterest, "75000", func(in Input) bool { return in.BreakdownInterest == 75000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := seed.WithField(tt.key, tt.raw)
			if err != nil {
				t.Fatalf("WithField() error = %v", err)
			}
			if !tt.check(updated) {
				t.Errorf("WithField(%q, %q) produced %+v", tt.key, tt.raw, updated)
			}
		})
	}

	if seed != Seed() {
		t.Errorf("WithField() modified the original record")
	}
}

func TestWithFieldUnknown(t *testing.T) {
	_, err := Seed().WithField("revenue", "1")
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("WithField() error = %v, expected ErrUnknownField", err)
	}
	if _, err := Seed().WithAmount(KeyCompany, 1); !errors.Is(err, ErrUnknownField) {
		t.Errorf("WithAmount() on a text field error = %v, expected ErrUnknownField", err)
	}
}

func TestWithAmountNonFinite(t *testing.T) {
	updated, err := Seed().WithAmount(KeyRevenueQ1, math.Inf(1))
	if err != nil {
		t.Fatalf("WithAmount() error = %v", err)
	}
	if updated.RevenueQ1 != 0 {
		t.Errorf("RevenueQ1 = %v, expected 0", updated.RevenueQ1)
	}
}

func TestValueRoundTrip(t *testing.T) {
	seed := Seed()
	for _, key := range Keys() {
		raw, err := seed.Value(key)
		if err != nil {
			t.Fatalf("Value(%q) error = %v", key, err)
		}
		updated, err := seed.WithField(key, raw)
		if err != nil {
			t.Fatalf("WithField(%q) error = %v", key, err)
		}
		if updated != seed {
			t.Errorf("round trip of %q changed the record: %q", key, raw)
		}
	}
}

func TestNormalize(t *testing.T) {
	in := Seed()
	in.RevenueQ1 = math.NaN()
	in.BreakdownCost = math.Inf(-1)

	normalized := in.Normalize()
	if normalized.RevenueQ1 != 0 || normalized.BreakdownCost != 0 {
		t.Errorf("Normalize() left non-finite values: %+v", normalized)
	}
	if normalized.RevenueQ2 != in.RevenueQ2 {
		t.Errorf("Normalize() changed a finite value")
	}
}

func TestBreakdownAccessors(t *testing.T) {
	seed := Seed()
	categories := seed.Breakdown()
	if len(categories) != BreakdownCategories {
		t.Fatalf("Breakdown() returned %d categories", len(categories))
	}
	if categories[0].Key != KeyBreakdownCost || categories[0].Value != 350000 {
		t.Errorf("first category = %+v", categories[0])
	}

	doubled := seed.WithBreakdown([BreakdownCategories]float64{1, 2, 3, 4, 5})
	if doubled.BreakdownValues() != [BreakdownCategories]float64{1, 2, 3, 4, 5} {
		t.Errorf("WithBreakdown() = %v", doubled.BreakdownValues())
	}
	if doubled.OpexQ2 != seed.OpexQ2 {
		t.Errorf("WithBreakdown() touched OpexQ2")
	}
}

func TestLabel(t *testing.T) {
	if Label(KeyYear) != "Año" {
		t.Errorf("Label(anio) = %q", Label(KeyYear))
	}
	if Label(KeyOpexQ2) != "Gastos Operativos Q2" {
		t.Errorf("Label(gastosOperativosQ2) = %q", Label(KeyOpexQ2))
	}
	if Label("missing") != "missing" {
		t.Errorf("Label(missing) = %q", Label("missing"))
	}
}
