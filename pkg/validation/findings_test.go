package validation

import (
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/quarterly-report/pkg/correction"
	"github.com/iwvelando/quarterly-report/pkg/format"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
)

func evaluate(in metrics.Input) []Finding {
	return Validate(in, metrics.Compute(in), format.DefaultMoney())
}

func TestValidateSeedBreakdownMismatch(t *testing.T) {
	findings := evaluate(metrics.Seed())

	if len(findings) != 1 {
		t.Fatalf("Validate() returned %d findings, expected 1: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Severity != SeverityWarning || f.Code != CodeBreakdownMismatch {
		t.Errorf("finding = %+v, expected breakdown warning", f)
	}
	if !strings.Contains(f.Message, "$1.100.000") || !strings.Contains(f.Message, "$500.000") {
		t.Errorf("message %q missing formatted values", f.Message)
	}
	if len(f.Actions) != 2 || f.Actions[0] != correction.AdoptBreakdownAction || f.Actions[1] != correction.RescaleBreakdownAction {
		t.Errorf("actions = %v", f.Actions)
	}
}

func TestValidateBreakdownTolerance(t *testing.T) {
	tests := []struct {
		name       string
		opex       float64
		expectWarn bool
	}{
		{"Exact match", 1100000, false},
		{"One unit below", 1099999, false},
		{"One unit above", 1100001, false},
		{"Just over one unit", 1100001.01, true},
		{"Two units below", 1099998, true},
		{"Seed operating expenses", 500000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := metrics.Seed()
			in.OpexQ2 = tt.opex

			hasWarn := false
			for _, f := range evaluate(in) {
				if f.Code == CodeBreakdownMismatch {
					hasWarn = true
				}
			}
			if hasWarn != tt.expectWarn {
				t.Errorf("breakdown warning = %t, expected %t", hasWarn, tt.expectWarn)
			}
		})
	}
}

func TestValidateAfterAdoptBreakdown(t *testing.T) {
	fixed := correction.AdoptBreakdown(metrics.Seed())
	for _, f := range evaluate(fixed) {
		if f.Code == CodeBreakdownMismatch {
			t.Errorf("breakdown warning still raised after adopting breakdown: %s", f.Message)
		}
	}
}

func TestValidateAfterRescaleBreakdown(t *testing.T) {
	fixed := correction.RescaleBreakdown(metrics.Seed())
	// The seed rescales to 500001 against 500000, inside the tolerance.
	for _, f := range evaluate(fixed) {
		if f.Code == CodeBreakdownMismatch {
			t.Errorf("breakdown warning still raised after rescaling: %s", f.Message)
		}
	}
}

func TestValidateNetMarginRange(t *testing.T) {
	tests := []struct {
		name       string
		revenue    float64
		cogs       float64
		opex       float64
		expectWarn bool
		expectText string
	}{
		{"Seed margin", 4200000, 1600000, 1100000, false, ""},
		{"Exactly minus one hundred", 1000, 1000, 1000, false, ""},
		{"Below minus one hundred", 1000, 1500, 1000, true, "(-150.00%)"},
		{"Zero revenue with profit", 0, 0, -5, true, "(500.00%)"},
		{"Negative revenue", -100, 0, 0, true, "(-10000.00%)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := metrics.Seed()
			in.RevenueQ2 = tt.revenue
			in.COGSQ2 = tt.cogs
			in.OpexQ2 = tt.opex

			var found *Finding
			findings := evaluate(in)
			for i := range findings {
				if findings[i].Code == CodeNetMarginRange {
					found = &findings[i]
				}
			}
			if (found != nil) != tt.expectWarn {
				t.Fatalf("margin warning = %t, expected %t", found != nil, tt.expectWarn)
			}
			if found != nil && !strings.Contains(found.Message, tt.expectText) {
				t.Errorf("message %q missing %q", found.Message, tt.expectText)
			}
		})
	}
}

func TestValidateOrder(t *testing.T) {
	in := metrics.Seed()
	in.RevenueQ2 = 1000
	in.COGSQ2 = 5000
	m := metrics.Compute(in)
	m.NetProfitQ2++ // simulate a broken engine

	findings := Validate(in, m, format.DefaultMoney())
	codes := make([]string, 0, len(findings))
	for _, f := range findings {
		codes = append(codes, f.Code)
	}
	expected := []string{CodeNetProfitMismatch, CodeBreakdownMismatch, CodeNetMarginRange}
	if strings.Join(codes, ",") != strings.Join(expected, ",") {
		t.Errorf("codes = %v, expected %v", codes, expected)
	}
	if findings[0].Severity != SeverityError || len(findings[0].Actions) != 0 {
		t.Errorf("net profit finding = %+v", findings[0])
	}
	if !HasErrors(findings) {
		t.Errorf("HasErrors() = false")
	}
}

func TestValidateEngineNeverMismatches(t *testing.T) {
	values := []float64{0, 1, -1, 0.1, 0.2, 0.3, 1e15, -3.7, 4200000, math.MaxFloat64 / 4}
	for _, r := range values {
		for _, c := range values {
			for _, o := range values {
				in := metrics.Input{RevenueQ2: r, COGSQ2: c, OpexQ2: o}
				for _, f := range evaluate(in) {
					if f.Code == CodeNetProfitMismatch {
						t.Fatalf("net profit mismatch for revenue=%v cogs=%v opex=%v", r, c, o)
					}
				}
			}
		}
	}
}

func TestMessages(t *testing.T) {
	findings := evaluate(metrics.Seed())
	messages := Messages(findings)
	if len(messages) != 1 || messages[0] != findings[0].Message {
		t.Errorf("Messages() = %v", messages)
	}
	if HasErrors(findings) {
		t.Errorf("HasErrors() = true for the seed")
	}
}
