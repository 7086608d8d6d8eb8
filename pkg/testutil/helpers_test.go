package testutil

import (
	"testing"

	"github.com/iwvelando/quarterly-report/pkg/validation"
)

func TestFindFinding(t *testing.T) {
	findings := []validation.Finding{
		{Severity: validation.SeverityError, Code: validation.CodeNetProfitMismatch, Message: "a"},
		{Severity: validation.SeverityWarning, Code: validation.CodeBreakdownMismatch, Message: "b"},
	}

	tests := []struct {
		name          string
		code          string
		expectFound   bool
		expectMessage string
	}{
		{
			name:          "Find first finding",
			code:          validation.CodeNetProfitMismatch,
			expectFound:   true,
			expectMessage: "a",
		},
		{
			name:          "Find second finding",
			code:          validation.CodeBreakdownMismatch,
			expectFound:   true,
			expectMessage: "b",
		},
		{
			name:        "Search for absent finding",
			code:        validation.CodeNetMarginRange,
			expectFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FindFinding(findings, tt.code)

			if tt.expectFound {
				if result == nil {
					t.Errorf("FindFinding() = nil, expected to find %s", tt.code)
					return
				}
				if result.Message != tt.expectMessage {
					t.Errorf("FindFinding() message = %q, expected %q", result.Message, tt.expectMessage)
				}
			} else if result != nil {
				t.Errorf("FindFinding() = %v, expected nil", result)
			}
		})
	}
}

func TestFindFindingReturnsPointerIntoSlice(t *testing.T) {
	findings := []validation.Finding{{Code: validation.CodeNetMarginRange}}

	result := FindFinding(findings, validation.CodeNetMarginRange)
	if result != &findings[0] {
		t.Errorf("FindFinding() returned a copy, expected a pointer into the slice")
	}
}

func TestFindFindingEmpty(t *testing.T) {
	if result := FindFinding(nil, validation.CodeNetMarginRange); result != nil {
		t.Errorf("FindFinding(nil) = %v, expected nil", result)
	}
}

func TestCodes(t *testing.T) {
	findings := []validation.Finding{
		{Code: validation.CodeBreakdownMismatch},
		{Code: validation.CodeNetMarginRange},
	}
	got := Codes(findings)
	if len(got) != 2 || got[0] != validation.CodeBreakdownMismatch || got[1] != validation.CodeNetMarginRange {
		t.Errorf("Codes() = %v, expected [%s %s]", got, validation.CodeBreakdownMismatch, validation.CodeNetMarginRange)
	}
}
