// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/quarterly-report/pkg/validation"
)

// FindFinding finds a finding by code in the findings slice.
// Returns a pointer to the finding if found, nil otherwise.
func FindFinding(findings []validation.Finding, code string) *validation.Finding {
	for i := range findings {
		if findings[i].Code == code {
			return &findings[i]
		}
	}
	return nil
}

// Codes returns the codes of the findings, in order.
func Codes(findings []validation.Finding) []string {
	codes := make([]string, 0, len(findings))
	for _, f := range findings {
		codes = append(codes, f.Code)
	}
	return codes
}
