// Package validation checks the internal consistency of a report's inputs
// and derived metrics.
package validation

import (
	"fmt"

	"github.com/iwvelando/quarterly-report/pkg/constants"
	"github.com/iwvelando/quarterly-report/pkg/correction"
	"github.com/iwvelando/quarterly-report/pkg/format"
	"github.com/iwvelando/quarterly-report/pkg/mathutil"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
)

// Severity grades a finding.
type Severity string

const (
	// SeverityError marks a computed-value inconsistency.
	SeverityError Severity = "error"
	// SeverityWarning marks a plausible but suspicious input combination.
	SeverityWarning Severity = "warning"
)

// Codes of the checks, in evaluation order.
const (
	CodeNetProfitMismatch = "net-profit-mismatch"
	CodeBreakdownMismatch = "breakdown-mismatch"
	CodeNetMarginRange    = "net-margin-range"
)

// Finding is one validation result. Findings carry no identity beyond their
// content and are recomputed on every evaluation.
type Finding struct {
	Severity Severity            `json:"type"`
	Code     string              `json:"code"`
	Message  string              `json:"msg"`
	Actions  []correction.Action `json:"actions,omitempty"`
}

// Validate runs every check in a fixed order and returns all findings.
// Checks never short-circuit one another.
func Validate(in metrics.Input, m metrics.Metrics, money format.Money) []Finding {
	findings := make([]Finding, 0, 3)

	if f, ok := checkNetProfit(in, m); ok {
		findings = append(findings, f)
	}
	if f, ok := checkBreakdown(in, m, money); ok {
		findings = append(findings, f)
	}
	if f, ok := checkNetMargin(m); ok {
		findings = append(findings, f)
	}

	return findings
}

func checkNetProfit(in metrics.Input, m metrics.Metrics) (Finding, bool) {
	expected := in.RevenueQ2 - in.COGSQ2 - in.OpexQ2
	if m.NetProfitQ2 == expected {
		return Finding{}, false
	}
	return Finding{
		Severity: SeverityError,
		Code:     CodeNetProfitMismatch,
		Message:  "Cálculo de beneficio neto Q2 no coincide con los insumos.",
	}, true
}

func checkBreakdown(in metrics.Input, m metrics.Metrics, money format.Money) (Finding, bool) {
	if !BreakdownMismatch(m.BreakdownSum, in.OpexQ2) {
		return Finding{}, false
	}
	return Finding{
		Severity: SeverityWarning,
		Code:     CodeBreakdownMismatch,
		Message: fmt.Sprintf("El desglose de gastos Q2 (%s) no coincide con Gastos Operativos Q2 (%s). Puedes escalar el desglose o ajustar Gastos Operativos.",
			money.Format(m.BreakdownSum), money.Format(in.OpexQ2)),
		Actions: correction.Actions(),
	}, true
}

func checkNetMargin(m metrics.Metrics) (Finding, bool) {
	if m.NetMarginQ2 <= constants.NetMarginLimit && m.NetMarginQ2 >= -constants.NetMarginLimit {
		return Finding{}, false
	}
	return Finding{
		Severity: SeverityWarning,
		Code:     CodeNetMarginRange,
		Message:  fmt.Sprintf("Margen de beneficio Q2 fuera de rango (%s). Revisa insumos.", format.Percent(m.NetMarginQ2)),
	}, true
}

// BreakdownMismatch reports whether the breakdown sum and Q2 operating
// expenses differ by more than the tolerance.
func BreakdownMismatch(breakdownSum, opexQ2 float64) bool {
	return mathutil.ExceedsTolerance(breakdownSum, opexQ2, constants.BreakdownTolerance)
}

// HasErrors reports whether any finding is error-severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Messages flattens findings to their messages, in order.
func Messages(findings []Finding) []string {
	messages := make([]string, 0, len(findings))
	for _, f := range findings {
		messages = append(messages, f.Message)
	}
	return messages
}
