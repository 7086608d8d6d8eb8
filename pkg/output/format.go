// Package output provides utilities for formatting and displaying report results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/quarterly-report/internal/report"
	"github.com/iwvelando/quarterly-report/pkg/format"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
	"github.com/iwvelando/quarterly-report/pkg/validation"
)

// Payload is the machine-readable form of an evaluated report, shared by the
// JSON output and the HTTP API.
type Payload struct {
	Input     metrics.Input        `json:"input"`
	Metrics   metrics.Metrics      `json:"metrics"`
	Findings  []validation.Finding `json:"findings"`
	Summary   []report.KPI         `json:"summary"`
	Currency  string               `json:"currency"`
	Formatted map[string]string    `json:"formatted"`
}

// NewPayload bundles a report with its display strings.
func NewPayload(r report.Report, money format.Money) Payload {
	findings := r.Findings
	if findings == nil {
		findings = []validation.Finding{}
	}
	m := r.Metrics
	return Payload{
		Input:    r.Input,
		Metrics:  m,
		Findings: findings,
		Summary:  report.Summary(r, money),
		Currency: money.CurrencyCode(),
		Formatted: map[string]string{
			"beneficioBrutoQ1":  money.Format(m.GrossProfitQ1),
			"beneficioBrutoQ2":  money.Format(m.GrossProfitQ2),
			"margenBrutoQ1":     format.Percent(m.GrossMarginQ1),
			"margenBrutoQ2":     format.Percent(m.GrossMarginQ2),
			"beneficioNetoQ1":   money.Format(m.NetProfitQ1),
			"beneficioNetoQ2":   money.Format(m.NetProfitQ2),
			"margenBeneficioQ1": format.Percent(m.NetMarginQ1),
			"margenBeneficioQ2": format.Percent(m.NetMarginQ2),
			"desgloseQ2Sum":     money.Format(m.BreakdownSum),
		},
	}
}

type line struct {
	label  string
	q1, q2 float64
	amount bool
}

func lines(r report.Report) []line {
	in, m := r.Input, r.Metrics
	return []line{
		{"Ingresos Totales", in.RevenueQ1, in.RevenueQ2, true},
		{"Costos de Bienes Vendidos", in.COGSQ1, in.COGSQ2, true},
		{"Beneficio Bruto", m.GrossProfitQ1, m.GrossProfitQ2, true},
		{"Margen Bruto", m.GrossMarginQ1, m.GrossMarginQ2, false},
		{"Gastos Operativos", in.OpexQ1, in.OpexQ2, true},
		{"Beneficio Neto", m.NetProfitQ1, m.NetProfitQ2, true},
		{"Margen de Beneficio", m.NetMarginQ1, m.NetMarginQ2, false},
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, r report.Report, money format.Money) {
	in := r.Input

	_, _ = fmt.Fprintf(w, "--- %s | %s | %s %d ---\n", in.Company, in.Group, in.Period, in.Year)
	_, _ = fmt.Fprintf(w, "%-26s | %16s | %16s | %16s\n", "Métrica", "Q1", "Q2", "Variación")
	_, _ = fmt.Fprintf(w, "%-26s | %16s | %16s | %16s\n", "_______", "__", "__", "_________")
	for _, l := range lines(r) {
		if l.amount {
			_, _ = fmt.Fprintf(w, "%-26s | %16s | %16s | %16s\n", l.label, money.Format(l.q1), money.Format(l.q2), money.Format(l.q2-l.q1))
		} else {
			_, _ = fmt.Fprintf(w, "%-26s | %16s | %16s | %16s\n", l.label, format.Percent(l.q1), format.Percent(l.q2), format.PercentDelta(l.q1, l.q2))
		}
	}

	_, _ = fmt.Fprintf(w, "\nDesglose de gastos Q2\n")
	for _, c := range in.Breakdown() {
		_, _ = fmt.Fprintf(w, "  %-26s %16s\n", c.Label, money.Format(c.Value))
	}
	_, _ = fmt.Fprintf(w, "  %-26s %16s\n", "Total desglose", money.Format(r.Metrics.BreakdownSum))

	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "Hallazgos: %d\n", len(r.Findings))
	for _, f := range r.Findings {
		_, _ = fmt.Fprintf(w, "  [%s] %s\n", f.Severity, f.Message)
		for _, a := range f.Actions {
			_, _ = fmt.Fprintf(w, "      --action %s  (%s)\n", a, a.Label())
		}
	}
}

// CsvFormat outputs in comma-separated value format: one row per metric
// followed by one row per finding. Amounts are grouped like the report
// without a currency symbol; margins keep two decimals.
func CsvFormat(w io.Writer, r report.Report, money format.Money) error {
	cw := csv.NewWriter(w)
	margin := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

	records := [][]string{{"metric", "q1", "q2", "variation"}}
	for _, l := range lines(r) {
		value := money.Number
		if !l.amount {
			value = margin
		}
		records = append(records, []string{l.label, value(l.q1), value(l.q2), value(l.q2 - l.q1)})
	}
	for _, c := range r.Input.Breakdown() {
		records = append(records, []string{c.Label, "", money.Number(c.Value), ""})
	}
	records = append(records, []string{"Total desglose", "", money.Number(r.Metrics.BreakdownSum), ""})

	records = append(records, []string{}, []string{"type", "code", "message"})
	for _, f := range r.Findings {
		records = append(records, []string{string(f.Severity), f.Code, f.Message})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// JSONFormat outputs the report payload as indented JSON.
func JSONFormat(w io.Writer, r report.Report, money format.Money) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewPayload(r, money)); err != nil {
		return fmt.Errorf("failed to write json: %w", err)
	}
	return nil
}
