// Package report evaluates a financial input record into metrics and
// findings, holds the editable record as an immutable state with undo/redo,
// and builds the printable report document.
package report

import (
	"github.com/iwvelando/quarterly-report/pkg/format"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
	"github.com/iwvelando/quarterly-report/pkg/validation"
	"go.uber.org/zap"
)

// Report is one full recomputation: the input it was derived from, the
// metrics and the ordered findings.
type Report struct {
	Input    metrics.Input        `json:"input"`
	Metrics  metrics.Metrics      `json:"metrics"`
	Findings []validation.Finding `json:"findings"`
}

// KPI is one card of the quick view.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Evaluator recomputes reports. It holds no per-report state.
type Evaluator struct {
	logger *zap.Logger
	engine *metrics.Engine
	money  format.Money
}

// NewEvaluator creates an evaluator. A nil engine computes without
// memoization and a nil logger is replaced with a no-op logger.
func NewEvaluator(logger *zap.Logger, engine *metrics.Engine, money format.Money) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = metrics.NewEngine(logger, 0)
	}
	return &Evaluator{logger: logger, engine: engine, money: money}
}

// Evaluate normalizes the input and recomputes metrics and findings.
func (e *Evaluator) Evaluate(in metrics.Input) Report {
	in = in.Normalize()
	m := e.engine.Compute(in)
	findings := validation.Validate(in, m, e.money)

	e.logger.Debug("report evaluated",
		zap.String("op", "report.Evaluate"),
		zap.String("company", in.Company),
		zap.Float64("netProfitQ2", m.NetProfitQ2),
		zap.Int("findings", len(findings)),
	)

	return Report{Input: in, Metrics: m, Findings: findings}
}

// Summary returns the quick-view KPIs: Q2 gross profit, Q2 net profit and
// Q2 gross margin.
func Summary(r Report, money format.Money) []KPI {
	return []KPI{
		{Label: "Beneficio bruto Q2", Value: money.Format(r.Metrics.GrossProfitQ2)},
		{Label: "Beneficio neto Q2", Value: money.Format(r.Metrics.NetProfitQ2)},
		{Label: "Margen bruto Q2", Value: format.Percent(r.Metrics.GrossMarginQ2)},
	}
}

// BreakdownMismatch reports whether the report's breakdown warning applies.
func (r Report) BreakdownMismatch() bool {
	return validation.BreakdownMismatch(r.Metrics.BreakdownSum, r.Input.OpexQ2)
}
