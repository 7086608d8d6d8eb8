package export

import (
	"context"
	"fmt"
	"io"

	"github.com/iwvelando/quarterly-report/internal/report"
	"github.com/iwvelando/quarterly-report/pkg/constants"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	SheetSummary   = "Resumen"
	SheetBreakdown = "Desglose"
	SheetFindings  = "Hallazgos"
)

// Built-in excelize number formats.
const (
	numFmtThousands = 3  // #,##0
	numFmtPercent   = 10 // 0.00%
)

// XLSXExporter writes the figures of the report as a workbook.
type XLSXExporter struct{}

// Format implements Exporter.
func (XLSXExporter) Format() string { return constants.ExportFormatXLSX }

// ContentType implements Exporter.
func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

type workbookStyles struct {
	header  int
	amount  int
	percent int
}

// Export implements Exporter.
func (x XLSXExporter) Export(_ context.Context, doc *report.Document, w io.Writer) error {
	if err := checkDocument(x.Format(), doc); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return NewError(ErrCodeRenderFailed, x.Format(), "failed to create styles", err)
	}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return NewError(ErrCodeRenderFailed, x.Format(), "failed to name summary sheet", err)
	}
	for _, name := range []string{SheetBreakdown, SheetFindings} {
		if _, err := f.NewSheet(name); err != nil {
			return NewError(ErrCodeRenderFailed, x.Format(), "failed to add sheet "+name, err)
		}
	}

	for _, fill := range []func(*excelize.File, *report.Document, workbookStyles) error{
		writeSummarySheet, writeBreakdownSheet, writeFindingsSheet,
	} {
		if err := fill(f, doc, styles); err != nil {
			return NewError(ErrCodeRenderFailed, x.Format(), "failed to fill workbook", err)
		}
	}

	if err := f.Write(w); err != nil {
		return NewError(ErrCodeWriteFailed, x.Format(), "failed to write workbook", err)
	}
	return nil
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var s workbookStyles
	var err error
	if s.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, err
	}
	if s.amount, err = f.NewStyle(&excelize.Style{NumFmt: numFmtThousands}); err != nil {
		return s, err
	}
	if s.percent, err = f.NewStyle(&excelize.Style{NumFmt: numFmtPercent}); err != nil {
		return s, err
	}
	return s, nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRange(f *excelize.File, sheet string, fromCol, fromRow, toCol, toRow, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

func writeSummarySheet(f *excelize.File, doc *report.Document, s workbookStyles) error {
	in, m := doc.Report.Input, doc.Report.Metrics

	rows := [][]any{
		{"Empresa", in.Company},
		{"Grupo", in.Group},
		{"Periodo", fmt.Sprintf("%s %d", in.Period, in.Year)},
		{},
		{"Métrica", fmt.Sprintf("Q1 %d", in.Year), fmt.Sprintf("Q2 %d", in.Year), "Variación"},
	}
	const headerRow = 5

	amounts := []struct {
		label  string
		q1, q2 float64
	}{
		{"Ingresos Totales", in.RevenueQ1, in.RevenueQ2},
		{"Costos de Bienes Vendidos", in.COGSQ1, in.COGSQ2},
		{"Beneficio Bruto", m.GrossProfitQ1, m.GrossProfitQ2},
		{"Gastos Operativos", in.OpexQ1, in.OpexQ2},
		{"Beneficio Neto", m.NetProfitQ1, m.NetProfitQ2},
	}
	for _, a := range amounts {
		rows = append(rows, []any{a.label, a.q1, a.q2, a.q2 - a.q1})
	}
	margins := []struct {
		label  string
		q1, q2 float64
	}{
		{"Margen Bruto", m.GrossMarginQ1, m.GrossMarginQ2},
		{"Margen de Beneficio", m.NetMarginQ1, m.NetMarginQ2},
	}
	for _, p := range margins {
		q1, q2 := p.q1/constants.PercentageMultiplier, p.q2/constants.PercentageMultiplier
		rows = append(rows, []any{p.label, q1, q2, q2 - q1})
	}

	for i, row := range rows {
		if err := setRow(f, SheetSummary, i+1, row...); err != nil {
			return err
		}
	}

	firstAmount := headerRow + 1
	lastAmount := headerRow + len(amounts)
	if err := styleRange(f, SheetSummary, 1, headerRow, 4, headerRow, s.header); err != nil {
		return err
	}
	if err := styleRange(f, SheetSummary, 2, firstAmount, 4, lastAmount, s.amount); err != nil {
		return err
	}
	if err := styleRange(f, SheetSummary, 2, lastAmount+1, 4, lastAmount+len(margins), s.percent); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "A", 30)
}

func writeBreakdownSheet(f *excelize.File, doc *report.Document, s workbookStyles) error {
	in, m := doc.Report.Input, doc.Report.Metrics

	if err := setRow(f, SheetBreakdown, 1, "Categoría", fmt.Sprintf("Q2 %d", in.Year)); err != nil {
		return err
	}
	row := 2
	for _, c := range in.Breakdown() {
		if err := setRow(f, SheetBreakdown, row, c.Label, c.Value); err != nil {
			return err
		}
		row++
	}
	if err := setRow(f, SheetBreakdown, row, "Total desglose", m.BreakdownSum); err != nil {
		return err
	}
	if err := setRow(f, SheetBreakdown, row+1, "Gastos Operativos Q2", in.OpexQ2); err != nil {
		return err
	}

	if err := styleRange(f, SheetBreakdown, 1, 1, 2, 1, s.header); err != nil {
		return err
	}
	if err := styleRange(f, SheetBreakdown, 1, row, 1, row, s.header); err != nil {
		return err
	}
	if err := styleRange(f, SheetBreakdown, 2, 2, 2, row+1, s.amount); err != nil {
		return err
	}
	return f.SetColWidth(SheetBreakdown, "A", "A", 30)
}

func writeFindingsSheet(f *excelize.File, doc *report.Document, s workbookStyles) error {
	if err := setRow(f, SheetFindings, 1, "Tipo", "Código", "Mensaje"); err != nil {
		return err
	}
	for i, finding := range doc.Report.Findings {
		if err := setRow(f, SheetFindings, i+2, string(finding.Severity), finding.Code, finding.Message); err != nil {
			return err
		}
	}
	if err := styleRange(f, SheetFindings, 1, 1, 3, 1, s.header); err != nil {
		return err
	}
	return f.SetColWidth(SheetFindings, "C", "C", 100)
}
