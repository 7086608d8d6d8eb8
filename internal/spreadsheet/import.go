// Package spreadsheet reads report figures from a two-column workbook
// (field, value) into an input record.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/iwvelando/quarterly-report/pkg/metrics"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// headerAliases maps normalized first-column labels to field keys. Keys
// themselves and the form labels are recognised as well.
var headerAliases = map[string]string{
	"empresa":                    metrics.KeyCompany,
	"company":                    metrics.KeyCompany,
	"grupo":                      metrics.KeyGroup,
	"group":                      metrics.KeyGroup,
	"trimestre":                  metrics.KeyPeriod,
	"periodo":                    metrics.KeyPeriod,
	"period":                     metrics.KeyPeriod,
	"quarter":                    metrics.KeyPeriod,
	"anio":                       metrics.KeyYear,
	"ano":                        metrics.KeyYear,
	"year":                       metrics.KeyYear,
	"ingresos q1":                metrics.KeyRevenueQ1,
	"revenue q1":                 metrics.KeyRevenueQ1,
	"costos q1":                  metrics.KeyCOGSQ1,
	"cogs q1":                    metrics.KeyCOGSQ1,
	"cost of goods sold q1":      metrics.KeyCOGSQ1,
	"gastos operativos q1":       metrics.KeyOpexQ1,
	"opex q1":                    metrics.KeyOpexQ1,
	"operating expenses q1":      metrics.KeyOpexQ1,
	"ingresos q2":                metrics.KeyRevenueQ2,
	"revenue q2":                 metrics.KeyRevenueQ2,
	"costos q2":                  metrics.KeyCOGSQ2,
	"cogs q2":                    metrics.KeyCOGSQ2,
	"cost of goods sold q2":      metrics.KeyCOGSQ2,
	"gastos operativos q2":       metrics.KeyOpexQ2,
	"opex q2":                    metrics.KeyOpexQ2,
	"operating expenses q2":      metrics.KeyOpexQ2,
	"costo":                      metrics.KeyBreakdownCost,
	"cost":                       metrics.KeyBreakdownCost,
	"ventas y marketing":         metrics.KeyBreakdownSalesMarketing,
	"sales and marketing":        metrics.KeyBreakdownSalesMarketing,
	"general y administracion":   metrics.KeyBreakdownGeneralAdmin,
	"general and administrative": metrics.KeyBreakdownGeneralAdmin,
	"depreciacion":               metrics.KeyBreakdownDepreciation,
	"depreciation":               metrics.KeyBreakdownDepreciation,
	"intereses":                  metrics.KeyBreakdownInterest,
	"gastos por intereses":       metrics.KeyBreakdownInterest,
	"interest":                   metrics.KeyBreakdownInterest,
	"interest expense":           metrics.KeyBreakdownInterest,
}

// headerRows are first rows naming the two columns rather than a field.
var headerRows = map[string]struct{}{
	"campo": {}, "field": {}, "concepto": {}, "item": {},
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func init() {
	for _, key := range metrics.Keys() {
		headerAliases[normalizeHeader(key)] = key
		if label := normalizeHeader(metrics.Label(key)); label != "" {
			if _, taken := headerAliases[label]; !taken {
				headerAliases[label] = key
			}
		}
	}
}

// Import reads the first sheet of an XLSX workbook. Recognised rows are
// applied on top of the seed record; every unrecognised row yields a
// warning. Malformed amounts are read as zero.
func Import(r io.Reader) (metrics.Input, []string, error) {
	in := metrics.Seed()

	file, err := excelize.OpenReader(r)
	if err != nil {
		return in, nil, fmt.Errorf("open excel file: %w", err)
	}
	defer func() { _ = file.Close() }()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return in, nil, fmt.Errorf("excel file has no sheets")
	}

	rows, err := file.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return in, nil, fmt.Errorf("read sheet rows: %w", err)
	}
	if len(rows) == 0 {
		return in, nil, fmt.Errorf("excel file is empty")
	}

	var warnings []string
	applied := 0
	for index, cells := range rows {
		label := normalizeHeader(readCell(cells, 0))
		if label == "" {
			continue
		}
		if _, isHeader := headerRows[label]; isHeader && index == 0 {
			continue
		}

		key, ok := headerAliases[label]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("fila %d: campo no reconocido %q", index+1, strings.TrimSpace(readCell(cells, 0))))
			continue
		}

		raw := strings.TrimSpace(readCell(cells, 1))
		if _, isText := textKeys[key]; !isText {
			if _, err := strconv.ParseFloat(raw, 64); err != nil || !numericCell(file, sheets[0], index+1) {
				raw = normalizeNumericValue(raw)
			}
		}
		if in, err = in.WithField(key, raw); err != nil {
			return in, warnings, fmt.Errorf("row %d: %w", index+1, err)
		}
		applied++
	}

	if applied == 0 {
		return in, warnings, fmt.Errorf("excel file has no recognised rows")
	}
	return in.Normalize(), warnings, nil
}

var textKeys = map[string]struct{}{
	metrics.KeyCompany: {},
	metrics.KeyGroup:   {},
	metrics.KeyPeriod:  {},
}

func normalizeHeader(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.TrimSuffix(value, ":")
	if stripped, _, err := transform.String(accentStripper, value); err == nil {
		value = stripped
	}
	value = strings.ToLower(value)
	value = strings.ReplaceAll(value, "_", " ")
	return strings.Join(strings.Fields(value), " ")
}

// normalizeNumericValue drops currency symbols and spaces and rewrites the
// number with a dot as decimal mark. When both separators appear the last
// one is the decimal mark. A lone separator is a group separator when it is
// repeated or followed by exactly three digits ("$500.000", "300,000"),
// unless the integer part is zero ("0.125").
func normalizeNumericValue(raw string) string {
	value := strings.TrimSpace(raw)
	value = strings.TrimPrefix(value, "\ufeff")
	value = strings.Map(func(r rune) rune {
		switch {
		case r == '$' || r == '€' || r == '£':
			return -1
		case unicode.IsSpace(r):
			return -1
		}
		return r
	}, value)

	lastDot, lastComma := strings.LastIndex(value, "."), strings.LastIndex(value, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal, group := ".", ","
		if lastComma > lastDot {
			decimal, group = ",", "."
		}
		value = strings.ReplaceAll(value, group, "")
		return strings.Replace(value, decimal, ".", 1)
	case lastDot >= 0:
		return normalizeSeparator(value, ".")
	case lastComma >= 0:
		return normalizeSeparator(value, ",")
	}
	return value
}

func normalizeSeparator(value, sep string) string {
	idx := strings.Index(value, sep)
	integer := strings.TrimLeft(value[:idx], "+-")
	grouped := strings.Count(value, sep) > 1 ||
		(len(value)-idx-1 == 3 && integer != "0" && integer != "")
	if grouped {
		return strings.ReplaceAll(value, sep, "")
	}
	return strings.Replace(value, sep, ".", 1)
}

// numericCell reports whether a value cell holds a number typed into the
// workbook rather than text, so its raw value can be used unchanged.
func numericCell(file *excelize.File, sheet string, row int) bool {
	cell, err := excelize.CoordinatesToCellName(2, row)
	if err != nil {
		return false
	}
	cellType, err := file.GetCellType(sheet, cell)
	if err != nil {
		return false
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return false
	}
	return true
}

func readCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
