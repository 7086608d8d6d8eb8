package metrics

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/iwvelando/quarterly-report/pkg/mathutil"
)

// ErrUnknownField is returned when a field key does not name an input field.
var ErrUnknownField = errors.New("unknown input field")

// Field keys, shared by YAML, JSON, the HTTP editor and spreadsheet import.
const (
	KeyCompany                 = "empresa"
	KeyGroup                   = "grupo"
	KeyPeriod                  = "trimestre"
	KeyYear                    = "anio"
	KeyRevenueQ1               = "ingresosQ1"
	KeyCOGSQ1                  = "costosQ1"
	KeyOpexQ1                  = "gastosOperativosQ1"
	KeyRevenueQ2               = "ingresosQ2"
	KeyCOGSQ2                  = "costosQ2"
	KeyOpexQ2                  = "gastosOperativosQ2"
	KeyBreakdownCost           = "q2Costo"
	KeyBreakdownSalesMarketing = "q2VentasMkt"
	KeyBreakdownGeneralAdmin   = "q2GeneralAdmin"
	KeyBreakdownDepreciation   = "q2Depreciacion"
	KeyBreakdownInterest       = "q2Intereses"
)

type amountField struct {
	key   string
	label string
	ptr   func(*Input) *float64
}

var amountFields = []amountField{
	{KeyRevenueQ1, "Ingresos Q1", func(in *Input) *float64 { return &in.RevenueQ1 }},
	{KeyCOGSQ1, "Costos Q1", func(in *Input) *float64 { return &in.COGSQ1 }},
	{KeyOpexQ1, "Gastos Operativos Q1", func(in *Input) *float64 { return &in.OpexQ1 }},
	{KeyRevenueQ2, "Ingresos Q2", func(in *Input) *float64 { return &in.RevenueQ2 }},
	{KeyCOGSQ2, "Costos Q2", func(in *Input) *float64 { return &in.COGSQ2 }},
	{KeyOpexQ2, "Gastos Operativos Q2", func(in *Input) *float64 { return &in.OpexQ2 }},
	{KeyBreakdownCost, "Costo", func(in *Input) *float64 { return &in.BreakdownCost }},
	{KeyBreakdownSalesMarketing, "Ventas y Marketing", func(in *Input) *float64 { return &in.BreakdownSalesMarketing }},
	{KeyBreakdownGeneralAdmin, "General y Administración", func(in *Input) *float64 { return &in.BreakdownGeneralAdmin }},
	{KeyBreakdownDepreciation, "Depreciación", func(in *Input) *float64 { return &in.BreakdownDepreciation }},
	{KeyBreakdownInterest, "Intereses", func(in *Input) *float64 { return &in.BreakdownInterest }},
}

var textFields = map[string]func(*Input) *string{
	KeyCompany: func(in *Input) *string { return &in.Company },
	KeyGroup:   func(in *Input) *string { return &in.Group },
	KeyPeriod:  func(in *Input) *string { return &in.Period },
}

// Keys returns every field key in form order.
func Keys() []string {
	keys := []string{KeyCompany, KeyGroup, KeyPeriod, KeyYear}
	for _, f := range amountFields {
		keys = append(keys, f.key)
	}
	return keys
}

// Label returns the form label for a field key.
func Label(key string) string {
	switch key {
	case KeyCompany:
		return "Empresa"
	case KeyGroup:
		return "Grupo"
	case KeyPeriod:
		return "Trimestre"
	case KeyYear:
		return "Año"
	}
	for _, f := range amountFields {
		if f.key == key {
			return f.label
		}
	}
	return key
}

// ParseAmount coerces form text to a number. Empty, malformed and non-finite
// input all become zero; it never fails. Unsigned integer literals with a
// 0x, 0o or 0b prefix are read in that base, the way the editor's number
// inputs read them; signed or fractional prefixed literals are malformed.
func ParseAmount(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	if hasBasePrefix(trimmed) {
		return parsePrefixed(trimmed)
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0
	}
	return mathutil.Finite(value)
}

func hasBasePrefix(s string) bool {
	if len(s) < 2 || s[0] != '0' {
		return false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
		return true
	}
	return false
}

func parsePrefixed(s string) float64 {
	if strings.Contains(s, "_") {
		return 0
	}
	n, ok := new(big.Int).SetString(strings.ToLower(s), 0)
	if !ok {
		return 0
	}
	value, _ := new(big.Float).SetInt(n).Float64()
	return mathutil.Finite(value)
}

// WithField returns a copy of the record with one field set from form text.
// Numeric fields are coerced with ParseAmount; the year is truncated to an
// integer.
func (in Input) WithField(key, raw string) (Input, error) {
	if ptr, ok := textFields[key]; ok {
		*ptr(&in) = raw
		return in, nil
	}
	if key == KeyYear {
		in.Year = int(math.Trunc(ParseAmount(raw)))
		return in, nil
	}
	for _, f := range amountFields {
		if f.key == key {
			*f.ptr(&in) = ParseAmount(raw)
			return in, nil
		}
	}
	return in, fmt.Errorf("%w: %q", ErrUnknownField, key)
}

// WithAmount returns a copy of the record with one numeric field set.
// Non-finite values are stored as zero.
func (in Input) WithAmount(key string, value float64) (Input, error) {
	if key == KeyYear {
		in.Year = int(math.Trunc(mathutil.Finite(value)))
		return in, nil
	}
	for _, f := range amountFields {
		if f.key == key {
			*f.ptr(&in) = mathutil.Finite(value)
			return in, nil
		}
	}
	return in, fmt.Errorf("%w: %q", ErrUnknownField, key)
}

// Value returns the form text of a field.
func (in Input) Value(key string) (string, error) {
	if ptr, ok := textFields[key]; ok {
		return *ptr(&in), nil
	}
	if key == KeyYear {
		return strconv.Itoa(in.Year), nil
	}
	for _, f := range amountFields {
		if f.key == key {
			return strconv.FormatFloat(*f.ptr(&in), 'f', -1, 64), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, key)
}
