// Package metrics defines the financial input record of a quarterly report
// and derives its profit, margin and chart figures.
package metrics

import (
	"github.com/iwvelando/quarterly-report/pkg/mathutil"
)

// Input is the financial input record: company identification, Q1 and Q2
// figures and the itemized Q2 operating expense breakdown. It is a plain
// value; every change produces a new record.
type Input struct {
	Company string `json:"empresa" yaml:"empresa" mapstructure:"empresa"`
	Group   string `json:"grupo" yaml:"grupo" mapstructure:"grupo"`
	Period  string `json:"trimestre" yaml:"trimestre" mapstructure:"trimestre"`
	Year    int    `json:"anio" yaml:"anio" mapstructure:"anio"`

	RevenueQ1 float64 `json:"ingresosQ1" yaml:"ingresosQ1" mapstructure:"ingresosQ1"`
	COGSQ1    float64 `json:"costosQ1" yaml:"costosQ1" mapstructure:"costosQ1"`
	OpexQ1    float64 `json:"gastosOperativosQ1" yaml:"gastosOperativosQ1" mapstructure:"gastosOperativosQ1"`

	RevenueQ2 float64 `json:"ingresosQ2" yaml:"ingresosQ2" mapstructure:"ingresosQ2"`
	COGSQ2    float64 `json:"costosQ2" yaml:"costosQ2" mapstructure:"costosQ2"`
	OpexQ2    float64 `json:"gastosOperativosQ2" yaml:"gastosOperativosQ2" mapstructure:"gastosOperativosQ2"`

	BreakdownCost           float64 `json:"q2Costo" yaml:"q2Costo" mapstructure:"q2Costo"`
	BreakdownSalesMarketing float64 `json:"q2VentasMkt" yaml:"q2VentasMkt" mapstructure:"q2VentasMkt"`
	BreakdownGeneralAdmin   float64 `json:"q2GeneralAdmin" yaml:"q2GeneralAdmin" mapstructure:"q2GeneralAdmin"`
	BreakdownDepreciation   float64 `json:"q2Depreciacion" yaml:"q2Depreciacion" mapstructure:"q2Depreciacion"`
	BreakdownInterest       float64 `json:"q2Intereses" yaml:"q2Intereses" mapstructure:"q2Intereses"`
}

// BreakdownCategories is the number of itemized Q2 expense categories.
const BreakdownCategories = 5

// Category is one line of the Q2 expense breakdown.
type Category struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Seed returns the record the editor starts with.
func Seed() Input {
	return Input{
		Company:                 "LIBRERÍA ATLAS",
		Group:                   "GRUPO LE KART",
		Period:                  "2DO TRIMESTRE",
		Year:                    2024,
		RevenueQ1:               3500000,
		COGSQ1:                  1800000,
		OpexQ1:                  1000000,
		RevenueQ2:               4200000,
		COGSQ2:                  1600000,
		OpexQ2:                  500000,
		BreakdownCost:           350000,
		BreakdownSalesMarketing: 320000,
		BreakdownGeneralAdmin:   280000,
		BreakdownDepreciation:   100000,
		BreakdownInterest:       50000,
	}
}

// Breakdown returns the Q2 expense categories in report order.
func (in Input) Breakdown() []Category {
	return []Category{
		{Key: KeyBreakdownCost, Label: "Costo", Value: in.BreakdownCost},
		{Key: KeyBreakdownSalesMarketing, Label: "Ventas y Marketing", Value: in.BreakdownSalesMarketing},
		{Key: KeyBreakdownGeneralAdmin, Label: "General y Administración", Value: in.BreakdownGeneralAdmin},
		{Key: KeyBreakdownDepreciation, Label: "Depreciación", Value: in.BreakdownDepreciation},
		{Key: KeyBreakdownInterest, Label: "Gastos por Intereses", Value: in.BreakdownInterest},
	}
}

// BreakdownValues returns the Q2 expense categories in report order.
func (in Input) BreakdownValues() [BreakdownCategories]float64 {
	return [BreakdownCategories]float64{
		in.BreakdownCost,
		in.BreakdownSalesMarketing,
		in.BreakdownGeneralAdmin,
		in.BreakdownDepreciation,
		in.BreakdownInterest,
	}
}

// WithBreakdown returns a copy of the record with all five categories replaced.
func (in Input) WithBreakdown(values [BreakdownCategories]float64) Input {
	in.BreakdownCost = values[0]
	in.BreakdownSalesMarketing = values[1]
	in.BreakdownGeneralAdmin = values[2]
	in.BreakdownDepreciation = values[3]
	in.BreakdownInterest = values[4]
	return in
}

// Normalize returns a copy of the record with every non-finite amount set
// to zero and negative zero amounts set to positive zero.
func (in Input) Normalize() Input {
	for _, f := range amountFields {
		*f.ptr(&in) = mathutil.Finite(*f.ptr(&in))
	}
	return in
}
