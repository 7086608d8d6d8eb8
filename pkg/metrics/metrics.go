package metrics

import (
	"fmt"

	"github.com/iwvelando/quarterly-report/pkg/mathutil"
)

// Share slice names.
const (
	SliceCosts      = "Costos"
	SliceOpex       = "Gastos Operativos"
	SliceNetProfit  = "Beneficio Neto"
	shareSliceCount = 3
)

// Metrics holds every figure derived from an Input. It is recomputed on
// demand and never stored on its own.
type Metrics struct {
	GrossProfitQ1 float64 `json:"beneficioBrutoQ1"`
	GrossProfitQ2 float64 `json:"beneficioBrutoQ2"`
	GrossMarginQ1 float64 `json:"margenBrutoQ1"`
	GrossMarginQ2 float64 `json:"margenBrutoQ2"`
	NetProfitQ1   float64 `json:"beneficioNetoQ1"`
	NetProfitQ2   float64 `json:"beneficioNetoQ2"`
	NetMarginQ1   float64 `json:"margenBeneficioQ1"`
	NetMarginQ2   float64 `json:"margenBeneficioQ2"`
	BreakdownSum  float64 `json:"desgloseQ2Sum"`

	RevenueChart []RevenuePoint `json:"ventasChart"`
	RevenueShare []ShareSlice   `json:"pieSobreIngresosQ2"`
}

// RevenuePoint is one quarter of the revenue/cost bar chart.
type RevenuePoint struct {
	Label   string  `json:"name"`
	Revenue float64 `json:"Ingresos"`
	COGS    float64 `json:"Costos"`
}

// ShareSlice is one slice of the Q2 revenue share chart. Values are clamped
// at zero, so the slices do not necessarily add up to Q2 revenue.
type ShareSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Compute derives all metrics from the input. It is a pure, total function:
// the same input always yields bit-identical output.
func Compute(in Input) Metrics {
	m := Metrics{
		GrossProfitQ1: in.RevenueQ1 - in.COGSQ1,
		GrossProfitQ2: in.RevenueQ2 - in.COGSQ2,
		NetProfitQ1:   in.RevenueQ1 - in.COGSQ1 - in.OpexQ1,
		NetProfitQ2:   in.RevenueQ2 - in.COGSQ2 - in.OpexQ2,
		BreakdownSum:  BreakdownSum(in),
	}
	m.GrossMarginQ1 = mathutil.Margin(m.GrossProfitQ1, in.RevenueQ1)
	m.GrossMarginQ2 = mathutil.Margin(m.GrossProfitQ2, in.RevenueQ2)
	m.NetMarginQ1 = mathutil.Margin(m.NetProfitQ1, in.RevenueQ1)
	m.NetMarginQ2 = mathutil.Margin(m.NetProfitQ2, in.RevenueQ2)

	m.RevenueChart = []RevenuePoint{
		{Label: QuarterLabel(1, in.Year), Revenue: in.RevenueQ1, COGS: in.COGSQ1},
		{Label: QuarterLabel(2, in.Year), Revenue: in.RevenueQ2, COGS: in.COGSQ2},
	}

	m.RevenueShare = make([]ShareSlice, 0, shareSliceCount)
	m.RevenueShare = append(m.RevenueShare,
		ShareSlice{Name: SliceCosts, Value: mathutil.NonNegative(in.COGSQ2)},
		ShareSlice{Name: SliceOpex, Value: mathutil.NonNegative(in.OpexQ2)},
		ShareSlice{Name: SliceNetProfit, Value: mathutil.NonNegative(m.NetProfitQ2)},
	)

	return m
}

// BreakdownSum adds the five Q2 expense categories in report order.
func BreakdownSum(in Input) float64 {
	sum := 0.0
	for _, v := range in.BreakdownValues() {
		sum += v
	}
	return sum
}

// QuarterLabel returns the chart label of a quarter, e.g. "Q2 2024".
func QuarterLabel(quarter, year int) string {
	return fmt.Sprintf("Q%d %d", quarter, year)
}
