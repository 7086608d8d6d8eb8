package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/iwvelando/quarterly-report/pkg/format"
)

type indexItem struct {
	Num   string
	Label string
}

type comparisonRow struct {
	Label string
	Q1    string
	Q2    string
	Delta string
	Tone  string
}

type planItem struct {
	Title     string
	Objective string
	Actions   []string
}

type focusCard struct {
	Title    string
	Subtitle string
}

// view is the data handed to the report template. Every figure is
// preformatted so the template does no arithmetic.
type view struct {
	report Report
	money  format.Money

	Title   string
	Group   string
	Company string
	Period  string
	Year    int

	Index []indexItem

	Summary     template.HTML
	Stats       []KPI
	Comparison  []comparisonRow
	Breakdown   []KPI
	Total       string
	Mismatch    bool
	ShareChart  template.HTML
	SalesChart  template.HTML
	Sales       template.HTML
	Insights    []string
	Plan        []planItem
	Focus       []focusCard
	Conclusions template.HTML
}

var reportIndex = []indexItem{
	{"03", "Resumen Ejecutivo"},
	{"04", "Aspectos Financieros"},
	{"05", "Ingresos y Rentabilidad"},
	{"06", "Desglose de Gastos"},
	{"07", "Gráfico"},
	{"08", "Ventas"},
	{"09", "Datos Inteligentes"},
	{"10", "Plan General"},
	{"11", "Ideas de Enfoque"},
	{"12", "Conclusiones"},
}

var generalPlan = []planItem{
	{
		Title:     "1. Consolidación de Clientes Nuevos",
		Objective: "Fidelizar a los nuevos clientes que impulsaron el aumento de ingresos.",
		Actions:   []string{"Implementar seguimiento postventa", "Programa de fidelización"},
	},
	{
		Title:     "2. Optimización de Costos Administrativos",
		Objective: "Controlar el aumento observado en gastos generales.",
		Actions:   []string{"Revisar contratos de proveedores", "Digitalizar procesos administrativos"},
	},
	{
		Title:     "3. Refuerzo de Marketing Estratégico",
		Objective: "Mantener impulso de ventas reduciendo gasto publicitario.",
		Actions:   []string{"Estrategias digitales de bajo costo", "Campañas en productos de mayor margen"},
	},
}

var focusIdeas = []focusCard{
	{"Reducción de Costos Operativos", "Optimizar gastos recurrentes y eficiencia"},
	{"Aumentar Rentabilidad", "Enfocar mix de productos y pricing"},
}

// Variation tones. Cost rows read a decrease as favorable.
const (
	toneGood = "good"
	toneBad  = "bad"
)

func (b *Builder) view(r Report) (*view, error) {
	in, m, money := r.Input, r.Metrics, b.money

	v := &view{
		report:  r,
		money:   money,
		Title:   Title(r),
		Group:   in.Group,
		Company: in.Company,
		Period:  in.Period,
		Year:    in.Year,
		Index:   reportIndex,
		Plan:    generalPlan,
		Focus:   focusIdeas,
	}

	v.Stats = []KPI{
		{Label: "Ingresos Alcanzados", Value: money.Format(in.RevenueQ2)},
		{Label: "Aumento de Rentabilidad (Bruta)", Value: money.Format(m.GrossProfitQ2)},
		{Label: "Beneficio Neto", Value: money.Format(m.NetProfitQ2)},
		{Label: "Margen Bruto", Value: format.Percent(m.GrossMarginQ2)},
	}

	amount := func(label string, q1, q2 float64, cost bool) comparisonRow {
		row := comparisonRow{Label: label, Q1: money.Format(q1), Q2: money.Format(q2), Delta: money.Format(q2 - q1), Tone: toneGood}
		if cost && !strings.HasPrefix(row.Delta, "-") {
			row.Tone = toneBad
		}
		return row
	}
	percent := func(label string, q1, q2 float64) comparisonRow {
		return comparisonRow{Label: label, Q1: format.Percent(q1), Q2: format.Percent(q2), Delta: format.PercentDelta(q1, q2), Tone: toneGood}
	}
	v.Comparison = []comparisonRow{
		amount("Ingresos Totales", in.RevenueQ1, in.RevenueQ2, false),
		amount("Costos de Bienes Vendidos", in.COGSQ1, in.COGSQ2, true),
		amount("Beneficio Bruto", m.GrossProfitQ1, m.GrossProfitQ2, false),
		percent("Margen Bruto", m.GrossMarginQ1, m.GrossMarginQ2),
		amount("Gastos Operativos", in.OpexQ1, in.OpexQ2, true),
		amount("Beneficio Neto", m.NetProfitQ1, m.NetProfitQ2, false),
		percent("Margen de Beneficio", m.NetMarginQ1, m.NetMarginQ2),
	}

	for _, c := range in.Breakdown() {
		v.Breakdown = append(v.Breakdown, KPI{Label: c.Label, Value: money.Format(c.Value)})
	}
	v.Total = money.Format(m.BreakdownSum)
	v.Mismatch = r.BreakdownMismatch()

	var err error
	if v.ShareChart, err = ShareChartSVG(m.RevenueShare, money); err != nil {
		return nil, err
	}
	if v.SalesChart, err = RevenueChartSVG(m.RevenueChart, money); err != nil {
		return nil, err
	}

	v.Insights = []string{
		fmt.Sprintf("✅ Aumento de Ingresos Totales: +%s vs Q1", money.Format(in.RevenueQ2-in.RevenueQ1)),
		fmt.Sprintf("📉 Variación de Gastos Operativos: %s → %s", money.Format(in.OpexQ1), money.Format(in.OpexQ2)),
		fmt.Sprintf("💰 Beneficio Neto: %s → %s", money.Format(m.NetProfitQ1), money.Format(m.NetProfitQ2)),
		fmt.Sprintf("📊 Margen Bruto: %s → %s", format.Percent(m.GrossMarginQ1), format.Percent(m.GrossMarginQ2)),
	}

	data := b.narrator.data(v)
	if v.Summary, err = b.narrator.render("summary", data); err != nil {
		return nil, err
	}
	if v.Sales, err = b.narrator.render("sales", data); err != nil {
		return nil, err
	}
	if v.Conclusions, err = b.narrator.render("conclusions", data); err != nil {
		return nil, err
	}
	return v, nil
}
