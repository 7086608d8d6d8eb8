package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Narrative sections are written in markdown and converted to HTML.
const (
	executiveSummaryMD = `En el segundo trimestre de {{.Year}}, **{{.Company}}** demostró un sólido desempeño. Este informe resume métricas clave, categorías de gasto y el desempeño de ventas.`

	salesMD = `En el trimestre, los ingresos pasaron de **{{.RevenueQ1}}** a **{{.RevenueQ2}}**. Los costos {{.CostTrend}} y el beneficio neto {{.ProfitTrend}}.`

	conclusionsMD = `En el {{.PeriodLower}} de {{.Year}}, **{{.Company}}** {{.SalesVerb}}, {{.CostVerb}} y {{.ProfitVerb}} su beneficio neto. {{.Outlook}}`
)

type narrativeData struct {
	Company     string
	Year        int
	PeriodLower string
	RevenueQ1   string
	RevenueQ2   string
	CostTrend   string
	ProfitTrend string
	SalesVerb   string
	CostVerb    string
	ProfitVerb  string
	Outlook     string
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`,
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "|", `\|`,
)

type narrator struct {
	markdown goldmark.Markdown
	lower    cases.Caser
	sections map[string]*texttemplate.Template
}

func newNarrator() (*narrator, error) {
	n := &narrator{
		markdown: goldmark.New(),
		lower:    cases.Lower(language.Spanish),
		sections: make(map[string]*texttemplate.Template),
	}
	for name, src := range map[string]string{
		"summary":     executiveSummaryMD,
		"sales":       salesMD,
		"conclusions": conclusionsMD,
	} {
		tmpl, err := texttemplate.New(name).Parse(src)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s narrative: %w", name, err)
		}
		n.sections[name] = tmpl
	}
	return n, nil
}

func (n *narrator) data(v *view) narrativeData {
	r := v.report
	d := narrativeData{
		Company:     markdownEscaper.Replace(r.Input.Company),
		Year:        r.Input.Year,
		PeriodLower: markdownEscaper.Replace(n.lower.String(r.Input.Period)),
		RevenueQ1:   v.money.Format(r.Input.RevenueQ1),
		RevenueQ2:   v.money.Format(r.Input.RevenueQ2),
	}

	costsDown := r.Input.COGSQ2 <= r.Input.COGSQ1
	profitUp := r.Metrics.NetProfitQ2 >= r.Metrics.NetProfitQ1
	salesUp := r.Input.RevenueQ2 >= r.Input.RevenueQ1

	d.CostTrend = "aumentaron"
	d.CostVerb = "aumentó sus costos"
	if costsDown {
		d.CostTrend = "disminuyeron"
		d.CostVerb = "contuvo costos"
	}
	d.ProfitTrend = "disminuyó correspondientemente"
	d.ProfitVerb = "redujo"
	if profitUp {
		d.ProfitTrend = "se incrementó correspondientemente"
		d.ProfitVerb = "elevó"
	}
	d.SalesVerb = "vendió menos"
	if salesUp {
		d.SalesVerb = "vendió más"
	}
	d.Outlook = "El negocio enfrenta presiones que conviene abordar para recuperar rentabilidad."
	if salesUp && profitUp {
		d.Outlook = "El negocio muestra eficiencia creciente y espacio para consolidar el crecimiento."
	}
	return d
}

func (n *narrator) render(section string, data narrativeData) (template.HTML, error) {
	tmpl, ok := n.sections[section]
	if !ok {
		return "", fmt.Errorf("unknown narrative section %q", section)
	}

	var md bytes.Buffer
	if err := tmpl.Execute(&md, data); err != nil {
		return "", fmt.Errorf("failed to fill %s narrative: %w", section, err)
	}

	var html bytes.Buffer
	if err := n.markdown.Convert(md.Bytes(), &html); err != nil {
		return "", fmt.Errorf("failed to convert %s narrative: %w", section, err)
	}
	return template.HTML(html.String()), nil
}
