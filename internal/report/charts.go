package report

import (
	"bytes"
	"fmt"
	"html/template"
	"math"

	"github.com/iwvelando/quarterly-report/pkg/format"
	"github.com/iwvelando/quarterly-report/pkg/metrics"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	shareColors = []drawing.Color{
		drawing.ColorFromHex("93c5fd"),
		drawing.ColorFromHex("60a5fa"),
		drawing.ColorFromHex("1d4ed8"),
	}
	revenueColor  = drawing.ColorFromHex("3b82f6")
	costColor     = drawing.ColorFromHex("ef4444")
	emptyColor    = drawing.ColorFromHex("e2e8f0")
	axisTextColor = drawing.ColorFromHex("475569")
)

const (
	pieWidth  = 520
	pieHeight = 320

	barChartWidth  = 600
	barChartHeight = 320
	barWidth       = 60
	barSpacing     = 40
)

// ShareChartSVG draws the Q2 revenue share as a donut chart. Slices without
// a positive value are left out; when none remain a single neutral ring is
// drawn.
func ShareChartSVG(slices []metrics.ShareSlice, money format.Money) (template.HTML, error) {
	values := make([]chart.Value, 0, len(slices))
	for i, s := range slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s: %s", s.Name, money.Format(s.Value)),
			Value: s.Value,
			Style: chart.Style{
				FillColor:   shareColors[i%len(shareColors)],
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
				FontColor:   axisTextColor,
			},
		})
	}
	if len(values) == 0 {
		values = append(values, chart.Value{
			Label: "Sin datos",
			Value: 1,
			Style: chart.Style{FillColor: emptyColor, StrokeColor: emptyColor, FontColor: axisTextColor},
		})
	}

	donut := chart.DonutChart{
		Width:  pieWidth,
		Height: pieHeight,
		Values: values,
	}

	var buf bytes.Buffer
	if err := donut.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("failed to render share chart: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RevenueChartSVG draws revenue and cost of goods per quarter as bars,
// revenue and cost side by side for each quarter.
func RevenueChartSVG(points []metrics.RevenuePoint, money format.Money) (template.HTML, error) {
	bars := make([]chart.Value, 0, 2*len(points))
	low, high := 0.0, 0.0
	for _, p := range points {
		bars = append(bars,
			chart.Value{
				Label: "Ingresos " + p.Label,
				Value: p.Revenue,
				Style: chart.Style{FillColor: revenueColor, StrokeColor: revenueColor},
			},
			chart.Value{
				Label: "Costos " + p.Label,
				Value: p.COGS,
				Style: chart.Style{FillColor: costColor, StrokeColor: costColor},
			},
		)
		low = math.Min(low, math.Min(p.Revenue, p.COGS))
		high = math.Max(high, math.Max(p.Revenue, p.COGS))
	}
	if len(bars) == 0 {
		return "", fmt.Errorf("failed to render sales chart: no quarters")
	}
	// A flat range has no domain to scale bars into.
	if high <= low {
		high = low + 1
	}

	graph := chart.BarChart{
		Width:        barChartWidth,
		Height:       barChartHeight,
		BarWidth:     barWidth,
		BarSpacing:   barSpacing,
		UseBaseValue: true,
		BaseValue:    0,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.Style{FontColor: axisTextColor, FontSize: 8},
		YAxis: chart.YAxis{
			Style: chart.Style{FontColor: axisTextColor, FontSize: 8},
			Range: &chart.ContinuousRange{Min: low, Max: high},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return money.Format(f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return "", fmt.Errorf("failed to render sales chart: %w", err)
	}
	return template.HTML(buf.String()), nil
}
