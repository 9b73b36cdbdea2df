package render

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	colorSusceptible = drawing.Color{R: 255, G: 165, B: 0, A: 255}
	colorExposed     = drawing.Color{R: 148, G: 103, B: 189, A: 255}
)

// StrokeColor is the line color used for a compartment label.
func StrokeColor(label string) drawing.Color {
	switch label {
	case "S":
		return colorSusceptible
	case "E":
		return colorExposed
	case "I":
		return chart.ColorRed
	case "R":
		return chart.ColorGreen
	default:
		return chart.ColorBlue
	}
}

func ticks(lo, hi, step float64) []chart.Tick {
	values := TickValues(lo, hi, step)
	out := make([]chart.Tick, len(values))
	for i, v := range values {
		out[i] = chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)}
	}
	return out
}

// PNG renders the figure with go-chart and writes the encoded image to w.
func PNG(w io.Writer, fig Figure, series []Series) error {
	if len(series) == 0 {
		return fmt.Errorf("render: nothing to plot")
	}

	cs := make([]chart.Series, 0, len(series))
	for _, s := range series {
		if len(s.X) < 2 {
			return fmt.Errorf("render: series %q needs at least 2 points, has %d", s.Label, len(s.X))
		}
		cs = append(cs, chart.ContinuousSeries{
			Name:    s.Label,
			XValues: s.X,
			YValues: s.Y,
			Style:   chart.Style{StrokeColor: StrokeColor(s.Label), StrokeWidth: 3.0},
		})
	}

	graph := chart.Chart{
		Title:  fig.Title,
		Width:  fig.Width,
		Height: fig.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  fig.XLabel,
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: fig.XMin, Max: fig.XMax},
			Ticks: ticks(fig.XMin, fig.XMax, fig.TickX),
		},
		YAxis: chart.YAxis{
			Name:  fig.YLabel,
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: fig.YMin, Max: fig.YMax},
			Ticks: ticks(fig.YMin, fig.YMax, fig.TickY),
		},
		Series: cs,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}
