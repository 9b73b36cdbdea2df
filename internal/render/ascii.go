package render

import (
	"github.com/guptarohit/asciigraph"
)

func terminalColor(label string) asciigraph.AnsiColor {
	switch label {
	case "S":
		return asciigraph.Orange
	case "E":
		return asciigraph.Purple
	case "I":
		return asciigraph.Red
	case "R":
		return asciigraph.Green
	default:
		return asciigraph.Default
	}
}

// ASCII plots every series on one terminal chart bounded to the figure's
// y range. width and height are in characters.
func ASCII(fig Figure, series []Series, width, height int) string {
	if len(series) == 0 {
		return ""
	}

	data := make([][]float64, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	legends := make([]string, 0, len(series))
	for _, s := range series {
		if len(s.Y) == 0 {
			continue
		}
		data = append(data, s.Y)
		colors = append(colors, terminalColor(s.Label))
		legends = append(legends, s.Label)
	}
	if len(data) == 0 {
		return ""
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(fig.YMin),
		asciigraph.UpperBound(fig.YMax),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
		asciigraph.Caption(fig.Title),
	)
}
