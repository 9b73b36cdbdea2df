// Package render draws epidemic trajectories. It only reads a finished
// trajectory and never feeds anything back into a run.
package render

import (
	"math"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/dynamo"
)

// Figure describes axes and layout independently of the output backend.
type Figure struct {
	Title  string
	XLabel string
	YLabel string

	XMin, XMax float64
	YMin, YMax float64
	TickX      float64
	TickY      float64

	Width  int
	Height int
}

// FigureFor spans the whole horizon on x and the whole population on y.
func FigureFor(cfg *config.Config) Figure {
	return Figure{
		Title:  cfg.Plot.Title,
		XLabel: "Days",
		YLabel: "People",
		XMin:   0,
		XMax:   cfg.Horizon,
		YMin:   0,
		YMax:   cfg.Population,
		TickX:  cfg.Plot.TickX,
		TickY:  cfg.Plot.TickY,
		Width:  1024,
		Height: 640,
	}
}

// Series is one named curve.
type Series struct {
	Label string
	X     []float64
	Y     []float64
}

// SeriesFor splits a trajectory into one curve per compartment, all sharing
// the trajectory's time axis.
func SeriesFor(labels []string, traj dynamo.Trajectory) []Series {
	cols := traj.Columns()
	out := make([]Series, len(cols))
	for i, col := range cols {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		out[i] = Series{Label: label, X: traj.Times, Y: col}
	}
	return out
}

// MaxTicks bounds the ticks on one axis.
const MaxTicks = 1000

// TickValues lists lo, lo+step, ... up to hi inclusive. Values are computed
// by index to avoid drift from repeated addition. It returns nil when the
// axis would need more than MaxTicks ticks, leaving tick placement to the
// backend.
func TickValues(lo, hi, step float64) []float64 {
	if !(step > 0) || hi < lo || math.IsInf(hi-lo, 0) {
		return nil
	}
	count := math.Floor((hi-lo)/step + 1e-9)
	if count+1 > MaxTicks {
		return nil
	}
	n := int(count)
	values := make([]float64, n+1)
	for k := range values {
		values[k] = lo + float64(k)*step
	}
	return values
}
