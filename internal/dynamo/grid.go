package dynamo

import (
	"fmt"
	"math"
)

// Grid is an evenly spaced sampling of [0, Horizon) with SamplesPerUnit
// points per unit of time. It is independent of the integration step size.
type Grid struct {
	Horizon        float64
	SamplesPerUnit int
}

// MaxSamples bounds the number of grid points of a single run.
const MaxSamples = 1 << 24

func NewGrid(horizon float64, samplesPerUnit int) (Grid, error) {
	g := Grid{Horizon: horizon, SamplesPerUnit: samplesPerUnit}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

func (g Grid) Validate() error {
	if !(g.Horizon > 0) || math.IsInf(g.Horizon, 0) {
		return &ParameterError{Name: "horizon", Value: g.Horizon, Reason: "must be positive and finite"}
	}
	if g.SamplesPerUnit <= 0 {
		return &ParameterError{Name: "samples_per_unit_time", Value: float64(g.SamplesPerUnit), Reason: "must be positive"}
	}
	if g.Horizon*float64(g.SamplesPerUnit) > MaxSamples {
		return &ParameterError{Name: "horizon", Value: g.Horizon, Reason: fmt.Sprintf("more than %d samples", MaxSamples)}
	}
	return nil
}

// Len is the number of grid points. The small epsilon absorbs representation
// error in horizons such as 1.1*10.
func (g Grid) Len() int {
	if g.SamplesPerUnit <= 0 || g.Horizon <= 0 {
		return 0
	}
	return int(math.Floor(g.Horizon*float64(g.SamplesPerUnit) + 1e-9))
}

// At returns the k-th grid time, k/SamplesPerUnit.
func (g Grid) At(k int) float64 {
	return float64(k) / float64(g.SamplesPerUnit)
}

func (g Grid) Spacing() float64 {
	return 1 / float64(g.SamplesPerUnit)
}

func (g Grid) Times() []float64 {
	times := make([]float64, g.Len())
	for k := range times {
		times[k] = g.At(k)
	}
	return times
}
