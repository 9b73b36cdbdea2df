package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/episim/internal/dynamo"
)

// ConvergencePoint is the global error at the horizon for one step size.
// Order compares it with the previous point and is zero for the first.
type ConvergencePoint struct {
	StepSize float64
	Steps    int
	Error    float64
	Order    float64
}

// Convergence integrates x0 to horizon with each step size and measures
// the max-norm distance to a reference solution computed with refStep.
// Step sizes are snapped so that an integer number of steps lands exactly
// on the horizon.
func Convergence(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	horizon float64,
	stepSizes []float64,
	refStep float64,
) ([]ConvergencePoint, error) {
	if !(horizon > 0) {
		return nil, &dynamo.ParameterError{Name: "horizon", Value: horizon, Reason: "must be positive"}
	}
	if len(x0) != dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system expects %d", dynamo.ErrDimensionMismatch, len(x0), dyn.StateDim())
	}

	ref, _, err := integrateTo(dyn, integ, x0, horizon, refStep)
	if err != nil {
		return nil, err
	}

	points := make([]ConvergencePoint, 0, len(stepSizes))
	for i, h := range stepSizes {
		x, n, err := integrateTo(dyn, integ, x0, horizon, h)
		if err != nil {
			return nil, err
		}
		p := ConvergencePoint{
			StepSize: horizon / float64(n),
			Steps:    n,
			Error:    floats.Distance(x, ref, math.Inf(1)),
		}
		if i > 0 {
			prev := points[i-1]
			if p.Error > 0 && prev.Error > 0 {
				p.Order = math.Log(prev.Error/p.Error) / math.Log(prev.StepSize/p.StepSize)
			}
		}
		points = append(points, p)
	}
	return points, nil
}

func integrateTo(dyn dynamo.System, integ dynamo.Integrator, x0 dynamo.State, horizon, h float64) (dynamo.State, int, error) {
	if !(h > 0) {
		return nil, 0, &dynamo.ParameterError{Name: "step_size", Value: h, Reason: "must be positive"}
	}
	n := max(1, int(math.Round(horizon/h)))
	h = horizon / float64(n)

	x := x0.Clone()
	for k := 0; k < n; k++ {
		x = integ.Step(dyn, x, float64(k)*h, h)
	}
	return x, n, nil
}
