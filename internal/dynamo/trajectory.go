package dynamo

import "math"

// Trajectory is the recorded history of a run: one State per grid time.
type Trajectory struct {
	Times  []float64
	States []State
}

func NewTrajectory(capacity int) Trajectory {
	return Trajectory{
		Times:  make([]float64, 0, capacity),
		States: make([]State, 0, capacity),
	}
}

func (tr *Trajectory) Append(t float64, x State) {
	tr.Times = append(tr.Times, t)
	tr.States = append(tr.States, x.Clone())
}

func (tr Trajectory) Len() int { return len(tr.States) }

func (tr Trajectory) At(k int) (float64, State) {
	return tr.Times[k], tr.States[k]
}

func (tr Trajectory) Last() (float64, State) {
	if len(tr.States) == 0 {
		return 0, nil
	}
	return tr.At(len(tr.States) - 1)
}

// Component returns the i-th compartment as its own series.
func (tr Trajectory) Component(i int) []float64 {
	series := make([]float64, len(tr.States))
	for k, x := range tr.States {
		if i < len(x) {
			series[k] = x[i]
		}
	}
	return series
}

// Columns transposes the trajectory into one series per component.
func (tr Trajectory) Columns() [][]float64 {
	if len(tr.States) == 0 {
		return nil
	}
	cols := make([][]float64, len(tr.States[0]))
	for i := range cols {
		cols[i] = tr.Component(i)
	}
	return cols
}

// CheckInvariant verifies |invariant(x) - expected| <= eps for every sample
// and reports the first one that fails.
func (tr Trajectory) CheckInvariant(invariant func(State) float64, expected, eps float64) error {
	for k, x := range tr.States {
		got := invariant(x)
		if math.IsNaN(got) || math.Abs(got-expected) > eps {
			return &InvariantError{Index: k, Time: tr.Times[k], Got: got, Expected: expected}
		}
	}
	return nil
}

// MaxDeviation is max_k |invariant(x_k) - expected|.
func (tr Trajectory) MaxDeviation(invariant func(State) float64, expected float64) float64 {
	worst := 0.0
	for _, x := range tr.States {
		worst = math.Max(worst, math.Abs(invariant(x)-expected))
	}
	return worst
}
