package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	if len(s) == 0 {
		return 0
	}
	return floats.Norm(s, 2)
}

func (s State) Sum() float64 {
	return floats.Sum(s)
}

// Add returns s + other. Components missing from other are copied from s.
func (s State) Add(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Add(result[:n], other[:n])
	return result
}

func (s State) Sub(other State) State {
	result := s.Clone()
	n := min(len(s), len(other))
	floats.Sub(result[:n], other[:n])
	return result
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	floats.ScaleTo(result, factor, s)
	return result
}

// AddScaled returns s + alpha*other.
func (s State) AddScaled(alpha float64, other State) State {
	result := make(State, len(s))
	floats.AddScaledTo(result, s, alpha, other)
	return result
}

// System is a vector field dX/dt = f(X, t). Model parameters are bound
// on the implementing value and are immutable for the duration of a run.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// SystemFunc adapts a plain derivative function to System.
type SystemFunc struct {
	Dim int
	Fn  func(x State, t float64) State
}

func (f SystemFunc) Derive(x State, t float64) State { return f.Fn(x, t) }
func (f SystemFunc) StateDim() int                   { return f.Dim }

// Conserved is implemented by systems with a first integral, such as the
// total population of a closed compartmental model.
type Conserved interface {
	Invariant(x State) float64
}

type Labeled interface {
	Labels() []string
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Result struct {
	Trajectory     Trajectory
	Metrics        map[string]float64
	InvariantDrift float64
	StepsTaken     int
}
