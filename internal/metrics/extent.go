package metrics

import (
	"math"

	"github.com/san-kum/episim/internal/dynamo"
)

// MinComponent is the smallest value seen in any compartment. A negative
// result exposes truncation error driving a compartment below zero.
type MinComponent struct {
	min float64
}

func NewMinComponent() *MinComponent {
	return &MinComponent{min: math.Inf(1)}
}

func (m *MinComponent) Name() string { return "min_compartment" }

func (m *MinComponent) Observe(x dynamo.State, t float64) {
	for _, v := range x {
		m.min = math.Min(m.min, v)
	}
}

func (m *MinComponent) Value() float64 {
	if math.IsInf(m.min, 1) {
		return 0
	}
	return m.min
}

func (m *MinComponent) Reset() { m.min = math.Inf(1) }

// FinalFraction is the last observed value of one compartment divided by
// total. With the recovered compartment this is the attack rate.
type FinalFraction struct {
	name  string
	index int
	total float64
	last  float64
}

func NewFinalFraction(name string, index int, total float64) *FinalFraction {
	return &FinalFraction{name: name, index: index, total: total}
}

func (f *FinalFraction) Name() string { return f.name }

func (f *FinalFraction) Observe(x dynamo.State, t float64) {
	if f.index < len(x) {
		f.last = x[f.index]
	}
}

func (f *FinalFraction) Value() float64 {
	if f.total == 0 {
		return 0
	}
	return f.last / f.total
}

func (f *FinalFraction) Reset() { f.last = 0 }
