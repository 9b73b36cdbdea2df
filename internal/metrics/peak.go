package metrics

import (
	"math"

	"github.com/san-kum/episim/internal/dynamo"
)

// Peak tracks the largest value of one compartment.
type Peak struct {
	name    string
	index   int
	value   float64
	samples int
}

func NewPeak(name string, index int) *Peak {
	return &Peak{name: name, index: index}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, t float64) {
	if p.index >= len(x) {
		return
	}
	if p.samples == 0 || x[p.index] > p.value {
		p.value = x[p.index]
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.value }

func (p *Peak) Reset() {
	p.value = 0
	p.samples = 0
}

// PeakTime reports when a compartment reached its maximum. Ties keep the
// earliest time.
type PeakTime struct {
	name  string
	index int
	best  float64
	time  float64
}

func NewPeakTime(name string, index int) *PeakTime {
	return &PeakTime{name: name, index: index, best: math.Inf(-1)}
}

func (p *PeakTime) Name() string { return p.name }

func (p *PeakTime) Observe(x dynamo.State, t float64) {
	if p.index < len(x) && x[p.index] > p.best {
		p.best = x[p.index]
		p.time = t
	}
}

func (p *PeakTime) Value() float64 { return p.time }

func (p *PeakTime) Reset() {
	p.best = math.Inf(-1)
	p.time = 0
}
