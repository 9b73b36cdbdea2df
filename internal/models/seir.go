package models

import (
	"fmt"

	"github.com/san-kum/episim/internal/dynamo"
)

// SEIR adds an exposed compartment that becomes infectious at rate Sigma.
type SEIR struct {
	Alpha float64
	Sigma float64
	Beta  float64
	N     float64
}

func NewSEIR(alpha, sigma, beta, n float64) *SEIR {
	return &SEIR{Alpha: alpha, Sigma: sigma, Beta: beta, N: n}
}

func (m *SEIR) StateDim() int { return 4 }

func (m *SEIR) Labels() []string { return []string{"S", "E", "I", "R"} }

func (m *SEIR) Derive(x dynamo.State, _ float64) dynamo.State {
	s, e, i := x[0], x[1], x[2]
	exposure := m.Alpha * s * i / m.N
	onset := m.Sigma * e
	recovery := m.Beta * i
	return dynamo.State{-exposure, exposure - onset, onset - recovery, recovery}
}

func (m *SEIR) Invariant(x dynamo.State) float64 { return x[0] + x[1] + x[2] + x[3] }

func (m *SEIR) InitialState(infectedFraction float64) dynamo.State {
	i := infectedFraction * m.N
	return dynamo.State{m.N - i, 0, i, 0}
}

func (m *SEIR) Validate() error {
	return validateRates(m.N, map[string]float64{"alpha": m.Alpha, "beta": m.Beta, "sigma": m.Sigma})
}

func (m *SEIR) GetParams() map[string]float64 {
	return map[string]float64{"alpha": m.Alpha, "sigma": m.Sigma, "beta": m.Beta, "population": m.N}
}

func (m *SEIR) SetParam(name string, v float64) error {
	switch name {
	case "alpha":
		m.Alpha = v
	case "sigma":
		m.Sigma = v
	case "beta":
		m.Beta = v
	case "population":
		m.N = v
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	return nil
}
