package models

import (
	"fmt"

	"github.com/san-kum/episim/internal/dynamo"
)

// SIR is the Kermack-McKendrick model. Alpha is the infection rate, Beta
// the recovery rate and N the total population.
type SIR struct {
	Alpha float64
	Beta  float64
	N     float64
}

func NewSIR(alpha, beta, n float64) *SIR {
	return &SIR{Alpha: alpha, Beta: beta, N: n}
}

func (m *SIR) StateDim() int { return 3 }

func (m *SIR) Labels() []string { return []string{"S", "I", "R"} }

// Derive returns (dS, dI, dR). The time argument is unused.
func (m *SIR) Derive(x dynamo.State, _ float64) dynamo.State {
	s, i := x[0], x[1]
	infection := m.Alpha * s * i / m.N
	recovery := m.Beta * i
	return dynamo.State{-infection, infection - recovery, recovery}
}

func (m *SIR) Invariant(x dynamo.State) float64 { return x[0] + x[1] + x[2] }

// InitialState seeds a fraction of the population as infected; nobody has
// recovered yet.
func (m *SIR) InitialState(infectedFraction float64) dynamo.State {
	i := infectedFraction * m.N
	return dynamo.State{m.N - i, i, 0}
}

func (m *SIR) Validate() error {
	return validateRates(m.N, map[string]float64{"alpha": m.Alpha, "beta": m.Beta})
}

func (m *SIR) GetParams() map[string]float64 {
	return map[string]float64{"alpha": m.Alpha, "beta": m.Beta, "population": m.N}
}

func (m *SIR) SetParam(name string, v float64) error {
	switch name {
	case "alpha":
		m.Alpha = v
	case "beta":
		m.Beta = v
	case "population":
		m.N = v
	default:
		return fmt.Errorf("%w: %s", dynamo.ErrUnknownParameter, name)
	}
	return nil
}

func validateRates(n float64, rates map[string]float64) error {
	if !(n > 0) {
		return &dynamo.ParameterError{Name: "population", Value: n, Reason: "must be positive"}
	}
	for _, name := range []string{"alpha", "beta", "sigma"} {
		v, ok := rates[name]
		if !ok {
			continue
		}
		if !(v >= 0) {
			return &dynamo.ParameterError{Name: name, Value: v, Reason: "rate must be non-negative"}
		}
	}
	return nil
}
