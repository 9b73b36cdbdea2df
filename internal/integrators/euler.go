package integrators

import "github.com/san-kum/episim/internal/dynamo"

// Euler is the explicit first-order scheme, kept as a baseline when
// comparing accuracy against RK4.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, t float64, dt float64) dynamo.State {
	return x.AddScaled(dt, dyn.Derive(x, t))
}
