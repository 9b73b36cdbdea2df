package integrators

import "github.com/san-kum/episim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme. It holds no state
// between calls and is safe to share.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return RK4Step(dyn.Derive, t, dt, x)
}

// RK4Step advances y by one step of size h. Every stage evaluates f on a
// complete intermediate state, so coupled components always see each other
// at the same stage. Negative components are not clamped.
//
//	k1 = h*f(t, y)
//	k2 = h*f(t+h/2, y+k1/2)
//	k3 = h*f(t+h/2, y+k2/2)
//	k4 = h*f(t+h, y+k3)
//	y' = y + (k1 + 2k2 + 2k3 + k4)/6
func RK4Step(f func(dynamo.State, float64) dynamo.State, t, h float64, y dynamo.State) dynamo.State {
	n := len(y)
	stage := make(dynamo.State, n)

	k1 := f(y, t).Scale(h)

	for i := 0; i < n; i++ {
		stage[i] = y[i] + k1[i]/2
	}
	k2 := f(stage, t+h/2).Scale(h)

	for i := 0; i < n; i++ {
		stage[i] = y[i] + k2[i]/2
	}
	k3 := f(stage, t+h/2).Scale(h)

	for i := 0; i < n; i++ {
		stage[i] = y[i] + k3[i]
	}
	k4 := f(stage, t+h).Scale(h)

	result := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		result[i] = y[i] + (k1[i]+2*k2[i]+2*k3[i]+k4[i])/6
	}

	return result
}
