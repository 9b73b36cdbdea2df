package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/episim/internal/dynamo"
)

func TestEulerStep(t *testing.T) {
	x := NewEuler().Step(&expDecay{}, dynamo.State{2}, 0, 0.25)
	if x[0] != 1.5 {
		t.Errorf("Euler step = %v, want 1.5", x[0])
	}
}

func TestEulerFirstOrder(t *testing.T) {
	dyn := &expDecay{}
	exact := math.Exp(-1)

	coarse := math.Abs(integrate(NewEuler(), dyn, dynamo.State{1}, 0.01, 100)[0] - exact)
	fine := math.Abs(integrate(NewEuler(), dyn, dynamo.State{1}, 0.005, 200)[0] - exact)

	ratio := coarse / fine
	if ratio < 1.8 || ratio > 2.2 {
		t.Errorf("halving h reduced Euler error by %.2f, expected about 2", ratio)
	}
}
