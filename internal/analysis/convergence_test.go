package analysis

import (
	"errors"
	"testing"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/models"
)

func TestConvergenceRK4(t *testing.T) {
	dyn := models.NewSIR(0.27, 0.043, 15000)
	pts, err := Convergence(dyn, integrators.NewRK4(), dyn.InitialState(0.03), 20, []float64{0.4, 0.2, 0.1}, 1e-3)
	if err != nil {
		t.Fatalf("convergence failed: %v", err)
	}

	if len(pts) != 3 {
		t.Fatalf("expected 3 points, got %d", len(pts))
	}
	if pts[0].Order != 0 {
		t.Errorf("first point carries no order, got %f", pts[0].Order)
	}
	if pts[2].Steps != 200 {
		t.Errorf("expected 200 steps at h=0.1, got %d", pts[2].Steps)
	}
	for _, p := range pts[1:] {
		t.Logf("h=%.3f err=%.3e order=%.2f", p.StepSize, p.Error, p.Order)
		if p.Order < 3.5 || p.Order > 4.5 {
			t.Errorf("observed order %.2f at h=%.3f, expected about 4", p.Order, p.StepSize)
		}
	}
}

func TestConvergenceEuler(t *testing.T) {
	dyn := models.NewSIR(0.27, 0.043, 15000)
	pts, err := Convergence(dyn, integrators.NewEuler(), dyn.InitialState(0.03), 10, []float64{0.02, 0.01}, 1e-4)
	if err != nil {
		t.Fatalf("convergence failed: %v", err)
	}
	if o := pts[1].Order; o < 0.8 || o > 1.2 {
		t.Errorf("observed Euler order %.2f, expected about 1", o)
	}
}

func TestConvergenceSnapsStep(t *testing.T) {
	dyn := dynamo.SystemFunc{Dim: 1, Fn: func(x dynamo.State, _ float64) dynamo.State { return x.Scale(-1) }}
	pts, err := Convergence(dyn, integrators.NewRK4(), dynamo.State{1}, 1, []float64{0.3}, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if pts[0].Steps != 3 || pts[0].StepSize != 1.0/3 {
		t.Errorf("expected 3 steps of 1/3, got %d of %v", pts[0].Steps, pts[0].StepSize)
	}
}

func TestConvergenceInvalid(t *testing.T) {
	dyn := models.NewSIR(0.27, 0.043, 15000)
	integ := integrators.NewRK4()

	if _, err := Convergence(dyn, integ, dyn.InitialState(0.03), 0, []float64{0.1}, 1e-3); !errors.Is(err, dynamo.ErrInvalidParameter) {
		t.Errorf("zero horizon: got %v", err)
	}
	if _, err := Convergence(dyn, integ, dyn.InitialState(0.03), 10, []float64{-0.1}, 1e-3); !errors.Is(err, dynamo.ErrInvalidParameter) {
		t.Errorf("negative step: got %v", err)
	}
	if _, err := Convergence(dyn, integ, dynamo.State{1}, 10, []float64{0.1}, 1e-3); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("wrong dimension: got %v", err)
	}
}
