package dynamo

import (
	"math"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"negative compartment", State{-1e-9, 2.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestState_Norm(t *testing.T) {
	tests := []struct {
		state    State
		expected float64
	}{
		{State{3, 4}, 5.0},
		{State{1, 0}, 1.0},
		{State{0, 0}, 0.0},
		{State{1, 1, 1, 1}, 2.0},
		{State{}, 0.0},
	}

	for _, tt := range tests {
		if got := tt.state.Norm(); math.Abs(got-tt.expected) > 1e-10 {
			t.Errorf("Norm(%v) = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestState_Arithmetic(t *testing.T) {
	a := State{1, 2, 3}
	b := State{4, 5, 6}

	sum := a.Add(b)
	if sum[0] != 5 || sum[1] != 7 || sum[2] != 9 {
		t.Errorf("Add failed: got %v", sum)
	}

	diff := b.Sub(a)
	if diff[0] != 3 || diff[1] != 3 || diff[2] != 3 {
		t.Errorf("Sub failed: got %v", diff)
	}

	scaled := a.Scale(2)
	if scaled[0] != 2 || scaled[1] != 4 || scaled[2] != 6 {
		t.Errorf("Scale failed: got %v", scaled)
	}

	axpy := a.AddScaled(0.5, b)
	if axpy[0] != 3 || axpy[1] != 4.5 || axpy[2] != 6 {
		t.Errorf("AddScaled failed: got %v", axpy)
	}

	if a.Sum() != 6 {
		t.Errorf("Sum failed: got %v", a.Sum())
	}

	if a[0] != 1 || b[0] != 4 {
		t.Error("arithmetic mutated its operands")
	}
}

func TestState_AddShorter(t *testing.T) {
	got := State{1, 2, 3}.Add(State{1})
	if got[0] != 2 || got[1] != 2 || got[2] != 3 {
		t.Errorf("Add with shorter operand: got %v", got)
	}
}

func TestState_Clone(t *testing.T) {
	a := State{1, 2}
	c := a.Clone()
	c[0] = 99
	if a[0] == 99 {
		t.Error("Clone did not create independent copy")
	}
}

func TestSystemFunc(t *testing.T) {
	f := SystemFunc{Dim: 1, Fn: func(x State, _ float64) State { return State{-x[0]} }}
	var sys System = f

	if sys.StateDim() != 1 {
		t.Errorf("StateDim() = %d, want 1", sys.StateDim())
	}
	if dx := sys.Derive(State{2}, 0); dx[0] != -2 {
		t.Errorf("Derive() = %v, want [-2]", dx)
	}
}
