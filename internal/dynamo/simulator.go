package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) System() System         { return s.dyn }
func (s *Simulator) Integrator() Integrator { return s.integrator }

// Run samples the grid in increasing order. At every grid time the current
// state is recorded first and only then advanced by one step of size dt, so
// the trajectory starts at x0 and ends one step short of the horizon.
// Cancellation is honored between steps and returns the partial result.
func (s *Simulator) Run(ctx context.Context, x0 State, grid Grid, dt float64) (*Result, error) {
	cur, err := s.Cursor(x0, grid, dt)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Trajectory: NewTrajectory(cur.Len()),
		Metrics:    make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for !cur.Done() {
		select {
		case <-ctx.Done():
			s.finish(result, x0)
			return result, ctx.Err()
		default:
		}

		t, x := cur.Next()
		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}
		result.Trajectory.Append(t, x)
		result.StepsTaken++
	}

	s.finish(result, x0)
	return result, nil
}

func (s *Simulator) finish(result *Result, x0 State) {
	if c, ok := s.dyn.(Conserved); ok {
		initial := c.Invariant(x0)
		if initial != 0 {
			result.InvariantDrift = result.Trajectory.MaxDeviation(c.Invariant, initial) / math.Abs(initial)
		}
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// RunWithCallback streams samples to callback without keeping a history.
// Returning false from callback stops the run early.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, grid Grid, dt float64, callback func(t float64, x State) bool) error {
	cur, err := s.Cursor(x0, grid, dt)
	if err != nil {
		return err
	}
	for !cur.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if !callback(cur.Next()) {
			return nil
		}
	}
	return nil
}

// Cursor returns a stepwise view of the run loop.
func (s *Simulator) Cursor(x0 State, grid Grid, dt float64) (*Cursor, error) {
	if err := s.validate(x0, grid, dt); err != nil {
		return nil, err
	}
	return &Cursor{sim: s, grid: grid, dt: dt, n: grid.Len(), x: x0.Clone()}, nil
}

func (s *Simulator) validate(x0 State, grid Grid, dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return &ParameterError{Name: "step_size", Value: dt, Reason: "must be positive and finite"}
	}
	if err := grid.Validate(); err != nil {
		return err
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: state has %d components, system expects %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	return nil
}

// Cursor walks the record-then-advance loop one grid point at a time. It is
// the only place a run can be suspended.
type Cursor struct {
	sim  *Simulator
	grid Grid
	dt   float64
	k, n int
	x    State
}

func (c *Cursor) Done() bool { return c.k >= c.n }
func (c *Cursor) Index() int { return c.k }
func (c *Cursor) Len() int   { return c.n }

// State is the state that will be recorded by the next call to Next.
func (c *Cursor) State() State { return c.x.Clone() }

// Next returns the sample at the current grid point and advances the state
// by one step. It must not be called once Done reports true.
func (c *Cursor) Next() (float64, State) {
	t := c.grid.At(c.k)
	x := c.x
	c.x = c.sim.integrator.Step(c.sim.dyn, x, t, c.dt)
	c.k++
	return t, x
}
