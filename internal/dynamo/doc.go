// Package dynamo provides core simulation primitives for compartmental
// epidemic models and other ordinary differential equations.
//
// The package defines the fundamental interfaces and types:
//
//   - [State]: vector representing the compartments at one instant
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Grid]: evenly spaced sampling times, independent of the step size
//   - [Trajectory]: recorded history of a run
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	dyn := models.NewSIR(0.27, 0.043, 15000)
//	sim := dynamo.New(dyn, integrators.NewRK4())
//	grid, _ := dynamo.NewGrid(150, 10)
//	result, _ := sim.Run(ctx, dynamo.State{14550, 450, 0}, grid, 0.1)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. For parallel runs, use the
// [Ensemble] type, which gives every run its own simulator.
package dynamo
