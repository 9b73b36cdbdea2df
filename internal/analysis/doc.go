// Package analysis provides numerical diagnostics for simulation runs.
//
//   - [Convergence]: empirical order of accuracy of a fixed-step integrator
//   - [Sweep]: one run per parameter value, executed concurrently
//   - [NewPhasePortrait]: projection of a trajectory onto two compartments
//
// # Order of Accuracy
//
// For a method of order p, halving the step size divides the global error
// by about 2^p:
//
//	pts, _ := analysis.Convergence(dyn, integrators.NewRK4(), x0, 20, []float64{0.4, 0.2, 0.1}, 1e-3)
//	// pts[2].Order is close to 4
package analysis
