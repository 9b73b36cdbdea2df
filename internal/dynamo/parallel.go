package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Run pairs a configured simulator with its initial condition.
type Run struct {
	Name string
	Sim  *Simulator
	X0   State
}

// Ensemble executes independent runs concurrently. Every run keeps its own
// simulator, so metrics and observers are never shared between goroutines;
// each run is still strictly sequential in time.
type Ensemble struct {
	grid    Grid
	dt      float64
	workers int
}

func NewEnsemble(grid Grid, dt float64, workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{grid: grid, dt: dt, workers: workers}
}

func (e *Ensemble) Run(ctx context.Context, runs []Run) ([]*Result, error) {
	results := make([]*Result, len(runs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, r := range runs {
		g.Go(func() error {
			res, err := r.Sim.Run(ctx, r.X0, e.grid, e.dt)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
