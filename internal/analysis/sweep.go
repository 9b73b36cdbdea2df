package analysis

import (
	"context"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/experiment"
)

// SweepPoint is the outcome of one run of a sweep.
type SweepPoint struct {
	Value          float64
	Metrics        map[string]float64
	InvariantDrift float64
}

// Sweep varies one config parameter over values and runs every resulting
// experiment concurrently. Every value is validated before any run starts.
func Sweep(ctx context.Context, base *config.Config, param string, values []float64, workers int) ([]SweepPoint, error) {
	runs := make([]dynamo.Run, len(values))
	for i, v := range values {
		cfg := base.Clone()
		if err := cfg.Set(param, v); err != nil {
			return nil, err
		}
		exp, err := experiment.New(cfg)
		if err != nil {
			return nil, err
		}
		runs[i] = dynamo.Run{Sim: exp.Simulator(), X0: exp.InitialState()}
	}

	results, err := dynamo.NewEnsemble(base.Grid(), base.StepSize, workers).Run(ctx, runs)
	if err != nil {
		return nil, err
	}

	points := make([]SweepPoint, len(values))
	for i, res := range results {
		points[i] = SweepPoint{Value: values[i], Metrics: res.Metrics, InvariantDrift: res.InvariantDrift}
	}
	return points, nil
}
