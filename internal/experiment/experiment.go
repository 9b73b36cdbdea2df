package experiment

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/dynamo"
)

type validator interface {
	Validate() error
}

type seeder interface {
	InitialState(infectedFraction float64) dynamo.State
}

// Experiment is one fully configured simulation. Construction validates
// every parameter, so a constructed Experiment always runs to completion
// unless its context is canceled.
type Experiment struct {
	cfg       *config.Config
	dyn       dynamo.System
	simulator *dynamo.Simulator
	x0        dynamo.State
	grid      dynamo.Grid
}

func New(cfg *config.Config) (*Experiment, error) {
	return NewWithRegistry(cfg, NewRegistry())
}

func NewWithRegistry(cfg *config.Config, registry *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dyn, err := registry.GetModel(cfg.Model, cfg.ModelParams())
	if err != nil {
		return nil, err
	}
	if v, ok := dyn.(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	s, ok := dyn.(seeder)
	if !ok {
		return nil, fmt.Errorf("model %s cannot derive an initial state", cfg.Model)
	}

	sim := dynamo.New(dyn, integ)
	for _, m := range registry.DefaultMetrics(dyn, cfg.Population) {
		sim.AddMetric(m)
	}

	return &Experiment{
		cfg:       cfg.Clone(),
		dyn:       dyn,
		simulator: sim,
		x0:        s.InitialState(cfg.InitialInfectedFraction),
		grid:      cfg.Grid(),
	}, nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	logger := log.WithFields(log.Fields{
		"model":      e.cfg.Model,
		"integrator": e.cfg.Integrator,
		"step_size":  e.cfg.StepSize,
		"samples":    e.grid.Len(),
	})
	logger.Debug("starting simulation")

	start := time.Now()
	result, err := e.simulator.Run(ctx, e.x0, e.grid, e.cfg.StepSize)
	if err != nil {
		logger.WithError(err).Warn("simulation interrupted")
		return result, err
	}

	logger.WithFields(log.Fields{
		"elapsed":         time.Since(start),
		"invariant_drift": result.InvariantDrift,
	}).Debug("simulation complete")
	return result, nil
}

func (e *Experiment) Config() *config.Config       { return e.cfg.Clone() }
func (e *Experiment) System() dynamo.System        { return e.dyn }
func (e *Experiment) Simulator() *dynamo.Simulator { return e.simulator }
func (e *Experiment) InitialState() dynamo.State   { return e.x0.Clone() }
func (e *Experiment) Grid() dynamo.Grid            { return e.grid }

// Labels names the state components, falling back to x0, x1, ...
func (e *Experiment) Labels() []string {
	if l, ok := e.dyn.(dynamo.Labeled); ok {
		return l.Labels()
	}
	labels := make([]string, e.dyn.StateDim())
	for i := range labels {
		labels[i] = fmt.Sprintf("x%d", i)
	}
	return labels
}
