package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/episim/internal/dynamo"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/metrics"
	"github.com/san-kum/episim/internal/models"
)

// ModelFactory builds a model from the config's parameter map.
type ModelFactory func(params map[string]float64) dynamo.System

type Registry struct {
	models      map[string]ModelFactory
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		models:      make(map[string]ModelFactory),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.models["sir"] = func(p map[string]float64) dynamo.System {
		return models.NewSIR(p["alpha"], p["beta"], p["population"])
	}
	r.models["seir"] = func(p map[string]float64) dynamo.System {
		return models.NewSEIR(p["alpha"], p["sigma"], p["beta"], p["population"])
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

func (r *Registry) RegisterModel(name string, fn ModelFactory) { r.models[name] = fn }

func (r *Registry) RegisterIntegrator(name string, fn func() dynamo.Integrator) {
	r.integrators[name] = fn
}

func (r *Registry) GetModel(name string, params map[string]float64) (dynamo.System, error) {
	fn, ok := r.models[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(params), nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	return sortedKeys(r.models)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metric instances for one run. Epidemic
// summaries are attached only when the model labels an I or R compartment.
func (r *Registry) DefaultMetrics(dyn dynamo.System, population float64) []dynamo.Metric {
	ms := []dynamo.Metric{
		metrics.NewInvariantDrift(dyn),
		metrics.NewMinComponent(),
	}

	labeled, ok := dyn.(dynamo.Labeled)
	if !ok {
		return ms
	}
	for idx, label := range labeled.Labels() {
		switch label {
		case "I":
			ms = append(ms, metrics.NewPeak("peak_infected", idx), metrics.NewPeakTime("peak_time", idx))
		case "R":
			ms = append(ms, metrics.NewFinalFraction("attack_rate", idx, population))
		}
	}
	return ms
}
