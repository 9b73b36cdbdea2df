package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/dynamo"
)

type Data struct {
	Model          string               `json:"model"`
	Integrator     string               `json:"integrator"`
	Params         map[string]float64   `json:"params"`
	StepSize       float64              `json:"step_size"`
	Horizon        float64              `json:"horizon"`
	SamplesPerUnit int                  `json:"samples_per_unit_time"`
	Steps          int                  `json:"steps"`
	Labels         []string             `json:"labels"`
	Times          []float64            `json:"times"`
	Series         map[string][]float64 `json:"series"`
	Metrics        map[string]float64   `json:"metrics"`
	InvariantDrift float64              `json:"invariant_drift"`
}

// NewData collects a finished run and the config that produced it.
func NewData(cfg *config.Config, labels []string, result *dynamo.Result) Data {
	params := cfg.ModelParams()
	params["initial_infected_fraction"] = cfg.InitialInfectedFraction

	data := Data{
		Model:          cfg.Model,
		Integrator:     cfg.Integrator,
		Params:         params,
		StepSize:       cfg.StepSize,
		Horizon:        cfg.Horizon,
		SamplesPerUnit: cfg.SamplesPerUnit,
		Steps:          result.StepsTaken,
		Labels:         labels,
		Times:          result.Trajectory.Times,
		Series:         make(map[string][]float64, len(labels)),
		Metrics:        result.Metrics,
		InvariantDrift: result.InvariantDrift,
	}
	for i, col := range result.Trajectory.Columns() {
		if i < len(labels) {
			data.Series[labels[i]] = col
		}
	}
	return data
}

func WriteJSON(w io.Writer, data Data) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
