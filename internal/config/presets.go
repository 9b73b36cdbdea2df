package config

import "sort"

// Presets are ready-made scenarios. Each entry lists only what differs
// from DefaultConfig.
var Presets = map[string]func(*Config){
	"baseline": func(c *Config) {},
	"no_recovery": func(c *Config) {
		c.Beta = 0
		c.Plot.Title = "No Recovery"
	},
	"no_transmission": func(c *Config) {
		c.Alpha = 0
		c.Plot.Title = "No Transmission"
	},
	"scipy": func(c *Config) {
		c.Population = 10000
		c.Horizon = 200
	},
	"seir": func(c *Config) {
		c.Model = "seir"
		c.Horizon = 200
	},
	"coarse": func(c *Config) {
		c.StepSize = 1
		c.SamplesPerUnit = 1
	},
	"euler": func(c *Config) {
		c.Integrator = "euler"
	},
}

// GetPreset returns the named scenario applied to the defaults, or nil.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
