package config

import "sort"

// Presets mirror the scenarios the repository demonstrates end to end:
// one-dimensional mean reversion, decoupled two-dimensional mean reversion,
// state-dependent diffusion, and jump-diffusion.
var Presets = map[string]*Scenario{
	"ou": {
		Process: "ou", Dt: 0.001, Steps: 500000, Seed: 1,
		Params: map[string]float64{"theta": 0.3, "sigma": 0.1},
	},
	"ou2d": {
		Process: "ou2d", Dt: 0.001, Steps: 200000, Seed: 1,
	},
	"quadratic": {
		Process: "quadratic", Dt: 0.001, Steps: 500000, Seed: 1,
		Params: map[string]float64{"theta": 0.3, "a": 0.01, "b": 0.04},
	},
	"jump": {
		Process: "jump", Dt: 0.001, Steps: 500000, Seed: 1,
		Params: map[string]float64{"theta": 0.3, "sigma": 0.1, "rate": 0.5, "ampvar": 0.04},
	},
}

func GetPreset(name string) *Scenario {
	return Presets[name]
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
