package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt    = 0.001
	DefaultSteps = 500000
	DefaultTheta = 0.3
	DefaultSigma = 0.1
)

// Scenario describes one simulation run: which process, its discretization,
// and per-process parameter overrides.
type Scenario struct {
	Process string             `yaml:"process"`
	Dt      float64            `yaml:"dt"`
	Steps   int                `yaml:"steps"`
	Seed    int64              `yaml:"seed"`
	Initial []float64          `yaml:"initial"`
	Params  map[string]float64 `yaml:"params"`
	Jumps   *JumpConfig        `yaml:"jumps,omitempty"`
}

// JumpConfig overrides the process's own jump term, if any. AmplitudeVar is
// the entrywise variance matrix of the jump amplitudes, row per dimension.
type JumpConfig struct {
	Rates        []float64   `yaml:"rates"`
	AmplitudeVar [][]float64 `yaml:"amplitude_var"`
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Process: "ou",
		Dt:      DefaultDt,
		Steps:   DefaultSteps,
		Params: map[string]float64{
			"theta": DefaultTheta,
			"sigma": DefaultSigma,
		},
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := DefaultScenario()
	sc.Params = map[string]float64{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func Save(path string, sc *Scenario) error {
	data, err := yaml.Marshal(sc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
