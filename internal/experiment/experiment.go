// Package experiment binds scenario configuration to simulator runs.
package experiment

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/catonlyprep/stochsim/internal/config"
	"github.com/catonlyprep/stochsim/internal/models"
	"github.com/catonlyprep/stochsim/internal/stochastic"
)

// Experiment is a resolved scenario: a parameterized process and the
// simulator configuration built from it.
type Experiment struct {
	Scenario *config.Scenario
	Process  models.Process
	Config   stochastic.Config

	simulator *stochastic.Simulator
}

// FromScenario resolves a scenario against the registry, applies parameter
// overrides, and assembles the run configuration.
func FromScenario(sc *config.Scenario, reg *Registry) (*Experiment, error) {
	proc, err := reg.GetProcess(sc.Process)
	if err != nil {
		return nil, err
	}

	for name, v := range sc.Params {
		if err := proc.SetParam(name, v); err != nil {
			return nil, err
		}
	}

	initial := stochastic.State(sc.Initial)
	if len(initial) == 0 {
		initial = proc.DefaultState()
	}

	cfg := stochastic.Config{
		Dim:       proc.Dim(),
		Steps:     sc.Steps,
		Dt:        sc.Dt,
		Drift:     proc.Drift(),
		Diffusion: proc.Diffusion(),
		Initial:   initial,
		Seed:      sc.Seed,
	}

	if sc.Jumps != nil {
		spec, err := jumpSpec(sc.Jumps, proc.Dim())
		if err != nil {
			return nil, err
		}
		cfg.Jumps = spec
	} else if j, ok := proc.(models.Jumper); ok {
		cfg.Jumps = j.Jumps()
	}

	return &Experiment{
		Scenario:  sc,
		Process:   proc,
		Config:    cfg,
		simulator: stochastic.New(),
	}, nil
}

func jumpSpec(jc *config.JumpConfig, dim int) (*stochastic.JumpSpec, error) {
	if len(jc.Rates) != dim {
		return nil, fmt.Errorf("jump rates: expected %d entries, got %d", dim, len(jc.Rates))
	}
	if len(jc.AmplitudeVar) != dim {
		return nil, fmt.Errorf("jump amplitude_var: expected %d rows, got %d", dim, len(jc.AmplitudeVar))
	}
	v := mat.NewDense(dim, dim, nil)
	for a, row := range jc.AmplitudeVar {
		if len(row) != dim {
			return nil, fmt.Errorf("jump amplitude_var row %d: expected %d entries, got %d", a, dim, len(row))
		}
		for b, val := range row {
			v.Set(a, b, val)
		}
	}
	return &stochastic.JumpSpec{
		Rates:        append([]float64(nil), jc.Rates...),
		AmplitudeVar: v,
	}, nil
}

// Simulator exposes the underlying simulator for attaching observers.
func (e *Experiment) Simulator() *stochastic.Simulator { return e.simulator }

func (e *Experiment) Run(ctx context.Context) (*stochastic.Path, error) {
	return e.simulator.Run(ctx, e.Config)
}

// ComponentSummary compares the late-time sample statistics of one
// component against the closed-form stationary variance when the process
// has one.
type ComponentSummary struct {
	Mean          float64
	Variance      float64
	StationaryVar float64
	HasStationary bool
}

// Summarize computes per-component late-time statistics over the second
// half of the path, where a mean-reverting process has forgotten its start.
func (e *Experiment) Summarize(path *stochastic.Path) []ComponentSummary {
	out := make([]ComponentSummary, path.Dim())

	var theoretical []float64
	if sv, ok := e.Process.(models.StationaryVariancer); ok {
		theoretical = sv.StationaryVariance()
	}

	for k := range out {
		series := path.Component(k)
		late := series[len(series)/2:]
		mean, variance := stat.MeanVariance(late, nil)
		out[k] = ComponentSummary{Mean: mean, Variance: variance}
		if theoretical != nil {
			out[k].StationaryVar = theoretical[k]
			out[k].HasStationary = true
		}
	}
	return out
}
