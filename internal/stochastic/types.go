package stochastic

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Drift evaluates the deterministic drift N(y). The returned vector must
// have the configured dimension.
type Drift func(y State) State

// Diffusion evaluates the diffusion coefficient matrix g(y). The matrix may
// depend on the current state; off-diagonal entries mix noise across
// components.
type Diffusion func(y State) *mat.Dense

// JumpSpec configures the compound-Poisson jump term. Rates holds the
// per-dimension Poisson intensity; AmplitudeVar holds the entrywise variance
// of the jump amplitude matrix drawn on steps where at least one dimension
// jumps.
type JumpSpec struct {
	Rates        []float64
	AmplitudeVar *mat.Dense
}

// Config carries the full parameterization of a single run. A Config is
// treated as immutable once passed to a Stepper or Simulator.
type Config struct {
	Dim       int
	Steps     int
	Dt        float64
	Drift     Drift
	Diffusion Diffusion
	Jumps     *JumpSpec
	Initial   State

	// Seed selects the random stream; 0 means time-seeded (non-reproducible).
	Seed int64

	// ValidateState aborts the run with an EvalError when a coefficient
	// function produces NaN or Inf. Off by default: divergent paths are the
	// caller's choice of parameters, not a simulator failure.
	ValidateState bool
}

// Validate checks the static fields and probes Drift and Diffusion at the
// initial state so dimension mismatches surface before integration begins.
func (c Config) Validate() error {
	if c.Dim <= 0 {
		return &ConfigError{Field: "Dim", Reason: "must be positive"}
	}
	if c.Steps <= 0 {
		return &ConfigError{Field: "Steps", Reason: "must be positive"}
	}
	if c.Dt <= 0 {
		return &ConfigError{Field: "Dt", Reason: "must be positive"}
	}
	if c.Drift == nil {
		return &ConfigError{Field: "Drift", Reason: "must not be nil"}
	}
	if c.Diffusion == nil {
		return &ConfigError{Field: "Diffusion", Reason: "must not be nil"}
	}
	if len(c.Initial) != c.Dim {
		return &ConfigError{Field: "Initial", Reason: "length must equal Dim"}
	}

	if v := c.Drift(c.Initial); len(v) != c.Dim {
		return &ConfigError{Field: "Drift", Reason: "returned vector length differs from Dim"}
	}
	g := c.Diffusion(c.Initial)
	if g == nil {
		return &ConfigError{Field: "Diffusion", Reason: "returned nil matrix"}
	}
	if r, cols := g.Dims(); r != c.Dim || cols != c.Dim {
		return &ConfigError{Field: "Diffusion", Reason: "returned matrix is not Dim x Dim"}
	}

	if c.Jumps != nil {
		if len(c.Jumps.Rates) != c.Dim {
			return &ConfigError{Field: "Jumps.Rates", Reason: "length must equal Dim"}
		}
		for _, rate := range c.Jumps.Rates {
			if rate < 0 || math.IsNaN(rate) {
				return &ConfigError{Field: "Jumps.Rates", Reason: "rates must be >= 0"}
			}
		}
		if c.Jumps.AmplitudeVar == nil {
			return &ConfigError{Field: "Jumps.AmplitudeVar", Reason: "must not be nil"}
		}
		if r, cols := c.Jumps.AmplitudeVar.Dims(); r != c.Dim || cols != c.Dim {
			return &ConfigError{Field: "Jumps.AmplitudeVar", Reason: "must be Dim x Dim"}
		}
	}

	return nil
}

// Path is the discretized sample path produced by a run. Times[i] == i*Dt and
// States[0] equals the configured initial state. The buffers are exclusively
// owned by the caller once returned.
type Path struct {
	Times  []float64
	States []State

	// Partial marks a path truncated by cancellation; only the completed
	// prefix is present.
	Partial bool
}

// Dim reports the state dimension, or 0 for an empty path.
func (p *Path) Dim() int {
	if len(p.States) == 0 {
		return 0
	}
	return len(p.States[0])
}

// Component extracts one coordinate as a flat series, for plotting and
// statistics.
func (p *Path) Component(k int) []float64 {
	out := make([]float64, len(p.States))
	for i, s := range p.States {
		out[i] = s[k]
	}
	return out
}

// Observer receives each accepted state as the path is generated.
type Observer interface {
	OnStep(x State, t float64)
}
