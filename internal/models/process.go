// Package models catalogs the stochastic processes the repository
// demonstrates: mean-reverting diffusion, state-dependent noise, and
// jump-diffusion variants.
package models

import "github.com/catonlyprep/stochsim/internal/stochastic"

// Process supplies the coefficient functions of a named jump-diffusion
// process.
type Process interface {
	Name() string
	Dim() int
	Drift() stochastic.Drift
	Diffusion() stochastic.Diffusion
	DefaultState() stochastic.State
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Jumper is implemented by processes carrying a compound-Poisson term.
type Jumper interface {
	Jumps() *stochastic.JumpSpec
}

// StationaryVariancer is implemented by processes with a closed-form
// stationary variance, used for summaries and sanity checks.
type StationaryVariancer interface {
	StationaryVariance() []float64
}
