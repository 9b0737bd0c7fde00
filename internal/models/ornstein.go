package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

// OrnsteinUhlenbeck is a d-dimensional mean-reverting process with
// decoupled components:
//
//	dy_k = -theta_k y_k dt + sigma_k dW_k
type OrnsteinUhlenbeck struct {
	Theta []float64
	Sigma []float64
}

func NewOrnsteinUhlenbeck() *OrnsteinUhlenbeck {
	return &OrnsteinUhlenbeck{Theta: []float64{0.3}, Sigma: []float64{0.1}}
}

// NewOrnsteinUhlenbeck2D is the decoupled two-dimensional variant, each
// component reverting at its own rate.
func NewOrnsteinUhlenbeck2D() *OrnsteinUhlenbeck {
	return &OrnsteinUhlenbeck{Theta: []float64{2.0, 1.0}, Sigma: []float64{0.5, 0.5}}
}

func (p *OrnsteinUhlenbeck) Name() string { return "ou" }
func (p *OrnsteinUhlenbeck) Dim() int     { return len(p.Theta) }

func (p *OrnsteinUhlenbeck) Drift() stochastic.Drift {
	theta := append([]float64(nil), p.Theta...)
	return func(y stochastic.State) stochastic.State {
		out := make(stochastic.State, len(theta))
		for k := range theta {
			out[k] = -theta[k] * y[k]
		}
		return out
	}
}

func (p *OrnsteinUhlenbeck) Diffusion() stochastic.Diffusion {
	d := p.Dim()
	g := mat.NewDense(d, d, nil)
	for k := 0; k < d; k++ {
		g.Set(k, k, p.Sigma[k])
	}
	// Constant coefficient: one matrix, returned for every state.
	return func(stochastic.State) *mat.Dense { return g }
}

func (p *OrnsteinUhlenbeck) DefaultState() stochastic.State {
	return make(stochastic.State, p.Dim())
}

// StationaryVariance returns sigma_k^2 / (2 theta_k) per component.
func (p *OrnsteinUhlenbeck) StationaryVariance() []float64 {
	out := make([]float64, p.Dim())
	for k := range out {
		out[k] = p.Sigma[k] * p.Sigma[k] / (2 * p.Theta[k])
	}
	return out
}

func (p *OrnsteinUhlenbeck) GetParams() map[string]float64 {
	return map[string]float64{"theta": p.Theta[0], "sigma": p.Sigma[0]}
}

// SetParam applies a scalar parameter to every component.
func (p *OrnsteinUhlenbeck) SetParam(name string, v float64) error {
	switch name {
	case "theta":
		for k := range p.Theta {
			p.Theta[k] = v
		}
	case "sigma":
		for k := range p.Sigma {
			p.Sigma[k] = v
		}
	default:
		return fmt.Errorf("ou: unknown parameter %q", name)
	}
	return nil
}
