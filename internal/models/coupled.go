package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

// CoupledOrnsteinUhlenbeck relaxes the decoupled form to a full drift matrix
// and a full diffusion matrix:
//
//	dy = -Theta y dt + Sigma dW
//
// Off-diagonal Sigma entries inject correlated noise across components.
type CoupledOrnsteinUhlenbeck struct {
	Theta *mat.Dense
	Sigma *mat.Dense
}

func NewCoupledOrnsteinUhlenbeck() *CoupledOrnsteinUhlenbeck {
	return &CoupledOrnsteinUhlenbeck{
		Theta: mat.NewDense(2, 2, []float64{1.0, 0.2, 0.2, 1.0}),
		Sigma: mat.NewDense(2, 2, []float64{0.3, 0.1, 0.1, 0.3}),
	}
}

func (p *CoupledOrnsteinUhlenbeck) Name() string { return "coupled" }

func (p *CoupledOrnsteinUhlenbeck) Dim() int {
	r, _ := p.Theta.Dims()
	return r
}

func (p *CoupledOrnsteinUhlenbeck) Drift() stochastic.Drift {
	theta := mat.DenseCopyOf(p.Theta)
	d := p.Dim()
	return func(y stochastic.State) stochastic.State {
		var v mat.VecDense
		v.MulVec(theta, mat.NewVecDense(d, y))
		out := make(stochastic.State, d)
		for k := 0; k < d; k++ {
			out[k] = -v.AtVec(k)
		}
		return out
	}
}

func (p *CoupledOrnsteinUhlenbeck) Diffusion() stochastic.Diffusion {
	g := mat.DenseCopyOf(p.Sigma)
	return func(stochastic.State) *mat.Dense { return g }
}

func (p *CoupledOrnsteinUhlenbeck) DefaultState() stochastic.State {
	return make(stochastic.State, p.Dim())
}

func (p *CoupledOrnsteinUhlenbeck) GetParams() map[string]float64 {
	return map[string]float64{
		"theta":    p.Theta.At(0, 0),
		"coupling": p.Theta.At(0, 1),
		"sigma":    p.Sigma.At(0, 0),
		"mix":      p.Sigma.At(0, 1),
	}
}

func (p *CoupledOrnsteinUhlenbeck) SetParam(name string, v float64) error {
	d := p.Dim()
	setDiag := func(m *mat.Dense) {
		for k := 0; k < d; k++ {
			m.Set(k, k, v)
		}
	}
	setOffDiag := func(m *mat.Dense) {
		for a := 0; a < d; a++ {
			for b := 0; b < d; b++ {
				if a != b {
					m.Set(a, b, v)
				}
			}
		}
	}
	switch name {
	case "theta":
		setDiag(p.Theta)
	case "coupling":
		setOffDiag(p.Theta)
	case "sigma":
		setDiag(p.Sigma)
	case "mix":
		setOffDiag(p.Sigma)
	default:
		return fmt.Errorf("coupled: unknown parameter %q", name)
	}
	return nil
}
