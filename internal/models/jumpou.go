package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

// JumpOrnsteinUhlenbeck adds a compound-Poisson jump term to the
// mean-reverting diffusion: per-dimension jump rates and an entrywise
// amplitude variance matrix.
type JumpOrnsteinUhlenbeck struct {
	OrnsteinUhlenbeck
	Rates  []float64
	AmpVar *mat.Dense
}

func NewJumpOrnsteinUhlenbeck() *JumpOrnsteinUhlenbeck {
	return &JumpOrnsteinUhlenbeck{
		OrnsteinUhlenbeck: OrnsteinUhlenbeck{Theta: []float64{0.3}, Sigma: []float64{0.1}},
		Rates:             []float64{0.5},
		AmpVar:            mat.NewDense(1, 1, []float64{0.04}),
	}
}

func (p *JumpOrnsteinUhlenbeck) Name() string { return "jump" }

func (p *JumpOrnsteinUhlenbeck) Jumps() *stochastic.JumpSpec {
	return &stochastic.JumpSpec{
		Rates:        append([]float64(nil), p.Rates...),
		AmplitudeVar: mat.DenseCopyOf(p.AmpVar),
	}
}

func (p *JumpOrnsteinUhlenbeck) GetParams() map[string]float64 {
	params := p.OrnsteinUhlenbeck.GetParams()
	params["rate"] = p.Rates[0]
	params["ampvar"] = p.AmpVar.At(0, 0)
	return params
}

func (p *JumpOrnsteinUhlenbeck) SetParam(name string, v float64) error {
	switch name {
	case "rate":
		for k := range p.Rates {
			p.Rates[k] = v
		}
	case "ampvar":
		r, c := p.AmpVar.Dims()
		for a := 0; a < r; a++ {
			for b := 0; b < c; b++ {
				p.AmpVar.Set(a, b, v)
			}
		}
	default:
		if err := p.OrnsteinUhlenbeck.SetParam(name, v); err != nil {
			return fmt.Errorf("jump: unknown parameter %q", name)
		}
	}
	return nil
}
