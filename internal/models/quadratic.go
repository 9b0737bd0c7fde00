package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

// QuadraticNoise is a mean-reverting process whose diffusion grows with the
// state, the multiplicative-noise scenario:
//
//	dy_k = -theta_k y_k dt + sqrt(a_k + b_k y_k^2) dW_k
type QuadraticNoise struct {
	Theta []float64
	A     []float64
	B     []float64
}

func NewQuadraticNoise() *QuadraticNoise {
	return &QuadraticNoise{Theta: []float64{0.3}, A: []float64{0.01}, B: []float64{0.04}}
}

func (p *QuadraticNoise) Name() string { return "quadratic" }
func (p *QuadraticNoise) Dim() int     { return len(p.Theta) }

func (p *QuadraticNoise) Drift() stochastic.Drift {
	theta := append([]float64(nil), p.Theta...)
	return func(y stochastic.State) stochastic.State {
		out := make(stochastic.State, len(theta))
		for k := range theta {
			out[k] = -theta[k] * y[k]
		}
		return out
	}
}

func (p *QuadraticNoise) Diffusion() stochastic.Diffusion {
	d := p.Dim()
	a := append([]float64(nil), p.A...)
	b := append([]float64(nil), p.B...)
	return func(y stochastic.State) *mat.Dense {
		g := mat.NewDense(d, d, nil)
		for k := 0; k < d; k++ {
			g.Set(k, k, math.Sqrt(a[k]+b[k]*y[k]*y[k]))
		}
		return g
	}
}

func (p *QuadraticNoise) DefaultState() stochastic.State {
	return make(stochastic.State, p.Dim())
}

func (p *QuadraticNoise) GetParams() map[string]float64 {
	return map[string]float64{"theta": p.Theta[0], "a": p.A[0], "b": p.B[0]}
}

func (p *QuadraticNoise) SetParam(name string, v float64) error {
	switch name {
	case "theta":
		for k := range p.Theta {
			p.Theta[k] = v
		}
	case "a":
		for k := range p.A {
			p.A[k] = v
		}
	case "b":
		for k := range p.B {
			p.B[k] = v
		}
	default:
		return fmt.Errorf("quadratic: unknown parameter %q", name)
	}
	return nil
}
