// Package estimate defines the call contract for the external
// Kramers-Moyal coefficient estimator consuming simulated paths, together
// with the caller-side conventions the contract obligates: dividing raw
// moment surfaces by the step size, and trimming statistically unreliable
// grid margins. The estimator itself lives outside this repository.
package estimate

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

// Request parameterizes one estimation call. Powers are multi-indices, one
// per requested coefficient surface; the all-zero entry is mandatory and
// yields the occupation (normalization) count.
type Request struct {
	Bandwidth float64
	Bins      []int
	Powers    [][]int
}

func (r Request) Validate() error {
	if r.Bandwidth <= 0 {
		return errors.New("estimate: bandwidth must be positive")
	}
	if len(r.Bins) == 0 {
		return errors.New("estimate: bins must not be empty")
	}
	for _, b := range r.Bins {
		if b <= 0 {
			return errors.New("estimate: bin counts must be positive")
		}
	}
	hasZero := false
	for _, p := range r.Powers {
		if len(p) != len(r.Bins) {
			return errors.New("estimate: power multi-index length must match bins")
		}
		zero := true
		for _, e := range p {
			if e < 0 {
				return errors.New("estimate: power entries must be >= 0")
			}
			if e != 0 {
				zero = false
			}
		}
		if zero {
			hasZero = true
		}
	}
	if !hasZero {
		return errors.New("estimate: the all-zero power (occupation count) is mandatory")
	}
	return nil
}

// Surface is one estimated coefficient surface, flattened row-major over the
// grid defined by Surfaces.Bins.
type Surface struct {
	Power  []int
	Values []float64
}

// IsOccupation reports whether this is the normalization surface.
func (s Surface) IsOccupation() bool {
	for _, e := range s.Power {
		if e != 0 {
			return false
		}
	}
	return true
}

// Surfaces is the estimator output: per-dimension cell edges spanning the
// observed state range, plus one surface per requested power.
type Surfaces struct {
	Bins     []int
	Edges    [][]float64
	Surfaces []Surface
}

// Estimator is the external coefficient-recovery service.
type Estimator interface {
	Estimate(states []stochastic.State, req Request) (*Surfaces, error)
}

// Normalize divides every moment surface by dt in place, converting raw
// conditional moments into Kramers-Moyal coefficients. The occupation
// surface is left untouched.
func Normalize(s *Surfaces, dt float64) error {
	if dt <= 0 {
		return errors.New("estimate: dt must be positive")
	}
	for i := range s.Surfaces {
		if s.Surfaces[i].IsOccupation() {
			continue
		}
		floats.Scale(1/dt, s.Surfaces[i].Values)
	}
	return nil
}

// TrimEdges returns a copy of s with margin cells removed from both ends of
// every axis. Boundary cells see few samples and dominate estimator error;
// the contract expects callers to discard them before interpretation.
func TrimEdges(s *Surfaces, margin int) (*Surfaces, error) {
	if margin < 0 {
		return nil, errors.New("estimate: margin must be >= 0")
	}
	dims := len(s.Bins)
	outBins := make([]int, dims)
	for k, b := range s.Bins {
		outBins[k] = b - 2*margin
		if outBins[k] <= 0 {
			return nil, fmt.Errorf("estimate: margin %d leaves no cells on axis %d", margin, k)
		}
	}

	outEdges := make([][]float64, dims)
	for k, e := range s.Edges {
		outEdges[k] = append([]float64(nil), e[margin:len(e)-margin]...)
	}

	inStride := strides(s.Bins)
	outCells := 1
	for _, b := range outBins {
		outCells *= b
	}

	out := &Surfaces{Bins: outBins, Edges: outEdges, Surfaces: make([]Surface, len(s.Surfaces))}
	idx := make([]int, dims)
	for i, surf := range s.Surfaces {
		vals := make([]float64, outCells)
		for k := range idx {
			idx[k] = 0
		}
		for cell := 0; cell < outCells; cell++ {
			src := 0
			for k := 0; k < dims; k++ {
				src += (idx[k] + margin) * inStride[k]
			}
			vals[cell] = surf.Values[src]

			for k := dims - 1; k >= 0; k-- {
				idx[k]++
				if idx[k] < outBins[k] {
					break
				}
				idx[k] = 0
			}
		}
		out.Surfaces[i] = Surface{Power: append([]int(nil), surf.Power...), Values: vals}
	}
	return out, nil
}

func strides(bins []int) []int {
	s := make([]int, len(bins))
	acc := 1
	for k := len(bins) - 1; k >= 0; k-- {
		s[k] = acc
		acc *= bins[k]
	}
	return s
}
