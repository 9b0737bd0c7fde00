package stochastic

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Stepper advances a jump-diffusion process one Euler-Maruyama step at a
// time. It owns its random source and scratch buffers and must not be shared
// across goroutines.
type Stepper struct {
	cfg Config
	rng *noise
	x   State
	i   int

	dW    []float64
	dJ    []float64
	dWVec *mat.VecDense
	dJVec *mat.VecDense
	diff  mat.VecDense
	jump  mat.VecDense
	amp   *mat.Dense
}

// NewStepper validates cfg and prepares a stepper positioned at the initial
// state.
func NewStepper(cfg Config) (*Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	st := &Stepper{
		cfg: cfg,
		rng: newNoise(cfg),
		x:   cfg.Initial.Clone(),
		dW:  make([]float64, cfg.Dim),
	}
	st.dWVec = mat.NewVecDense(cfg.Dim, st.dW)
	if cfg.Jumps != nil {
		st.dJ = make([]float64, cfg.Dim)
		st.dJVec = mat.NewVecDense(cfg.Dim, st.dJ)
		st.amp = mat.NewDense(cfg.Dim, cfg.Dim, nil)
	}
	return st, nil
}

// State returns the current state. The slice is replaced, never mutated, on
// each step, so holding a reference is safe.
func (st *Stepper) State() State { return st.x }

// Time returns the time of the current state.
func (st *Stepper) Time() float64 { return float64(st.i) * st.cfg.Dt }

// Step advances one discretization step and returns the new state and its
// timestamp. Draw order is fixed per step: Wiener increments, then jump
// counts, then one amplitude matrix when any dimension jumped.
func (st *Stepper) Step() (State, float64, error) {
	d := st.cfg.Dim
	t := st.Time()

	st.rng.wiener(st.dW)

	g, err := st.evalDiffusion(t)
	if err != nil {
		return nil, 0, err
	}
	st.diff.MulVec(g, st.dWVec)

	drift, err := st.evalDrift(t)
	if err != nil {
		return nil, 0, err
	}

	next := make(State, d)
	for k := 0; k < d; k++ {
		next[k] = st.x[k] + drift[k]*st.cfg.Dt + st.diff.AtVec(k)
	}

	// Jump term: one amplitude matrix per step with at least one jump,
	// applied to the count vector. Steps with no jump add exactly zero and
	// draw no amplitudes.
	if st.cfg.Jumps != nil && st.rng.counts(st.dJ) {
		st.rng.amplitudes(st.amp, st.cfg.Jumps.AmplitudeVar)
		st.jump.MulVec(st.amp, st.dJVec)
		for k := 0; k < d; k++ {
			next[k] += st.jump.AtVec(k)
		}
	}

	st.x = next
	st.i++
	return next, st.Time(), nil
}

func (st *Stepper) evalDrift(t float64) (State, error) {
	v := st.cfg.Drift(st.x)
	if len(v) != st.cfg.Dim {
		return nil, &EvalError{Step: st.i, Time: t, Func: "drift", Wrapped: ErrDimensionMismatch}
	}
	if st.cfg.ValidateState && !v.IsValid() {
		return nil, &EvalError{Step: st.i, Time: t, Func: "drift", Wrapped: ErrInvalidState}
	}
	return v, nil
}

func (st *Stepper) evalDiffusion(t float64) (*mat.Dense, error) {
	g := st.cfg.Diffusion(st.x)
	if g == nil {
		return nil, &EvalError{Step: st.i, Time: t, Func: "diffusion", Wrapped: ErrDimensionMismatch}
	}
	if r, c := g.Dims(); r != st.cfg.Dim || c != st.cfg.Dim {
		return nil, &EvalError{Step: st.i, Time: t, Func: "diffusion", Wrapped: ErrDimensionMismatch}
	}
	if st.cfg.ValidateState {
		for _, v := range g.RawMatrix().Data {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &EvalError{Step: st.i, Time: t, Func: "diffusion", Wrapped: ErrInvalidState}
			}
		}
	}
	return g, nil
}
