package stochastic

import (
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// noise bundles the random draws of one run behind a single seeded source.
// Draw order within a step is fixed: Wiener increments, then jump counts,
// then amplitude entries. Reordering would break seed reproducibility.
type noise struct {
	normal  distuv.Normal
	poisson []distuv.Poisson
	sqrtDt  float64
}

func newNoise(cfg Config) *noise {
	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := rand.NewSource(seed)

	n := &noise{
		normal: distuv.Normal{Mu: 0, Sigma: 1, Src: src},
		sqrtDt: math.Sqrt(cfg.Dt),
	}
	if cfg.Jumps != nil {
		n.poisson = make([]distuv.Poisson, cfg.Dim)
		for k, rate := range cfg.Jumps.Rates {
			n.poisson[k] = distuv.Poisson{Lambda: rate * cfg.Dt, Src: src}
		}
	}
	return n
}

// wiener fills dst with independent Gaussian increments of standard
// deviation sqrt(Dt). Brownian scaling, not Dt itself: this is what makes
// downstream coefficient recovery come out in physical units.
func (n *noise) wiener(dst []float64) {
	for i := range dst {
		dst[i] = n.normal.Rand() * n.sqrtDt
	}
}

// counts fills dst with per-dimension Poisson jump counts and reports
// whether any dimension jumped. Zero-rate dimensions consume no randomness,
// so a zero-rate jump spec replays the exact stream of a jump-free run.
func (n *noise) counts(dst []float64) bool {
	any := false
	for k := range dst {
		if n.poisson[k].Lambda > 0 {
			dst[k] = n.poisson[k].Rand()
			if dst[k] > 0 {
				any = true
			}
		} else {
			dst[k] = 0
		}
	}
	return any
}

// amplitudes fills dst with independent normal draws, entry (a,b) with
// variance v(a,b), in row-major order.
func (n *noise) amplitudes(dst, v *mat.Dense) {
	r, c := dst.Dims()
	for a := 0; a < r; a++ {
		for b := 0; b < c; b++ {
			dst.Set(a, b, n.normal.Rand()*math.Sqrt(v.At(a, b)))
		}
	}
}
