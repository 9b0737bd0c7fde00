package ensemble

import (
	"context"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/catonlyprep/stochsim/internal/stochastic"
)

func flatConfig(sigma, dt float64, steps int) stochastic.Config {
	return stochastic.Config{
		Dim:   1,
		Steps: steps,
		Dt:    dt,
		Drift: func(y stochastic.State) stochastic.State { return stochastic.State{0} },
		Diffusion: func(stochastic.State) *mat.Dense {
			return mat.NewDense(1, 1, []float64{sigma})
		},
		Initial: stochastic.State{0},
	}
}

func TestEnsembleRun(t *testing.T) {
	paths, err := New(8, 100).Run(context.Background(), flatConfig(0.5, 0.01, 50))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(paths) != 8 {
		t.Fatalf("got %d paths, want 8", len(paths))
	}

	// Distinct seeds, distinct realizations.
	same := true
	for i := range paths[0].States {
		if paths[0].States[i][0] != paths[1].States[i][0] {
			same = false
			break
		}
	}
	if same {
		t.Error("two ensemble members are identical")
	}
}

func TestEnsembleRun_PropagatesError(t *testing.T) {
	cfg := flatConfig(0.5, 0.01, 50)
	cfg.Dim = 0

	if _, err := New(4, 1).Run(context.Background(), cfg); err == nil {
		t.Fatal("expected config error")
	}
}

// For zero drift and constant diffusion sigma the increment variance is
// sigma^2 * dt (Brownian scaling).
func TestIncrementVariance_BrownianScaling(t *testing.T) {
	const (
		sigma = 0.3
		dt    = 0.01
	)

	paths, err := New(300, 1).Run(context.Background(), flatConfig(sigma, dt, 200))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	got := IncrementVariance(paths, 0)
	want := sigma * sigma * dt
	if math.Abs(got-want)/want > 0.05 {
		t.Errorf("increment variance = %.8f, want %.8f within 5%%", got, want)
	}
}

func TestFinalMoments(t *testing.T) {
	paths, err := New(100, 7).Run(context.Background(), flatConfig(0.5, 0.01, 100))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	mean, variance := FinalMoments(paths, 0)
	// Driftless diffusion from the origin: mean ~ 0, variance ~ sigma^2 * T.
	wantVar := 0.5 * 0.5 * 0.01 * 99
	if math.Abs(mean) > 0.2 {
		t.Errorf("final mean = %v, want ~0", mean)
	}
	if variance < wantVar*0.5 || variance > wantVar*1.5 {
		t.Errorf("final variance = %v, want ~%v", variance, wantVar)
	}
}
