package stochastic

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

func ouConfig(theta, sigma, dt float64, steps int, seed int64) Config {
	return Config{
		Dim:   1,
		Steps: steps,
		Dt:    dt,
		Drift: func(y State) State { return State{-theta * y[0]} },
		Diffusion: func(State) *mat.Dense {
			return mat.NewDense(1, 1, []float64{sigma})
		},
		Initial: State{0},
		Seed:    seed,
	}
}

func TestRun_Shape(t *testing.T) {
	cfg := ouConfig(0.3, 0.1, 0.01, 1000, 5)
	cfg.Initial = State{0.7}

	path, err := New().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(path.Times) != cfg.Steps || len(path.States) != cfg.Steps {
		t.Fatalf("got %d times, %d states, want %d each", len(path.Times), len(path.States), cfg.Steps)
	}
	if path.States[0][0] != 0.7 {
		t.Errorf("States[0] = %v, want initial state", path.States[0])
	}
	if path.Partial {
		t.Error("completed run flagged partial")
	}
	for _, i := range []int{0, 1, 499, 999} {
		want := float64(i) * cfg.Dt
		if math.Abs(path.Times[i]-want) > 1e-12 {
			t.Errorf("Times[%d] = %v, want %v", i, path.Times[i], want)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	cfg := ouConfig(0.3, 0.1, 0.001, 2000, 42)

	a, err := New().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	b, err := New().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	for i := range a.States {
		if a.States[i][0] != b.States[i][0] {
			t.Fatalf("step %d: %v != %v", i, a.States[i][0], b.States[i][0])
		}
	}
}

func TestRun_SeedsDiffer(t *testing.T) {
	a, _ := New().Run(context.Background(), ouConfig(0.3, 0.1, 0.01, 100, 1))
	b, _ := New().Run(context.Background(), ouConfig(0.3, 0.1, 0.01, 100, 2))

	same := true
	for i := range a.States {
		if a.States[i][0] != b.States[i][0] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical paths")
	}
}

// A zero-rate jump spec must reproduce the jump-free path bit for bit under
// the same seed.
func TestRun_NoJumpInvariance(t *testing.T) {
	plain := ouConfig(0.3, 0.1, 0.01, 500, 11)

	jumpy := plain
	jumpy.Jumps = &JumpSpec{
		Rates:        []float64{0},
		AmplitudeVar: mat.NewDense(1, 1, []float64{1e6}),
	}

	a, err := New().Run(context.Background(), plain)
	if err != nil {
		t.Fatalf("plain run failed: %v", err)
	}
	b, err := New().Run(context.Background(), jumpy)
	if err != nil {
		t.Fatalf("zero-rate run failed: %v", err)
	}

	for i := range a.States {
		if a.States[i][0] != b.States[i][0] {
			t.Fatalf("step %d: zero-rate jump spec changed the path", i)
		}
	}
}

func TestRun_JumpsFire(t *testing.T) {
	plain := ouConfig(0.3, 0.1, 0.01, 500, 11)

	jumpy := plain
	jumpy.Jumps = &JumpSpec{
		Rates:        []float64{50}, // lambda*dt = 0.5, jumps on roughly 40% of steps
		AmplitudeVar: mat.NewDense(1, 1, []float64{0.25}),
	}

	a, _ := New().Run(context.Background(), plain)
	b, err := New().Run(context.Background(), jumpy)
	if err != nil {
		t.Fatalf("jump run failed: %v", err)
	}

	diverged := false
	for i := range a.States {
		if a.States[i][0] != b.States[i][0] {
			diverged = true
			break
		}
	}
	if !diverged {
		t.Error("jump term never fired at rate*dt = 0.5 over 500 steps")
	}

	// And jump runs stay reproducible.
	c, _ := New().Run(context.Background(), jumpy)
	for i := range b.States {
		if b.States[i][0] != c.States[i][0] {
			t.Fatalf("step %d: jump run not deterministic", i)
		}
	}
}

func TestRun_DriftDimensionChangeMidRun(t *testing.T) {
	cfg := ouConfig(0.3, 0.1, 0.01, 100, 3)
	calls := 0
	cfg.Drift = func(y State) State {
		calls++
		if calls > 1 { // first call is the validation probe
			return State{0, 0}
		}
		return State{0}
	}

	_, err := New().Run(context.Background(), cfg)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var eerr *EvalError
	if !errors.As(err, &eerr) {
		t.Fatalf("expected EvalError, got %T", err)
	}
	if eerr.Func != "drift" {
		t.Errorf("Func = %q, want drift", eerr.Func)
	}
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Error("expected ErrDimensionMismatch in chain")
	}
}

func TestRun_ValidateStateCatchesNaN(t *testing.T) {
	cfg := ouConfig(0.3, 0.1, 0.01, 100, 3)
	cfg.ValidateState = true
	cfg.Drift = func(y State) State { return State{math.NaN()} }

	_, err := New().Run(context.Background(), cfg)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestRun_CancelReturnsPartialPrefix(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path, err := New().Run(ctx, ouConfig(0.3, 0.1, 0.01, 1000, 3))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if path == nil || !path.Partial {
		t.Fatal("expected partial path")
	}
	if len(path.States) == 0 || len(path.States) >= 1000 {
		t.Errorf("prefix length %d out of range", len(path.States))
	}
	if len(path.States) != len(path.Times) {
		t.Error("prefix times and states out of sync")
	}
}

type recordingObserver struct {
	n int
}

func (o *recordingObserver) OnStep(x State, t float64) { o.n++ }

func TestRun_ObserverSeesEveryState(t *testing.T) {
	sim := New()
	obs := &recordingObserver{}
	sim.AddObserver(obs)

	_, err := sim.Run(context.Background(), ouConfig(0.3, 0.1, 0.01, 250, 3))
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if obs.n != 250 {
		t.Errorf("observer saw %d states, want 250", obs.n)
	}
}

// The stationary variance of an Ornstein-Uhlenbeck process is
// sigma^2/(2 theta); the late half of a long path should approximate it.
func TestRun_MeanReversionStationaryVariance(t *testing.T) {
	if testing.Short() {
		t.Skip("long statistical test")
	}

	const (
		theta = 0.3
		sigma = 0.1
		want  = sigma * sigma / (2 * theta)
	)

	var pooled []float64
	for _, seed := range []int64{11, 22, 33, 44} {
		path, err := New().Run(context.Background(), ouConfig(theta, sigma, 0.001, 500000, seed))
		if err != nil {
			t.Fatalf("seed %d: run failed: %v", seed, err)
		}
		series := path.Component(0)
		pooled = append(pooled, series[len(series)/2:]...)
	}

	got := stat.Variance(pooled, nil)
	if got < want*0.65 || got > want*1.35 {
		t.Errorf("late variance = %.6f, want %.6f within 35%%", got, want)
	}
}

// Two decoupled dimensions each behave like their own one-dimensional
// mean-reverting process.
func TestRun_TwoDimensionalDecoupled(t *testing.T) {
	if testing.Short() {
		t.Skip("long statistical test")
	}

	thetas := []float64{2.0, 1.0}
	sigmas := []float64{0.5, 0.5}

	cfg := Config{
		Dim:   2,
		Steps: 200000,
		Dt:    0.001,
		Drift: func(y State) State {
			return State{-thetas[0] * y[0], -thetas[1] * y[1]}
		},
		Diffusion: func(State) *mat.Dense {
			return mat.NewDense(2, 2, []float64{sigmas[0], 0, 0, sigmas[1]})
		},
		Initial: State{0, 0},
	}

	var late [2][]float64
	for _, seed := range []int64{5, 6} {
		cfg.Seed = seed
		path, err := New().Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("seed %d: run failed: %v", seed, err)
		}
		for k := 0; k < 2; k++ {
			series := path.Component(k)
			late[k] = append(late[k], series[len(series)/2:]...)
		}
	}

	for k := 0; k < 2; k++ {
		want := sigmas[k] * sigmas[k] / (2 * thetas[k])
		got := stat.Variance(late[k], nil)
		if got < want*0.6 || got > want*1.4 {
			t.Errorf("dim %d: late variance = %.6f, want %.6f within 40%%", k, got, want)
		}
	}
}

// Off-diagonal diffusion must correlate the increments of the two
// components.
func TestRun_MixedDiffusionCorrelatesNoise(t *testing.T) {
	cfg := Config{
		Dim:   2,
		Steps: 20000,
		Dt:    0.01,
		Drift: func(y State) State { return State{0, 0} },
		Diffusion: func(State) *mat.Dense {
			return mat.NewDense(2, 2, []float64{1, 0.8, 0.8, 1})
		},
		Initial: State{0, 0},
		Seed:    9,
	}

	path, err := New().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	var inc0, inc1 []float64
	for i := 1; i < len(path.States); i++ {
		inc0 = append(inc0, path.States[i][0]-path.States[i-1][0])
		inc1 = append(inc1, path.States[i][1]-path.States[i-1][1])
	}

	// For g = [[1, .8], [.8, 1]] the increment correlation is
	// 2*0.8/(1+0.64) ~= 0.976.
	corr := stat.Correlation(inc0, inc1, nil)
	if corr < 0.9 {
		t.Errorf("increment correlation = %.3f, want > 0.9", corr)
	}
}

func TestStepper_StateDependentDiffusion(t *testing.T) {
	// Diffusion proportional to |y| keeps the origin absorbing: starting at
	// zero with zero drift, every increment is exactly zero.
	cfg := Config{
		Dim:   1,
		Steps: 100,
		Dt:    0.01,
		Drift: func(y State) State { return State{0} },
		Diffusion: func(y State) *mat.Dense {
			return mat.NewDense(1, 1, []float64{math.Abs(y[0])})
		},
		Initial: State{0},
		Seed:    4,
	}

	path, err := New().Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for i, s := range path.States {
		if s[0] != 0 {
			t.Fatalf("step %d: state %v, want 0", i, s[0])
		}
	}
}
