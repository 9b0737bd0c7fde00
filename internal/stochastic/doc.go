// Package stochastic provides the core primitives for simulating
// d-dimensional jump-diffusion processes with the Euler-Maruyama scheme:
//
//   - [State]: vector representing the process state
//   - [Drift], [Diffusion]: user-supplied coefficient functions
//   - [JumpSpec]: optional compound-Poisson jump term
//   - [Config]: validated per-run parameters
//   - [Stepper]: single-step integration with owned randomness
//   - [Simulator]: produces a complete [Path]
//
// # Example
//
//	cfg := stochastic.Config{
//		Dim:       1,
//		Steps:     100000,
//		Dt:        0.001,
//		Drift:     func(y stochastic.State) stochastic.State { return stochastic.State{-0.3 * y[0]} },
//		Diffusion: func(y stochastic.State) *mat.Dense { return mat.NewDense(1, 1, []float64{0.1}) },
//		Initial:   stochastic.State{0},
//		Seed:      42,
//	}
//	path, _ := stochastic.New().Run(ctx, cfg)
//
// # Thread Safety
//
// A Stepper owns its random source and must not be shared across goroutines.
// Independent runs with independent seeds are fully parallel; see the
// ensemble package.
package stochastic
