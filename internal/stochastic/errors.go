package stochastic

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a coefficient function produced NaN or Inf.
	ErrInvalidState = errors.New("stochastic: invalid value (NaN or Inf detected)")

	// ErrDimensionMismatch indicates a coefficient function changed output
	// shape mid-run.
	ErrDimensionMismatch = errors.New("stochastic: dimension mismatch")
)

// ConfigError reports an invalid Config field, detected before integration
// begins.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("stochastic: config field %s: %s", e.Field, e.Reason)
}

// EvalError reports a drift or diffusion evaluation failure on an
// intermediate state. The run is aborted; no partial path is returned.
type EvalError struct {
	Step    int
	Time    float64
	Func    string
	Wrapped error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("stochastic: %s evaluation at step %d (t=%.6f): %v", e.Func, e.Step, e.Time, e.Wrapped)
}

func (e *EvalError) Unwrap() error {
	return e.Wrapped
}
