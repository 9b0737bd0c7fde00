package stochastic

import "context"

// Simulator produces complete sample paths. Observers, if any, see every
// accepted state including the initial one.
type Simulator struct {
	observers []Observer
}

func New() *Simulator {
	return &Simulator{observers: make([]Observer, 0)}
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates the configured process and returns its path. Cancellation
// is checked between steps; on cancellation the completed prefix is returned
// with Path.Partial set, alongside the context error. Config and evaluation
// failures return no path at all.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Path, error) {
	st, err := NewStepper(cfg)
	if err != nil {
		return nil, err
	}

	path := &Path{
		Times:  make([]float64, 1, cfg.Steps),
		States: make([]State, 1, cfg.Steps),
	}
	path.Times[0] = 0
	path.States[0] = st.State()
	for _, o := range s.observers {
		o.OnStep(path.States[0], 0)
	}

	for i := 1; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			path.Partial = true
			return path, ctx.Err()
		default:
		}

		x, t, err := st.Step()
		if err != nil {
			return nil, err
		}

		path.States = append(path.States, x)
		path.Times = append(path.Times, t)
		for _, o := range s.observers {
			o.OnStep(x, t)
		}
	}

	return path, nil
}
