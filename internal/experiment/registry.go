package experiment

import (
	"fmt"
	"sort"

	"github.com/catonlyprep/stochsim/internal/models"
)

// Registry maps process names to fresh model instances.
type Registry struct {
	processes map[string]func() models.Process
}

func NewRegistry() *Registry {
	r := &Registry{processes: make(map[string]func() models.Process)}

	r.processes["ou"] = func() models.Process { return models.NewOrnsteinUhlenbeck() }
	r.processes["ou2d"] = func() models.Process { return models.NewOrnsteinUhlenbeck2D() }
	r.processes["quadratic"] = func() models.Process { return models.NewQuadraticNoise() }
	r.processes["jump"] = func() models.Process { return models.NewJumpOrnsteinUhlenbeck() }
	r.processes["coupled"] = func() models.Process { return models.NewCoupledOrnsteinUhlenbeck() }

	return r
}

func (r *Registry) GetProcess(name string) (models.Process, error) {
	fn, ok := r.processes[name]
	if !ok {
		return nil, fmt.Errorf("unknown process: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListProcesses() []string {
	names := make([]string, 0, len(r.processes))
	for name := range r.processes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
