package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/integrators"
	"github.com/san-kum/binhab/internal/metrics"
	"github.com/san-kum/binhab/internal/rotation"
)

// Registry maps configuration names onto integrators.
type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() dynamo.Integrator { return integrators.NewRK45() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = "rk4"
	}
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SyncTolerance is the relative distance to the synchronous period at which
// a star counts as locked.
const SyncTolerance = 0.05

// DefaultMetrics returns the spin metrics recorded for every star of sys.
// sys is only read; it should carry the same orbit and parameters as the
// evolved system.
func (r *Registry) DefaultMetrics(sys *rotation.SpinSystem, tau0 float64) []dynamo.Metric {
	var out []dynamo.Metric
	for i, star := range sys.Stars {
		if star == nil {
			continue
		}
		out = append(out,
			metrics.NewMinPeriod(i),
			metrics.NewFinalPeriod(i),
			metrics.NewBreakup(i, star.Mass(), star.RadiusAt(tau0)),
			metrics.NewAngularMomentum(star, i),
		)
		if !sys.Tides {
			continue
		}
		out = append(out, metrics.NewSyncTime(i, sys.Orbit.SyncRate(), SyncTolerance))
		// the fitted laws only exist inside the run
		if sys.Braking == rotation.BrakingPhysical {
			out = append(out, metrics.NewTidalShare(sys, i))
		}
	}
	return out
}
