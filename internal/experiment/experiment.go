// Package experiment wires the grid, the spin integrator and the flux
// aggregator into the runs the command line exposes.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/binhab/internal/binary"
	"github.com/san-kum/binhab/internal/config"
	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/habzone"
	"github.com/san-kum/binhab/internal/interaction"
	"github.com/san-kum/binhab/internal/isochrone"
	"github.com/san-kum/binhab/internal/rotation"
	"github.com/san-kum/binhab/internal/stellar"
)

var ErrNotSetup = errors.New("experiment: not set up")

// TrackSamples is the number of ages at which stellar tracks are sampled.
const TrackSamples = 200

// LoadGrid loads the isochrone variant chosen for z from dir. preferred may
// be empty.
func LoadGrid(dir string, z float64, preferred string, logger log.Logger) (*isochrone.Grid, error) {
	var pv isochrone.Variant
	if preferred != "" {
		v, err := isochrone.ParseVariant(preferred)
		if err != nil {
			return nil, err
		}
		pv = v
	}
	v, err := isochrone.ChooseVariant(z, pv)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		level.Debug(logger).Log("msg", "isochrone variant", "z", z, "variant", v)
	}
	return isochrone.NewLoader(dir, logger).Load(v.Metallicities())
}

// System is a configured binary resolved against the grid.
type System struct {
	Z        float64
	Orbit    binary.Geometry
	Tracks   [2]*stellar.Track // Tracks[1] is nil for a single star
	Lifetime float64           // Gyr, capped by the requested end

	// habitable zone at the configured age
	Binary habzone.Edges
	Single habzone.Edges
	HZAge  float64
}

func (s *System) IsBinary() bool { return s.Tracks[1] != nil }

func (s *System) star(i int) rotation.Star {
	if s.Tracks[i] == nil {
		return nil
	}
	return s.Tracks[i]
}

type Experiment struct {
	cfg      *config.Config
	resolver *stellar.Resolver
	registry *Registry
	logger   log.Logger

	system    *System
	observers []dynamo.Observer
}

func New(cfg *config.Config, grid *isochrone.Grid, logger log.Logger) *Experiment {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Experiment{
		cfg:      cfg,
		resolver: stellar.NewResolver(grid, logger),
		registry: NewRegistry(),
		logger:   logger,
	}
}

func (e *Experiment) Resolver() *stellar.Resolver { return e.resolver }

// AddObserver registers o on every spin integration the experiment runs.
func (e *Experiment) AddObserver(o dynamo.Observer) { e.observers = append(e.observers, o) }

// Setup resolves both stars: the system lifetime, their tracks and the
// habitable zone edges.
func (e *Experiment) Setup() (*System, error) {
	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sys := &System{Z: cfg.Metallicity()}
	b := cfg.Binary
	if b.M2 > 0 {
		g, err := cfg.Geometry()
		if err != nil {
			return nil, err
		}
		sys.Orbit = g
	} else {
		sys.Orbit = binary.Geometry{M1: b.M1}
	}

	tau0, tauMax := cfg.Integration.Tau0, cfg.Integration.TauMax
	masses := []float64{b.M1}
	if b.M2 > 0 {
		masses = append(masses, b.M2)
	}
	sys.Lifetime = tauMax
	for _, m := range masses {
		lt, ok := e.resolver.Lifetime(sys.Z, m, tau0, tauMax)
		if !ok {
			return nil, fmt.Errorf("%w: z=%g mass=%g at %g Gyr", stellar.ErrUnavailable, sys.Z, m, tau0)
		}
		sys.Lifetime = math.Min(sys.Lifetime, lt)
	}
	if sys.Lifetime <= tau0 {
		return nil, fmt.Errorf("%w: lifetime %g Gyr", rotation.ErrAgeRange, sys.Lifetime)
	}

	for i, m := range masses {
		tr, err := e.resolver.NewTrack(sys.Z, m, tau0, sys.Lifetime, TrackSamples)
		if err != nil {
			return nil, fmt.Errorf("experiment: track of star %d: %w", i+1, err)
		}
		sys.Tracks[i] = tr
	}

	if err := e.edges(sys); err != nil {
		return nil, err
	}
	level.Info(e.logger).Log("msg", "system ready", "z", sys.Z, "m1", b.M1, "m2", b.M2,
		"lifetime", sys.Lifetime, "hz_in", sys.Binary.Inner, "hz_out", sys.Binary.Outer)
	e.system = sys
	return sys, nil
}

func (e *Experiment) edges(sys *System) error {
	in, out, err := e.cfg.Criteria()
	if err != nil {
		return err
	}
	age := math.Min(e.cfg.HabZone.Age, sys.Lifetime)
	age = math.Max(age, e.cfg.Integration.Tau0)
	sys.HZAge = age

	s1 := e.resolver.State(sys.Z, sys.Orbit.M1, age)
	if !s1.OK {
		return fmt.Errorf("%w: primary at %g Gyr", stellar.ErrUnavailable, age)
	}
	sys.Single, err = habzone.Single(s1.Luminosity, s1.Temperature, in, out)
	if err != nil {
		return err
	}
	if !sys.IsBinary() {
		sys.Binary = sys.Single
		return nil
	}
	s2 := e.resolver.State(sys.Z, sys.Orbit.M2, age)
	if !s2.OK {
		return fmt.Errorf("%w: secondary at %g Gyr", stellar.ErrUnavailable, age)
	}
	sys.Binary, err = habzone.Binary(sys.Orbit.MassRatio(), s1.Luminosity, s2.Luminosity, s1.Temperature, sys.Orbit.A, in, out)
	return err
}

// Continuous scans the habitable zone over the system lifetime.
func (e *Experiment) Continuous() (*habzone.Continuous, error) {
	if e.system == nil {
		return nil, ErrNotSetup
	}
	if !e.system.IsBinary() {
		return nil, fmt.Errorf("experiment: continuous habitable zone needs a binary")
	}
	in, out, err := e.cfg.Criteria()
	if err != nil {
		return nil, err
	}
	o := e.system.Orbit
	return habzone.ContinuousHZ(e.resolver, habzone.System{
		Z: e.system.Z, M1: o.M1, M2: o.M2, Abin: o.A, Acrit: o.Acrit,
	}, habzone.ContinuousOptions{
		TMin:    e.cfg.Integration.Tau0,
		TMax:    e.cfg.Integration.TauMax,
		Samples: e.cfg.HabZone.Samples,
		Inner:   in,
		Outer:   out,
	})
}

// Evolve integrates the spins of the set-up system.
func (e *Experiment) Evolve(ctx context.Context) (*rotation.Evolution, error) {
	ev, _, err := e.evolve(ctx)
	return ev, err
}

// evolve also returns the rotation options the run was made with.
func (e *Experiment) evolve(ctx context.Context) (*rotation.Evolution, rotation.Options, error) {
	sys := e.system
	if sys == nil {
		return nil, rotation.Options{}, ErrNotSetup
	}
	opts, err := e.cfg.RotationOptions()
	if err != nil {
		return nil, opts, err
	}
	opts.Lifetime = sys.Lifetime
	opts.Integrator, err = e.registry.GetIntegrator(e.cfg.Integration.Integrator)
	if err != nil {
		return nil, opts, err
	}
	params := e.cfg.RotationParams()

	spin := rotation.NewSpinSystem(sys.star(0), sys.star(1), sys.Orbit, params)
	spin.Tides = opts.Tides && sys.IsBinary()
	spin.Braking = opts.Braking
	spin.Lifetime = sys.Lifetime
	opts.Metrics = e.registry.DefaultMetrics(spin, opts.Tau0)
	opts.Observers = append(opts.Observers, e.observers...)

	ev, err := rotation.Evolve(ctx, sys.star(0), sys.star(1), sys.Orbit, params, opts, e.logger)
	return ev, opts, err
}

// Report is the outcome of a full interaction run.
type Report struct {
	System      *System
	Evolution   *rotation.Evolution
	Environment *interaction.Table
	Fluence     *interaction.Fluence
	MassLoss    *interaction.MassLoss
}

// Interact runs the whole pipeline: spin evolution, flux histories,
// fluences and the atmospheric mass-loss ensemble.
func (e *Experiment) Interact(ctx context.Context) (*Report, error) {
	if e.system == nil {
		if _, err := e.Setup(); err != nil {
			return nil, err
		}
	}
	ev, opts, err := e.evolve(ctx)
	if err != nil {
		return nil, err
	}
	sys := e.system
	setup := interaction.Setup{
		Primary:   sys.star(0),
		Secondary: sys.star(1),
		Evolution: ev,
		Binary:    interaction.Sites{Inner: sys.Binary.Inner, Outer: sys.Binary.Outer, Planet: e.cfg.Planet.A},
		Single:    interaction.Sites{Inner: sys.Single.Inner, Outer: sys.Single.Outer, Planet: sys.Single.Earth},
		Early:     opts.Early,
	}
	env, err := interaction.Environment(setup, e.logger)
	if err != nil {
		return nil, err
	}
	flu, err := interaction.Integrate(env)
	if err != nil {
		return nil, err
	}
	ml, err := interaction.ComputeMassLoss(flu, e.cfg.MassLossOptions())
	if err != nil {
		return nil, err
	}
	level.Info(e.logger).Log("msg", "interaction done", "samples", env.Len(),
		"ml_planet", ml.Planet.Lost, "p_planet", ml.Planet.Pressure)
	return &Report{System: sys, Evolution: ev, Environment: env, Fluence: flu, MassLoss: ml}, nil
}
