package rotation

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/binhab/internal/binary"
	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/integrators"
	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/physics"
	"github.com/san-kum/binhab/internal/wind"
)

var ErrAgeRange = errors.New("rotation: empty integration range")

type Options struct {
	Tau0   float64 // Gyr
	TauMax float64 // requested final age, Gyr
	// Lifetime of the system in Gyr; TauMax is clamped to it. Zero means
	// unbounded.
	Lifetime float64

	Dt    float64 // largest fixed step, Gyr
	MinDt float64
	PFac  float64 // initial period in units of the wind period at Tau0

	Early   wind.Early
	Braking Braking
	Tides   bool

	// Integrator defaults to RK4. Adaptive stepping needs Tolerance.
	Integrator dynamo.Integrator
	Adaptive   bool
	Tolerance  float64

	LawSamples  int
	SampleEvery int

	Metrics   []dynamo.Metric
	Observers []dynamo.Observer
}

func DefaultOptions() Options {
	return Options{
		Tau0:        0.01,
		TauMax:      12.5,
		Dt:          1e-3,
		MinDt:       1e-5,
		PFac:        2,
		Early:       wind.EarlyConstant,
		Braking:     BrakingPhysical,
		Tides:       true,
		Tolerance:   1e-6,
		LawSamples:  50,
		SampleEvery: 10,
	}
}

// Evolution is the sampled output of Evolve. Per-star slices are indexed
// by component, 0 for the primary.
type Evolution struct {
	Times         []float64    // Gyr
	Omega         [2][]float64 // rad/s
	Period        [2][]float64 // days
	Terms         [2][]Terms
	RotationalAge [2][]float64 // Gyr, from the fitted period law

	InitialPeriod [2]float64 // days
	TSync         [2]float64 // Gyr, +Inf without tides
	Laws          [2]PeriodLaw
	Dt            float64
	End           float64
	Clamped       bool
	Steps         int
	Metrics       map[string]float64
}

func (e *Evolution) Len() int { return len(e.Times) }

// Evolve integrates the spins of primary and secondary from opts.Tau0 to
// opts.TauMax. Secondary may be nil for a single star. A requested end past
// opts.Lifetime is clamped and reported through Clamped.
func Evolve(ctx context.Context, primary, secondary Star, orbit binary.Geometry, params Params, opts Options, logger log.Logger) (*Evolution, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if primary == nil {
		return nil, fmt.Errorf("rotation: primary star is required")
	}
	stars := [2]Star{primary, secondary}

	ev := &Evolution{End: opts.TauMax, TSync: [2]float64{math.Inf(1), math.Inf(1)}}
	if opts.Lifetime > 0 && ev.End > opts.Lifetime {
		level.Info(logger).Log("msg", "requested age exceeds system lifetime", "requested", ev.End, "clamped", opts.Lifetime)
		ev.End = opts.Lifetime
		ev.Clamped = true
	}
	if opts.Tau0 <= 0 || ev.End <= opts.Tau0 {
		return nil, fmt.Errorf("%w: [%g, %g] Gyr", ErrAgeRange, opts.Tau0, ev.End)
	}

	sys := NewSpinSystem(primary, secondary, orbit, params)
	sys.Tides = opts.Tides && secondary != nil
	sys.Braking = opts.Braking
	sys.Lifetime = opts.Lifetime

	x0 := make(dynamo.State, 2)
	samples := opts.LawSamples
	if samples < 3 {
		samples = 50
	}
	lawAges := numeric.Logspace(opts.Tau0, ev.End, samples)
	for i, star := range stars {
		if star == nil {
			continue
		}
		p, err := wind.Period(opts.Tau0, star.Mass(), star.RadiusAt(opts.Tau0), opts.Early)
		if err != nil {
			return nil, fmt.Errorf("rotation: initial period of star %d: %w", i+1, err)
		}
		p *= opts.PFac
		ev.InitialPeriod[i] = p / physics.Day
		x0[i] = 2 * math.Pi / p

		law, err := WindLaw(star, lawAges, opts.Early)
		if err != nil {
			return nil, fmt.Errorf("rotation: period law of star %d: %w", i+1, err)
		}
		ev.Laws[i] = law
		sys.Laws[i] = law
		level.Debug(logger).Log("msg", "period law", "star", i+1, "law", law)

		if sys.Tides {
			if acc := sys.Terms(i, x0[i], opts.Tau0).Tidal; acc != 0 {
				ev.TSync[i] = x0[i] / math.Abs(acc) / physics.Gyr
			}
		}
	}

	ev.Dt = math.Min(opts.Dt, math.Min(ev.TSync[0], ev.TSync[1])/10)
	if ev.Dt < opts.MinDt {
		ev.Dt = opts.MinDt
	}
	level.Debug(logger).Log("msg", "integration", "tau0", opts.Tau0, "end", ev.End, "dt", ev.Dt,
		"tsync1", ev.TSync[0], "tsync2", ev.TSync[1])

	integrator := opts.Integrator
	if integrator == nil {
		integrator = integrators.NewRK4()
	}
	sim := dynamo.New(sys, integrator)
	for _, m := range opts.Metrics {
		sim.AddMetric(m)
	}
	for _, o := range opts.Observers {
		sim.AddObserver(o)
	}

	cfg := dynamo.Config{
		Start:         opts.Tau0,
		Duration:      ev.End - opts.Tau0,
		Dt:            ev.Dt,
		Adaptive:      opts.Adaptive,
		Tolerance:     opts.Tolerance,
		MinDt:         opts.MinDt,
		MaxDt:         opts.Dt,
		ValidateState: true,
		SampleEvery:   opts.SampleEvery,
	}
	res, err := sim.Run(ctx, x0, cfg)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("rotation: integration stopped: %w", res.Errors[0])
	}

	ev.Times = res.Times
	ev.Steps = res.StepsTaken
	ev.Metrics = res.Metrics
	for i, star := range stars {
		if star == nil {
			continue
		}
		omega := res.Column(i)
		ev.Omega[i] = omega
		ev.Period[i] = make([]float64, len(omega))
		ev.Terms[i] = make([]Terms, len(omega))
		ev.RotationalAge[i] = make([]float64, len(omega))
		for k, w := range omega {
			ev.Period[i][k] = 2 * math.Pi / w / physics.Day
			ev.Terms[i][k] = sys.Terms(i, w, res.Times[k])
			ev.RotationalAge[i][k] = RotationalAge(ev.Laws[i], w)
		}
	}
	level.Info(logger).Log("msg", "spin evolution done", "steps", ev.Steps, "samples", ev.Len(),
		"p1", ev.Period[0][ev.Len()-1], "end", ev.End)
	return ev, nil
}

// WindLaw fits the period law to the spin-down a single star follows
// under its own wind.
func WindLaw(star Star, ages []float64, early wind.Early) (PeriodLaw, error) {
	periods := make([]float64, len(ages))
	for k, t := range ages {
		p, err := wind.Period(t, star.Mass(), star.RadiusAt(t), early)
		if err != nil {
			return PeriodLaw{}, err
		}
		periods[k] = p / physics.Day
	}
	return FitPeriodLaw(ages, periods)
}
