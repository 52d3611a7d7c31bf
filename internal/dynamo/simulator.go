package dynamo

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type Simulator struct {
	sys        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(sys System, integrator Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from cfg.Start to cfg.Start+cfg.Duration. The last step is
// shortened so the run ends exactly at the end time.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.sys.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system wants %d", ErrDimensionMismatch, len(x0), s.sys.StateDim())
	}

	every := cfg.SampleEvery
	if every < 1 {
		every = 1
	}
	capacity := int(cfg.Duration/cfg.Dt)/every + 2
	if capacity > 1<<20 {
		capacity = 1 << 20
	}
	result := &Result{
		States:  make([]State, 0, capacity),
		Times:   make([]float64, 0, capacity),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := cfg.Start
	end := cfg.Start + cfg.Duration
	eps := 1e-12 * math.Max(1, math.Abs(end))
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	for i := 0; end-t > eps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}

		h := math.Min(dt, end-t)
		var newX State
		var stepErr error

		if cfg.Adaptive {
			newX, h, dt, stepErr = s.adaptiveStep(x, t, h, cfg)
		} else {
			newX = s.integrator.Step(s.sys, x, t, h)
		}

		if stepErr != nil {
			result.Errors = append(result.Errors, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: stepErr})
			break
		}

		if cfg.ValidateState && !newX.IsValid() {
			result.Errors = append(result.Errors, &SimulationError{Step: i, Time: t, State: x.Clone(), Wrapped: ErrInvalidState})
			break
		}

		x = newX
		t += h
		result.StepsTaken++

		if result.StepsTaken%every == 0 {
			result.States = append(result.States, x.Clone())
			result.Times = append(result.Times, t)
		}
	}

	if last := result.Times[len(result.Times)-1]; last < t {
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	for _, m := range s.metrics {
		m.Observe(x, t)
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt %g", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration %g", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("%w: adaptive stepping without a tolerance", ErrInvalidConfig)
	}
	return nil
}

// adaptiveStep returns the new state, the step actually taken and the
// suggested next step.
func (s *Simulator) adaptiveStep(x State, t, dt float64, cfg Config) (State, float64, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		for {
			newX, next, err := adaptive.StepAdaptive(s.sys, x, t, dt, cfg.Tolerance)
			if err == nil {
				return newX, dt, s.clampDt(next, cfg), nil
			}
			if !errors.Is(err, ErrStepRejected) {
				return nil, 0, 0, err
			}
			if next < cfg.MinDt {
				return nil, 0, 0, ErrStepTooSmall
			}
			dt = next
		}
	}

	x1 := s.integrator.Step(s.sys, x, t, dt)
	xHalf := s.integrator.Step(s.sys, x, t, dt/2)
	x2 := s.integrator.Step(s.sys, xHalf, t+dt/2, dt/2)

	err := floats.Distance(x1, x2, 2) / (floats.Norm(x2, 2) + 1e-300)

	if err > cfg.Tolerance && dt > cfg.MinDt {
		return s.adaptiveStep(x, t, dt/2, cfg)
	}

	next := dt
	if err < cfg.Tolerance/10 {
		next = dt * 2
	}

	return x2, dt, s.clampDt(next, cfg), nil
}

func (s *Simulator) clampDt(dt float64, cfg Config) float64 {
	if cfg.MaxDt > 0 && dt > cfg.MaxDt {
		dt = cfg.MaxDt
	}
	if dt < cfg.MinDt {
		dt = cfg.MinDt
	}
	return dt
}
