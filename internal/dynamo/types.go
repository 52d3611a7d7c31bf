package dynamo

import "math"

// State holds one angular velocity per star, in rad/s.
type State []float64

func (s State) Clone() State { return append(State(nil), s...) }

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is a first-order ODE dx/dt = f(x, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

// AdaptiveIntegrator advances by dt and suggests the next step size.
// A step whose error estimate exceeds tol is returned with ErrStepRejected.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt, tol float64) (State, float64, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

type Config struct {
	Start         float64
	Duration      float64
	Dt            float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
	// SampleEvery keeps every n-th accepted step in the result; the final
	// state is always kept.
	SampleEvery int
}

func DefaultConfig() Config {
	return Config{
		Start:         0.01,
		Duration:      4.0,
		Dt:            1e-3,
		Tolerance:     1e-6,
		MaxDt:         0.05,
		MinDt:         1e-9,
		Adaptive:      false,
		ValidateState: true,
		SampleEvery:   1,
	}
}

type Result struct {
	States     []State
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the last recorded state and time.
func (r *Result) Final() (State, float64) {
	if len(r.States) == 0 {
		return nil, 0
	}
	n := len(r.States) - 1
	return r.States[n], r.Times[n]
}

// Column extracts component i of every recorded state.
func (r *Result) Column(i int) []float64 {
	col := make([]float64, len(r.States))
	for k, s := range r.States {
		if i < len(s) {
			col[k] = s[i]
		}
	}
	return col
}
