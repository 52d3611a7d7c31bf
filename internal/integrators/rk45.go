package integrators

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/binhab/internal/dynamo"
)

// Dormand-Prince 5(4) tableau.
var (
	dpNodes = [7]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1}

	dpCoupling = [7][6]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	}

	// fifth-order weights minus embedded fourth-order weights
	dpError = [7]float64{
		35.0/384.0 - 5179.0/57600.0,
		0,
		500.0/1113.0 - 7571.0/16695.0,
		125.0/192.0 - 393.0/640.0,
		-2187.0/6784.0 + 92097.0/339200.0,
		11.0/84.0 - 187.0/2100.0,
		-1.0 / 40.0,
	}
)

type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	xNew, _ := r.attempt(sys, x, t, dt)
	return xNew
}

// StepAdaptive takes one Dormand-Prince step. Each component's error is
// measured against its own magnitude plus the largest component of the
// state, so a component passing through zero does not force tiny steps and
// the test is unchanged when the whole state is rescaled (angular
// velocities of order 1e-5 rad/s behave like O(1) states).
func (r *RK45) StepAdaptive(sys dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	xNew, errMax := r.attempt(sys, x, t, dt)
	errRatio := errMax / tol

	if errRatio > 1 {
		scale := math.Max(r.minScale, r.safety*math.Pow(errRatio, -0.25))
		return x, dt * scale, dynamo.ErrStepRejected
	}

	dtNew := dt * r.maxScale
	if errRatio > 0 {
		dtNew = dt * math.Min(r.maxScale, r.safety*math.Pow(errRatio, -0.2))
	}
	return xNew, dtNew, nil
}

// attempt returns the fifth-order solution and the scaled error estimate.
func (r *RK45) attempt(sys dynamo.System, x dynamo.State, t, dt float64) (dynamo.State, float64) {
	n := len(x)
	var k [7]dynamo.State
	k[0] = sys.Derive(x, t)

	stage := make(dynamo.State, n)
	for s := 1; s < 7; s++ {
		for i := 0; i < n; i++ {
			sum := 0.0
			for j := 0; j < s; j++ {
				sum += dpCoupling[s][j] * k[j][i]
			}
			stage[i] = x[i] + dt*sum
		}
		k[s] = sys.Derive(stage, t+dpNodes[s]*dt)
	}
	// the last stage is evaluated at the fifth-order solution (FSAL)
	xNew := stage.Clone()

	norm := floats.Norm(x, math.Inf(1))
	errMax := 0.0
	for i := 0; i < n; i++ {
		errEst := 0.0
		for s := 0; s < 7; s++ {
			errEst += dpError[s] * k[s][i]
		}
		errEst *= dt
		scale := math.Max(math.Abs(x[i]), math.Abs(xNew[i])) + norm + 1e-300
		errMax = math.Max(errMax, math.Abs(errEst)/scale)
	}
	return xNew, errMax
}
