package stellar

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/physics"
)

// Track is a star's evolution sampled once from the resolver so the
// integrator can query it at every step without touching the grid.
// Queries outside the sampled range are clamped to its ends.
type Track struct {
	mass, z float64

	Times       []float64 // Gyr
	Radii       []float64 // Rsun
	Luminosity  []float64 // Lsun
	Temperature []float64 // K
	MoI         []float64 // Msun Rsun^2
	DMoI        []float64 // Msun Rsun^2 / Gyr

	radius, lum, temp, moi, dmoi interp.PiecewiseLinear
}

// NewTrack samples n log-spaced ages in [tmin, tmax]. Ages at which the
// star is unavailable are skipped; fewer than two valid samples is an error.
func (r *Resolver) NewTrack(z, mass, tmin, tmax float64, n int) (*Track, error) {
	if tmin <= 0 || tmax <= tmin || n < 2 {
		return nil, fmt.Errorf("stellar: invalid track range [%g, %g] with %d samples", tmin, tmax, n)
	}
	tr := &Track{mass: mass, z: z}
	k2 := physics.MoICoefficient(mass)
	for _, t := range numeric.Logspace(tmin, tmax, n) {
		st := r.State(z, mass, t)
		if !st.OK {
			continue
		}
		tr.Times = append(tr.Times, t)
		tr.Radii = append(tr.Radii, st.Radius)
		tr.Luminosity = append(tr.Luminosity, st.Luminosity)
		tr.Temperature = append(tr.Temperature, st.Temperature)
		tr.MoI = append(tr.MoI, k2*mass*st.Radius*st.Radius)
	}
	if len(tr.Times) < 2 {
		return nil, fmt.Errorf("%w: z=%g mass=%g ages [%g, %g]", ErrUnavailable, z, mass, tmin, tmax)
	}
	if err := tr.fit(); err != nil {
		return nil, err
	}
	return tr, nil
}

func (tr *Track) fit() error {
	for _, f := range []struct {
		pl *interp.PiecewiseLinear
		ys []float64
	}{
		{&tr.radius, tr.Radii},
		{&tr.lum, tr.Luminosity},
		{&tr.temp, tr.Temperature},
		{&tr.moi, tr.MoI},
	} {
		if err := f.pl.Fit(tr.Times, f.ys); err != nil {
			return fmt.Errorf("stellar: track fit: %w", err)
		}
	}

	n := len(tr.Times)
	tr.DMoI = make([]float64, n)
	for i, t := range tr.Times {
		s := &fd.Settings{Formula: fd.Central}
		switch i {
		case 0:
			s.Formula = fd.Forward
			s.Step = tr.Times[1] - t
		case n - 1:
			s.Formula = fd.Backward
			s.Step = t - tr.Times[n-2]
		default:
			s.Step = math.Min(t-tr.Times[i-1], tr.Times[i+1]-t)
		}
		tr.DMoI[i] = fd.Derivative(tr.moi.Predict, t, s)
	}
	if err := tr.dmoi.Fit(tr.Times, tr.DMoI); err != nil {
		return fmt.Errorf("stellar: track fit: %w", err)
	}
	return nil
}

func (tr *Track) Mass() float64        { return tr.mass }
func (tr *Track) Metallicity() float64 { return tr.z }
func (tr *Track) Start() float64       { return tr.Times[0] }
func (tr *Track) End() float64         { return tr.Times[len(tr.Times)-1] }

func (tr *Track) clamp(t float64) float64 {
	return math.Max(tr.Start(), math.Min(tr.End(), t))
}

func (tr *Track) RadiusAt(t float64) float64      { return tr.radius.Predict(tr.clamp(t)) }
func (tr *Track) LuminosityAt(t float64) float64  { return tr.lum.Predict(tr.clamp(t)) }
func (tr *Track) TemperatureAt(t float64) float64 { return tr.temp.Predict(tr.clamp(t)) }
func (tr *Track) MoIAt(t float64) float64         { return tr.moi.Predict(tr.clamp(t)) }
func (tr *Track) DMoIAt(t float64) float64        { return tr.dmoi.Predict(tr.clamp(t)) }
