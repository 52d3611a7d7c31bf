package wind

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/physics"
)

const (
	refVelocity = 3971e3
	refDensity  = 1.04e11
	refTime     = 2.56e7 * physics.Year
	betaV       = -0.43
	betaN       = -1.86

	// sonicWindow is the half width around the sonic point inside which
	// the dimensionless Parker velocity is taken to be exactly one.
	sonicWindow = 1e-3
)

// Reference returns the 1 AU equivalent wind velocity and density of a
// main-sequence star at age t (Gyr).
func Reference(t float64) (v, n float64) {
	ft := 1 + t*physics.Gyr/refTime
	return refVelocity * math.Pow(ft, betaV), refDensity * math.Pow(ft, betaN)
}

// ParkerResidual is the dimensionless isothermal Parker equation for
// velocity vn = v/vc at distance dn = d/dc.
func ParkerResidual(vn, dn float64) float64 {
	return math.Log(vn*vn) - vn*vn + 4*math.Log(dn) + 4/dn - 3
}

// sonic returns the sound speed and the sonic-point distance in metres of
// an isothermal corona at tc around a star of the given mass.
func sonic(mass, tc float64) (vc, dc float64) {
	vc = math.Sqrt(physics.Boltzmann * tc / physics.ProtonMass)
	dc = physics.ProtonMass * physics.G * mass * physics.MSun / (4 * physics.Boltzmann * tc)
	return vc, dc
}

// ParkerVelocity is the radial wind speed at d (AU) for a corona at tc (K).
// Beyond the sonic point the supersonic branch is taken, inside it the
// subsonic one.
func ParkerVelocity(d, mass, tc float64) (float64, error) {
	vc, dc := sonic(mass, tc)
	dn := d * physics.AU / dc

	f := func(vn float64) float64 { return ParkerResidual(vn, dn) }

	var vn float64
	var err error
	switch {
	case math.Abs(dn-1) < sonicWindow:
		vn = 1
	case dn > 1:
		vn, err = numeric.Brent(f, 1.001, 10)
		if errors.Is(err, numeric.ErrNoSignChange) {
			vn, err = numeric.Brent(f, 1.001, 1e3)
		}
	default:
		vn, err = numeric.Brent(f, 1e-4, 0.9998)
		if errors.Is(err, numeric.ErrNoSignChange) {
			vn, err = numeric.Brent(f, 1e-30, 0.9998)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("wind: parker velocity at d=%g AU, Tc=%g K: %w", d, tc, err)
	}
	return vn * vc, nil
}

// CoronaTemperature solves for the isothermal corona temperature that
// reproduces the reference wind speed at 1 AU for a star of the given mass
// at age t. Newton's method starts at 1 MK; if it fails the root is
// bracketed and refined with Brent's method.
func CoronaTemperature(t, mass float64) (float64, error) {
	vref, _ := Reference(t)
	var inner error
	f := func(tc float64) float64 {
		if tc <= 0 {
			return math.NaN()
		}
		v, err := ParkerVelocity(1, mass, tc)
		if err != nil {
			inner = err
			return math.NaN()
		}
		return v - vref
	}

	tc, err := numeric.Newton(f, 1e6)
	if err == nil && tc > 0 {
		return tc, nil
	}
	if err != nil && !numeric.Failed(err) {
		return 0, err
	}

	lo, hi, berr := numeric.ExpandBracket(f, 3e5, 3e6, 2, 20)
	if berr == nil {
		tc, berr = numeric.Brent(f, lo, hi)
	}
	if berr != nil {
		if inner != nil {
			return 0, fmt.Errorf("wind: corona temperature t=%g M=%g: %w", t, mass, inner)
		}
		return 0, fmt.Errorf("wind: corona temperature t=%g M=%g: %w", t, mass, berr)
	}
	return tc, nil
}
