package rotation

import (
	"math"

	"github.com/san-kum/binhab/internal/binary"
	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/physics"
)

// minRotationalAge keeps the fitted law's derivative finite near t = 0.
const minRotationalAge = 1e-3

// Star is the time-dependent structure of one component. Times are in Gyr,
// radius in Rsun, luminosity in Lsun and moment of inertia in Msun Rsun^2.
type Star interface {
	Mass() float64
	RadiusAt(t float64) float64
	LuminosityAt(t float64) float64
	MoIAt(t float64) float64
	DMoIAt(t float64) float64
}

// SpinSystem is the coupled spin evolution of a binary as a dynamo.System.
// The state is (Omega1, Omega2) in rad/s and time is in Gyr. A nil
// secondary gives a single star whose second component stays constant.
type SpinSystem struct {
	Stars   [2]Star
	Orbit   binary.Geometry
	Params  Params
	Braking Braking
	Laws    [2]PeriodLaw // used by BrakingFitted
	Tides   bool

	// Lifetime clamps the age used for stellar properties. Zero disables
	// the clamp.
	Lifetime float64
}

func NewSpinSystem(primary, secondary Star, orbit binary.Geometry, params Params) *SpinSystem {
	return &SpinSystem{
		Stars:  [2]Star{primary, secondary},
		Orbit:  orbit,
		Params: params,
		Tides:  secondary != nil,
	}
}

func (s *SpinSystem) StateDim() int { return 2 }

func (s *SpinSystem) Derive(x dynamo.State, t float64) dynamo.State {
	dx := make(dynamo.State, 2)
	for i := range dx {
		if s.Stars[i] == nil {
			continue
		}
		dx[i] = s.Terms(i, x[i], t).Total() * physics.Gyr
	}
	return dx
}

func (s *SpinSystem) age(t float64) float64 {
	if s.Lifetime > 0 && t > s.Lifetime {
		return s.Lifetime
	}
	return t
}

// Terms splits the spin change of star i rotating at omega at age t.
func (s *SpinSystem) Terms(i int, omega, t float64) Terms {
	var out Terms
	star := s.Stars[i]
	if star == nil {
		return out
	}
	t = s.age(t)
	m, r := star.Mass(), star.RadiusAt(t)

	if other := s.Stars[1-i]; s.Tides && other != nil {
		out.Tidal = TidalAcceleration(m, r, star.LuminosityAt(t), physics.GyrationRadius(m),
			other.Mass(), s.Orbit.A, s.Orbit.E, s.Orbit.N, omega)
	}

	if t < s.Params.TauDisk || t > s.Params.AgeCeiling {
		return out
	}
	switch s.Braking {
	case BrakingFitted:
		out.Wind = FittedAcceleration(s.Laws[i], omega)
	default:
		moi := star.MoIAt(t)
		out.Wind = WindAcceleration(omega, m, r, moi, s.Params)
		out.Contraction = ContractionAcceleration(omega, moi, star.DMoIAt(t))
	}
	return out
}

// RotationalAge is the age at which a single star following law would spin
// at omega.
func RotationalAge(law PeriodLaw, omega float64) float64 {
	return law.Age(2 * math.Pi / omega / physics.Day)
}

// FittedAcceleration is -2 pi / P^2 dP/dt with the derivative taken from
// law at the star's rotational age.
func FittedAcceleration(law PeriodLaw, omega float64) float64 {
	p := 2 * math.Pi / omega
	tau := math.Max(RotationalAge(law, omega), minRotationalAge)
	dpdt := law.Derivative(tau) * physics.Day / physics.Gyr
	return -2 * math.Pi / (p * p) * dpdt
}
