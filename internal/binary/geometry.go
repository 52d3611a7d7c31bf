// Package binary describes the orbit of a stellar pair.
package binary

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/meeus/v3/kepler"
	"github.com/soniakeys/unit"

	"github.com/san-kum/binhab/internal/physics"
)

var ErrInvalidOrbit = errors.New("binary: invalid orbit")

// Geometry is the fixed description of a binary orbit.
type Geometry struct {
	M1, M2 float64 // Msun
	E      float64
	Period float64 // days
	A      float64 // semimajor axis, AU
	Acrit  float64 // innermost stable circumbinary orbit, AU
	N      float64 // mean motion, rad/s
	Sync   float64 // pseudo-synchronous to mean motion ratio
}

func New(m1, m2, e, periodDays float64) (Geometry, error) {
	if m1 <= 0 || m2 <= 0 {
		return Geometry{}, fmt.Errorf("%w: masses must be positive, got %g and %g", ErrInvalidOrbit, m1, m2)
	}
	if e < 0 || e >= 1 {
		return Geometry{}, fmt.Errorf("%w: eccentricity %g outside [0, 1)", ErrInvalidOrbit, e)
	}
	if periodDays <= 0 {
		return Geometry{}, fmt.Errorf("%w: period must be positive, got %g", ErrInvalidOrbit, periodDays)
	}
	a := SemiMajorAxis(m1, m2, periodDays)
	return Geometry{
		M1:     m1,
		M2:     m2,
		E:      e,
		Period: periodDays,
		A:      a,
		Acrit:  CriticalSeparation(m2/(m1+m2), a, e),
		N:      2 * math.Pi / (periodDays * physics.Day),
		Sync:   SyncFactor(e),
	}, nil
}

// SemiMajorAxis from Kepler's third law, in AU.
func SemiMajorAxis(m1, m2, periodDays float64) float64 {
	p := periodDays * physics.Day
	return math.Cbrt(physics.G*(m1+m2)*physics.MSun*p*p/(4*math.Pi*math.Pi)) / physics.AU
}

// PeriodFromAxis inverts SemiMajorAxis, returning days.
func PeriodFromAxis(m1, m2, a float64) float64 {
	r := a * physics.AU
	return 2 * math.Pi * math.Sqrt(r*r*r/(physics.G*(m1+m2)*physics.MSun)) / physics.Day
}

// CriticalSeparation is the Holman & Wiegert (1999) stability limit for
// circumbinary orbits, with mu = M2/(M1+M2).
func CriticalSeparation(mu, a, e float64) float64 {
	e2, mu2 := e*e, mu*mu
	return a * (1.60 + 5.10*e - 2.22*e2 + 4.12*mu - 4.27*e*mu - 5.09*mu2 + 4.61*e2*mu2)
}

// SyncFactor is the pseudo-synchronous rotation rate in units of the mean
// motion, f2 / ((1-e^2)^1.5 f5).
func SyncFactor(e float64) float64 {
	return physics.PseudoSynchronousRate(1, e)
}

// SyncRate is the pseudo-synchronous angular velocity in rad/s.
func (g Geometry) SyncRate() float64 { return physics.PseudoSynchronousRate(g.N, g.E) }

// SyncPeriod is the pseudo-synchronous rotation period in days.
func (g Geometry) SyncPeriod() float64 { return g.Period / g.Sync }

// MassRatio is M2/M1.
func (g Geometry) MassRatio() float64 { return g.M2 / g.M1 }

// Position is both stars relative to the centre of mass, in AU.
type Position struct {
	Phase  float64 // fraction of the period since periastron
	X1, Y1 float64
	X2, Y2 float64
	R      float64 // separation
}

// Track samples n positions over one orbit, evenly spaced in time.
func (g Geometry) Track(n int) []Position {
	if n < 1 {
		return nil
	}
	mt := g.M1 + g.M2
	out := make([]Position, n)
	for i := range out {
		phase := float64(i) / float64(n)
		m := unit.Angle(2 * math.Pi * phase)
		ecc := kepler.Kepler3(g.E, m)
		nu := kepler.True(ecc, g.E).Rad()
		r := kepler.Radius(ecc, g.E, g.A)

		c, s := math.Cos(nu), math.Sin(nu)
		out[i] = Position{
			Phase: phase,
			X1:    g.M2 / mt * r * c,
			Y1:    g.M2 / mt * r * s,
			X2:    -g.M1 / mt * r * c,
			Y2:    -g.M1 / mt * r * s,
			R:     r,
		}
	}
	return out
}
