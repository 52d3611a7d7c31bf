package wind

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/san-kum/binhab/internal/physics"
)

// EarlyAge is the age (Gyr) below which the reference scalings are not
// trusted.
const EarlyAge = 0.7

// Early selects how ages below EarlyAge are treated.
type Early int

const (
	// EarlyConstant evaluates every age below EarlyAge at EarlyAge.
	EarlyConstant Early = iota
	// EarlyExtrapolate applies the power laws at any age.
	EarlyExtrapolate
)

func (e Early) String() string {
	if e == EarlyExtrapolate {
		return "extrapolate"
	}
	return "constant"
}

func ParseEarly(s string) (Early, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "constant":
		return EarlyConstant, nil
	case "extrapolate", "none":
		return EarlyExtrapolate, nil
	}
	return EarlyConstant, fmt.Errorf("wind: unknown early wind policy %q", s)
}

// Flow is the wind at one distance from a star.
type Flow struct {
	V float64 // effective velocity, m/s
	N float64 // number density, m^-3
}

// Pressure is the ram pressure n v^2 in units of m_p (m^-1 s^-2).
func (f Flow) Pressure() float64 { return f.N * f.V * f.V }

// Flux is the particle flux n v in m^-2 s^-1.
func (f Flow) Flux() float64 { return f.N * f.V }

// MassLossRate returns the wind mass-loss rate in kg/s for a star of the
// given radius at age t, scaled from the solar rate with the surface area.
func MassLossRate(t, radius float64) float64 {
	vref, nref := Reference(t)
	return 4 * math.Pi * physics.AU * physics.AU * nref * vref * physics.ProtonMass * radius * radius
}

// Greissmeier returns the wind at d (AU) from a star of the given mass and
// radius at age t.
func Greissmeier(d, t, mass, radius float64, early Early) (Flow, error) {
	if t < EarlyAge && early == EarlyConstant {
		t = EarlyAge
	}

	mdot := MassLossRate(t, radius)
	tc, err := CoronaTemperature(t, mass)
	if err != nil {
		return Flow{}, err
	}
	vr, err := ParkerVelocity(d, mass, tc)
	if err != nil {
		return Flow{}, err
	}

	r := d * physics.AU
	n := mdot / (4 * math.Pi * r * r * vr * physics.ProtonMass)
	vkep := math.Sqrt(physics.G * mass * physics.MSun / r)
	return Flow{V: math.Sqrt(vr*vr + vkep*vkep), N: n}, nil
}

// SolarReference is the present solar wind at 1 AU and the braking
// constant of the Mdot v = K0 P^-3.3 period law.
type SolarReference struct {
	V, N  float64
	SWPEL float64 // particle flux at 1 AU, m^-2 s^-1
	Mdot  float64 // kg/s
	K0    float64
}

var (
	solarOnce sync.Once
	solarRef  SolarReference
	solarErr  error
)

// Solar returns the present solar wind reference, computed once.
func Solar() (SolarReference, error) {
	solarOnce.Do(func() {
		f, err := Greissmeier(1, physics.SolarAge, 1, 1, EarlyConstant)
		if err != nil {
			solarErr = fmt.Errorf("wind: solar reference: %w", err)
			return
		}
		pel := f.Flux()
		mdot := 4 * math.Pi * physics.AU * physics.AU * physics.ProtonMass * pel
		solarRef = SolarReference{
			V:     f.V,
			N:     f.N,
			SWPEL: pel,
			Mdot:  mdot,
			K0:    mdot * f.V * math.Pow(physics.PSun, 3.3),
		}
	})
	return solarRef, solarErr
}

// Period returns the rotation period in seconds that is consistent with
// the wind of a star at age t through Mdot v = K0 P^-3.3.
func Period(t, mass, radius float64, early Early) (float64, error) {
	ref, err := Solar()
	if err != nil {
		return 0, err
	}
	f, err := Greissmeier(1, t, mass, radius, early)
	if err != nil {
		return 0, err
	}
	mdot := 4 * math.Pi * physics.AU * physics.AU * physics.ProtonMass * f.Flux()
	return math.Pow(mdot*f.V/ref.K0, -1/3.3), nil
}

// Component is one star feeding a binary wind.
type Component struct {
	Age    float64 // Gyr
	Mass   float64 // Msun
	Radius float64 // Rsun
}

// Binary adds the ram pressure and particle flux of both components at
// distance d (AU). A nil c2 gives the single-star wind.
func Binary(d float64, c1 Component, c2 *Component, early Early) (pressure, flux float64, err error) {
	f1, err := Greissmeier(d, c1.Age, c1.Mass, c1.Radius, early)
	if err != nil {
		return 0, 0, err
	}
	pressure, flux = f1.Pressure(), f1.Flux()
	if c2 != nil {
		f2, err := Greissmeier(d, c2.Age, c2.Mass, c2.Radius, early)
		if err != nil {
			return 0, 0, err
		}
		pressure += f2.Pressure()
		flux += f2.Flux()
	}
	return pressure, flux, nil
}
