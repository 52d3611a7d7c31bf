package stellar

import (
	"math"

	"github.com/go-kit/log/level"

	"github.com/san-kum/binhab/internal/isochrone"
	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/physics"
)

// StarState is the surface state of a star at one age. OK is false when
// any of the underlying properties was unavailable.
type StarState struct {
	Gravity     float64 // m/s^2
	Temperature float64 // K
	Radius      float64 // Rsun
	Luminosity  float64 // Lsun
	OK          bool
}

var stateProperties = [3]isochrone.Property{isochrone.LogGravity, isochrone.LogTemperature, isochrone.LogLuminosity}

func (r *Resolver) State(z, mass, age float64) StarState {
	var vals [3]float64
	for i, p := range stateProperties {
		v, ok := r.property(p, z, mass, age)
		if !ok {
			level.Warn(r.logger).Log("msg", "star state unavailable", "property", p, "z", z, "mass", mass, "age", age)
			return StarState{}
		}
		vals[i] = v
	}
	logg, logT, logL := vals[0], vals[1], vals[2]
	g := physics.SurfaceGravity(logg)
	return StarState{
		Gravity:     g,
		Temperature: math.Pow(10, logT),
		Radius:      physics.Radius(mass, g),
		Luminosity:  math.Pow(10, logL),
		OK:          true,
	}
}

// Radius returns the radius in Rsun derived from the interpolated gravity.
func (r *Resolver) Radius(z, mass, age float64) (float64, bool) {
	logg, ok := r.Property(isochrone.LogGravity, z, mass, age)
	if !ok {
		return 0, false
	}
	return physics.Radius(mass, physics.SurfaceGravity(logg)), true
}

func (r *Resolver) radius(z, mass, age float64) (float64, bool) {
	logg, ok := r.property(isochrone.LogGravity, z, mass, age)
	if !ok {
		return 0, false
	}
	return physics.Radius(mass, physics.SurfaceGravity(logg)), true
}

// MinMaxRadius samples the radius at 20 ages in [tmin, tmax] and returns
// the extremes over the available samples.
func (r *Resolver) MinMaxRadius(z, mass, tmin, tmax float64) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, t := range numeric.Linspace(tmin, tmax, 20) {
		rad, ok := r.radius(z, mass, t)
		if !ok {
			continue
		}
		lo = math.Min(lo, rad)
		hi = math.Max(hi, rad)
	}
	if math.IsInf(lo, 1) {
		return 0, 0, false
	}
	return lo, hi, true
}

// Lifetime returns the last age in [tmin, tmax] before the star first
// drops out of the grid, refined to 1e-3 Gyr. If the star never drops out,
// tmax is returned.
func (r *Resolver) Lifetime(z, mass, tmin, tmax float64) (float64, bool) {
	ok := func(t float64) bool {
		_, okL := r.property(isochrone.LogLuminosity, z, mass, t)
		_, okg := r.property(isochrone.LogGravity, z, mass, t)
		return okL && okg
	}
	if !ok(tmin) {
		return 0, false
	}
	ages := numeric.Linspace(tmin, tmax, 200)
	last := tmin
	for _, t := range ages[1:] {
		if !ok(t) {
			lo, hi := last, t
			for hi-lo > 1e-3 {
				mid := 0.5 * (lo + hi)
				if ok(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return lo, true
		}
		last = t
	}
	return tmax, true
}
