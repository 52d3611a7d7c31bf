// Package xuv gives the X-ray and extreme-ultraviolet output of low-mass
// stars as a function of bolometric luminosity and age.
//
// Luminosities are in erg/s and fluxes are expressed in PEL, the present
// XUV flux at the Earth.
package xuv

import (
	"math"

	"github.com/san-kum/binhab/internal/physics"
)

// SaturationAge is the age in Gyr below which the X-ray output of a star
// of bolometric luminosity lum (Lsun) is saturated (Scalo 2007).
func SaturationAge(lum float64) float64 {
	return 2.03e15 * math.Pow(lum*1.8, -0.65) / physics.Gyr
}

// XRay returns the X-ray luminosity in erg/s at age t (Gyr): a saturated
// fraction of the bolometric output before SaturationAge and a t^-1.34
// decline after it.
func XRay(lum, t float64) float64 {
	if t <= SaturationAge(lum) {
		return 6.3e-4 * lum * physics.LSun * 1e7
	}
	return 1.8928e28 * math.Pow(t, -1.34)
}

// EUV estimates the extreme-ultraviolet luminosity from the X-ray one.
func EUV(lx float64) float64 {
	return math.Pow(10, 4.8+0.86*math.Log10(lx))
}

// Luminosity is the total XUV luminosity in erg/s.
func Luminosity(lum, t float64) float64 {
	lx := XRay(lum, t)
	return lx + EUV(lx)
}

const auCm = physics.AU * 1e2

// PEL is the present Earth level in erg cm^-2 s^-1.
var PEL = Luminosity(1, physics.SolarAge) / (4 * math.Pi * auCm * auCm)

// PELSI is PEL in W m^-2.
var PELSI = PEL * 1e-3

// Flux returns the flux in PEL at d (AU) from a source of XUV luminosity
// lxuv (erg/s).
func Flux(lxuv, d float64) float64 {
	r := d * auCm
	return lxuv / (4 * math.Pi * r * r) / PEL
}
