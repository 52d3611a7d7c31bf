package physics

import "math"

const (
	G          = 6.67e-11
	MSun       = 1.99e30
	RSun       = 6.955e8
	LSun       = 3.842e26
	TSun       = 5780.0
	AU         = 1.496e11
	Day        = 86400.0
	Year       = 365.0 * Day
	Gyr        = 1e9 * Year
	MEarth     = 5.9722e24
	REarth     = 6.371e6
	Bar        = 1e5
	ProtonMass = 1.672621898e-27
	Boltzmann  = 1.38064852e-23
	AtomicMass = 1.66054e-27

	// ZSun is the present solar metal mass fraction of the Padova grids.
	ZSun = 0.0152
	// SolarAge in Gyr.
	SolarAge = 4.56
	// PSun is the solar rotation period in seconds.
	PSun = 25.05 * Day
)

// OmegaSun is the present solar angular velocity in rad/s.
var OmegaSun = 2 * math.Pi / PSun
