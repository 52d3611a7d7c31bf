// Package habzone computes habitable-zone limits around single stars and
// circumbinary habitable zones around pairs, using the effective-flux fits
// of Kopparapu et al. (2014).
package habzone

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/binhab/internal/physics"
)

// Criterion is one habitable-zone boundary: a quartic fit of the effective
// stellar flux, in units of the present solar constant, against Teff-Tsun.
type Criterion struct {
	Name       string
	S          float64
	A, B, C, D float64
}

// Seff returns the effective flux limit for a star of effective
// temperature teff. Temperatures are clamped to the fitted 2600-7200 K.
func (c Criterion) Seff(teff float64) float64 {
	teff = math.Max(2600, math.Min(7200, teff))
	x := teff - physics.TSun
	return c.S + x*(c.A+x*(c.B+x*(c.C+x*c.D)))
}

const (
	RecentVenus       = "recent venus"
	RunawayGreenhouse = "runaway greenhouse"
	MoistGreenhouse   = "moist greenhouse"
	MaximumGreenhouse = "maximum greenhouse"
	EarlyMars         = "early mars"
)

var criteria = map[string]Criterion{
	RecentVenus:       {RecentVenus, 1.776, 2.136e-4, 2.533e-8, -1.332e-11, -3.097e-15},
	MoistGreenhouse:   {MoistGreenhouse, 1.0146, 8.1884e-5, 1.9394e-9, -4.3618e-12, -6.8260e-16},
	MaximumGreenhouse: {MaximumGreenhouse, 0.356, 6.171e-5, 1.698e-9, -3.198e-12, -5.575e-16},
	EarlyMars:         {EarlyMars, 0.32, 5.547e-5, 1.526e-9, -2.874e-12, -5.011e-16},
}

// The runaway greenhouse limit depends on the planet mass (Earth masses).
var runaway = map[float64]Criterion{
	0.1: {RunawayGreenhouse, 0.99, 1.209e-4, 1.404e-8, -7.418e-12, -1.713e-15},
	1.0: {RunawayGreenhouse, 1.107, 1.332e-4, 1.58e-8, -8.308e-12, -1.931e-15},
	5.0: {RunawayGreenhouse, 1.188, 1.433e-4, 1.707e-8, -8.968e-12, -2.048e-15},
}

// PlanetMasses lists the planet masses with a runaway greenhouse fit.
var PlanetMasses = []float64{0.1, 1.0, 5.0}

// Lookup returns the named criterion. planetMass only matters for the
// runaway greenhouse limit; zero selects an Earth-mass planet.
func Lookup(name string, planetMass float64) (Criterion, error) {
	key := strings.Join(strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), " ")
	if key == RunawayGreenhouse {
		if planetMass == 0 {
			planetMass = 1
		}
		c, ok := runaway[planetMass]
		if !ok {
			return Criterion{}, fmt.Errorf("habzone: no runaway greenhouse fit for a %g Earth-mass planet", planetMass)
		}
		return c, nil
	}
	c, ok := criteria[key]
	if !ok {
		return Criterion{}, fmt.Errorf("habzone: unknown criterion %q", name)
	}
	return c, nil
}

// Names lists the known criteria from the innermost to the outermost.
func Names() []string {
	return []string{RecentVenus, RunawayGreenhouse, MoistGreenhouse, MaximumGreenhouse, EarlyMars}
}
