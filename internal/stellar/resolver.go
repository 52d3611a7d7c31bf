// Package stellar resolves stellar properties at arbitrary metallicity,
// mass and age from a loaded isochrone grid.
package stellar

import (
	"errors"
	"math"
	"sort"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/binhab/internal/isochrone"
)

// ErrUnavailable is returned by the error-returning helpers when a star
// lies outside every interpolation domain.
var ErrUnavailable = errors.New("stellar: star outside the isochrone domain")

type Resolver struct {
	grid   *isochrone.Grid
	logger log.Logger
}

func NewResolver(grid *isochrone.Grid, logger log.Logger) *Resolver {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Resolver{grid: grid, logger: logger}
}

func (r *Resolver) Grid() *isochrone.Grid { return r.grid }

// AtAge evaluates p on a single table. Age is in Gyr. An exactly tabulated
// age is evaluated on its own slice; any other age is interpolated linearly
// in log age between the slices below and above.
func AtAge(t *isochrone.Table, p isochrone.Property, mass, age float64) (float64, bool) {
	if age < 0 {
		return 0, false
	}
	logAge := math.Log10(age * 1e9)
	lo, hi, exact, ok := t.Bracket(logAge)
	if !ok {
		return 0, false
	}
	if exact {
		return lo.Eval(p, mass)
	}
	vlo, ok := lo.Eval(p, mass)
	if !ok {
		return 0, false
	}
	vhi, ok := hi.Eval(p, mass)
	if !ok {
		return 0, false
	}
	w := (logAge - lo.LogAge) / (hi.LogAge - lo.LogAge)
	return vlo + w*(vhi-vlo), true
}

// Property returns p at (z, mass, age) or false when the point lies
// outside the grid. A metallicity with its own table is evaluated on that
// table when the point is inside it; otherwise every table is evaluated and
// the valid values are interpolated linearly in Z.
func (r *Resolver) Property(p isochrone.Property, z, mass, age float64) (float64, bool) {
	v, ok := r.property(p, z, mass, age)
	if !ok {
		level.Warn(r.logger).Log("msg", "property unavailable", "property", p, "z", z, "mass", mass, "age", age)
	}
	return v, ok
}

// property is Property without logging, for callers that scan ages past
// the end of a track.
func (r *Resolver) property(p isochrone.Property, z, mass, age float64) (float64, bool) {
	if math.IsNaN(z) || math.IsNaN(mass) || math.IsNaN(age) || age < 0 || !p.Valid() {
		return 0, false
	}
	if t, ok := r.grid.Table(z); ok {
		if v, ok := AtAge(t, p, mass, age); ok {
			return v, true
		}
	}

	tables := r.grid.Tables()
	zs := make([]float64, 0, len(tables))
	vs := make([]float64, 0, len(tables))
	for _, t := range tables {
		if v, ok := AtAge(t, p, mass, age); ok {
			zs = append(zs, t.Z)
			vs = append(vs, v)
		}
	}
	if len(zs) < 2 || z < zs[0] || z > zs[len(zs)-1] {
		return 0, false
	}

	i := sort.SearchFloat64s(zs, z)
	if zs[i] == z {
		return vs[i], true
	}
	w := (z - zs[i-1]) / (zs[i] - zs[i-1])
	return vs[i-1] + w*(vs[i]-vs[i-1]), true
}
