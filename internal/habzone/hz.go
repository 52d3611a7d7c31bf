package habzone

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/san-kum/binhab/internal/numeric"
)

var ErrNegativeInput = errors.New("habzone: negative stellar luminosity or temperature")

// Edges are habitable-zone distances in AU. Earth is where the flux equals
// the present solar constant.
type Edges struct {
	Inner float64
	Earth float64
	Outer float64
}

// Single returns the habitable zone of one star of luminosity lum (Lsun)
// and effective temperature teff (K).
func Single(lum, teff float64, in, out Criterion) (Edges, error) {
	if lum < 0 || teff < 0 {
		return Edges{}, ErrNegativeInput
	}
	return Edges{
		Inner: math.Sqrt(lum / in.Seff(teff)),
		Earth: math.Sqrt(lum),
		Outer: math.Sqrt(lum / out.Seff(teff)),
	}, nil
}

// quadPoints is the Gauss-Legendre order of the orbital-phase average.
const quadPoints = 128

// Pair is a binary seen from its centre of mass: luminosities in Lsun and
// the radii of the circular orbits of each star in AU.
type Pair struct {
	L1, L2   float64
	Rc1, Rc2 float64
}

// NewPair places two stars with mass ratio q = M2/M1 on circular orbits of
// total separation abin.
func NewPair(q, l1, l2, abin float64) Pair {
	rc2 := abin / (q + 1)
	return Pair{L1: l1, L2: l2, Rc1: q * rc2, Rc2: rc2}
}

// Flux is the combined flux, in Lsun/AU^2, at distance d when the binary
// is at orbital phase phi.
func (p Pair) Flux(phi, d float64) float64 {
	s := math.Sin(phi)
	r1 := d*d + p.Rc1*p.Rc1 + 2*d*p.Rc1*s
	r2 := d*d + p.Rc2*p.Rc2 - 2*d*p.Rc2*s
	return p.L1/r1 + p.L2/r2
}

// AverageFlux averages Flux over one orbital phase.
func (p Pair) AverageFlux(d float64) float64 {
	f := func(phi float64) float64 { return p.Flux(phi, d) }
	return quad.Fixed(f, 0, 2*math.Pi, quadPoints, quad.Legendre{}, 0) / (2 * math.Pi)
}

// Distance returns where the phase-averaged flux equals seff.
func (p Pair) Distance(seff float64) (float64, error) {
	f := func(d float64) float64 { return p.AverageFlux(d) - seff }
	d, err := numeric.Brent(f, 1e-3, 100)
	if errors.Is(err, numeric.ErrNoSignChange) {
		lo, hi, berr := numeric.ExpandBracket(f, 1e-3, 100, 4, 10)
		if berr != nil {
			return 0, fmt.Errorf("habzone: flux %g: %w", seff, berr)
		}
		d, err = numeric.Brent(f, lo, hi)
	}
	if err != nil {
		return 0, fmt.Errorf("habzone: flux %g: %w", seff, err)
	}
	return d, nil
}

// Binary returns the circumbinary habitable zone for a mass ratio
// q = M2/M1, luminosities l1 and l2 (Lsun), binary separation abin (AU).
// teff is the temperature used for the effective flux limits, usually the
// primary's.
func Binary(q, l1, l2, teff, abin float64, in, out Criterion) (Edges, error) {
	if l1 < 0 || l2 < 0 || teff < 0 {
		return Edges{}, ErrNegativeInput
	}
	p := NewPair(q, l1, l2, abin)

	var e Edges
	var err error
	if e.Inner, err = p.Distance(in.Seff(teff)); err != nil {
		return Edges{}, err
	}
	if e.Outer, err = p.Distance(out.Seff(teff)); err != nil {
		return Edges{}, err
	}
	if e.Earth, err = p.Distance(1); err != nil {
		return Edges{}, err
	}
	return e, nil
}
