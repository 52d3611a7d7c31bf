package habzone

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/stellar"
)

var ErrShortHistory = errors.New("habzone: too few valid ages for a continuous habitable zone")

// EdgeHeuristic picks the inner edge of the continuous habitable zone from
// the history of the inner limit. Starting at the last age and moving back
// Stride samples at a time, it looks for the largest relative change in the
// log-slope of the inner edge, never looking at indices below StartIndex
// and stopping once the age falls below half the system lifetime.
type EdgeHeuristic struct {
	StartIndex int
	Stride     int
}

func DefaultEdgeHeuristic() EdgeHeuristic {
	return EdgeHeuristic{StartIndex: 10, Stride: 3}
}

// Pick returns the index of the selected inner edge in inner.
func (h EdgeHeuristic) Pick(ages, inner []float64, lifetime float64) int {
	n := len(inner)
	if n == 0 {
		return -1
	}
	stride := h.Stride
	if stride < 1 {
		stride = 1
	}

	dl := make([]float64, n)
	for i := 1; i < n; i++ {
		dl[i] = math.Log10(inner[i]) - math.Log10(inner[i-1])
	}

	imax := n - 1
	epsmax := 0.0
	prev := dl[n-1]
	for i := n - 1; i >= h.StartIndex; i -= stride {
		eps := 2 * math.Abs(dl[i]-prev) / (dl[i] + prev)
		if eps > epsmax {
			imax = i
			epsmax = eps
		}
		prev = dl[i]
		if ages[i] < lifetime/2 {
			break
		}
	}
	return imax
}

type ContinuousOptions struct {
	TMin, TMax float64
	Samples    int
	Inner      Criterion
	Outer      Criterion
	Heuristic  EdgeHeuristic
}

// Continuous is the habitable zone history of a binary and of its primary
// alone, with the distances that stay habitable for the whole lifetime.
type Continuous struct {
	Ages        []float64
	Inner       []float64
	Outer       []float64
	SingleInner []float64
	SingleOuter []float64

	Lifetime float64 // last sampled age at which both stars resolve
	Binary   Edges   // continuous edges of the binary, Earth unused
	Single   Edges   // continuous edges of the primary alone
	Clipped  bool    // binary inner edge moved out to the critical separation
}

// System is the binary whose habitable zone history is scanned.
type System struct {
	Z      float64
	M1, M2 float64
	Abin   float64
	Acrit  float64
}

// ContinuousHZ scans ages in [TMin, TMax] until either star leaves the
// isochrone grid and reduces the history to continuous edges.
func ContinuousHZ(r *stellar.Resolver, sys System, opts ContinuousOptions) (*Continuous, error) {
	if opts.Samples <= 0 {
		opts.Samples = 200
	}
	if opts.Heuristic.Stride == 0 {
		opts.Heuristic = DefaultEdgeHeuristic()
	}

	c := &Continuous{}
	q := sys.M2 / sys.M1
	for _, t := range numeric.Linspace(opts.TMin, opts.TMax, opts.Samples) {
		s1 := r.State(sys.Z, sys.M1, t)
		s2 := r.State(sys.Z, sys.M2, t)
		if !s1.OK || !s2.OK {
			break
		}
		single, err := Single(s1.Luminosity, s1.Temperature, opts.Inner, opts.Outer)
		if err != nil {
			break
		}
		bin, err := Binary(q, s1.Luminosity, s2.Luminosity, s1.Temperature, sys.Abin, opts.Inner, opts.Outer)
		if err != nil {
			return nil, fmt.Errorf("habzone: continuous zone at %g Gyr: %w", t, err)
		}
		c.Ages = append(c.Ages, t)
		c.Inner = append(c.Inner, bin.Inner)
		c.Outer = append(c.Outer, bin.Outer)
		c.SingleInner = append(c.SingleInner, single.Inner)
		c.SingleOuter = append(c.SingleOuter, single.Outer)
		c.Lifetime = t
	}
	if len(c.Ages) <= opts.Heuristic.StartIndex {
		return nil, fmt.Errorf("%w: %d samples", ErrShortHistory, len(c.Ages))
	}

	i := opts.Heuristic.Pick(c.Ages, c.Inner, c.Lifetime)
	c.Binary = Edges{Inner: c.Inner[i], Outer: floats.Min(c.Outer)}
	j := opts.Heuristic.Pick(c.Ages, c.SingleInner, c.Lifetime)
	c.Single = Edges{Inner: c.SingleInner[j], Outer: floats.Min(c.SingleOuter)}

	if c.Binary.Inner < sys.Acrit {
		c.Binary.Inner = sys.Acrit
		c.Clipped = true
	}
	return c, nil
}
