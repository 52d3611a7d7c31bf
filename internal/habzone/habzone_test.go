package habzone

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/binhab/internal/isochrone"
	"github.com/san-kum/binhab/internal/isochrone/isochronetest"
	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/physics"
	"github.com/san-kum/binhab/internal/stellar"
)

func mustLookup(t *testing.T, name string) Criterion {
	t.Helper()
	c, err := Lookup(name, 1)
	require.NoError(t, err)
	return c
}

func TestSeffAtSolarTemperature(t *testing.T) {
	for _, name := range Names() {
		c := mustLookup(t, name)
		assert.Equal(t, c.S, c.Seff(physics.TSun), name)
	}
}

func TestSeffClampsTemperature(t *testing.T) {
	c := mustLookup(t, RecentVenus)
	assert.Equal(t, c.Seff(2600), c.Seff(1000))
	assert.Equal(t, c.Seff(7200), c.Seff(9000))
	assert.Greater(t, c.Seff(6500), c.Seff(4000))
}

func TestLookup(t *testing.T) {
	c, err := Lookup("Runaway-Greenhouse", 5)
	require.NoError(t, err)
	assert.Equal(t, 1.188, c.S)

	c, err = Lookup("early_mars", 0)
	require.NoError(t, err)
	assert.Equal(t, 0.32, c.S)

	_, err = Lookup("runaway greenhouse", 2)
	assert.Error(t, err)
	_, err = Lookup("snowball", 1)
	assert.Error(t, err)
}

func TestSingleSun(t *testing.T) {
	e, err := Single(1, physics.TSun, mustLookup(t, RecentVenus), mustLookup(t, EarlyMars))
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(1/1.776), e.Inner, 1e-12)
	assert.InDelta(t, 1.0, e.Earth, 1e-12)
	assert.InDelta(t, math.Sqrt(1/0.32), e.Outer, 1e-12)

	_, err = Single(-1, physics.TSun, mustLookup(t, RecentVenus), mustLookup(t, EarlyMars))
	assert.ErrorIs(t, err, ErrNegativeInput)
}

func TestAverageFluxMatchesRingAverage(t *testing.T) {
	p := NewPair(0.5, 1, 0.1, 0.2)
	assert.InDelta(t, 0.2, p.Rc1+p.Rc2, 1e-15)

	for _, d := range []float64{0.5, 1.2, 3} {
		// the phase average of 1/(d^2+r^2+2dr sin phi) is 1/(d^2-r^2)
		want := p.L1/(d*d-p.Rc1*p.Rc1) + p.L2/(d*d-p.Rc2*p.Rc2)
		assert.InEpsilon(t, want, p.AverageFlux(d), 1e-10, "d=%v", d)
	}
}

func TestBinaryEdges(t *testing.T) {
	in, out := mustLookup(t, RecentVenus), mustLookup(t, EarlyMars)
	e, err := Binary(0.5, 1, 0.1, physics.TSun, 0.2, in, out)
	require.NoError(t, err)

	p := NewPair(0.5, 1, 0.1, 0.2)
	assert.InDelta(t, in.S, p.AverageFlux(e.Inner), 1e-9)
	assert.InDelta(t, out.S, p.AverageFlux(e.Outer), 1e-9)
	assert.InDelta(t, 1, p.AverageFlux(e.Earth), 1e-9)
	assert.Less(t, e.Inner, e.Earth)
	assert.Less(t, e.Earth, e.Outer)

	// a tight pair looks like one star of the combined luminosity
	tight, err := Binary(0.5, 1, 0.1, physics.TSun, 1e-4, in, out)
	require.NoError(t, err)
	single, _ := Single(1.1, physics.TSun, in, out)
	assert.InEpsilon(t, single.Inner, tight.Inner, 1e-6)
	assert.InEpsilon(t, single.Outer, tight.Outer, 1e-6)
}

func TestEdgeHeuristicFindsKink(t *testing.T) {
	ages := numeric.Linspace(0.1, 12.5, 200)
	inner := make([]float64, len(ages))
	inner[0] = 0.5
	for i := 1; i < len(inner); i++ {
		step := 1.001
		if i >= 150 {
			step = 1.002
		}
		inner[i] = inner[i-1] * step
	}

	h := DefaultEdgeHeuristic()
	assert.Equal(t, 148, h.Pick(ages, inner, ages[len(ages)-1]))

	for i := 1; i < len(inner); i++ {
		step := 1.001
		if i >= 50 {
			step = 1.002
		}
		inner[i] = inner[i-1] * step
	}
	// the kink is older than half the lifetime and is never reached
	assert.GreaterOrEqual(t, h.Pick(ages, inner, ages[len(ages)-1]), 97)
}

func TestContinuousHZ(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, isochronetest.WriteGrid(dir, isochronetest.Siblings))
	g, err := isochrone.Load(dir, isochronetest.Siblings)
	require.NoError(t, err)
	r := stellar.NewResolver(g, nil)

	opts := ContinuousOptions{
		TMin:    0.1,
		TMax:    12.5,
		Samples: 60,
		Inner:   mustLookup(t, RecentVenus),
		Outer:   mustLookup(t, EarlyMars),
	}
	sys := System{Z: 0.0152, M1: 0.69, M2: 0.2, Abin: 0.22, Acrit: 0.2}

	c, err := ContinuousHZ(r, sys, opts)
	require.NoError(t, err)
	assert.Len(t, c.Ages, 60)
	assert.InDelta(t, 12.5, c.Lifetime, 1e-9)
	assert.Equal(t, floats.Min(c.Outer), c.Binary.Outer)
	assert.Less(t, c.Single.Inner, c.Single.Outer)
	assert.False(t, c.Clipped)

	sys.Acrit = 5
	c, err = ContinuousHZ(r, sys, opts)
	require.NoError(t, err)
	assert.True(t, c.Clipped)
	assert.Equal(t, 5.0, c.Binary.Inner)

	// a 1.5 Msun primary leaves the grid before 4 Gyr
	sys = System{Z: 0.0152, M1: 1.5, M2: 0.5, Abin: 0.2}
	c, err = ContinuousHZ(r, sys, opts)
	require.NoError(t, err)
	assert.Less(t, c.Lifetime, 4.0)
}
