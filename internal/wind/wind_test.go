package wind

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/binhab/internal/physics"
)

func TestReferenceAtSolarAge(t *testing.T) {
	v, n := Reference(physics.SolarAge)
	assert.InEpsilon(t, 426.6e3, v, 5e-3)
	assert.InEpsilon(t, 6.71e6, n, 5e-3)

	v0, n0 := Reference(0)
	assert.Equal(t, refVelocity, v0)
	assert.Equal(t, refDensity, n0)
}

func TestParkerResidualSonicPoint(t *testing.T) {
	if r := ParkerResidual(1, 1); math.Abs(r) > 1e-15 {
		t.Errorf("residual at sonic point = %g, want 0", r)
	}
}

func TestParkerBranches(t *testing.T) {
	const tc = 1.5e6
	vc, dc := sonic(1, tc)

	tests := []struct {
		name       string
		d          float64
		supersonic bool
	}{
		{"one au", 1, true},
		{"outer", 5, true},
		{"inside sonic point", 0.3 * dc / physics.AU, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParkerVelocity(tt.d, 1, tc)
			require.NoError(t, err)
			vn := v / vc
			dn := tt.d * physics.AU / dc
			assert.InDelta(t, 0, ParkerResidual(vn, dn), 1e-9)
			assert.Equal(t, tt.supersonic, vn > 1)
		})
	}

	v, err := ParkerVelocity(dc/physics.AU, 1, tc)
	require.NoError(t, err)
	assert.InEpsilon(t, vc, v, 1e-12)
}

func TestCoronaTemperatureMatchesReference(t *testing.T) {
	for _, tt := range []struct{ age, mass float64 }{
		{physics.SolarAge, 1},
		{1, 1},
		{2, 0.3},
		{8, 1.2},
	} {
		tc, err := CoronaTemperature(tt.age, tt.mass)
		require.NoError(t, err)
		assert.Greater(t, tc, 1e5)

		v, err := ParkerVelocity(1, tt.mass, tc)
		require.NoError(t, err)
		vref, _ := Reference(tt.age)
		assert.InEpsilon(t, vref, v, 1e-6)
	}
}

func TestEarlyWindIsClamped(t *testing.T) {
	young, err := Greissmeier(1, 0.3, 1, 1, EarlyConstant)
	require.NoError(t, err)
	at, err := Greissmeier(1, EarlyAge, 1, 1, EarlyConstant)
	require.NoError(t, err)
	assert.Equal(t, at, young)

	free, err := Greissmeier(1, 0.3, 1, 1, EarlyExtrapolate)
	require.NoError(t, err)
	assert.Greater(t, free.Flux(), at.Flux())
}

func TestSolarReference(t *testing.T) {
	ref, err := Solar()
	require.NoError(t, err)

	vref, nref := Reference(physics.SolarAge)
	vkep := math.Sqrt(physics.G * physics.MSun / physics.AU)
	assert.InEpsilon(t, nref, ref.N, 1e-6)
	assert.InEpsilon(t, math.Hypot(vref, vkep), ref.V, 1e-6)
	assert.InEpsilon(t, ref.N*ref.V, ref.SWPEL, 1e-12)

	p, err := Period(physics.SolarAge, 1, 1, EarlyConstant)
	require.NoError(t, err)
	assert.InEpsilon(t, physics.PSun, p, 1e-9)

	young, err := Period(1, 1, 1, EarlyConstant)
	require.NoError(t, err)
	assert.Less(t, young, p)
}

func TestBinaryWind(t *testing.T) {
	c := Component{Age: 2, Mass: 0.9, Radius: 0.85}
	f, err := Greissmeier(1.2, c.Age, c.Mass, c.Radius, EarlyConstant)
	require.NoError(t, err)

	p, fl, err := Binary(1.2, c, nil, EarlyConstant)
	require.NoError(t, err)
	assert.Equal(t, f.Pressure(), p)
	assert.Equal(t, f.Flux(), fl)

	p2, fl2, err := Binary(1.2, c, &c, EarlyConstant)
	require.NoError(t, err)
	assert.InEpsilon(t, 2*p, p2, 1e-12)
	assert.InEpsilon(t, 2*fl, fl2, 1e-12)
}

func TestParseEarly(t *testing.T) {
	tests := []struct {
		in   string
		want Early
		ok   bool
	}{
		{"constant", EarlyConstant, true},
		{"", EarlyConstant, true},
		{"Extrapolate", EarlyExtrapolate, true},
		{"saturated", EarlyConstant, false},
	}
	for _, tt := range tests {
		got, err := ParseEarly(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseEarly(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseEarly(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
