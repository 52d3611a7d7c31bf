package interaction

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/physics"
	"github.com/san-kum/binhab/internal/rotation"
	"github.com/san-kum/binhab/internal/wind"
	"github.com/san-kum/binhab/internal/xuv"
)

type fixedStar struct{ m, r, l float64 }

func (s fixedStar) Mass() float64                  { return s.m }
func (s fixedStar) RadiusAt(t float64) float64     { return s.r }
func (s fixedStar) LuminosityAt(t float64) float64 { return s.l }
func (s fixedStar) MoIAt(t float64) float64        { return physics.MoICoefficient(s.m) * s.m * s.r * s.r }
func (s fixedStar) DMoIAt(t float64) float64       { return 0 }

// setup builds an environment whose rotational ages are scale times the
// true ages.
func setup(scale float64) Setup {
	times := numeric.Linspace(0.1, 3, 20)
	ev := &rotation.Evolution{Times: times}
	for i := range 2 {
		ev.RotationalAge[i] = make([]float64, len(times))
		for k, t := range times {
			ev.RotationalAge[i][k] = scale * t
		}
	}
	return Setup{
		Primary:   fixedStar{1, 1, 1},
		Secondary: fixedStar{0.7, 0.65, 0.2},
		Evolution: ev,
		Binary:    Sites{Inner: 0.9, Outer: 1.8, Planet: 1.2},
		Single:    Sites{Inner: 0.95, Outer: 1.7, Planet: 1},
		Early:     wind.EarlyConstant,
	}
}

func col(t *testing.T, tab *Table, name string) []float64 {
	t.Helper()
	c, err := tab.Column(name)
	require.NoError(t, err)
	return c
}

func TestEnvironmentWithoutTidesMatchesTrueAges(t *testing.T) {
	env, err := Environment(setup(1), nil)
	require.NoError(t, err)
	require.Equal(t, 20, env.Len())
	for _, row := range env.Rows {
		require.Len(t, row, len(Columns))
	}

	for _, pair := range [][2]string{
		{"lxuv", "nt_lxuv"},
		{"fxuv_in", "nt_fxuv_in"},
		{"fxuv_p", "nt_fxuv_p"},
		{"psw_out", "nt_psw_out"},
		{"fsw_p", "nt_fsw_p"},
	} {
		assert.InDeltaSlice(t, col(t, env, pair[0]), col(t, env, pair[1]), 1e-9*math.Abs(col(t, env, pair[0])[0]), pair[0])
	}
	for _, f := range col(t, env, "fac_nt") {
		assert.InDelta(t, 1, f, 1e-12)
	}
}

func TestEnvironmentGeometry(t *testing.T) {
	env, err := Environment(setup(1), nil)
	require.NoError(t, err)

	in, out := col(t, env, "fxuv_in"), col(t, env, "fxuv_out")
	for k := range in {
		assert.InDelta(t, (1.8/0.9)*(1.8/0.9), in[k]/out[k], 1e-9)
	}

	lx1 := col(t, env, "nt_lxuv1")
	eeq := col(t, env, "s_fxuv_eeq")
	for k := range eeq {
		assert.InDelta(t, xuv.Flux(lx1[k], 1), eeq[k], 1e-9*eeq[k])
	}

	for _, name := range []string{"psw_in", "fsw_in", "s_fsw_eeq"} {
		for _, v := range col(t, env, name) {
			assert.Greater(t, v, 0.0, name)
		}
	}
}

func TestSpunUpStarsAreBrighter(t *testing.T) {
	env, err := Environment(setup(0.5), nil)
	require.NoError(t, err)

	lx, ntlx := col(t, env, "lxuv"), col(t, env, "nt_lxuv")
	for k := range lx {
		assert.GreaterOrEqual(t, lx[k], ntlx[k])
	}
	assert.Greater(t, lx[len(lx)-1], ntlx[len(ntlx)-1])
}

func TestEnvironmentNeedsSamples(t *testing.T) {
	s := setup(1)
	s.Evolution = &rotation.Evolution{}
	_, err := Environment(s, nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestFluence(t *testing.T) {
	env, err := Environment(setup(1), nil)
	require.NoError(t, err)
	fl, err := Integrate(env)
	require.NoError(t, err)

	assert.Equal(t, "time", fl.Header[0])
	assert.Len(t, fl.Header, len(Columns)-firstFlux+1)

	cum := col(t, fl.Table, "fsw_in")
	assert.Zero(t, cum[0])
	for k := 1; k < len(cum); k++ {
		assert.GreaterOrEqual(t, cum[k], cum[k-1])
	}
	assert.InDelta(t, fl.Totals["fsw_in"], cum[len(cum)-1], 1e-9*cum[len(cum)-1])

	_, err = fl.Column("lxuv")
	assert.Error(t, err)
}

func TestMassLoss(t *testing.T) {
	env, err := Environment(setup(1), nil)
	require.NoError(t, err)
	fl, err := Integrate(env)
	require.NoError(t, err)

	opts := DefaultMassLossOptions()
	ml, err := ComputeMassLoss(fl, opts)
	require.NoError(t, err)

	require.Equal(t, opts.Samples, ml.Ensemble.Len())
	assert.InDelta(t, opts.MinMass, ml.Ensemble.Rows[0][0], 1e-12)
	assert.InDelta(t, opts.MaxMass, ml.Ensemble.Rows[opts.Samples-1][0], 1e-9)

	lost := col(t, ml.Ensemble, "ml_in")
	press := col(t, ml.Ensemble, "p_in")
	for k := 1; k < len(lost); k++ {
		assert.Greater(t, lost[k], lost[k-1])
		assert.Greater(t, press[k], press[k-1])
	}

	ref, err := wind.Solar()
	require.NoError(t, err)
	fp, err := fl.at("fsw_p", opts.TauRef)
	require.NoError(t, err)
	p := opts.Planet
	want := 0.3 * fp * physics.Gyr * ref.SWPEL * 44 * physics.ProtonMass * p.Gravity() / 2 / physics.Bar
	assert.InDelta(t, want, ml.Planet.Pressure, 1e-9*want)
	assert.InDelta(t, ml.Planet.Lost, ml.Planet.NtLost, 1e-9*ml.Planet.Lost)
}

func TestAtmosphereLostByHand(t *testing.T) {
	// Earth, 1e20 wind particles per m^2, CO2 atmosphere:
	// 0.3 * 1e20 * 2pi(6.371e6 m)^2 * 44 * 1.6726e-27 kg
	p := Planet{Mass: 1, Radius: 1}
	assert.InEpsilon(t, 2.5503223595e14, p.Area(), 1e-9)
	assert.InEpsilon(t, 9.81397544, p.Gravity(), 1e-8)

	lost := DefaultAtmosphere().Lost(p, 1e20)
	assert.InEpsilon(t, 5.630757034e8, lost, 1e-9)
	assert.InEpsilon(t, 1.083394635e-10, Pressure(p, lost), 1e-8)

	assert.Zero(t, DefaultAtmosphere().Lost(p, 0))
	// a bigger rocky planet presents a larger area
	assert.InEpsilon(t, 2*lost, DefaultAtmosphere().Lost(RockyPlanet(4), 1e20), 1e-12)
}

func TestMassLossRejectsBadEnsemble(t *testing.T) {
	opts := DefaultMassLossOptions()
	opts.MinMass = 0
	_, err := ComputeMassLoss(&Fluence{Table: &Table{}}, opts)
	assert.Error(t, err)
}

func TestFluenceAtClampsOutsideRange(t *testing.T) {
	fl := &Fluence{Table: &Table{
		Header: []string{"time", "x"},
		Rows:   [][]float64{{1, 0}, {2, 10}, {3, 30}},
	}}
	for _, tc := range []struct{ t, want float64 }{{0.5, 0}, {1.5, 5}, {2.5, 20}, {9, 30}} {
		got, err := fl.at("x", tc.t)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-12)
	}
}
