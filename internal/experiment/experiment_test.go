package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/binhab/internal/config"
	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/interaction"
	"github.com/san-kum/binhab/internal/isochrone"
	"github.com/san-kum/binhab/internal/isochrone/isochronetest"
)

func gridDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, isochronetest.WriteGrid(dir, isochronetest.Siblings))
	return dir
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Binary.M1 = 1.0
	cfg.Binary.M2 = 0.8
	cfg.Binary.Period = 10
	cfg.Isochrones.Variant = "siblings"
	cfg.Integration.TauMax = 2
	cfg.Integration.Dt = 1e-2
	cfg.Integration.SampleEvery = 5
	cfg.HabZone.Age = 1
	cfg.Planet.Samples = 5
	return cfg
}

func setup(t *testing.T, cfg *config.Config) *Experiment {
	t.Helper()
	g, err := LoadGrid(gridDir(t), cfg.Metallicity(), cfg.Isochrones.Variant, nil)
	require.NoError(t, err)
	return New(cfg, g, nil)
}

func TestLoadGrid(t *testing.T) {
	dir := gridDir(t)

	g, err := LoadGrid(dir, 0.0152, "siblings", nil)
	require.NoError(t, err)
	assert.Equal(t, isochronetest.Siblings, g.Metallicities())

	_, err = LoadGrid(dir, 0.3, "", nil)
	var de *isochrone.DataError
	assert.True(t, errors.As(err, &de), "got %v", err)

	_, err = LoadGrid(dir, 0.0152, "nonsense", nil)
	assert.Error(t, err)
}

func TestSetup(t *testing.T) {
	e := setup(t, testConfig())
	sys, err := e.Setup()
	require.NoError(t, err)

	assert.True(t, sys.IsBinary())
	assert.InDelta(t, 2.0, sys.Lifetime, 1e-9)
	assert.Equal(t, 1.0, sys.HZAge)
	assert.Less(t, sys.Binary.Inner, sys.Binary.Earth)
	assert.Less(t, sys.Binary.Earth, sys.Binary.Outer)
	// the secondary adds light
	assert.Greater(t, sys.Binary.Inner, sys.Single.Inner)
	assert.Greater(t, sys.Binary.Outer, sys.Single.Outer)
}

func TestSetupSingleStar(t *testing.T) {
	cfg := testConfig()
	cfg.Binary.M2 = 0
	e := setup(t, cfg)
	sys, err := e.Setup()
	require.NoError(t, err)

	assert.False(t, sys.IsBinary())
	assert.Equal(t, sys.Single, sys.Binary)
	_, err = e.Continuous()
	assert.Error(t, err)
}

func TestEvolveNeedsSetup(t *testing.T) {
	e := setup(t, testConfig())
	_, err := e.Evolve(context.Background())
	assert.ErrorIs(t, err, ErrNotSetup)
	_, err = e.Continuous()
	assert.ErrorIs(t, err, ErrNotSetup)
}

type observer struct{ steps int }

func (o *observer) OnStep(x dynamo.State, t float64) { o.steps++ }

func TestInteract(t *testing.T) {
	cfg := testConfig()
	e := setup(t, cfg)
	obs := &observer{}
	e.AddObserver(obs)

	r, err := e.Interact(context.Background())
	require.NoError(t, err)
	assert.Positive(t, obs.steps)

	ev := r.Evolution
	require.Positive(t, ev.Len())
	assert.Equal(t, ev.Len(), r.Environment.Len())
	assert.Equal(t, cfg.Planet.Samples, r.MassLoss.Ensemble.Len())
	assert.Contains(t, ev.Metrics, "min_period_1")
	assert.Contains(t, ev.Metrics, "sync_time_2")

	tables := r.Tables()
	names := make([]string, len(tables))
	for i, tab := range tables {
		names[i] = tab.Name
		for _, row := range tab.Rows {
			require.Len(t, row, len(tab.Header), tab.Name)
		}
	}
	assert.Equal(t, []string{"evolution", "environment", "fluence", "massloss"}, names)
	assert.Equal(t, interaction.Columns, tables[1].Header)

	meta := Metadata("interact", cfg, r.System, ev)
	AddMassLoss(&meta, r)
	assert.Equal(t, "interact", meta.Kind)
	assert.Contains(t, meta.Metrics, "p0_1")
	assert.Contains(t, meta.Metrics, "ml_planet")
	assert.Contains(t, meta.Metrics, "fluence_fxuv_p")
	assert.NotEmpty(t, meta.System)
}

func TestInteractReportsBadRotationOptions(t *testing.T) {
	cfg := testConfig()
	e := setup(t, cfg)
	_, err := e.Setup()
	require.NoError(t, err)

	cfg.Rotation.EarlyWind = "gusty"
	r, err := e.Interact(context.Background())
	assert.ErrorContains(t, err, "gusty")
	assert.Nil(t, r)
}

func TestContinuous(t *testing.T) {
	cfg := testConfig()
	cfg.Integration.TauMax = 12
	cfg.HabZone.Samples = 60
	e := setup(t, cfg)
	_, err := e.Setup()
	require.NoError(t, err)

	c, err := e.Continuous()
	require.NoError(t, err)
	assert.Less(t, c.Binary.Inner, c.Binary.Outer)
	assert.GreaterOrEqual(t, c.Binary.Inner, e.system.Orbit.Acrit)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"euler", "rk4", "rk45"}, r.ListIntegrators())

	_, err := r.GetIntegrator("")
	assert.NoError(t, err)
	_, err = r.GetIntegrator("verlet")
	assert.Error(t, err)
}
