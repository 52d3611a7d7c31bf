package experiment

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/binhab/internal/isochrone"
	"github.com/san-kum/binhab/internal/storage"
)

func sweepGrid(t *testing.T) *isochrone.Grid {
	t.Helper()
	cfg := testConfig()
	g, err := LoadGrid(gridDir(t), cfg.Metallicity(), cfg.Isochrones.Variant, nil)
	require.NoError(t, err)
	return g
}

func TestParseAxis(t *testing.T) {
	ax, err := ParseAxis("pbin=5:40:8")
	require.NoError(t, err)
	assert.Equal(t, Axis{Name: "pbin", Min: 5, Max: 40, N: 8}, ax)
	assert.Len(t, ax.Points(), 8)

	ax, err = ParseAxis("e=0, 0.2,0.4")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.2, 0.4}, ax.Points())

	for _, bad := range []string{"pbin", "=1,2", "pbin=", "pbin=a:b:c", "pbin=1,x"} {
		_, err := ParseAxis(bad)
		assert.Error(t, err, bad)
	}
}

func TestAxisLogPoints(t *testing.T) {
	p := Axis{Name: "pbin", Min: 1, Max: 100, N: 3, Log: true}.Points()
	require.Len(t, p, 3)
	assert.InDelta(t, 10, p[1], 1e-9)
}

func TestSweepValidate(t *testing.T) {
	sw := &Sweep{Axes: []Axis{{Name: "z", Values: []float64{0.01}}}}
	assert.True(t, errors.Is(sw.Validate(), ErrUnknownParam))

	sw = &Sweep{Axes: []Axis{{Name: "e", Values: []float64{0}}, {Name: "e", Values: []float64{0.1}}}}
	assert.Error(t, sw.Validate())

	sw = &Sweep{Axes: []Axis{{Name: "pbin", Min: 0, Max: 10, N: 3, Log: true}}}
	assert.Error(t, sw.Validate())

	assert.Error(t, (&Sweep{}).Validate())
}

func TestSweepGrid(t *testing.T) {
	g := sweepGrid(t)
	sw := &Sweep{Axes: []Axis{
		{Name: "pbin", Values: []float64{8, 20}},
		{Name: "e", Values: []float64{0.1, 1.5}},
	}}
	tab, err := sw.Run(context.Background(), testConfig(), g, nil)
	require.NoError(t, err)

	assert.Equal(t, "sweep", tab.Name)
	assert.Equal(t, []string{"pbin", "e", "ok", "lifetime", "hz_in", "hz_out", "hz_single_in", "hz_single_out"}, tab.Header)
	require.Len(t, tab.Rows, 4)

	pbin, _ := tab.Column("pbin")
	ecc, _ := tab.Column("e")
	assert.Equal(t, []float64{8, 8, 20, 20}, pbin)
	assert.Equal(t, []float64{0.1, 1.5, 0.1, 1.5}, ecc)

	ok, _ := tab.Column("ok")
	assert.Equal(t, []float64{1, 0, 1, 0}, ok)
	life, _ := tab.Column("lifetime")
	assert.True(t, math.IsNaN(life[1]))

	// the single-star zone only depends on the primary
	single, _ := tab.Column("hz_single_in")
	assert.Equal(t, single[0], single[2])
	assert.Equal(t, life[0], life[2])

	in, _ := tab.Column("hz_in")
	out, _ := tab.Column("hz_out")
	assert.Less(t, in[0], out[0])
}

func TestSweepSpin(t *testing.T) {
	g := sweepGrid(t)
	sw := &Sweep{Name: "periods", Spin: true, Axes: []Axis{{Name: "pbin", Values: []float64{10}}}}
	tab, err := sw.Run(context.Background(), testConfig(), g, nil)
	require.NoError(t, err)
	require.Len(t, tab.Rows, 1)
	assert.Equal(t, "periods", tab.Name)

	for _, col := range []string{"p1_final", "p2_final", "tsync1", "tsync2"} {
		v, ok := tab.Column(col)
		require.True(t, ok, col)
		assert.Greater(t, v[0], 0.0, col)
	}
}

func TestSweepCanceled(t *testing.T) {
	g := sweepGrid(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sw := &Sweep{Axes: []Axis{{Name: "pbin", Values: []float64{8, 20}}}}
	tab, err := sw.Run(ctx, testConfig(), g, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, tab.Rows)
}

func TestLoadSweep(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sweep.yaml")
	doc := `name: periods
spin: true
axes:
  - name: pbin
    min: 5
    max: 50
    n: 4
    log: true
  - name: a
    values: [1.0, 1.5]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	sw, err := LoadSweep(path)
	require.NoError(t, err)
	require.NoError(t, sw.Validate())
	assert.Equal(t, "periods", sw.Name)
	assert.True(t, sw.Spin)
	require.Len(t, sw.Axes, 2)
	assert.True(t, sw.Axes[0].Log)
	assert.Equal(t, []float64{1.0, 1.5}, sw.Axes[1].Points())
}

func TestBest(t *testing.T) {
	tab := storage.Table{
		Name:   "sweep",
		Header: []string{"pbin", "ok", "tsync1"},
		Rows: [][]float64{
			{5, 0, math.NaN()},
			{10, 1, 0.3},
			{20, 1, 0.1},
			{40, 1, math.Inf(1)},
		},
	}
	row, err := Best(tab, "tsync1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, row[0])

	_, err = Best(tab, "nope")
	assert.Error(t, err)

	tab.Rows = tab.Rows[:1]
	_, err = Best(tab, "tsync1")
	assert.Error(t, err)
}
