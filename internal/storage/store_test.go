package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTables() []Table {
	return []Table{
		{
			Name:   "evolution",
			Header: []string{"time", "p1", "p2"},
			Rows:   [][]float64{{0.01, 14.2, 9.5}, {0.02, 14.1, 9.4}, {0.03, 1.0 / 3, math.Inf(1)}},
		},
		{
			Name:   "massloss",
			Header: []string{"mp", "ml_in"},
			Rows:   [][]float64{{0.1, 3.2e17}, {10, 1.5e19}},
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	meta := RunMetadata{
		Kind:       "interact",
		System:     "kepler-16",
		Integrator: "rk4",
		Dt:         1e-3,
		Tau0:       0.01,
		End:        12.5,
		Metrics:    map[string]float64{"final_period_1": 32.5, "sync_time_1": math.Inf(1)},
	}
	runID, err := st.Save(meta, sampleTables()...)
	require.NoError(t, err)
	_, err = uuid.Parse(runID)
	require.NoError(t, err, "run id should be a uuid")

	got, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "kepler-16", got.System)
	assert.Equal(t, []string{"evolution", "massloss"}, got.Tables)
	assert.Equal(t, 32.5, got.Metrics["final_period_1"])
	assert.NotContains(t, got.Metrics, "sync_time_1")
	assert.WithinDuration(t, time.Now(), got.Timestamp, time.Minute)

	tab, err := st.LoadTable(runID, "evolution")
	require.NoError(t, err)
	assert.Equal(t, sampleTables()[0].Header, tab.Header)
	require.Len(t, tab.Rows, 3)
	assert.Equal(t, 1.0/3, tab.Rows[2][1], "values must round trip exactly")
	assert.True(t, math.IsInf(tab.Rows[2][2], 1))

	p2, ok := tab.Column("p2")
	require.True(t, ok)
	assert.Equal(t, 9.4, p2[1])
	_, ok = tab.Column("p3")
	assert.False(t, ok)
}

func TestLoadTableMissing(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Kind: "evolve"})
	require.NoError(t, err)
	_, err = st.LoadTable(runID, "fluence")
	assert.ErrorIs(t, err, ErrNoTable)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := New(filepath.Join(dir, "missing")).List()
	require.NoError(t, err)
	assert.Empty(t, runs)

	older, err := st.Save(RunMetadata{Kind: "evolve", Timestamp: time.Now().Add(-time.Hour)})
	require.NoError(t, err)
	newer, err := st.Save(RunMetadata{Kind: "interact"})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "junk"), 0755))

	runs, err = st.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer, runs[0].ID)
	assert.Equal(t, older, runs[1].ID)
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Kind: "evolve"}, sampleTables()...)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.ExportJSON(&buf, runID))

	var out struct {
		Meta   RunMetadata                      `json:"meta"`
		Tables map[string]map[string][]*float64 `json:"tables"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, runID, out.Meta.ID)
	p2 := out.Tables["evolution"]["p2"]
	require.Len(t, p2, 3)
	assert.Nil(t, p2[2])
	assert.Equal(t, 9.5, *p2[0])
}
