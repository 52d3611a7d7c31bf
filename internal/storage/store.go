// Package storage keeps finished runs on disk: one directory per run with
// a metadata.json and one CSV file per table.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var ErrNoTable = errors.New("storage: table not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Table is a named block of float columns written as <name>.csv.
type Table struct {
	Name   string
	Header []string
	Rows   [][]float64
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	System     string             `json:"system"`
	Timestamp  time.Time          `json:"timestamp"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Tau0       float64            `json:"tau0"`
	End        float64            `json:"end"`
	Clamped    bool               `json:"clamped"`
	Params     map[string]any     `json:"params,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	Tables     []string           `json:"tables"`
}

// Save writes meta and tables under a fresh run ID and returns it.
func (s *Store) Save(meta RunMetadata, tables ...Table) (string, error) {
	meta.ID = uuid.NewString()
	meta.Metrics = finiteMetrics(meta.Metrics)
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.Tables = meta.Tables[:0]
	for _, t := range tables {
		if err := writeTable(filepath.Join(runDir, t.Name+".csv"), t); err != nil {
			return "", fmt.Errorf("storage: table %s: %w", t.Name, err)
		}
		meta.Tables = append(meta.Tables, t.Name)
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// finiteMetrics drops values JSON cannot encode, such as the +Inf of a
// star that never synchronised.
func finiteMetrics(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			out[k] = v
		}
	}
	return out
}

func writeTable(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return err
	}
	row := make([]string, len(t.Header))
	for _, r := range t.Rows {
		row = row[:0]
		for _, v := range r {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns the stored runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTable reads <name>.csv of a run.
func (s *Store) LoadTable(runID, name string) (*Table, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name+".csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s in run %s", ErrNoTable, name, runID)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	t := &Table{Name: name}
	if len(records) == 0 {
		return t, nil
	}
	t.Header = records[0]
	t.Rows = make([][]float64, 0, len(records)-1)
	for i, record := range records[1:] {
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: %s.csv line %d: %w", name, i+2, err)
			}
			row[j] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Column returns the named column of t.
func (t *Table) Column(name string) ([]float64, bool) {
	for j, h := range t.Header {
		if h != name {
			continue
		}
		col := make([]float64, len(t.Rows))
		for i, r := range t.Rows {
			if j < len(r) {
				col[i] = r[j]
			}
		}
		return col, true
	}
	return nil, false
}
