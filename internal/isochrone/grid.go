package isochrone

import (
	"sort"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Grid is the loaded set of tables, one per metallicity, in increasing Z.
type Grid struct {
	zs     []float64
	tables []*Table
}

func (g *Grid) Metallicities() []float64 {
	out := make([]float64, len(g.zs))
	copy(out, g.zs)
	return out
}

func (g *Grid) Tables() []*Table {
	return g.tables
}

// Table returns the table loaded for exactly z.
func (g *Grid) Table(z float64) (*Table, bool) {
	i := sort.SearchFloat64s(g.zs, z)
	if i < len(g.zs) && g.zs[i] == z {
		return g.tables[i], true
	}
	return nil, false
}

// ZRange returns the lowest and highest loaded metallicity.
func (g *Grid) ZRange() (float64, float64) {
	return g.zs[0], g.zs[len(g.zs)-1]
}

type Loader struct {
	Source Source
	Logger log.Logger
}

func NewLoader(dir string, logger log.Logger) *Loader {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Loader{Source: DirSource{Dir: dir}, Logger: logger}
}

// Load reads every table in zs. A missing or malformed table aborts the
// whole load with a *DataError; no partial grid is returned.
func (l *Loader) Load(zs []float64) (*Grid, error) {
	logger := l.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if len(zs) == 0 {
		return nil, &DataError{Op: "load", Err: ErrInvalidGrid}
	}
	for i := 1; i < len(zs); i++ {
		if zs[i] <= zs[i-1] {
			return nil, &DataError{Op: "load", Z: zs[i], Err: ErrInvalidGrid}
		}
	}

	g := &Grid{
		zs:     make([]float64, len(zs)),
		tables: make([]*Table, len(zs)),
	}
	copy(g.zs, zs)

	for i, z := range zs {
		rows, name, err := l.Source.Rows(z)
		if err != nil {
			level.Error(logger).Log("msg", "isochrone table unavailable", "z", z, "path", name, "err", err)
			return nil, &DataError{Op: "read", Z: z, Path: name, Err: err}
		}
		t, err := NewTable(z, name, rows)
		if err != nil {
			return nil, &DataError{Op: "parse", Z: z, Path: name, Err: err}
		}
		lo, hi := t.AgeRange()
		level.Debug(logger).Log("msg", "loaded isochrone", "z", z, "slices", len(t.Slices), "logage_min", lo, "logage_max", hi)
		g.tables[i] = t
	}

	level.Info(logger).Log("msg", "isochrone grid ready", "tables", len(zs))
	return g, nil
}

// Load reads the tables for zs from dir without logging.
func Load(dir string, zs []float64) (*Grid, error) {
	return NewLoader(dir, nil).Load(zs)
}
