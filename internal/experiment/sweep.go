package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/binhab/internal/config"
	"github.com/san-kum/binhab/internal/isochrone"
	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/storage"
)

var ErrUnknownParam = errors.New("experiment: unknown sweep parameter")

// sweepSetters change one scalar of a configuration. Metallicity is left out
// since a grid is loaded for a fixed set of metallicities.
var sweepSetters = map[string]func(*config.Config, float64){
	"m1":      func(c *config.Config, v float64) { c.Binary.M1 = v },
	"m2":      func(c *config.Config, v float64) { c.Binary.M2 = v },
	"e":       func(c *config.Config, v float64) { c.Binary.E = v },
	"pbin":    func(c *config.Config, v float64) { c.Binary.Period = v },
	"a":       func(c *config.Config, v float64) { c.Planet.A = v },
	"hz_age":  func(c *config.Config, v float64) { c.HabZone.Age = v },
	"pfac":    func(c *config.Config, v float64) { c.Rotation.PFac = v },
	"taudisk": func(c *config.Config, v float64) { c.Rotation.TauDisk = v },
}

func SweepParams() []string {
	names := make([]string, 0, len(sweepSetters))
	for k := range sweepSetters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Axis is one swept parameter. Values wins over the Min/Max/N range.
type Axis struct {
	Name   string    `yaml:"name"`
	Min    float64   `yaml:"min"`
	Max    float64   `yaml:"max"`
	N      int       `yaml:"n"`
	Log    bool      `yaml:"log"`
	Values []float64 `yaml:"values,omitempty"`
}

// Points lists the values the axis takes.
func (a Axis) Points() []float64 {
	if len(a.Values) > 0 {
		return a.Values
	}
	if a.N <= 1 {
		return []float64{a.Min}
	}
	if a.Log {
		return numeric.Logspace(a.Min, a.Max, a.N)
	}
	return numeric.Linspace(a.Min, a.Max, a.N)
}

// ParseAxis reads "name=min:max:n" or "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, def, ok := strings.Cut(s, "=")
	if !ok || name == "" || def == "" {
		return Axis{}, fmt.Errorf("experiment: axis %q: want name=min:max:n or name=v1,v2", s)
	}
	ax := Axis{Name: strings.TrimSpace(name)}
	if parts := strings.Split(def, ":"); len(parts) == 3 {
		var err error
		if ax.Min, err = strconv.ParseFloat(parts[0], 64); err != nil {
			return Axis{}, fmt.Errorf("experiment: axis %q: %w", s, err)
		}
		if ax.Max, err = strconv.ParseFloat(parts[1], 64); err != nil {
			return Axis{}, fmt.Errorf("experiment: axis %q: %w", s, err)
		}
		if ax.N, err = strconv.Atoi(parts[2]); err != nil {
			return Axis{}, fmt.Errorf("experiment: axis %q: %w", s, err)
		}
		return ax, nil
	}
	for _, f := range strings.Split(def, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("experiment: axis %q: %w", s, err)
		}
		ax.Values = append(ax.Values, v)
	}
	return ax, nil
}

// Sweep is a full grid over its axes. With Spin set every point also runs
// the spin evolution, which dominates the cost.
type Sweep struct {
	Name string `yaml:"name"`
	Axes []Axis `yaml:"axes"`
	Spin bool   `yaml:"spin"`
}

func LoadSweep(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sw Sweep
	if err := yaml.Unmarshal(data, &sw); err != nil {
		return nil, fmt.Errorf("experiment: sweep %s: %w", path, err)
	}
	return &sw, nil
}

func (sw *Sweep) Validate() error {
	if len(sw.Axes) == 0 {
		return errors.New("experiment: sweep has no axes")
	}
	seen := make(map[string]bool, len(sw.Axes))
	for _, a := range sw.Axes {
		if _, ok := sweepSetters[a.Name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownParam, a.Name)
		}
		if seen[a.Name] {
			return fmt.Errorf("experiment: axis %q repeated", a.Name)
		}
		seen[a.Name] = true
		if len(a.Values) == 0 && a.N > 1 && a.Log && (a.Min <= 0 || a.Max <= 0) {
			return fmt.Errorf("experiment: log axis %q needs positive bounds", a.Name)
		}
	}
	return nil
}

var sweepOutputs = []string{"ok", "lifetime", "hz_in", "hz_out", "hz_single_in", "hz_single_out"}

var spinOutputs = []string{"p1_final", "p2_final", "tsync1", "tsync2"}

// Header is the axis names followed by the per-point outputs.
func (sw *Sweep) Header() []string {
	h := make([]string, 0, len(sw.Axes)+len(sweepOutputs)+len(spinOutputs))
	for _, a := range sw.Axes {
		h = append(h, a.Name)
	}
	h = append(h, sweepOutputs...)
	if sw.Spin {
		h = append(h, spinOutputs...)
	}
	return h
}

// Run evaluates every grid point against base. A point that fails to set up
// or evolve is logged and kept as a row with ok = 0 and NaN outputs.
func (sw *Sweep) Run(ctx context.Context, base *config.Config, grid *isochrone.Grid, logger log.Logger) (storage.Table, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if err := sw.Validate(); err != nil {
		return storage.Table{}, err
	}
	name := sw.Name
	if name == "" {
		name = "sweep"
	}
	t := storage.Table{Name: name, Header: sw.Header()}

	var walk func(depth int, point []float64) error
	walk = func(depth int, point []float64) error {
		if depth == len(sw.Axes) {
			if err := ctx.Err(); err != nil {
				return err
			}
			row, err := sw.evaluate(ctx, base, grid, point, logger)
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			t.Rows = append(t.Rows, row)
			return nil
		}
		for _, v := range sw.Axes[depth].Points() {
			if err := walk(depth+1, append(point, v)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, make([]float64, 0, len(sw.Axes))); err != nil {
		return t, err
	}
	return t, nil
}

func (sw *Sweep) evaluate(ctx context.Context, base *config.Config, grid *isochrone.Grid, point []float64, logger log.Logger) ([]float64, error) {
	row := make([]float64, len(sw.Header()))
	copy(row, point)
	out := row[len(point):]
	for i := range out {
		out[i] = math.NaN()
	}
	out[0] = 0

	cfg := *base
	kv := make([]any, 0, 2*len(point))
	for i, a := range sw.Axes {
		sweepSetters[a.Name](&cfg, point[i])
		kv = append(kv, a.Name, point[i])
	}

	e := New(&cfg, grid, log.NewNopLogger())
	sys, err := e.Setup()
	if err != nil {
		level.Warn(logger).Log(append(kv, "msg", "sweep point skipped", "err", err)...)
		return row, err
	}
	out[1], out[2], out[3] = sys.Lifetime, sys.Binary.Inner, sys.Binary.Outer
	out[4], out[5] = sys.Single.Inner, sys.Single.Outer
	if sw.Spin {
		ev, err := e.Evolve(ctx)
		if err != nil {
			level.Warn(logger).Log(append(kv, "msg", "sweep evolution failed", "err", err)...)
			return row, err
		}
		spin := out[len(sweepOutputs):]
		for i := 0; i < 2; i++ {
			if p := ev.Period[i]; len(p) > 0 {
				spin[i] = p[len(p)-1]
			}
			spin[2+i] = ev.TSync[i]
		}
	}
	out[0] = 1
	level.Debug(logger).Log(append(kv, "msg", "sweep point", "lifetime", sys.Lifetime)...)
	return row, nil
}

// Best returns the row of t minimising col among the rows that succeeded.
func Best(t storage.Table, col string) ([]float64, error) {
	vals, ok := t.Column(col)
	if !ok {
		return nil, fmt.Errorf("experiment: no column %q in %s", col, t.Name)
	}
	okCol, _ := t.Column("ok")
	best, idx := math.Inf(1), -1
	for i, v := range vals {
		if okCol != nil && okCol[i] == 0 {
			continue
		}
		if !math.IsNaN(v) && v < best {
			best, idx = v, i
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("experiment: no usable %s in %s", col, t.Name)
	}
	return t.Rows[idx], nil
}
