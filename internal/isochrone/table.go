package isochrone

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/binhab/internal/physics"
)

// Stellar masses kept from each table, in Msun.
const (
	MinMass = 0.1
	MaxMass = 2.0
)

// ageTol is the tolerance, in dex, for treating two log ages as equal.
const ageTol = 1e-9

// Layout gives the column index of each field in a table row; the eight
// photometric bands follow Mbol.
type Layout struct {
	Age, Mass, ActualMass, LogL, LogT, LogG, Mbol int
}

var (
	// PadovaLayout is the 16-column format with a leading Z column.
	PadovaLayout = Layout{Age: 1, Mass: 2, ActualMass: 3, LogL: 4, LogT: 5, LogG: 6, Mbol: 7}
	// BareLayout is the same format without the Z column.
	BareLayout = Layout{Age: 0, Mass: 1, ActualMass: 2, LogL: 3, LogT: 4, LogG: 5, Mbol: 6}
)

func (l Layout) width() int { return l.Mbol + 9 }

func layoutFor(n int) (Layout, bool) {
	switch n {
	case PadovaLayout.width():
		return PadovaLayout, true
	case BareLayout.width():
		return BareLayout, true
	}
	return Layout{}, false
}

// AgeSlice is one isochrone: every property as a function of initial mass.
type AgeSlice struct {
	LogAge  float64
	Masses  []float64
	columns [numProperties][]float64
	interps [numProperties]*interp.PiecewiseLinear
}

// Age returns the slice age in Gyr.
func (s *AgeSlice) Age() float64 {
	return math.Pow(10, s.LogAge) / 1e9
}

func (s *AgeSlice) MassRange() (float64, float64) {
	return s.Masses[0], s.Masses[len(s.Masses)-1]
}

// Column returns the tabulated values of p, aligned with Masses.
func (s *AgeSlice) Column(p Property) []float64 {
	return s.columns[p]
}

// Eval interpolates p at mass. It reports false outside the slice's
// tabulated mass range.
func (s *AgeSlice) Eval(p Property, mass float64) (float64, bool) {
	if !p.Valid() || math.IsNaN(mass) {
		return 0, false
	}
	lo, hi := s.MassRange()
	if mass < lo || mass > hi {
		return 0, false
	}
	return s.interps[p].Predict(mass), true
}

// Table holds the age slices of one metallicity, ordered by age.
type Table struct {
	Z      float64
	Source string
	Slices []*AgeSlice
}

// AgeRange returns the first and last log ages.
func (t *Table) AgeRange() (float64, float64) {
	return t.Slices[0].LogAge, t.Slices[len(t.Slices)-1].LogAge
}

// Bracket locates logAge among the slices. When a slice matches exactly it
// is returned as lo with exact set; otherwise lo and hi are the last slice
// below and the first slice above. ok is false outside the table.
func (t *Table) Bracket(logAge float64) (lo, hi *AgeSlice, exact, ok bool) {
	n := len(t.Slices)
	i := sort.Search(n, func(i int) bool { return t.Slices[i].LogAge > logAge+ageTol })
	// i is the first slice strictly above logAge
	if i > 0 && math.Abs(t.Slices[i-1].LogAge-logAge) <= ageTol {
		return t.Slices[i-1], nil, true, true
	}
	if i == 0 || i == n {
		return nil, nil, false, false
	}
	return t.Slices[i-1], t.Slices[i], false, true
}

// NewTable groups rows into age slices. A new slice starts whenever the
// age column differs from the previous row. Rows outside
// [MinMass, MaxMass] are dropped, as are rows whose mass does not increase
// within a slice; slices left with fewer than two masses are skipped.
func NewTable(z float64, source string, rows [][]float64) (*Table, error) {
	t := &Table{Z: z, Source: source}

	var group [][]float64
	var layout Layout
	flush := func() error {
		if len(group) == 0 {
			return nil
		}
		slice, err := buildSlice(group, layout)
		group = group[:0]
		if err != nil || slice == nil {
			return err
		}
		if n := len(t.Slices); n > 0 && slice.LogAge <= t.Slices[n-1].LogAge {
			return fmt.Errorf("%w: age %.4f after %.4f", ErrMalformed, slice.LogAge, t.Slices[n-1].LogAge)
		}
		t.Slices = append(t.Slices, slice)
		return nil
	}

	for i, row := range rows {
		l, ok := layoutFor(len(row))
		if !ok {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrMalformed, i+1, len(row))
		}
		if len(group) > 0 && row[l.Age] != group[0][layout.Age] {
			if err := flush(); err != nil {
				return nil, err
			}
		}
		layout = l
		group = append(group, row)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	if len(t.Slices) == 0 {
		return nil, fmt.Errorf("%w: no age slice with masses in [%.1f, %.1f]", ErrMalformed, MinMass, MaxMass)
	}
	return t, nil
}

func buildSlice(rows [][]float64, l Layout) (*AgeSlice, error) {
	s := &AgeSlice{LogAge: rows[0][l.Age]}
	for p := range s.columns {
		s.columns[p] = make([]float64, 0, len(rows))
	}

	for _, row := range rows {
		m := row[l.Mass]
		if m < MinMass || m > MaxMass {
			continue
		}
		if n := len(s.Masses); n > 0 && m <= s.Masses[n-1] {
			continue
		}
		logL, logT, logg := row[l.LogL], row[l.LogT], row[l.LogG]

		s.Masses = append(s.Masses, m)
		s.push(Mass, row[l.ActualMass])
		s.push(Luminosity, math.Pow(10, logL))
		s.push(LogLuminosity, logL)
		s.push(Radius, physics.Radius(m, physics.SurfaceGravity(logg)))
		s.push(LogGravity, logg)
		s.push(Temperature, math.Pow(10, logT))
		s.push(LogTemperature, logT)
		s.push(Mbol, row[l.Mbol])
		for b := 0; b < 8; b++ {
			s.push(BandU+Property(b), row[l.Mbol+1+b])
		}
	}

	if len(s.Masses) < 2 {
		return nil, nil
	}

	for p := range s.columns {
		pl := &interp.PiecewiseLinear{}
		if err := pl.Fit(s.Masses, s.columns[p]); err != nil {
			return nil, fmt.Errorf("%w: age %.4f %s: %v", ErrMalformed, s.LogAge, Property(p), err)
		}
		s.interps[p] = pl
	}
	return s, nil
}

func (s *AgeSlice) push(p Property, v float64) {
	s.columns[p] = append(s.columns[p], v)
}
