package interaction

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/physics"
	"github.com/san-kum/binhab/internal/wind"
)

// Planet is a rocky planet in Earth units.
type Planet struct {
	Mass   float64
	Radius float64
}

// RockyPlanet uses the R = M^0.25 mass-radius scaling.
func RockyPlanet(mass float64) Planet {
	return Planet{Mass: mass, Radius: math.Pow(mass, 0.25)}
}

// Area is the cross section exposed to the wind, m^2.
func (p Planet) Area() float64 {
	r := p.Radius * physics.REarth
	return 2 * math.Pi * r * r
}

// Gravity at the surface, m/s^2.
func (p Planet) Gravity() float64 {
	r := p.Radius * physics.REarth
	return physics.G * p.Mass * physics.MEarth / (r * r)
}

// Atmosphere sets the escape efficiency and mean molecular weight of the
// lost gas.
type Atmosphere struct {
	Alpha float64
	Mu    float64
}

func DefaultAtmosphere() Atmosphere {
	return Atmosphere{Alpha: 0.3, Mu: 44}
}

// Lost is the mass, in kg, removed by a particle fluence (m^-2). Each wind
// particle absorbed over the exposed area ejects Alpha molecules of mean
// mass Mu proton masses.
func (a Atmosphere) Lost(p Planet, fluence float64) float64 {
	return a.Alpha * fluence * p.Area() * a.Mu * physics.ProtonMass
}

// Pressure is the surface pressure, in bar, that a lost mass represents.
func Pressure(p Planet, lost float64) float64 {
	return lost * p.Gravity() / (2 * p.Area()) / physics.Bar
}

type MassLossOptions struct {
	TauRef     float64 // Gyr
	Planet     Planet
	MinMass    float64 // ensemble bounds, Earth masses
	MaxMass    float64
	Samples    int
	Atmosphere Atmosphere
}

func DefaultMassLossOptions() MassLossOptions {
	return MassLossOptions{
		TauRef:     1,
		Planet:     Planet{Mass: 1, Radius: 1},
		MinMass:    0.1,
		MaxMass:    10,
		Samples:    30,
		Atmosphere: DefaultAtmosphere(),
	}
}

type PlanetLoss struct {
	Lost, Pressure     float64 // tidal scenario
	NtLost, NtPressure float64
}

type MassLoss struct {
	TauRef   float64
	Planet   PlanetLoss
	Ensemble *Table
}

// EnsembleColumns: lost mass (kg) and pressure (bar) for each site and
// scenario, per planet mass (Earth masses).
var EnsembleColumns = []string{
	"mp",
	"ml_in", "p_in", "ml_out", "p_out",
	"nt_ml_in", "nt_p_in", "nt_ml_out", "nt_p_out",
	"s_ml_in", "s_p_in", "s_ml_out", "s_p_out", "s_ml_eeq", "s_p_eeq",
}

var ensembleSources = []string{
	"fsw_in", "fsw_out",
	"nt_fsw_in", "nt_fsw_out",
	"s_fsw_in", "s_fsw_out", "s_fsw_eeq",
}

// at interpolates a fluence column at age t, holding the end values
// outside the sampled range.
func (f *Fluence) at(name string, t float64) (float64, error) {
	times, err := f.Column("time")
	if err != nil {
		return 0, err
	}
	col, err := f.Column(name)
	if err != nil {
		return 0, err
	}
	switch {
	case len(times) == 1 || t <= times[0]:
		return col[0], nil
	case t >= times[len(times)-1]:
		return col[len(col)-1], nil
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(times, col); err != nil {
		return 0, err
	}
	return pl.Predict(t), nil
}

// ComputeMassLoss converts wind particle fluences at opts.TauRef into
// atmospheric mass loss for the configured planet and for a log-spaced
// ensemble of rocky planets.
func ComputeMassLoss(f *Fluence, opts MassLossOptions) (*MassLoss, error) {
	if opts.Samples < 1 || opts.MinMass <= 0 || opts.MaxMass < opts.MinMass {
		return nil, fmt.Errorf("interaction: invalid planet ensemble [%g, %g] x %d", opts.MinMass, opts.MaxMass, opts.Samples)
	}
	ref, err := wind.Solar()
	if err != nil {
		return nil, err
	}
	facabs := physics.Gyr * ref.SWPEL

	fluence := func(name string) (float64, error) {
		v, err := f.at(name, opts.TauRef)
		return facabs * v, err
	}

	out := &MassLoss{TauRef: opts.TauRef}
	atm := opts.Atmosphere
	fp, err := fluence("fsw_p")
	if err != nil {
		return nil, err
	}
	ntfp, err := fluence("nt_fsw_p")
	if err != nil {
		return nil, err
	}
	out.Planet.Lost = atm.Lost(opts.Planet, fp)
	out.Planet.Pressure = Pressure(opts.Planet, out.Planet.Lost)
	out.Planet.NtLost = atm.Lost(opts.Planet, ntfp)
	out.Planet.NtPressure = Pressure(opts.Planet, out.Planet.NtLost)

	sources := make([]float64, len(ensembleSources))
	for i, name := range ensembleSources {
		if sources[i], err = fluence(name); err != nil {
			return nil, err
		}
	}

	masses := numeric.Logspace(opts.MinMass, opts.MaxMass, opts.Samples)
	rows := make([][]float64, len(masses))
	dynamo.ParallelFor(len(masses), 4, func(start, end int) {
		for k := start; k < end; k++ {
			p := RockyPlanet(masses[k])
			row := make([]float64, 0, len(EnsembleColumns))
			row = append(row, p.Mass)
			for _, fl := range sources {
				lost := atm.Lost(p, fl)
				row = append(row, lost, Pressure(p, lost))
			}
			rows[k] = row
		}
	})
	out.Ensemble = &Table{Header: EnsembleColumns, Rows: rows}
	return out, nil
}
