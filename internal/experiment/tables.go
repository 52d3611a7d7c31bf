package experiment

import (
	"fmt"
	"math"

	"github.com/san-kum/binhab/internal/config"
	"github.com/san-kum/binhab/internal/interaction"
	"github.com/san-kum/binhab/internal/rotation"
	"github.com/san-kum/binhab/internal/storage"
)

// EvolutionColumns is the header of the evolution table. Per-star columns
// of a missing secondary are zero.
var EvolutionColumns = []string{
	"time",
	"omega1", "p1", "tidal1", "wind1", "contraction1", "rotage1",
	"omega2", "p2", "tidal2", "wind2", "contraction2", "rotage2",
}

// EvolutionTable flattens ev into the evolution table.
func EvolutionTable(ev *rotation.Evolution) storage.Table {
	rows := make([][]float64, ev.Len())
	for k, t := range ev.Times {
		row := make([]float64, 0, len(EvolutionColumns))
		row = append(row, t)
		for i := range 2 {
			if ev.Omega[i] == nil {
				row = append(row, 0, 0, 0, 0, 0, 0)
				continue
			}
			terms := ev.Terms[i][k]
			row = append(row,
				ev.Omega[i][k], ev.Period[i][k],
				terms.Tidal, terms.Wind, terms.Contraction,
				ev.RotationalAge[i][k],
			)
		}
		rows[k] = row
	}
	return storage.Table{Name: "evolution", Header: EvolutionColumns, Rows: rows}
}

func table(name string, t *interaction.Table) storage.Table {
	return storage.Table{Name: name, Header: t.Header, Rows: t.Rows}
}

// Tables returns every table of the report in storage order.
func (r *Report) Tables() []storage.Table {
	return []storage.Table{
		EvolutionTable(r.Evolution),
		table("environment", r.Environment),
		table("fluence", r.Fluence.Table),
		table("massloss", r.MassLoss.Ensemble),
	}
}

// Metadata describes a run of kind for storage.
func Metadata(kind string, cfg *config.Config, sys *System, ev *rotation.Evolution) storage.RunMetadata {
	m := storage.RunMetadata{
		Kind:       kind,
		System:     cfg.Name,
		Integrator: cfg.Integration.Integrator,
		Dt:         ev.Dt,
		Tau0:       cfg.Integration.Tau0,
		End:        ev.End,
		Clamped:    ev.Clamped,
		Params: map[string]any{
			"m1":       cfg.Binary.M1,
			"m2":       cfg.Binary.M2,
			"e":        cfg.Binary.E,
			"pbin":     cfg.Binary.Period,
			"z":        sys.Z,
			"a_planet": cfg.Planet.A,
			"braking":  cfg.Rotation.Braking,
			"tides":    cfg.Rotation.Tides,
			"lifetime": sys.Lifetime,
			"hz_in":    sys.Binary.Inner,
			"hz_out":   sys.Binary.Outer,
			"hz_age":   sys.HZAge,
		},
		Metrics: make(map[string]float64, len(ev.Metrics)+4),
	}
	if m.System == "" {
		m.System = fmt.Sprintf("M1=%g M2=%g P=%gd", cfg.Binary.M1, cfg.Binary.M2, cfg.Binary.Period)
	}
	for k, v := range ev.Metrics {
		m.Metrics[k] = v
	}
	for i := range 2 {
		if ev.Omega[i] == nil {
			continue
		}
		m.Metrics[fmt.Sprintf("p0_%d", i+1)] = ev.InitialPeriod[i]
		if !math.IsInf(ev.TSync[i], 1) {
			m.Metrics[fmt.Sprintf("tsync_%d", i+1)] = ev.TSync[i]
		}
	}
	return m
}

// AddMassLoss records the planet's losses and the total fluences in m.
func AddMassLoss(m *storage.RunMetadata, r *Report) {
	m.Metrics["ml_planet"] = r.MassLoss.Planet.Lost
	m.Metrics["p_planet"] = r.MassLoss.Planet.Pressure
	m.Metrics["nt_ml_planet"] = r.MassLoss.Planet.NtLost
	m.Metrics["nt_p_planet"] = r.MassLoss.Planet.NtPressure
	m.Params["tauref"] = r.MassLoss.TauRef
	for name, v := range r.Fluence.Totals {
		m.Metrics["fluence_"+name] = v
	}
}
