package interaction

import (
	"github.com/san-kum/binhab/internal/numeric"
)

// Fluence holds the running time integral of every flux column of an
// environment table, in flux units times Gyr, and the integral over the
// whole history.
type Fluence struct {
	*Table
	Totals map[string]float64
}

func Integrate(env *Table) (*Fluence, error) {
	times, err := env.Column("time")
	if err != nil {
		return nil, err
	}
	header := append([]string{"time"}, env.Header[firstFlux:]...)
	rows := make([][]float64, env.Len())
	for k := range rows {
		rows[k] = make([]float64, len(header))
		rows[k][0] = times[k]
	}

	totals := make(map[string]float64, len(header)-1)
	for j, name := range header[1:] {
		col, err := env.Column(name)
		if err != nil {
			return nil, err
		}
		for k, v := range numeric.CumTrapz(times, col) {
			rows[k][j+1] = v
		}
		totals[name] = numeric.Trapz(times, col)
	}
	return &Fluence{Table: &Table{Header: header, Rows: rows}, Totals: totals}, nil
}
