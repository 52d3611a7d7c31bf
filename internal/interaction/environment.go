package interaction

import (
	"errors"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/rotation"
	"github.com/san-kum/binhab/internal/wind"
	"github.com/san-kum/binhab/internal/xuv"
)

var ErrNoSamples = errors.New("interaction: spin evolution has no samples")

// Sites are the three distances, in AU, at which fluxes are evaluated.
// For the single-star scenario Planet is the Earth-equivalent distance.
type Sites struct {
	Inner, Outer, Planet float64
}

func (s Sites) distances() [3]float64 { return [3]float64{s.Inner, s.Outer, s.Planet} }

type Setup struct {
	Primary   rotation.Star
	Secondary rotation.Star // nil for a single star
	Evolution *rotation.Evolution

	Binary Sites // binary habitable zone and planet orbit
	Single Sites // primary-only habitable zone and Earth-equivalent distance
	Early  wind.Early
}

// Columns of the environment table. The flux columns, everything after
// fac_single, are the ones integrated into fluences.
var Columns = []string{
	"time",
	"lxuv1", "lxuv2", "lxuv",
	"nt_lxuv1", "nt_lxuv2", "nt_lxuv",
	"fac_nt", "fac_single",
	"fxuv_in", "fxuv_out", "fxuv_p",
	"nt_fxuv_in", "nt_fxuv_out", "nt_fxuv_p",
	"s_fxuv_in", "s_fxuv_out", "s_fxuv_eeq",
	"psw_in", "fsw_in", "psw_out", "fsw_out", "psw_p", "fsw_p",
	"nt_psw_in", "nt_fsw_in", "nt_psw_out", "nt_fsw_out", "nt_psw_p", "nt_fsw_p",
	"s_psw_in", "s_fsw_in", "s_psw_out", "s_fsw_out", "s_psw_eeq", "s_fsw_eeq",
}

// firstFlux is the index in Columns of the first flux column.
const firstFlux = 9

// Environment evaluates the flux table over the samples of s.Evolution.
// Rows are independent and are computed concurrently.
func Environment(s Setup, logger log.Logger) (*Table, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	ev := s.Evolution
	if ev == nil || ev.Len() == 0 {
		return nil, ErrNoSamples
	}
	ref, err := wind.Solar()
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, ev.Len())
	errs := make([]error, ev.Len())
	dynamo.ParallelFor(ev.Len(), 8, func(start, end int) {
		for k := start; k < end; k++ {
			rows[k], errs[k] = s.row(k, ref.SWPEL)
		}
	})
	for k, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("interaction: sample %d (t=%g Gyr): %w", k, ev.Times[k], err)
		}
	}
	level.Debug(logger).Log("msg", "environment", "samples", len(rows), "from", ev.Times[0], "to", ev.Times[len(ev.Times)-1])
	return &Table{Header: Columns, Rows: rows}, nil
}

func (s Setup) row(k int, swpel float64) ([]float64, error) {
	ev := s.Evolution
	t := ev.Times[k]
	tau1 := ev.RotationalAge[0][k]

	l1 := s.Primary.LuminosityAt(t)
	lxuv1 := xuv.Luminosity(l1, tau1)
	ntLxuv1 := xuv.Luminosity(l1, t)
	var lxuv2, ntLxuv2 float64
	var c2, nt2 *wind.Component
	if s.Secondary != nil {
		tau2 := ev.RotationalAge[1][k]
		l2 := s.Secondary.LuminosityAt(t)
		lxuv2 = xuv.Luminosity(l2, tau2)
		ntLxuv2 = xuv.Luminosity(l2, t)
		r2 := s.Secondary.RadiusAt(t)
		c2 = &wind.Component{Age: tau2, Mass: s.Secondary.Mass(), Radius: r2}
		nt2 = &wind.Component{Age: t, Mass: s.Secondary.Mass(), Radius: r2}
	}
	lxuv := lxuv1 + lxuv2
	ntLxuv := ntLxuv1 + ntLxuv2
	facNT := ntLxuv / lxuv
	facSingle := ntLxuv1 / lxuv

	row := make([]float64, 0, len(Columns))
	row = append(row, t, lxuv1, lxuv2, lxuv, ntLxuv1, ntLxuv2, ntLxuv, facNT, facSingle)

	bin, single := s.Binary.distances(), s.Single.distances()
	for _, d := range bin {
		row = append(row, xuv.Flux(lxuv, d))
	}
	for _, d := range bin {
		row = append(row, facNT*xuv.Flux(lxuv, d))
	}
	for _, d := range single {
		row = append(row, facSingle*xuv.Flux(lxuv, d))
	}

	r1 := s.Primary.RadiusAt(t)
	c1 := wind.Component{Age: tau1, Mass: s.Primary.Mass(), Radius: r1}
	nt1 := wind.Component{Age: t, Mass: s.Primary.Mass(), Radius: r1}
	for _, sc := range []struct {
		sites [3]float64
		c1    wind.Component
		c2    *wind.Component
	}{
		{bin, c1, c2},
		{bin, nt1, nt2},
		{single, nt1, nil},
	} {
		for _, d := range sc.sites {
			p, f, err := wind.Binary(d, sc.c1, sc.c2, s.Early)
			if err != nil {
				return nil, err
			}
			row = append(row, p, f/swpel)
		}
	}
	return row, nil
}
