package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/san-kum/binhab/internal/experiment"
	"github.com/san-kum/binhab/internal/isochrone"
	"github.com/san-kum/binhab/internal/numeric"
	"github.com/san-kum/binhab/internal/physics"
	"github.com/san-kum/binhab/internal/rotation"
	"github.com/san-kum/binhab/internal/stellar"
	"github.com/san-kum/binhab/internal/tui"
	"github.com/san-kum/binhab/internal/wind"
)

var (
	starAge   float64
	fitLaw    bool
	starProps []string
)

func newStarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "star [mass]",
		Short: "resolve the properties of a star from the isochrones",
		Args:  cobra.ExactArgs(1),
		RunE:  runStar,
	}
	cmd.Flags().Float64Var(&starAge, "age", physics.SolarAge, "age (Gyr)")
	cmd.Flags().BoolVar(&fitLaw, "law", false, "fit the wind spin-down period law")
	cmd.Flags().StringSliceVar(&starProps, "property", nil, "extra isochrone columns to print (e.g. logL,V,K)")
	return cmd
}

func runStar(cmd *cobra.Command, args []string) error {
	mass, err := strconv.ParseFloat(args[0], 64)
	if err != nil || mass <= 0 {
		return fmt.Errorf("invalid mass %q", args[0])
	}
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	z := cfg.Metallicity()
	grid, err := experiment.LoadGrid(settings.IsochroneDir, z, cfg.Isochrones.Variant, logger)
	if err != nil {
		return err
	}
	r := stellar.NewResolver(grid, logger)

	st := r.State(z, mass, starAge)
	if !st.OK {
		return fmt.Errorf("%w: M=%g Msun, Z=%g at %g Gyr", stellar.ErrUnavailable, mass, z, starAge)
	}
	tau0, tmax := cfg.Integration.Tau0, cfg.Integration.TauMax
	lifetime, ok := r.Lifetime(z, mass, tau0, tmax)
	if !ok {
		return fmt.Errorf("%w: M=%g Msun, Z=%g has no lifetime from %g Gyr", stellar.ErrUnavailable, mass, z, tau0)
	}
	rmin, rmax, ok := r.MinMaxRadius(z, mass, tau0, lifetime)
	if !ok {
		return fmt.Errorf("%w: M=%g Msun, Z=%g has no radius in [%g, %g] Gyr", stellar.ErrUnavailable, mass, z, tau0, lifetime)
	}
	pw, err := wind.Period(starAge, mass, st.Radius, wind.EarlyConstant)
	if err != nil {
		return err
	}

	fmt.Print(tui.Header(fmt.Sprintf("M = %g Msun", mass), fmt.Sprintf("Z = %.5f, t = %g Gyr", z, starAge)))
	fmt.Print(tui.Fields(
		tui.Field{Label: "radius", Value: st.Radius, Unit: "Rsun"},
		tui.Field{Label: "luminosity", Value: st.Luminosity, Unit: "Lsun"},
		tui.Field{Label: "temperature", Value: st.Temperature, Unit: "K"},
		tui.Field{Label: "gravity", Value: st.Gravity, Unit: "m/s^2"},
		tui.Field{Label: "radius range", Value: rmin, Unit: fmt.Sprintf("- %.4g Rsun", rmax)},
		tui.Field{Label: "lifetime", Value: lifetime, Unit: "Gyr"},
		tui.Field{Label: "gyration radius", Value: physics.GyrationRadius(mass)},
		tui.Field{Label: "breakup period", Value: physics.BreakupPeriod(mass, st.Radius), Unit: "d"},
		tui.Field{Label: "turnover time", Value: physics.ConvectiveTurnoverTime(st.Temperature), Unit: "d"},
		tui.Field{Label: "wind period", Value: pw / physics.Day, Unit: "d"},
	))
	if len(starProps) > 0 {
		fields := make([]tui.Field, 0, len(starProps))
		for _, name := range starProps {
			p, err := isochrone.ParseProperty(name)
			if err != nil {
				return err
			}
			v, ok := r.Property(p, z, mass, starAge)
			if !ok {
				fmt.Print(tui.Warn(fmt.Sprintf("%s unavailable", p)))
				continue
			}
			fields = append(fields, tui.Field{Label: p.String(), Value: v})
		}
		fmt.Print(tui.Fields(fields...))
	}
	if !fitLaw {
		return nil
	}

	var law rotation.PeriodLaw
	c := openCache()
	if c != nil {
		defer c.Close()
	}
	params := map[string]any{
		"z": z, "mass": mass, "tau0": tau0, "end": lifetime,
		"samples": rotation.DefaultOptions().LawSamples, "early": cfg.Rotation.EarlyWind,
	}
	err = cached(cmd.Context(), c, "periodlaw", params, &law, func() error {
		early, err := wind.ParseEarly(cfg.Rotation.EarlyWind)
		if err != nil {
			return err
		}
		tr, err := r.NewTrack(z, mass, tau0, lifetime, experiment.TrackSamples)
		if err != nil {
			return err
		}
		law, err = rotation.WindLaw(tr, numeric.Logspace(tau0, lifetime, rotation.DefaultOptions().LawSamples), early)
		return err
	})
	if err != nil {
		return err
	}
	fmt.Printf("\n  %s\n", law)
	fmt.Print(tui.Fields(tui.Field{Label: "rotational age", Value: law.Age(pw / physics.Day), Unit: "Gyr"}))
	return nil
}
