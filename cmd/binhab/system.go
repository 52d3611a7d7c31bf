package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/san-kum/binhab/internal/config"
	"github.com/san-kum/binhab/internal/experiment"
	"github.com/san-kum/binhab/internal/logging"
)

var (
	m1, m2, ecc, pbin float64
	metallicity, feh  float64
	planetA           float64
	tauMax, dt        float64
	integrator        string
	braking           string
	earlyWind         string
	noTides           bool
	hzAge             float64
)

func addSystemFlags(fs *pflag.FlagSet) {
	fs.Float64Var(&m1, "m1", 1.0, "primary mass (Msun)")
	fs.Float64Var(&m2, "m2", 1.0, "secondary mass (Msun), 0 for a single star")
	fs.Float64Var(&ecc, "e", 0.1, "binary eccentricity")
	fs.Float64Var(&pbin, "pbin", 10, "binary period (days)")
	fs.Float64Var(&metallicity, "z", 0.0152, "metallicity Z")
	fs.Float64Var(&feh, "feh", 0, "metallicity [Fe/H], overrides --z")
	fs.Float64Var(&planetA, "a", 1.5, "planet semimajor axis (AU)")
	fs.Float64Var(&tauMax, "tau-max", config.DefaultTauMax, "final age (Gyr)")
	fs.Float64Var(&dt, "dt", config.DefaultDt, "largest integration step (Gyr)")
	fs.StringVar(&integrator, "integrator", "rk4",
		"integrator ("+strings.Join(experiment.NewRegistry().ListIntegrators(), ", ")+")")
	fs.StringVar(&braking, "braking", "physical", "magnetic braking (physical, fitted)")
	fs.StringVar(&earlyWind, "early-wind", "constant", "wind before 0.7 Gyr (constant, extrapolate)")
	fs.BoolVar(&noTides, "no-tides", false, "switch off tidal coupling")
	fs.Float64Var(&hzAge, "hz-age", 4.56, "age at which habitable zone edges are evaluated (Gyr)")
}

// loadSystem builds the run configuration: a preset or config file first,
// then every system flag the user set.
func loadSystem(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	flags := cmd.Flags()
	if flags.Changed("m1") {
		cfg.Binary.M1 = m1
	}
	if flags.Changed("m2") {
		cfg.Binary.M2 = m2
	}
	if flags.Changed("e") {
		cfg.Binary.E = ecc
	}
	if flags.Changed("pbin") {
		cfg.Binary.Period = pbin
	}
	if flags.Changed("z") {
		cfg.Binary.Z = metallicity
		cfg.Binary.FeH = nil
	}
	if flags.Changed("feh") {
		v := feh
		cfg.Binary.FeH = &v
	}
	if flags.Changed("a") {
		cfg.Planet.A = planetA
	}
	if flags.Changed("tau-max") {
		cfg.Integration.TauMax = tauMax
	}
	if flags.Changed("dt") {
		cfg.Integration.Dt = dt
	}
	if flags.Changed("integrator") {
		cfg.Integration.Integrator = integrator
	}
	if flags.Changed("braking") {
		cfg.Rotation.Braking = braking
	}
	if flags.Changed("early-wind") {
		cfg.Rotation.EarlyWind = earlyWind
	}
	if flags.Changed("no-tides") {
		cfg.Rotation.Tides = !noTides
	}
	if flags.Changed("hz-age") {
		cfg.HabZone.Age = hzAge
	}
	if settings.Variant != "" && !flags.Changed("config") {
		cfg.Isochrones.Variant = settings.Variant
	}
	if flags.Changed("variant") {
		cfg.Isochrones.Variant = variant
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newExperiment loads the grid for cfg and sets the system up.
func newExperiment(cfg *config.Config) (*experiment.Experiment, *experiment.System, error) {
	grid, err := experiment.LoadGrid(settings.IsochroneDir, cfg.Metallicity(), cfg.Isochrones.Variant,
		logging.Component(logger, "isochrone"))
	if err != nil {
		return nil, nil, err
	}
	e := experiment.New(cfg, grid, logging.Component(logger, "experiment"))
	sys, err := e.Setup()
	if err != nil {
		return nil, nil, err
	}
	return e, sys, nil
}
