// Package config holds the run configuration of a binary habitability
// calculation and the process-wide settings.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/binhab/internal/binary"
	"github.com/san-kum/binhab/internal/habzone"
	"github.com/san-kum/binhab/internal/interaction"
	"github.com/san-kum/binhab/internal/isochrone"
	"github.com/san-kum/binhab/internal/physics"
	"github.com/san-kum/binhab/internal/rotation"
	"github.com/san-kum/binhab/internal/wind"
)

var ErrInvalid = errors.New("config: invalid configuration")

const (
	DefaultTau0   = 0.01
	DefaultTauMax = 12.5
	DefaultDt     = 1e-3
	DefaultPFac   = 2.0
)

type Config struct {
	Name        string            `yaml:"name,omitempty"`
	Binary      BinaryConfig      `yaml:"binary"`
	Planet      PlanetConfig      `yaml:"planet"`
	Rotation    RotationConfig    `yaml:"rotation"`
	Integration IntegrationConfig `yaml:"integration"`
	HabZone     HabZoneConfig     `yaml:"habzone"`
	Isochrones  IsochroneConfig   `yaml:"isochrones"`
	Interaction InteractionConfig `yaml:"interaction"`
}

type BinaryConfig struct {
	M1     float64  `yaml:"m1"`
	M2     float64  `yaml:"m2"`
	E      float64  `yaml:"e"`
	Period float64  `yaml:"pbin"` // days
	Z      float64  `yaml:"z"`
	FeH    *float64 `yaml:"feh,omitempty"` // overrides Z when set
}

type PlanetConfig struct {
	A       float64 `yaml:"a"` // AU
	E       float64 `yaml:"e"`
	Mass    float64 `yaml:"mass"` // Earth masses
	MinMass float64 `yaml:"min_mass"`
	MaxMass float64 `yaml:"max_mass"`
	Samples int     `yaml:"samples"`
}

type RotationConfig struct {
	TauDisk   float64 `yaml:"taudisk"`
	Kw        float64 `yaml:"kw"`
	Wsat      float64 `yaml:"wsat"`
	PFac      float64 `yaml:"pfac"`
	Braking   string  `yaml:"braking"`
	EarlyWind string  `yaml:"early_wind"`
	Tides     bool    `yaml:"tides"`
}

type IntegrationConfig struct {
	Integrator  string  `yaml:"integrator"`
	Dt          float64 `yaml:"dt"`
	Tau0        float64 `yaml:"tau0"`
	TauMax      float64 `yaml:"tau_max"`
	Adaptive    bool    `yaml:"adaptive"`
	Tolerance   float64 `yaml:"tolerance"`
	SampleEvery int     `yaml:"sample_every"`
}

type HabZoneConfig struct {
	Inner      string  `yaml:"inner"`
	Outer      string  `yaml:"outer"`
	PlanetMass float64 `yaml:"planet_mass"`
	Age        float64 `yaml:"age"` // Gyr at which the fixed edges are evaluated
	Samples    int     `yaml:"samples"`
}

type IsochroneConfig struct {
	Variant string `yaml:"variant"`
}

type InteractionConfig struct {
	TauRef float64 `yaml:"tauref"`
	Alpha  float64 `yaml:"alpha"`
	Mu     float64 `yaml:"mu"`
}

func DefaultConfig() *Config {
	rp := rotation.DefaultParams()
	atm := interaction.DefaultAtmosphere()
	return &Config{
		Binary: BinaryConfig{M1: 1, M2: 1, E: 0.1, Period: 10, Z: physics.ZSun},
		Planet: PlanetConfig{A: 1.5, Mass: 1, MinMass: 0.1, MaxMass: 10, Samples: 30},
		Rotation: RotationConfig{
			TauDisk:   rp.TauDisk,
			Kw:        rp.Kw,
			Wsat:      rp.Wsat,
			PFac:      DefaultPFac,
			Braking:   rotation.BrakingPhysical.String(),
			EarlyWind: wind.EarlyConstant.String(),
			Tides:     true,
		},
		Integration: IntegrationConfig{
			Integrator:  "rk4",
			Dt:          DefaultDt,
			Tau0:        DefaultTau0,
			TauMax:      DefaultTauMax,
			Tolerance:   1e-6,
			SampleEvery: 10,
		},
		HabZone: HabZoneConfig{
			Inner:      habzone.RecentVenus,
			Outer:      habzone.EarlyMars,
			PlanetMass: 1,
			Age:        physics.SolarAge,
			Samples:    60,
		},
		Isochrones:  IsochroneConfig{Variant: string(isochrone.VariantFull)},
		Interaction: InteractionConfig{TauRef: 1, Alpha: atm.Alpha, Mu: atm.Mu},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Metallicity returns Z, converting [Fe/H] when it is given.
func (c *Config) Metallicity() float64 {
	if c.Binary.FeH != nil {
		z, _ := physics.ZFromFeH(*c.Binary.FeH)
		return z
	}
	return c.Binary.Z
}

func (c *Config) Validate() error {
	b := c.Binary
	switch {
	case b.M1 <= 0 || b.M2 < 0:
		return fmt.Errorf("%w: stellar masses %g, %g", ErrInvalid, b.M1, b.M2)
	case b.M2 > b.M1:
		return fmt.Errorf("%w: secondary (%g) heavier than primary (%g)", ErrInvalid, b.M2, b.M1)
	case b.E < 0 || b.E >= 1:
		return fmt.Errorf("%w: binary eccentricity %g", ErrInvalid, b.E)
	case b.Period <= 0:
		return fmt.Errorf("%w: binary period %g", ErrInvalid, b.Period)
	case c.Metallicity() <= 0:
		return fmt.Errorf("%w: metallicity %g", ErrInvalid, c.Metallicity())
	}

	p := c.Planet
	if p.A <= 0 || p.E < 0 || p.E >= 1 || p.Mass <= 0 {
		return fmt.Errorf("%w: planet a=%g e=%g mass=%g", ErrInvalid, p.A, p.E, p.Mass)
	}
	if p.MinMass <= 0 || p.MaxMass < p.MinMass || p.Samples < 1 {
		return fmt.Errorf("%w: planet ensemble [%g, %g] x %d", ErrInvalid, p.MinMass, p.MaxMass, p.Samples)
	}

	in := c.Integration
	if in.Dt <= 0 || in.Tau0 <= 0 || in.TauMax <= in.Tau0 {
		return fmt.Errorf("%w: integration dt=%g over [%g, %g]", ErrInvalid, in.Dt, in.Tau0, in.TauMax)
	}
	if in.Adaptive && in.Tolerance <= 0 {
		return fmt.Errorf("%w: adaptive stepping needs a positive tolerance", ErrInvalid)
	}

	if _, err := rotation.ParseBraking(c.Rotation.Braking); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := wind.ParseEarly(c.Rotation.EarlyWind); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.Rotation.PFac <= 0 || c.Rotation.Kw < 0 || c.Rotation.Wsat <= 0 {
		return fmt.Errorf("%w: rotation pfac=%g kw=%g wsat=%g", ErrInvalid, c.Rotation.PFac, c.Rotation.Kw, c.Rotation.Wsat)
	}
	if _, _, err := c.Criteria(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := isochrone.ParseVariant(c.Isochrones.Variant); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Geometry builds the binary orbit.
func (c *Config) Geometry() (binary.Geometry, error) {
	return binary.New(c.Binary.M1, c.Binary.M2, c.Binary.E, c.Binary.Period)
}

// Criteria returns the inner and outer habitable zone criteria.
func (c *Config) Criteria() (in, out habzone.Criterion, err error) {
	if in, err = habzone.Lookup(c.HabZone.Inner, c.HabZone.PlanetMass); err != nil {
		return
	}
	out, err = habzone.Lookup(c.HabZone.Outer, c.HabZone.PlanetMass)
	return
}

func (c *Config) RotationParams() rotation.Params {
	p := rotation.DefaultParams()
	p.TauDisk = c.Rotation.TauDisk
	p.Kw = c.Rotation.Kw
	p.Wsat = c.Rotation.Wsat
	return p
}

// RotationOptions maps the integration and rotation sections onto
// rotation.Options. The integrator is left for the caller to pick.
func (c *Config) RotationOptions() (rotation.Options, error) {
	opts := rotation.DefaultOptions()
	braking, err := rotation.ParseBraking(c.Rotation.Braking)
	if err != nil {
		return opts, err
	}
	early, err := wind.ParseEarly(c.Rotation.EarlyWind)
	if err != nil {
		return opts, err
	}
	opts.Braking = braking
	opts.Early = early
	opts.Tides = c.Rotation.Tides
	opts.PFac = c.Rotation.PFac
	opts.Tau0 = c.Integration.Tau0
	opts.TauMax = c.Integration.TauMax
	opts.Dt = c.Integration.Dt
	opts.Adaptive = c.Integration.Adaptive
	opts.Tolerance = c.Integration.Tolerance
	opts.SampleEvery = c.Integration.SampleEvery
	return opts, nil
}

func (c *Config) MassLossOptions() interaction.MassLossOptions {
	opts := interaction.DefaultMassLossOptions()
	opts.TauRef = c.Interaction.TauRef
	opts.Planet = interaction.RockyPlanet(c.Planet.Mass)
	opts.MinMass = c.Planet.MinMass
	opts.MaxMass = c.Planet.MaxMass
	opts.Samples = c.Planet.Samples
	opts.Atmosphere = interaction.Atmosphere{Alpha: c.Interaction.Alpha, Mu: c.Interaction.Mu}
	return opts
}
