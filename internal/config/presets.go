package config

import "sort"

func feh(v float64) *float64 { return &v }

// preset starts from the defaults and sets the binary and planet.
func preset(name string, b BinaryConfig, p PlanetConfig) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Binary = b
	cfg.Planet.A = p.A
	cfg.Planet.E = p.E
	if p.Mass > 0 {
		cfg.Planet.Mass = p.Mass
	}
	return cfg
}

// Presets are known circumbinary planet hosts plus a solar twin pair.
// Orbital elements follow the discovery papers; planet masses are left at
// one Earth mass since the mass-loss model is for rocky planets.
var Presets = map[string]*Config{
	"kepler-16": preset("kepler-16",
		BinaryConfig{M1: 0.6897, M2: 0.20255, E: 0.15944, Period: 41.079220, FeH: feh(-0.3)},
		PlanetConfig{A: 0.7048, E: 0.0069}),
	"kepler-34": preset("kepler-34",
		BinaryConfig{M1: 1.0479, M2: 1.0208, E: 0.52087, Period: 27.7958103, FeH: feh(-0.07)},
		PlanetConfig{A: 1.0896, E: 0.182}),
	"kepler-35": preset("kepler-35",
		BinaryConfig{M1: 0.8877, M2: 0.8094, E: 0.1421, Period: 20.733666, FeH: feh(-0.34)},
		PlanetConfig{A: 0.60347, E: 0.042}),
	"kepler-38": preset("kepler-38",
		BinaryConfig{M1: 0.949, M2: 0.249, E: 0.1032, Period: 18.7952, FeH: feh(-0.11)},
		PlanetConfig{A: 0.4644, E: 0.032}),
	"kepler-47": preset("kepler-47",
		BinaryConfig{M1: 1.043, M2: 0.362, E: 0.0234, Period: 7.44838, FeH: feh(-0.25)},
		PlanetConfig{A: 0.989, E: 0.0411}),
	"kepler-64": preset("kepler-64",
		BinaryConfig{M1: 1.528, M2: 0.408, E: 0.2117, Period: 20.000214, FeH: feh(0.19)},
		PlanetConfig{A: 0.634, E: 0.0702}),
	"kepler-413": preset("kepler-413",
		BinaryConfig{M1: 0.820, M2: 0.5423, E: 0.0365, Period: 10.116146, FeH: feh(-0.2)},
		PlanetConfig{A: 0.3553, E: 0.1181}),
	"solar-twin": preset("solar-twin",
		BinaryConfig{M1: 1, M2: 1, E: 0.1, Period: 10, Z: 0.0152},
		PlanetConfig{A: 1.5}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	if cfg.Binary.FeH != nil {
		c.Binary.FeH = feh(*cfg.Binary.FeH)
	}
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
