package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/binhab/internal/rotation"
	"github.com/san-kum/binhab/internal/wind"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Metallicity() != 0.0152 {
		t.Errorf("expected solar metallicity, got %v", cfg.Metallicity())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "system.yaml")
	want := GetPreset("kepler-16")
	want.Integration.Adaptive = true
	want.Rotation.Braking = "fitted"

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("binary:\n  m1: 0.9\n  m2: 0.5\n  pbin: 20\n  z: 0.01\n"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DefaultConfig()
	want.Binary = BinaryConfig{M1: 0.9, M2: 0.5, E: 0.1, Period: 20, Z: 0.01}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("partial load mismatch (-want +got):\n%s", diff)
	}
}

func TestFeHOverridesZ(t *testing.T) {
	cfg := DefaultConfig()
	v := 0.0
	cfg.Binary.FeH = &v
	cfg.Binary.Z = 0.03
	if z := cfg.Metallicity(); z < 0.013 || z > 0.017 {
		t.Errorf("[Fe/H]=0 should give a near solar Z, got %v", z)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero primary", func(c *Config) { c.Binary.M1 = 0 }},
		{"secondary heavier", func(c *Config) { c.Binary.M2 = 2 }},
		{"unbound orbit", func(c *Config) { c.Binary.E = 1 }},
		{"zero period", func(c *Config) { c.Binary.Period = 0 }},
		{"no metals", func(c *Config) { c.Binary.Z = 0 }},
		{"planet inside", func(c *Config) { c.Planet.A = 0 }},
		{"empty ensemble", func(c *Config) { c.Planet.Samples = 0 }},
		{"backwards ages", func(c *Config) { c.Integration.TauMax = 0.001 }},
		{"adaptive without tolerance", func(c *Config) { c.Integration.Adaptive = true; c.Integration.Tolerance = 0 }},
		{"unknown braking", func(c *Config) { c.Rotation.Braking = "magnetar" }},
		{"unknown early wind", func(c *Config) { c.Rotation.EarlyWind = "gusty" }},
		{"unknown criterion", func(c *Config) { c.HabZone.Inner = "ocean loss" }},
		{"no runaway fit", func(c *Config) { c.HabZone.Inner = "runaway greenhouse"; c.HabZone.PlanetMass = 3 }},
		{"unknown variant", func(c *Config) { c.Isochrones.Variant = "dense" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestPresetsAreValid(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d names, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %s missing", name)
		}
		if cfg.Name != name {
			t.Errorf("preset %s carries name %q", name, cfg.Name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
		if _, err := cfg.Geometry(); err != nil {
			t.Errorf("preset %s geometry: %v", name, err)
		}
	}
	if GetPreset("kepler-1") != nil {
		t.Error("expected nil for unknown preset")
	}
}

func TestGetPresetReturnsCopy(t *testing.T) {
	a := GetPreset("kepler-16")
	a.Binary.M1 = 5
	*a.Binary.FeH = 1
	b := GetPreset("kepler-16")
	if b.Binary.M1 == 5 || *b.Binary.FeH == 1 {
		t.Error("preset was modified through a returned copy")
	}
}

func TestRotationOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rotation.Braking = "fitted"
	cfg.Rotation.EarlyWind = "extrapolate"
	cfg.Rotation.Tides = false
	cfg.Integration.TauMax = 8

	opts, err := cfg.RotationOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.Braking != rotation.BrakingFitted || opts.Early != wind.EarlyExtrapolate {
		t.Errorf("unexpected models %v %v", opts.Braking, opts.Early)
	}
	if opts.Tides || opts.TauMax != 8 || opts.PFac != DefaultPFac {
		t.Errorf("unexpected options %+v", opts)
	}

	ml := cfg.MassLossOptions()
	if ml.Samples != 30 || ml.Atmosphere.Mu != 44 || ml.Planet.Radius != 1 {
		t.Errorf("unexpected mass loss options %+v", ml)
	}
}

func TestSettings(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BINHAB_HOME", dir)
	t.Setenv("BINHAB_LOG_LEVEL", "debug")
	if err := os.WriteFile(filepath.Join(dir, "binhab.yaml"), []byte("isochrones:\n  directory: /data/padova\ncache:\n  ttl: 2h\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(NewViper())
	if err != nil {
		t.Fatal(err)
	}
	want := Settings{
		IsochroneDir: "/data/padova",
		CachePath:    s.CachePath,
		CacheTTL:     2 * time.Hour,
		OutputDir:    "runs",
		LogFormat:    "logfmt",
		LogLevel:     "debug",
	}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsWithoutFile(t *testing.T) {
	t.Setenv("BINHAB_HOME", t.TempDir())
	t.Chdir(t.TempDir())
	s, err := LoadSettings(NewViper())
	if err != nil {
		t.Fatal(err)
	}
	if s.CacheTTL != 720*time.Hour || s.LogFormat != "logfmt" {
		t.Errorf("unexpected defaults %+v", s)
	}
}
