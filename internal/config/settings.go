package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings are process-wide knobs that do not describe a system: where the
// isochrone tables live, where runs and the cache are stored, and logging.
type Settings struct {
	IsochroneDir string
	Variant      string
	CachePath    string
	CacheTTL     time.Duration
	OutputDir    string
	LogFormat    string
	LogLevel     string
}

func home() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".binhab")
	}
	return ".binhab"
}

// NewViper returns a viper instance reading binhab.{yaml,toml} from
// $BINHAB_HOME, ~/.binhab and the working directory, with BINHAB_*
// environment overrides.
func NewViper() *viper.Viper {
	v := viper.New()
	base := home()
	v.SetDefault("isochrones.directory", filepath.Join(base, "isochrones"))
	v.SetDefault("isochrones.variant", "")
	v.SetDefault("cache.path", filepath.Join(base, "cache.db"))
	v.SetDefault("cache.ttl", "720h")
	v.SetDefault("output.directory", "runs")
	v.SetDefault("log.format", "logfmt")
	v.SetDefault("log.level", "info")

	v.SetConfigName("binhab")
	if dir := os.Getenv("BINHAB_HOME"); dir != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(base)
	v.AddConfigPath(".")

	v.SetEnvPrefix("BINHAB")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
	return v
}

// LoadSettings reads the settings file if there is one. A missing file is
// not an error.
func LoadSettings(v *viper.Viper) (Settings, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Settings{}, err
		}
	}
	return Settings{
		IsochroneDir: v.GetString("isochrones.directory"),
		Variant:      v.GetString("isochrones.variant"),
		CachePath:    v.GetString("cache.path"),
		CacheTTL:     v.GetDuration("cache.ttl"),
		OutputDir:    v.GetString("output.directory"),
		LogFormat:    v.GetString("log.format"),
		LogLevel:     v.GetString("log.level"),
	}, nil
}

var envReplacer = strings.NewReplacer(".", "_")
