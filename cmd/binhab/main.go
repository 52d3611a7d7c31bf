package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/binhab/internal/config"
	"github.com/san-kum/binhab/internal/logging"
)

var (
	settings config.Settings
	logger   log.Logger

	// process settings overrides
	dataDir      string
	isochroneDir string
	variant      string
	cachePath    string
	noCache      bool
	logFormat    string
	logLevel     string

	// system selection
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "binhab",
		Short:         "rotation, activity and habitability of circumbinary planets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initSettings(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", "", "directory holding stored runs")
	pf.StringVar(&isochroneDir, "isochrones", "", "directory of Padova isochrone tables")
	pf.StringVar(&variant, "variant", "", "preferred isochrone grid (full, coarse, siblings, solar)")
	pf.StringVar(&cachePath, "cache", "", "cache database path")
	pf.BoolVar(&noCache, "no-cache", false, "do not read or write the cache")
	pf.StringVar(&logFormat, "log-format", "", "log format (logfmt, json)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, none)")
	pf.StringVar(&configFile, "config", "", "system configuration file (yaml)")
	pf.StringVar(&preset, "preset", "", "named system preset")
	addSystemFlags(pf)

	rootCmd.AddCommand(
		newStarCmd(),
		newHZCmd(),
		newEvolveCmd(),
		newInteractCmd(),
		newOrbitCmd(),
		newListCmd(),
		newShowCmd(),
		newPlotCmd(),
		newPresetsCmd(),
		newSweepCmd(),
		newCacheCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// initSettings reads binhab.yaml and the environment, then applies the
// persistent flags the user set.
func initSettings(cmd *cobra.Command) error {
	s, err := config.LoadSettings(config.NewViper())
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		s.OutputDir = dataDir
	}
	if flags.Changed("isochrones") {
		s.IsochroneDir = isochroneDir
	}
	if flags.Changed("variant") {
		s.Variant = variant
	}
	if flags.Changed("cache") {
		s.CachePath = cachePath
	}
	if flags.Changed("log-format") {
		s.LogFormat = logFormat
	}
	if flags.Changed("log-level") {
		s.LogLevel = logLevel
	}
	settings = s

	logger, err = logging.New(os.Stderr, s.LogFormat, s.LogLevel)
	return err
}
