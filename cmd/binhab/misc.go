package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/binhab/internal/config"
	"github.com/san-kum/binhab/internal/tui"
)

var orbitSamples int

func newOrbitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orbit",
		Short: "plot the binary separation over one orbit",
		RunE:  runOrbit,
	}
	cmd.Flags().IntVar(&orbitSamples, "samples", 120, "points per orbit")
	return cmd
}

func runOrbit(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	g, err := cfg.Geometry()
	if err != nil {
		return err
	}

	track := g.Track(orbitSamples)
	sep := make([]float64, len(track))
	x1 := make([]float64, len(track))
	for i, p := range track {
		sep[i] = p.R
		x1[i] = p.X1
	}

	fmt.Print(tui.Header("orbit", fmt.Sprintf("P = %g d, e = %g", g.Period, g.E)))
	fmt.Print(tui.Fields(
		tui.Field{Label: "semimajor axis", Value: g.A, Unit: "AU"},
		tui.Field{Label: "critical separation", Value: g.Acrit, Unit: "AU"},
		tui.Field{Label: "synchronous period", Value: g.SyncPeriod(), Unit: "d"},
		tui.Field{Label: "mass ratio", Value: g.MassRatio()},
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(sep,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("separation (AU) vs orbital phase"),
	))
	fmt.Println()
	fmt.Println(asciigraph.Plot(x1,
		asciigraph.Height(8),
		asciigraph.Width(80),
		asciigraph.Caption("primary x (AU) vs orbital phase"),
	))
	return nil
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list named systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-12s M1=%-5g M2=%-5g P=%-8g e=%-6g Z=%.4f\n",
					name, p.Binary.M1, p.Binary.M2, p.Binary.Period, p.Binary.E, p.Metallicity())
			}
			return nil
		},
	}
}
