package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/binhab/internal/habzone"
	"github.com/san-kum/binhab/internal/tui"
)

var continuous bool

func newHZCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hz",
		Short: "habitable zone of the primary alone and of the binary",
		RunE:  runHZ,
	}
	cmd.Flags().BoolVar(&continuous, "continuous", false, "also scan ages for the continuous habitable zone")
	return cmd
}

// hzEdges is what the cache keeps for one system.
type hzEdges struct {
	Binary, Single habzone.Edges
	Continuous     *habzone.Edges `json:",omitempty"`
	Clipped        bool
	Lifetime       float64
}

func runHZ(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	c := openCache()
	if c != nil {
		defer c.Close()
	}
	params := map[string]any{
		"z": cfg.Metallicity(), "m1": cfg.Binary.M1, "m2": cfg.Binary.M2,
		"e": cfg.Binary.E, "pbin": cfg.Binary.Period,
		"inner": cfg.HabZone.Inner, "outer": cfg.HabZone.Outer, "planet_mass": cfg.HabZone.PlanetMass,
		"age": cfg.HabZone.Age, "tau0": cfg.Integration.Tau0, "tau_max": cfg.Integration.TauMax,
		"continuous": continuous, "samples": cfg.HabZone.Samples, "variant": cfg.Isochrones.Variant,
	}

	var out hzEdges
	err = cached(cmd.Context(), c, "hz", params, &out, func() error {
		e, sys, err := newExperiment(cfg)
		if err != nil {
			return err
		}
		out = hzEdges{Binary: sys.Binary, Single: sys.Single, Lifetime: sys.Lifetime}
		if !continuous || !sys.IsBinary() {
			return nil
		}
		ch, err := e.Continuous()
		if err != nil {
			return err
		}
		out.Continuous = &ch.Binary
		out.Clipped = ch.Clipped
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Print(tui.Header("habitable zone", fmt.Sprintf("%s - %s at %g Gyr", cfg.HabZone.Inner, cfg.HabZone.Outer, cfg.HabZone.Age)))
	fmt.Print(tui.Fields(
		tui.Field{Label: "single inner", Value: out.Single.Inner, Unit: "AU"},
		tui.Field{Label: "single earth", Value: out.Single.Earth, Unit: "AU"},
		tui.Field{Label: "single outer", Value: out.Single.Outer, Unit: "AU"},
		tui.Field{Label: "binary inner", Value: out.Binary.Inner, Unit: "AU"},
		tui.Field{Label: "binary earth", Value: out.Binary.Earth, Unit: "AU"},
		tui.Field{Label: "binary outer", Value: out.Binary.Outer, Unit: "AU"},
		tui.Field{Label: "lifetime", Value: out.Lifetime, Unit: "Gyr"},
	))
	if out.Continuous != nil {
		fmt.Print(tui.Fields(
			tui.Field{Label: "continuous inner", Value: out.Continuous.Inner, Unit: "AU"},
			tui.Field{Label: "continuous outer", Value: out.Continuous.Outer, Unit: "AU"},
		))
		if out.Clipped {
			fmt.Print(tui.Warn("inner edge moved out to the critical separation"))
		}
	}
	return nil
}
