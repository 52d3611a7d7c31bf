package main

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/binhab/internal/dynamo"
	"github.com/san-kum/binhab/internal/experiment"
	"github.com/san-kum/binhab/internal/rotation"
	"github.com/san-kum/binhab/internal/storage"
	"github.com/san-kum/binhab/internal/tui"
)

var (
	live   bool
	noSave bool
)

func newEvolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evolve",
		Short: "integrate the spins of both stars",
		RunE:  runEvolve,
	}
	cmd.Flags().BoolVar(&live, "live", false, "show integration progress")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func newInteractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interact",
		Short: "spin evolution, XUV and wind histories, fluences and atmospheric mass loss",
		RunE:  runInteract,
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func evolve(ctx context.Context, e *experiment.Experiment, sys *experiment.System, title string, tau0 float64) (*rotation.Evolution, error) {
	if !live {
		return e.Evolve(ctx)
	}
	var ev *rotation.Evolution
	err := tui.Run(ctx, title, tau0, sys.Lifetime, func(ctx context.Context, obs dynamo.Observer) error {
		e.AddObserver(obs)
		var err error
		ev, err = e.Evolve(ctx)
		return err
	})
	return ev, err
}

func runEvolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	e, sys, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	ev, err := evolve(cmd.Context(), e, sys, systemName(cfg.Name), cfg.Integration.Tau0)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printEvolution(ev, elapsed)
	if noSave {
		return nil
	}
	st := storage.New(settings.OutputDir)
	if err := st.Init(); err != nil {
		return err
	}
	meta := experiment.Metadata("evolve", cfg, sys, ev)
	runID, err := st.Save(meta, experiment.EvolutionTable(ev))
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runInteract(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	e, sys, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	r, err := e.Interact(cmd.Context())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	printEvolution(r.Evolution, elapsed)
	ml := r.MassLoss
	fmt.Print(tui.Header("planet", fmt.Sprintf("a = %g AU, Mp = %g Mearth, tauref = %g Gyr", cfg.Planet.A, cfg.Planet.Mass, ml.TauRef)))
	fmt.Print(tui.Fields(
		tui.Field{Label: "mass lost", Value: ml.Planet.Lost, Unit: "kg"},
		tui.Field{Label: "pressure", Value: ml.Planet.Pressure, Unit: "bar"},
		tui.Field{Label: "mass lost (no tides)", Value: ml.Planet.NtLost, Unit: "kg"},
		tui.Field{Label: "pressure (no tides)", Value: ml.Planet.NtPressure, Unit: "bar"},
	))
	if noSave {
		return nil
	}
	st := storage.New(settings.OutputDir)
	if err := st.Init(); err != nil {
		return err
	}
	meta := experiment.Metadata("interact", cfg, sys, r.Evolution)
	experiment.AddMassLoss(&meta, r)
	runID, err := st.Save(meta, r.Tables()...)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func systemName(name string) string {
	if name == "" {
		return "binary"
	}
	return name
}

func printEvolution(ev *rotation.Evolution, elapsed time.Duration) {
	fmt.Print(tui.Header("spin evolution", fmt.Sprintf("%d steps in %v", ev.Steps, elapsed.Round(time.Millisecond))))
	if ev.Clamped {
		fmt.Print(tui.Warn(fmt.Sprintf("integration stopped at the system lifetime, %.3g Gyr", ev.End)))
	}
	var fields []tui.Field
	for i := range 2 {
		if ev.Period[i] == nil {
			continue
		}
		n := len(ev.Period[i])
		fields = append(fields,
			tui.Field{Label: fmt.Sprintf("P%d initial", i+1), Value: ev.InitialPeriod[i], Unit: "d"},
			tui.Field{Label: fmt.Sprintf("P%d final", i+1), Value: ev.Period[i][n-1], Unit: "d"},
		)
		if !math.IsInf(ev.TSync[i], 1) {
			fields = append(fields, tui.Field{Label: fmt.Sprintf("tsync%d", i+1), Value: ev.TSync[i], Unit: "Gyr"})
		}
	}
	fields = append(fields, tui.Field{Label: "dt", Value: ev.Dt, Unit: "Gyr"})
	fmt.Print(tui.Fields(fields...))

	names := make([]string, 0, len(ev.Metrics))
	for name := range ev.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, ev.Metrics[name])
	}
}
