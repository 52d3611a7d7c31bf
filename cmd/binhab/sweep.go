package main

import (
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/binhab/internal/experiment"
	"github.com/san-kum/binhab/internal/logging"
	"github.com/san-kum/binhab/internal/storage"
	"github.com/san-kum/binhab/internal/tui"
)

var (
	sweepFile  string
	sweepAxes  []string
	sweepSpin  bool
	sweepBest  string
	sweepQuiet bool
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "evaluate the system over a grid of parameters",
		Long: "Each --param is name=min:max:n or name=v1,v2,... Parameters: " +
			strings.Join(experiment.SweepParams(), ", ") + ".",
		RunE: runSweep,
	}
	f := cmd.Flags()
	f.StringVar(&sweepFile, "file", "", "sweep definition (yaml)")
	f.StringArrayVar(&sweepAxes, "param", nil, "swept parameter, repeatable")
	f.BoolVar(&sweepSpin, "spin", false, "also integrate the spins at every point")
	f.StringVar(&sweepBest, "best", "", "report the point minimising this column")
	f.BoolVar(&sweepQuiet, "quiet", false, "do not print the table")
	f.BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func loadSweep(cmd *cobra.Command) (*experiment.Sweep, error) {
	sw := &experiment.Sweep{}
	if sweepFile != "" {
		var err error
		if sw, err = experiment.LoadSweep(sweepFile); err != nil {
			return nil, err
		}
	}
	for _, s := range sweepAxes {
		ax, err := experiment.ParseAxis(s)
		if err != nil {
			return nil, err
		}
		sw.Axes = append(sw.Axes, ax)
	}
	if cmd.Flags().Changed("spin") {
		sw.Spin = sweepSpin
	}
	return sw, sw.Validate()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd)
	if err != nil {
		return err
	}
	sw, err := loadSweep(cmd)
	if err != nil {
		return err
	}
	grid, err := experiment.LoadGrid(settings.IsochroneDir, cfg.Metallicity(), cfg.Isochrones.Variant,
		logging.Component(logger, "isochrone"))
	if err != nil {
		return err
	}

	start := time.Now()
	tab, err := sw.Run(cmd.Context(), cfg, grid, logging.Component(logger, "sweep"))
	if err != nil {
		return err
	}
	good := 0
	if ok, found := tab.Column("ok"); found {
		for _, v := range ok {
			if v == 1 {
				good++
			}
		}
	}
	fmt.Print(tui.Header("sweep", fmt.Sprintf("%d of %d points in %v", good, len(tab.Rows), time.Since(start).Round(time.Millisecond))))
	if !sweepQuiet {
		printTable(tab)
	}

	meta := storage.RunMetadata{
		Kind:       "sweep",
		System:     systemName(cfg.Name),
		Integrator: cfg.Integration.Integrator,
		Dt:         cfg.Integration.Dt,
		Tau0:       cfg.Integration.Tau0,
		End:        cfg.Integration.TauMax,
		Params:     map[string]any{"spin": sw.Spin, "m1": cfg.Binary.M1, "m2": cfg.Binary.M2, "z": cfg.Metallicity()},
		Metrics:    map[string]float64{"points": float64(len(tab.Rows)), "ok": float64(good)},
	}
	for _, a := range sw.Axes {
		meta.Params["axis_"+a.Name] = a.Points()
	}

	if sweepBest != "" {
		row, err := experiment.Best(tab, sweepBest)
		if err != nil {
			return err
		}
		fields := make([]tui.Field, 0, len(row))
		for i, h := range tab.Header {
			fields = append(fields, tui.Field{Label: h, Value: row[i]})
			meta.Metrics["best_"+h] = row[i]
		}
		fmt.Print(tui.Header("best", "minimum of "+sweepBest))
		fmt.Print(tui.Fields(fields...))
	}

	if noSave {
		return nil
	}
	st := storage.New(settings.OutputDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(meta, tab)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func printTable(t storage.Table) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, strings.Join(t.Header, "\t")+"\t")
	for _, r := range t.Rows {
		cells := make([]string, len(r))
		for i, v := range r {
			switch {
			case math.IsNaN(v):
				cells[i] = "-"
			case math.IsInf(v, 1):
				cells[i] = "inf"
			default:
				cells[i] = fmt.Sprintf("%.4g", v)
			}
		}
		fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
	}
	w.Flush()
}
