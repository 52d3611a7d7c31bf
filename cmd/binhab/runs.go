package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/binhab/internal/storage"
)

var (
	showJSON  bool
	plotTable string
	plotCols  []string
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	cmd.Flags().BoolVar(&showJSON, "json", false, "export metadata and tables as JSON")
	return cmd
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot columns of a stored table against time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().StringVar(&plotTable, "table", "evolution", "table to plot")
	cmd.Flags().StringSliceVar(&plotCols, "col", []string{"p1", "p2"}, "columns to plot")
	return cmd
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(settings.OutputDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tSYSTEM\tTIME\tEND\tDT\tINTEG")
	for _, run := range runs {
		end := fmt.Sprintf("%.3g", run.End)
		if run.Clamped {
			end += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2g\t%s\n",
			run.ID,
			run.Kind,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			end,
			run.Dt,
			run.Integrator,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(settings.OutputDir)
	if showJSON {
		return st.ExportJSON(os.Stdout, args[0])
	}
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("kind: %s\n", meta.Kind)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("time: %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("ages: %g - %g Gyr (dt %g)\n", meta.Tau0, meta.End, meta.Dt)
	fmt.Printf("tables: %v\n", meta.Tables)

	fmt.Println("\nparams:")
	for _, k := range sortedKeys(meta.Params) {
		fmt.Printf("  %s: %v\n", k, meta.Params[k])
	}
	fmt.Println("\nmetrics:")
	for _, k := range sortedKeys(meta.Metrics) {
		fmt.Printf("  %s: %.6g\n", k, meta.Metrics[k])
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(settings.OutputDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tab, err := st.LoadTable(args[0], plotTable)
	if err != nil {
		return err
	}
	if len(tab.Rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s (%s)\n", meta.ID, meta.System)
	fmt.Printf("samples: %d\n\n", len(tab.Rows))
	for _, name := range plotCols {
		data, ok := tab.Column(name)
		if !ok {
			return fmt.Errorf("table %s has no column %q (have %v)", plotTable, name, tab.Header)
		}
		if allZero(data) {
			continue
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s vs time", name)),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func allZero(xs []float64) bool {
	for _, x := range xs {
		if x != 0 {
			return false
		}
	}
	return true
}
