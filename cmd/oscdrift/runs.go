package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/oscdrift/internal/dynamo"
	"github.com/san-kum/oscdrift/internal/report"
	"github.com/san-kum/oscdrift/internal/sim"
	"github.com/san-kum/oscdrift/internal/storage"
)

func newListCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := root.store().List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
				return nil
			}
			return report.WriteRuns(cmd.OutOrStdout(), runs)
		},
	}
}

func newShowCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "print the drift table of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := root.store()

			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			table, err := st.LoadDrift(meta.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(out, report.Title("run "+meta.ID))
			fmt.Fprintln(out, report.Subtle.Render(fmt.Sprintf("initial: x=%g v=%g  span: [%.4g, %.4g]",
				meta.Initial.Position, meta.Initial.Velocity, meta.Span.Start, meta.Span.End)))
			fmt.Fprintln(out)
			return report.WriteDriftTable(out, table)
		},
	}
}

func newPlotCommand(root *rootOptions) *cobra.Command {
	var (
		svgPath string
		phase   bool
		energy  bool
	)

	cmd := &cobra.Command{
		Use:   "plot [run_id] [scheme]",
		Short: "plot saved trajectories of a scheme, or the drift table when no scheme is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			st := root.store()

			if len(args) == 1 {
				table, err := st.LoadDrift(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, report.PlotDrift(table, report.DefaultPlotOptions()))
				return nil
			}

			scheme, err := dynamo.ParseScheme(args[1])
			if err != nil {
				return err
			}
			series, err := st.LoadSeries(args[0], scheme)
			if err != nil {
				return err
			}
			if len(series) == 0 {
				return fmt.Errorf("run %s has no %s trajectories", args[0], scheme)
			}
			fmt.Fprintln(out, report.PlotSeries(series, report.DefaultPlotOptions()))

			if energy {
				fmt.Fprintln(out, report.PlotEnergy(series, report.DefaultPlotOptions()))
			}

			if phase {
				for _, s := range series {
					fmt.Fprintln(out, report.Header(s.Label))
					fmt.Fprint(out, report.PhasePortrait(s.Trajectory, 61, 25))
				}
			}

			if svgPath != "" {
				f, err := os.Create(svgPath)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := report.WriteSVG(f, series, 800, 400); err != nil {
					return err
				}
				slog.Info("svg written", "path", svgPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&energy, "energy", false, "also plot energy against time")
	cmd.Flags().BoolVar(&phase, "phase", false, "also draw a phase portrait per step size")
	cmd.Flags().StringVar(&svgPath, "svg", "", "also write the trajectory plot to an SVG file")

	return cmd
}

func newExportCSVCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the drift table of a saved run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := root.store().LoadDrift(args[0])
			if err != nil {
				return err
			}
			return report.WriteDriftCSV(cmd.OutOrStdout(), table)
		},
	}
}

func newExportJSONCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write a saved run and all of its trajectories as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := root.store()
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}

			var all []sim.Series
			for _, s := range meta.Schemes {
				series, err := st.LoadSeries(meta.ID, s)
				if err != nil {
					return err
				}
				all = append(all, series...)
			}
			return storage.ExportJSON(cmd.OutOrStdout(), meta, all)
		},
	}
}

func newHistoryCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history [scheme]",
		Short: "show a scheme's drift across all saved runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheme, err := dynamo.ParseScheme(args[0])
			if err != nil {
				return err
			}

			st := root.store()
			if err := st.Init(); err != nil {
				return err
			}
			ix, err := st.OpenIndex()
			if err != nil {
				return err
			}
			defer ix.Close()

			entries, err := ix.History(cmd.Context(), scheme)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no history for %s\n", scheme)
				return nil
			}
			if err := report.WriteHistory(cmd.OutOrStdout(), entries); err != nil {
				return err
			}

			runs, err := ix.Runs(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Subtle.Render(fmt.Sprintf("%d entries from %d indexed runs", len(entries), runs)))
			return nil
		},
	}
}
