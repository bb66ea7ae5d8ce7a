package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/oscdrift/internal/config"
	"github.com/san-kum/oscdrift/internal/dynamo"
	"github.com/san-kum/oscdrift/internal/integrators"
	"github.com/san-kum/oscdrift/internal/report"
	"github.com/san-kum/oscdrift/internal/sim"
)

type runOptions struct {
	configFile string
	preset     string
	schemes    []string
	parallel   bool
	save       bool
	plot       bool
	csv        bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the step-size sweep and print the drift table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "use preset configuration")
	cmd.Flags().StringSliceVar(&opts.schemes, "scheme", nil, "scheme to run (repeatable): euler, pc, rk4, midpoint")
	cmd.Flags().BoolVar(&opts.parallel, "parallel", false, "run the sweep concurrently")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the run to the data directory")
	cmd.Flags().BoolVar(&opts.plot, "plot", false, "plot position against time for each scheme")
	cmd.Flags().BoolVar(&opts.csv, "csv", false, "print the drift table as CSV")

	return cmd
}

// resolveConfig applies preset, then config file, then flags.
func resolveConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if opts.preset != "" {
		cfg = config.GetPreset(opts.preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", opts.preset, config.ListPresets())
		}
	}

	if opts.configFile != "" {
		loaded, err := config.LoadOver(opts.configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("scheme") {
		schemes := make([]dynamo.Scheme, 0, len(opts.schemes))
		for _, name := range opts.schemes {
			s, err := dynamo.ParseScheme(name)
			if err != nil {
				return nil, err
			}
			schemes = append(schemes, s)
		}
		cfg.Schemes = schemes
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Parallel = opts.parallel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSweep(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	integs, err := integrators.ForSchemes(cfg.Schemes)
	if err != nil {
		return err
	}

	sweep := cfg.SweepConfig()
	sweep.Logger = slog.Default()

	start := time.Now()
	result, err := sim.Sweep(ctx, integs, sweep)
	if err != nil {
		return err
	}
	slog.Info("sweep finished", "runs", len(result.Series), "elapsed", time.Since(start))

	if opts.csv {
		if err := report.WriteDriftCSV(out, result.Drift); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, report.Title("relative energy drift"))
		if err := report.WriteDriftTable(out, result.Drift); err != nil {
			return err
		}
	}

	if opts.plot {
		for _, s := range result.Drift.Schemes() {
			fmt.Fprintln(out)
			fmt.Fprintln(out, report.Header(s.String()))
			fmt.Fprintln(out, report.PlotSeries(result.SeriesFor(s), report.DefaultPlotOptions()))
		}
	}

	if opts.save {
		st := root.store()
		if err := st.Init(); err != nil {
			return err
		}
		meta, err := st.Save(result, sweep.Run, sweep.StepSizes)
		if err != nil {
			return err
		}

		ix, err := st.OpenIndex()
		if err != nil {
			return err
		}
		defer ix.Close()
		if err := ix.Record(ctx, meta); err != nil {
			return err
		}

		slog.Info("run saved", "id", meta.ID)
		fmt.Fprintf(out, "\nrun id: %s\n", meta.ID)
	}

	return nil
}
