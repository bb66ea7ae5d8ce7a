package main

import (
	"github.com/spf13/cobra"

	"github.com/san-kum/oscdrift/internal/logging"
	"github.com/san-kum/oscdrift/internal/storage"
)

type rootOptions struct {
	dataDir  string
	logLevel string
}

func (o *rootOptions) store() *storage.Store {
	return storage.New(o.dataDir)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "oscdrift",
		Short:         "energy drift of fixed-step integrators on the harmonic oscillator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := logging.Setup(opts.logLevel)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dataDir, "data", ".oscdrift", "data directory")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")

	cmd.AddCommand(
		newRunCommand(opts),
		newListCommand(opts),
		newShowCommand(opts),
		newPlotCommand(opts),
		newExportCSVCommand(opts),
		newExportJSONCommand(opts),
		newHistoryCommand(opts),
		newSchemesCommand(),
		newPresetsCommand(),
	)

	return cmd
}
