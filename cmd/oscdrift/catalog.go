package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/oscdrift/internal/config"
	"github.com/san-kum/oscdrift/internal/dynamo"
)

func newSchemesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "list integration schemes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tORDER")
			for _, s := range dynamo.Schemes {
				fmt.Fprintf(w, "%s\t%s\t%d\n", s.Key(), s, s.Order())
			}
			return w.Flush()
		},
	}
}

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list configuration presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTEPS (π)\tSPAN END (π)\tPARALLEL")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%v\t%g\t%t\n", name, p.StepSizesPi, p.Span.EndPi, p.Parallel)
			}
			return w.Flush()
		},
	}
}
