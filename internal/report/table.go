package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/san-kum/oscdrift/internal/dynamo"
	"github.com/san-kum/oscdrift/internal/metrics"
	"github.com/san-kum/oscdrift/internal/storage"
)

// WriteDriftTable prints one row per (scheme, step size) with the step
// size as a multiple of π.
func WriteDriftTable(w io.Writer, table *metrics.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCHEME\tORDER\tSTEP\tDRIFT")
	for _, s := range table.Schemes() {
		steps, drifts := table.Series(s)
		for i := range steps {
			fmt.Fprintf(tw, "%s\t%d\t%sπ\t%.3e\n", s, s.Order(), dynamo.PiMultiple(steps[i]), drifts[i])
		}
	}
	return tw.Flush()
}

// WriteDriftCSV writes scheme,step_pi,step_size,drift rows in table order.
func WriteDriftCSV(w io.Writer, table *metrics.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"scheme", "step_pi", "step_size", "drift"}); err != nil {
		return err
	}
	for _, r := range table.Records() {
		row := []string{
			r.Scheme.Key(),
			dynamo.PiMultiple(r.StepSize),
			fmt.Sprintf("%.6e", r.StepSize),
			fmt.Sprintf("%.6e", r.Drift),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRuns lists saved runs.
func WriteRuns(w io.Writer, runs []storage.RunMetadata) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTIME\tSPAN\tSTEPS\tSCHEMES")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t[%.4g, %.4g]\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Span.Start,
			run.Span.End,
			len(run.StepSizes),
			len(run.Schemes),
		)
	}
	return tw.Flush()
}

// WriteHistory lists drift records of one scheme across saved runs.
func WriteHistory(w io.Writer, entries []storage.HistoryEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tTIME\tSTEP\tDRIFT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%sπ\t%.3e\n",
			e.RunID,
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			dynamo.PiMultiple(e.StepSize),
			e.Drift,
		)
	}
	return tw.Flush()
}
