package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/oscdrift/internal/dynamo"
	"github.com/san-kum/oscdrift/internal/sim"
)

// ExportSeries is the sink-facing form of one series: equal-length sample
// sequences plus labels.
type ExportSeries struct {
	Scheme     dynamo.Scheme `json:"scheme"`
	Label      string        `json:"label"`
	StepSize   float64       `json:"step_size"`
	Drift      float64       `json:"drift"`
	Times      []float64     `json:"times"`
	Positions  []float64     `json:"positions"`
	Velocities []float64     `json:"velocities"`
}

type ExportData struct {
	Run    *RunMetadata   `json:"run"`
	Series []ExportSeries `json:"series"`
}

// ExportJSON writes a run's metadata and the given series to w.
func ExportJSON(w io.Writer, meta *RunMetadata, series []sim.Series) error {
	data := ExportData{
		Run:    meta,
		Series: make([]ExportSeries, len(series)),
	}
	for i, s := range series {
		data.Series[i] = ExportSeries{
			Scheme:     s.Scheme,
			Label:      s.Label,
			StepSize:   s.StepSize,
			Drift:      s.Drift,
			Times:      s.Times(),
			Positions:  s.Positions(),
			Velocities: s.Trajectory.Velocities(),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
