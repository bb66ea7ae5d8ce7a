package sim

import (
	"log/slog"

	"github.com/san-kum/oscdrift/internal/dynamo"
	"github.com/san-kum/oscdrift/internal/metrics"
)

// Observer is notified of every committed sample, including the initial one.
type Observer interface {
	OnStep(x dynamo.Sample, t float64)
}

// SweepConfig describes a full comparison: every integrator is run at
// every step size.
type SweepConfig struct {
	Run       dynamo.Config
	StepSizes []float64
	Parallel  bool
	Workers   int
	Logger    *slog.Logger
}

// Series is the output of one (scheme, step size) run.
type Series struct {
	Scheme     dynamo.Scheme
	StepSize   float64
	Label      string
	Trajectory *dynamo.Trajectory
	Drift      float64
}

func (s Series) Times() []float64 {
	out := make([]float64, len(s.Trajectory.Times))
	copy(out, s.Trajectory.Times)
	return out
}

func (s Series) Positions() []float64 { return s.Trajectory.Positions() }

// Result holds every series of a sweep, in scheme-major then step-size
// order, and the drift table built from them.
type Result struct {
	Series []Series
	Drift  *metrics.Table
}

// SeriesFor returns the series of one scheme in step-size order.
func (r *Result) SeriesFor(s dynamo.Scheme) []Series {
	out := make([]Series, 0)
	for _, series := range r.Series {
		if series.Scheme == s {
			out = append(out, series)
		}
	}
	return out
}
