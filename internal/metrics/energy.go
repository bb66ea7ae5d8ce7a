package metrics

import (
	"math"

	"github.com/san-kum/oscdrift/internal/dynamo"
)

// Drift returns the relative energy change between the first and last
// samples of a trajectory: |E(last) - E(first)| / E(first).
//
// The caller must ensure E(first) != 0; the driver rejects zero-energy
// initial conditions before a trajectory is ever produced.
func Drift(tr *dynamo.Trajectory) float64 {
	initial := tr.First().Energy()
	final := tr.Last().Energy()
	return math.Abs(final-initial) / initial
}

// EnergySeries returns the energy of every sample, for plotting how drift
// accumulates over a run.
func EnergySeries(tr *dynamo.Trajectory) []float64 {
	out := make([]float64, tr.Len())
	for i, s := range tr.Samples {
		out[i] = s.Energy()
	}
	return out
}
