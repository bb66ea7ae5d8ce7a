package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/oscdrift/internal/dynamo"
	"github.com/san-kum/oscdrift/internal/metrics"
	"github.com/san-kum/oscdrift/internal/sim"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Red,
	asciigraph.Yellow,
	asciigraph.Magenta,
}

type PlotOptions struct {
	Width  int
	Height int
	// Analytic overlays the exact solution from the first series' initial
	// condition.
	Analytic bool
}

func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 12, Analytic: true}
}

// Exact returns the position of the unit oscillator at time t, starting
// from x0 at t0: x(t) = x0 cos(t-t0) + v0 sin(t-t0).
func Exact(x0 dynamo.Sample, t0, t float64) float64 {
	dt := t - t0
	return x0.Position*math.Cos(dt) + x0.Velocity*math.Sin(dt)
}

// PlotSeries draws position against time for each series, resampled onto
// a common time grid spanning the shortest series.
func PlotSeries(series []sim.Series, opts PlotOptions) string {
	if len(series) == 0 {
		return ""
	}
	if opts.Width < 2 {
		opts.Width = 2
	}

	t0 := series[0].Trajectory.Times[0]
	tEnd := series[0].Trajectory.EndTime()
	for _, s := range series[1:] {
		tEnd = math.Min(tEnd, s.Trajectory.EndTime())
	}
	grid := linspace(t0, tEnd, opts.Width)

	data := make([][]float64, 0, len(series)+1)
	legend := make([]string, 0, len(series)+1)
	for _, s := range series {
		data = append(data, Resample(s.Times(), s.Positions(), grid))
		legend = append(legend, s.Label)
	}

	if opts.Analytic {
		initial := series[0].Trajectory.First()
		exact := make([]float64, len(grid))
		for i, t := range grid {
			exact[i] = Exact(initial, t0, t)
		}
		data = append(data, exact)
		legend = append(legend, "analytic")
	}

	caption := fmt.Sprintf("%s: position vs time [%.3g, %.3g]  %s",
		series[0].Scheme, t0, tEnd, legendText(legend))

	return asciigraph.PlotMany(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(colorsFor(len(data))...),
		asciigraph.Caption(caption),
	)
}

// PlotEnergy draws the energy of each series against time on the same
// resampled grid as PlotSeries.
func PlotEnergy(series []sim.Series, opts PlotOptions) string {
	if len(series) == 0 {
		return ""
	}
	if opts.Width < 2 {
		opts.Width = 2
	}

	t0 := series[0].Trajectory.Times[0]
	tEnd := series[0].Trajectory.EndTime()
	for _, s := range series[1:] {
		tEnd = math.Min(tEnd, s.Trajectory.EndTime())
	}
	grid := linspace(t0, tEnd, opts.Width)

	data := make([][]float64, len(series))
	legend := make([]string, len(series))
	for i, s := range series {
		data[i] = Resample(s.Times(), metrics.EnergySeries(s.Trajectory), grid)
		legend[i] = s.Label
	}

	caption := fmt.Sprintf("%s: energy vs time  %s", series[0].Scheme, legendText(legend))
	return asciigraph.PlotMany(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(colorsFor(len(data))...),
		asciigraph.Caption(caption),
	)
}

// PlotDrift draws log10 of the drift against step index, one line per
// scheme.
func PlotDrift(table *metrics.Table, opts PlotOptions) string {
	schemes := table.Schemes()
	if len(schemes) == 0 {
		return ""
	}

	data := make([][]float64, 0, len(schemes))
	legend := make([]string, 0, len(schemes))
	var steps []float64
	for _, s := range schemes {
		st, drifts := table.Series(s)
		if steps == nil {
			steps = st
		}
		logs := make([]float64, len(drifts))
		for i, d := range drifts {
			logs[i] = math.Log10(math.Max(d, 1e-300))
		}
		data = append(data, logs)
		legend = append(legend, s.String())
	}

	labels := make([]string, len(steps))
	for i, h := range steps {
		labels[i] = dynamo.PiMultiple(h) + "π"
	}

	caption := fmt.Sprintf("log10 drift at steps %s  %s", strings.Join(labels, ", "), legendText(legend))
	return asciigraph.PlotMany(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.SeriesColors(colorsFor(len(data))...),
		asciigraph.Caption(caption),
	)
}

// Resample linearly interpolates (xs, ys) at each point of grid. Points
// outside the sampled range are clamped to the nearest end.
func Resample(xs, ys, grid []float64) []float64 {
	out := make([]float64, len(grid))
	if len(xs) == 0 {
		return out
	}
	for i, g := range grid {
		j := sort.SearchFloat64s(xs, g)
		switch {
		case j <= 0:
			out[i] = ys[0]
		case j >= len(xs):
			out[i] = ys[len(ys)-1]
		default:
			x0, x1 := xs[j-1], xs[j]
			frac := (g - x0) / (x1 - x0)
			out[i] = ys[j-1] + frac*(ys[j]-ys[j-1])
		}
	}
	return out
}

func linspace(a, b float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = a
		return out
	}
	step := (b - a) / float64(n-1)
	for i := range out {
		out[i] = a + float64(i)*step
	}
	out[n-1] = b
	return out
}

func colorsFor(n int) []asciigraph.AnsiColor {
	out := make([]asciigraph.AnsiColor, n)
	for i := range out {
		out[i] = seriesColors[i%len(seriesColors)]
	}
	return out
}

func legendText(labels []string) string {
	names := []string{"blue", "green", "red", "yellow", "magenta"}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%s", names[i%len(names)], l)
	}
	return strings.Join(parts, " ")
}
