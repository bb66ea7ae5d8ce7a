package report

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/san-kum/oscdrift/internal/sim"
)

var svgColors = []string{"#1f77b4", "#2ca02c", "#d62728", "#ff7f0e", "#9467bd"}

// WriteSVG draws position against time for each series as one SVG figure,
// with the exact solution dashed underneath. Each series keeps its own
// samples; no resampling is done.
func WriteSVG(w io.Writer, series []sim.Series, width, height int) error {
	if len(series) == 0 {
		return fmt.Errorf("no series to draw")
	}

	t0 := series[0].Trajectory.Times[0]
	tEnd := t0
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		tEnd = math.Max(tEnd, s.Trajectory.EndTime())
		for _, x := range s.Positions() {
			minY = math.Min(minY, x)
			maxY = math.Max(maxY, x)
		}
	}
	initial := series[0].Trajectory.First()
	amp := math.Hypot(initial.Position, initial.Velocity)
	minY = math.Min(minY, -amp)
	maxY = math.Max(maxY, amp)

	rangeX := tEnd - t0
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	project := func(t, x float64) (float64, float64) {
		px := (t - t0) / rangeX * float64(width)
		py := float64(height) - (x-minY)/rangeY*float64(height)
		return px, py
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<title>%s</title>
`, width, height, width, height, html.EscapeString(series[0].Scheme.String()))

	n := 4 * width
	exact := make([]string, n+1)
	for i := range exact {
		t := t0 + rangeX*float64(i)/float64(n)
		px, py := project(t, Exact(initial, t0, t))
		exact[i] = fmt.Sprintf("%.1f,%.1f", px, py)
	}
	fmt.Fprintf(&sb, `<path fill="none" stroke="#999999" stroke-dasharray="4 3" stroke-width="1" d="M%s"><title>analytic</title></path>
`, strings.Join(exact, " L"))

	for i, s := range series {
		points := make([]string, s.Trajectory.Len())
		for j, sample := range s.Trajectory.Samples {
			px, py := project(s.Trajectory.Times[j], sample.Position)
			points[j] = fmt.Sprintf("%.1f,%.1f", px, py)
		}
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M%s"><title>%s</title></path>
`, svgColors[i%len(svgColors)], strings.Join(points, " L"), html.EscapeString(s.Label))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
