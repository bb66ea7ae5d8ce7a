package report

import (
	"math"
	"strings"

	"github.com/san-kum/oscdrift/internal/dynamo"
)

// PhasePortrait draws velocity against position for one trajectory. The
// exact orbit is a circle of radius sqrt(2E0); it is drawn with '·' and the
// trajectory with '•', so energy drift shows as the trajectory leaving the
// circle.
func PhasePortrait(tr *dynamo.Trajectory, width, height int) string {
	if tr == nil || tr.Len() == 0 || width < 2 || height < 2 {
		return ""
	}

	radius := math.Sqrt(2 * tr.First().Energy())
	bound := radius
	for _, s := range tr.Samples {
		bound = math.Max(bound, math.Max(math.Abs(s.Position), math.Abs(s.Velocity)))
	}
	if bound == 0 {
		bound = 1
	}
	bound *= 1.1

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	plot := func(x, v float64, mark rune) {
		col := int(math.Round((x + bound) / (2 * bound) * float64(width-1)))
		row := height - 1 - int(math.Round((v+bound)/(2*bound)*float64(height-1)))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = mark
		}
	}

	mid := height - 1 - int(math.Round(0.5*float64(height-1)))
	for col := range canvas[mid] {
		canvas[mid][col] = '─'
	}
	axis := int(math.Round(0.5 * float64(width-1)))
	for row := range canvas {
		canvas[row][axis] = '│'
	}
	canvas[mid][axis] = '┼'

	n := 8 * (width + height)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		plot(radius*math.Cos(theta), radius*math.Sin(theta), '·')
	}
	for _, s := range tr.Samples {
		plot(s.Position, s.Velocity, '•')
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
