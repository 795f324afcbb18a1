package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/chaosdp/internal/dynamo"
)

type Point struct{ X, Y float64 }

// PhasePortrait is the trajectory of one state coordinate against another.
type PhasePortrait struct {
	XIndex, YIndex int
	Points         []Point
}

// GeneratePhasePortrait integrates x0 for duration and records
// (x[xIdx], x[yIdx]) after every step. For the double pendulum
// (0, 2) is θ1/ω1 and (1, 3) is θ2/ω2.
func GeneratePhasePortrait(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	xIdx, yIdx int,
	dt, duration float64,
) *PhasePortrait {
	if xIdx < 0 || yIdx < 0 || xIdx >= len(x0) || yIdx >= len(x0) || !(dt > 0) {
		return nil
	}

	p := &PhasePortrait{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, int(duration/dt)+1),
	}

	x := x0.Clone()
	for t := 0.0; t < duration; t += dt {
		x = integ.Step(dyn, x, t, dt)
		p.Points = append(p.Points, Point{x[xIdx], x[yIdx]})
	}
	return p
}

// PoincareSection holds the points where a trajectory crossed a plane.
type PoincareSection struct {
	Points []Point
}

// GeneratePoincareSection records (x[recordX], x[recordY]) every time
// x[crossIdx] crosses threshold upwards, interpolated linearly between
// the two bracketing steps. For the double pendulum the usual choice is
// crossIdx=0, threshold=0 with records of θ2/ω2.
func GeneratePoincareSection(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	crossIdx int,
	threshold float64,
	recordX, recordY int,
	dt, duration float64,
) *PoincareSection {
	n := len(x0)
	if crossIdx >= n || recordX >= n || recordY >= n || !(dt > 0) {
		return nil
	}

	section := &PoincareSection{}
	prev := x0.Clone()

	for t := 0.0; t < duration; t += dt {
		x := integ.Step(dyn, prev, t, dt)
		a, b := prev[crossIdx], x[crossIdx]

		if a < threshold && b >= threshold {
			frac := (threshold - a) / (b - a)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 1
			}
			section.Points = append(section.Points, Point{
				X: prev[recordX] + frac*(x[recordX]-prev[recordX]),
				Y: prev[recordY] + frac*(x[recordY]-prev[recordY]),
			})
		}
		prev = x
	}

	return section
}

// PlotASCII scatters points on a width x height grid padded by 10% on
// every side, with axes drawn where they are in view.
func PlotASCII(points []Point, width, height int) string {
	if len(points) == 0 || width <= 1 || height <= 1 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	minX, maxX = pad(minX, maxX)
	minY, maxY = pad(minY, maxY)

	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range grid[r] {
			grid[r][c] = '─'
		}
	}
	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range grid {
			grid[r][c] = '│'
		}
	}
	for _, p := range points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			grid[r][c] = '•'
		}
	}

	var sb strings.Builder
	for _, line := range grid {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}

func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil {
		return ""
	}
	return PlotASCII(p.Points, width, height)
}

func (s *PoincareSection) ASCII(width, height int) string {
	if s == nil || len(s.Points) == 0 {
		return "no crossings detected\n"
	}
	return PlotASCII(s.Points, width, height)
}

func pad(lo, hi float64) (float64, float64) {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}
