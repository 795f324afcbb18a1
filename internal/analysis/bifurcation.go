package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/chaosdp/internal/dynamo"
	"github.com/san-kum/chaosdp/internal/physics"
)

// SweepPoint is the outcome of one run in an angle sweep.
type SweepPoint struct {
	AngleDeg float64
	// FlipTime is the first time the bottom link passed over the top, or
	// -1 if it never did within the run.
	FlipTime float64
}

// AngleSweep starts a double pendulum at rest at steps evenly spaced angles
// in [minDeg, maxDeg] and records when, if ever, the bottom link flips.
// Neighbouring angles with wildly different flip times mark the chaotic
// region.
func AngleSweep(
	model physics.Model,
	integ dynamo.Integrator,
	minDeg, maxDeg float64,
	steps int,
	dt, duration float64,
) []SweepPoint {
	if steps <= 1 {
		steps = 2
	}
	stride := (maxDeg - minDeg) / float64(steps-1)
	results := make([]SweepPoint, 0, steps)

	for i := 0; i < steps; i++ {
		deg := minDeg + float64(i)*stride
		x := physics.NewDoublePendulum(model, deg*math.Pi/180).State()
		flip := -1.0
		t := 0.0

		for t < duration {
			x = integ.Step(model, x, t, dt)
			t += dt
			if math.Abs(x[1]) > math.Pi {
				flip = t
				break
			}
		}

		results = append(results, SweepPoint{AngleDeg: deg, FlipTime: flip})
	}

	return results
}

// SweepToASCII draws flip time against start angle. Runs that never flip
// are drawn on the top row as '^'.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 1 {
		return ""
	}

	maxT := 0.0
	for _, p := range data {
		maxT = math.Max(maxT, p.FlipTime)
	}
	if maxT <= 0 {
		maxT = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		if p.FlipTime < 0 {
			canvas[0][col] = '^'
			continue
		}
		row := height - 1 - int(p.FlipTime/maxT*float64(height-2))
		if row >= 1 && row < height {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
