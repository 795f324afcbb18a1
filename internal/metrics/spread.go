package metrics

import (
	"math"

	"github.com/san-kum/chaosdp/internal/physics"
)

// Spread is the RMS distance of the bottom bobs from their centroid. It is
// zero for fewer than two pendulums and grows as a chaotic population
// separates.
func Spread(pendulums []*physics.DoublePendulum) float64 {
	n := len(pendulums)
	if n < 2 {
		return 0
	}

	var c physics.Vec2
	for _, dp := range pendulums {
		c = c.Add(dp.Bottom().Position())
	}
	c = c.Scale(1 / float64(n))

	sum := 0.0
	for _, dp := range pendulums {
		d := dp.Bottom().Position().Sub(c)
		sum += d.X*d.X + d.Y*d.Y
	}
	return math.Sqrt(sum / float64(n))
}

// AngleRange returns max-min of the top link angle across the population.
func AngleRange(pendulums []*physics.DoublePendulum) float64 {
	if len(pendulums) == 0 {
		return 0
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, dp := range pendulums {
		a := dp.Top().Angle()
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	return hi - lo
}
