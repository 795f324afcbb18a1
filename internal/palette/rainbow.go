// Package palette maps population indices to display colors.
package palette

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Rainbow maps scalar in [0, 1] onto the hue circle at full saturation and
// value. Out-of-range input is clamped and NaN is treated as 0. 0 and 1
// both land on pure red.
func Rainbow(scalar float64) colorful.Color {
	if math.IsNaN(scalar) {
		scalar = 0
	}
	scalar = math.Max(0, math.Min(1, scalar))
	return colorful.Hsv(math.Mod(scalar*360, 360), 1, 1)
}
