package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/chaosdp/internal/analysis"
	"github.com/san-kum/chaosdp/internal/physics"
	"github.com/san-kum/chaosdp/internal/sim"
)

const background = "#0a0a0a"

// SnapshotSVG draws every pendulum of set in its tag color on a size x size
// square with the pivot at the center. Single pendulums get rods and both
// bobs; populations draw only the bottom link, as the live view does.
func SnapshotSVG(set *sim.Set, size int) string {
	model := set.Options().Model
	reach := model.Top.Length + model.Bottom.Length
	scale := float64(size) / 2 * 0.95 / reach
	c := float64(size) / 2
	at := func(p physics.Vec2) (float64, float64) { return c + p.X*scale, c + p.Y*scale }

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, size, size, size, size, background)

	r := math.Max(1, float64(size)/200)
	for _, dp := range set.Pendulums() {
		color := dp.Tag.Color.Clamped().Hex()
		tx, ty := at(dp.Top().Position())
		bx, by := at(dp.Bottom().Position())
		if set.Len() == 1 {
			fmt.Fprintf(&sb, `<path fill="none" stroke="#aaaaaa" stroke-width="%.1f" d="M%.1f,%.1f L%.1f,%.1f L%.1f,%.1f"/>
`, r, c, c, tx, ty, bx, by)
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, tx, ty, 3*r, color)
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, bx, by, 3*r, color)
			continue
		}
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="0.6"/>
`, tx, ty, bx, by, color)
	}

	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="#ffffff"/>
</svg>
`, c, c, r)
	return sb.String()
}

// TrajectoryToSVG draws points as one polyline scaled to fit width x height
// with 10% padding.
func TrajectoryToSVG(points []analysis.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, background, strokeColor)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString(`"/>
</svg>
`)
	return sb.String()
}
