package sim

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/chaosdp/internal/dynamo"
	"github.com/san-kum/chaosdp/internal/palette"
	"github.com/san-kum/chaosdp/internal/physics"
)

const (
	DefaultAngleDeg          = 120.0
	DefaultChaosCount        = 1000
	DefaultChaosIncrementDeg = 1e-4

	// below this many pendulums per worker Advance stays on one goroutine
	minParallelChunk = 64
)

type Population int

const (
	PopulationDefault Population = iota
	PopulationChaos
)

func (p Population) String() string {
	switch p {
	case PopulationDefault:
		return "default"
	case PopulationChaos:
		return "chaos"
	default:
		return "unknown"
	}
}

type Options struct {
	Model             physics.Model
	AngleDeg          float64
	ChaosCount        int
	ChaosIncrementDeg float64
	Workers           int
}

func DefaultOptions() Options {
	return Options{
		Model:             physics.DefaultModel(),
		AngleDeg:          DefaultAngleDeg,
		ChaosCount:        DefaultChaosCount,
		ChaosIncrementDeg: DefaultChaosIncrementDeg,
		Workers:           1,
	}
}

// DefaultColor tags the single default-population pendulum.
var DefaultColor = colorful.Color{R: 1, G: 1, B: 1}

// Set is an ordered population of independent double pendulums. Order only
// matters for drawing.
type Set struct {
	opts       Options
	population Population
	pendulums  []*physics.DoublePendulum
	generation int
}

// NewSet returns a set holding the default population.
func NewSet(opts Options) *Set {
	s := &Set{opts: opts}
	s.SetDefault()
	return s
}

func (s *Set) Options() Options       { return s.opts }
func (s *Set) Population() Population { return s.population }
func (s *Set) Len() int               { return len(s.pendulums) }

// Generation counts population rebuilds, so observers can tell a fresh
// population from the one they last saw even when its kind is unchanged.
func (s *Set) Generation() int { return s.generation }

func (s *Set) At(i int) *physics.DoublePendulum { return s.pendulums[i] }

// Pendulums exposes the members for reading. Callers must not step or
// otherwise mutate them.
func (s *Set) Pendulums() []*physics.DoublePendulum { return s.pendulums }

// SetDefault discards the current population and replaces it with a single
// pendulum at rest at the canonical angle, drawn with a trail.
func (s *Set) SetDefault() {
	dp := physics.NewDoublePendulum(s.opts.Model, degToRad(s.opts.AngleDeg))
	dp.Tag = physics.Tag{Color: DefaultColor, Trail: true}

	s.pendulums = []*physics.DoublePendulum{dp}
	s.population = PopulationDefault
	s.generation++
	dynamo.Logger().Info("population switched", "population", s.population, "size", 1)
}

// SetChaos discards the current population and replaces it with
// ChaosCount pendulums; member i starts at AngleDeg + i*ChaosIncrementDeg
// and is tagged with a rainbow color keyed by i/ChaosCount. Trails are off.
func (s *Set) SetChaos() {
	n := s.opts.ChaosCount
	pendulums := make([]*physics.DoublePendulum, n)
	for i := 0; i < n; i++ {
		angle := degToRad(s.opts.AngleDeg + s.opts.ChaosIncrementDeg*float64(i))
		dp := physics.NewDoublePendulum(s.opts.Model, angle)
		dp.Tag = physics.Tag{Color: palette.Rainbow(float64(i) / float64(n))}
		pendulums[i] = dp
	}

	s.pendulums = pendulums
	s.population = PopulationChaos
	s.generation++
	dynamo.Logger().Info("population switched", "population", s.population, "size", n)
}

// Advance steps every member once by dt. Members never interact.
func (s *Set) Advance(dt float64) {
	pendulums := s.pendulums
	dynamo.ParallelFor(len(pendulums), s.opts.Workers, minParallelChunk, func(start, end int) {
		for _, dp := range pendulums[start:end] {
			dp.Step(dt)
		}
	})
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
