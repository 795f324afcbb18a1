package metrics

import (
	"math"

	"github.com/san-kum/chaosdp/internal/dynamo"
)

// Stability is the fraction of observed states that are finite with every
// angular speed at or below maxSpeed (rad/s). It also remembers when the
// first bad state was seen.
type Stability struct {
	maxSpeed   float64
	samples    int
	bad        int
	firstBadAt float64
}

func NewStability(maxSpeed float64) *Stability {
	return &Stability{maxSpeed: maxSpeed, firstBadAt: -1}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(x dynamo.State, t float64) {
	s.samples++
	if s.ok(x) {
		return
	}
	s.bad++
	if s.firstBadAt < 0 {
		s.firstBadAt = t
	}
}

func (s *Stability) ok(x dynamo.State) bool {
	if !x.IsValid() {
		return false
	}
	_, omega := x.Split()
	for _, w := range omega {
		if math.Abs(w) > s.maxSpeed {
			return false
		}
	}
	return true
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1
	}
	return float64(s.samples-s.bad) / float64(s.samples)
}

// FirstViolation is the time of the first bad state, or -1.
func (s *Stability) FirstViolation() float64 { return s.firstBadAt }

func (s *Stability) Reset() {
	*s = Stability{maxSpeed: s.maxSpeed, firstBadAt: -1}
}
