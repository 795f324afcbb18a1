package sim

import (
	"math"
	"time"

	"github.com/san-kum/chaosdp/internal/dynamo"
)

// DefaultFixedStep is the precision-mode step: a 5000 Hz inner rate.
const DefaultFixedStep = 2e-4

// burstThreshold is the number of fixed steps in one tick above which a
// catch-up burst is logged.
const burstThreshold = 2000

type Mode int

const (
	RealTime Mode = iota
	Precision
)

func (m Mode) String() string {
	switch m {
	case RealTime:
		return "realtime"
	case Precision:
		return "precision"
	default:
		return "unknown"
	}
}

// Advancer is anything that can be moved forward by dt seconds.
type Advancer interface {
	Advance(dt float64)
}

// Scheduler decides how many steps to run per external tick.
//
// In RealTime mode a tick runs one step of the measured wall-clock delta.
// In Precision mode the delta is added to an accumulator that is drained
// in fixed steps; the residual stays in [0, fixedStep). There is no cap on
// the number of steps per tick, so a long stall replays in one burst.
//
// The accumulator counts whole nanoseconds so the step count depends only
// on the total elapsed time, not on how it was split across ticks.
type Scheduler struct {
	mode        Mode
	fixedStep   float64
	step        time.Duration
	accumulator time.Duration
	lastTick    time.Time
	lastSteps   int
}

func NewScheduler(mode Mode, fixedStep float64) *Scheduler {
	if !(fixedStep > 0) {
		fixedStep = DefaultFixedStep
	}
	step := toDuration(fixedStep)
	if step < 1 {
		step = 1
	}
	return &Scheduler{mode: mode, fixedStep: fixedStep, step: step}
}

func toDuration(seconds float64) time.Duration {
	return time.Duration(math.Round(seconds * float64(time.Second)))
}

func (s *Scheduler) Mode() Mode                 { return s.mode }
func (s *Scheduler) FixedStep() float64         { return s.fixedStep }
func (s *Scheduler) Accumulator() float64       { return s.accumulator.Seconds() }
func (s *Scheduler) LastSteps() int             { return s.lastSteps }
func (s *Scheduler) LastTickInstant() time.Time { return s.lastTick }

// Toggle flips between RealTime and Precision. The accumulator is cleared
// so a later return to Precision starts without stale residual time.
func (s *Scheduler) Toggle() Mode {
	if s.mode == RealTime {
		s.mode = Precision
	} else {
		s.mode = RealTime
	}
	s.accumulator = 0
	dynamo.Logger().Info("step mode toggled", "mode", s.mode)
	return s.mode
}

// Sample returns the seconds elapsed since the previous Sample and records
// now as the new reference. The first call returns 0.
func (s *Scheduler) Sample(now time.Time) float64 {
	if s.lastTick.IsZero() {
		s.lastTick = now
		return 0
	}
	elapsed := now.Sub(s.lastTick).Seconds()
	s.lastTick = now
	return elapsed
}

// Tick runs the steps owed for elapsed seconds of wall-clock time against
// target and returns how many Advance calls were made. Non-positive
// elapsed time runs nothing.
func (s *Scheduler) Tick(target Advancer, elapsed float64) int {
	steps := 0
	switch s.mode {
	case RealTime:
		if elapsed > 0 {
			target.Advance(elapsed)
			steps = 1
		}
	case Precision:
		if elapsed > 0 {
			s.accumulator += toDuration(elapsed)
		}
		for s.accumulator >= s.step {
			target.Advance(s.fixedStep)
			s.accumulator -= s.step
			steps++
		}
		if steps > burstThreshold {
			dynamo.Logger().Debug("catch-up burst", "steps", steps, "elapsed", elapsed)
		}
	}
	s.lastSteps = steps
	return steps
}
