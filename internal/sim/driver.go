package sim

import "github.com/san-kum/chaosdp/internal/dynamo"

// Event is an edge-triggered input signal.
type Event int

const (
	EventSelectDefault Event = iota
	EventSelectChaos
	EventTogglePrecision
	numEvents
)

func (e Event) String() string {
	switch e {
	case EventSelectDefault:
		return "default"
	case EventSelectChaos:
		return "chaos"
	case EventTogglePrecision:
		return "toggle"
	default:
		return "unknown"
	}
}

// ParseEvent maps the names used by scripts and key bindings to events.
func ParseEvent(name string) (Event, bool) {
	for e := Event(0); e < numEvents; e++ {
		if e.String() == name {
			return e, true
		}
	}
	return 0, false
}

// Driver owns a Set and a Scheduler and applies queued input at tick
// boundaries, never in the middle of a step.
type Driver struct {
	set       *Set
	scheduler *Scheduler
	pending   [numEvents]bool
	ticks     int
	steps     int
}

func NewDriver(set *Set, scheduler *Scheduler) *Driver {
	return &Driver{set: set, scheduler: scheduler}
}

func (d *Driver) Set() *Set             { return d.set }
func (d *Driver) Scheduler() *Scheduler { return d.scheduler }
func (d *Driver) Ticks() int            { return d.ticks }
func (d *Driver) Steps() int            { return d.steps }

// Post queues e for the next tick. Posting the same event again before the
// tick is a no-op.
func (d *Driver) Post(e Event) {
	if e >= 0 && e < numEvents {
		d.pending[e] = true
	}
}

// Tick applies pending events, then advances the set by elapsed seconds of
// wall-clock time. It returns the number of integrator passes made.
func (d *Driver) Tick(elapsed float64) int {
	for e := Event(0); e < numEvents; e++ {
		if !d.pending[e] {
			continue
		}
		d.pending[e] = false
		dynamo.Logger().Debug("input event", "event", e, "tick", d.ticks)
		switch e {
		case EventSelectDefault:
			d.set.SetDefault()
		case EventSelectChaos:
			d.set.SetChaos()
		case EventTogglePrecision:
			d.scheduler.Toggle()
		}
	}

	n := d.scheduler.Tick(d.set, elapsed)
	d.ticks++
	d.steps += n
	return n
}
