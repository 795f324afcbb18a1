package experiment

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/chaosdp/internal/dynamo"
	"github.com/san-kum/chaosdp/internal/metrics"
	"github.com/san-kum/chaosdp/internal/sim"
)

// Config drives a headless run with a synthetic frame clock.
type Config struct {
	FPS      int
	Duration float64
	// Jitter perturbs every frame interval by up to ±Jitter of its length,
	// mimicking an irregular host loop.
	Jitter        float64
	Seed          int64
	ValidateState bool
}

// EventSource supplies input events that are due at or before t.
type EventSource interface {
	Due(t float64) []sim.Event
}

// Sample is a snapshot taken after every frame. Angles and energy are for
// the first pendulum of the set.
type Sample struct {
	Time       float64
	Theta1     float64
	Theta2     float64
	Energy     float64
	Spread     float64
	Steps      int
	Mode       sim.Mode
	Population sim.Population
	Size       int
}

type Result struct {
	Samples    []Sample
	Frames     int
	StepsTaken int
	Metrics    map[string]float64
	Errors     []error
}

type Experiment struct {
	cfg        Config
	driver     *sim.Driver
	events     EventSource
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	randSource *rand.Rand
}

func New(cfg Config, driver *sim.Driver) *Experiment {
	return &Experiment{
		cfg:        cfg,
		driver:     driver,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

func (e *Experiment) AddMetric(m dynamo.Metric)     { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o dynamo.Observer) { e.observers = append(e.observers, o) }
func (e *Experiment) SetEvents(src EventSource)     { e.events = src }

func (e *Experiment) Driver() *sim.Driver { return e.driver }

// Run plays Duration seconds of frames against the driver. With
// ValidateState set it stops at the first frame that leaves any pendulum
// with a NaN or Inf coordinate and returns a *dynamo.SimulationError.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.validateConfig(); err != nil {
		return nil, err
	}

	frameDt := 1 / float64(e.cfg.FPS)
	frames := int(math.Round(e.cfg.Duration * float64(e.cfg.FPS)))
	result := &Result{
		Samples: make([]Sample, 0, frames),
		Metrics: make(map[string]float64),
	}

	for _, m := range e.metrics {
		m.Reset()
	}

	log := dynamo.Logger()
	set := e.driver.Set()
	t := 0.0

	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if e.events != nil {
			for _, ev := range e.events.Due(t) {
				e.driver.Post(ev)
			}
		}

		elapsed := frameDt
		if e.cfg.Jitter > 0 {
			elapsed *= 1 + e.cfg.Jitter*(2*e.randSource.Float64()-1)
		}

		n := e.driver.Tick(elapsed)
		t += elapsed
		result.Frames++
		result.StepsTaken += n

		if e.cfg.ValidateState {
			if idx := firstInvalid(set); idx >= 0 {
				err := &dynamo.SimulationError{
					Step:     i,
					Time:     t,
					Pendulum: idx,
					Wrapped:  dynamo.ErrInvalidState,
				}
				log.Warn("state diverged", "frame", i, "time", t, "pendulum", idx)
				result.Errors = append(result.Errors, err)
				e.collect(result)
				return result, err
			}
		}

		lead := set.At(0)
		x := lead.State()
		for _, m := range e.metrics {
			m.Observe(x, t)
		}
		for _, obs := range e.observers {
			obs.OnStep(x, t)
		}

		result.Samples = append(result.Samples, Sample{
			Time:       t,
			Theta1:     x[0],
			Theta2:     x[1],
			Energy:     lead.Energy(),
			Spread:     metrics.Spread(set.Pendulums()),
			Steps:      n,
			Mode:       e.driver.Scheduler().Mode(),
			Population: set.Population(),
			Size:       set.Len(),
		})
	}

	e.collect(result)
	log.Debug("run finished", "frames", result.Frames, "steps", result.StepsTaken)
	return result, nil
}

func (e *Experiment) collect(result *Result) {
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (e *Experiment) validateConfig() error {
	if e.driver == nil {
		return fmt.Errorf("experiment has no driver")
	}
	if e.cfg.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d: %w", e.cfg.FPS, dynamo.ErrParameterBounds)
	}
	if e.cfg.Duration < 0 || math.IsNaN(e.cfg.Duration) {
		return fmt.Errorf("duration must not be negative, got %f: %w", e.cfg.Duration, dynamo.ErrParameterBounds)
	}
	if e.cfg.Jitter < 0 || e.cfg.Jitter >= 1 {
		return fmt.Errorf("jitter must be in [0, 1), got %f: %w", e.cfg.Jitter, dynamo.ErrParameterBounds)
	}
	return nil
}

func firstInvalid(set *sim.Set) int {
	for i, dp := range set.Pendulums() {
		if !dp.State().IsValid() {
			return i
		}
	}
	return -1
}
