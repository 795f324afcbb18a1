package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaosdp/internal/config"
	"github.com/san-kum/chaosdp/internal/dynamo"
	"github.com/san-kum/chaosdp/internal/experiment"
	"github.com/san-kum/chaosdp/internal/physics"
	"github.com/san-kum/chaosdp/internal/sim"
)

// Scenario is a scripted headless run: a timeline of input events replayed
// against a synthetic frame clock.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Duration    float64       `yaml:"duration"`
	FPS         int           `yaml:"fps"`
	Jitter      float64       `yaml:"jitter"`
	Seed        int64         `yaml:"seed"`
	Events      []ScriptEvent `yaml:"events"`
}

// ScriptEvent fires Event once the clock reaches At seconds.
type ScriptEvent struct {
	At    float64 `yaml:"at"`
	Event string  `yaml:"event"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if s.Duration < 0 || math.IsNaN(s.Duration) {
		return fmt.Errorf("scenario duration %f: %w", s.Duration, dynamo.ErrParameterBounds)
	}
	if s.FPS < 0 {
		return fmt.Errorf("scenario fps %d: %w", s.FPS, dynamo.ErrParameterBounds)
	}
	for i, ev := range s.Events {
		if _, ok := sim.ParseEvent(ev.Event); !ok {
			return fmt.Errorf("event %d %q: %w", i+1, ev.Event, dynamo.ErrUnknownEvent)
		}
		if ev.At < 0 || math.IsNaN(ev.At) {
			return fmt.Errorf("event %d at %f: %w", i+1, ev.At, dynamo.ErrParameterBounds)
		}
	}
	return nil
}

// Timeline hands out scripted events as the clock passes them.
type Timeline struct {
	events []ScriptEvent
	next   int
}

func NewTimeline(events []ScriptEvent) *Timeline {
	sorted := append([]ScriptEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &Timeline{events: sorted}
}

// Due returns every not yet fired event with At <= t, in script order.
func (tl *Timeline) Due(t float64) []sim.Event {
	var out []sim.Event
	for tl.next < len(tl.events) && tl.events[tl.next].At <= t {
		ev := tl.events[tl.next]
		tl.next++
		if e, ok := sim.ParseEvent(ev.Event); ok {
			dynamo.Logger().Info("scenario event", "at", ev.At, "event", e, "clock", t)
			out = append(out, e)
		}
	}
	return out
}

// Remaining counts events that have not fired yet.
func (tl *Timeline) Remaining() int { return len(tl.events) - tl.next }

// ScenarioResult is a finished scenario run. Unplayed counts scripted
// events that fell after the last frame and never reached the driver.
type ScenarioResult struct {
	*experiment.Result
	Unplayed int
}

// RunScenario replays scenario against a driver built from cfg. Scenario
// fields left at zero fall back to cfg. On a run error the partial result
// is returned alongside it when there is one.
func RunScenario(ctx context.Context, scenario *Scenario, cfg *config.Config) (*ScenarioResult, error) {
	driver, err := cfg.NewDriver()
	if err != nil {
		return nil, err
	}

	expCfg := experiment.Config{
		FPS:           cfg.FPS,
		Duration:      cfg.Duration,
		Jitter:        scenario.Jitter,
		Seed:          scenario.Seed,
		ValidateState: cfg.ValidateState,
	}
	if scenario.FPS > 0 {
		expCfg.FPS = scenario.FPS
	}
	if scenario.Duration > 0 {
		expCfg.Duration = scenario.Duration
	}

	dynamo.Logger().Info("running scenario", "name", scenario.Name, "events", len(scenario.Events))
	timeline := NewTimeline(scenario.Events)
	exp := experiment.New(expCfg, driver)
	exp.SetEvents(timeline)
	result, err := exp.Run(ctx)
	if result == nil {
		return nil, err
	}
	if n := timeline.Remaining(); n > 0 {
		dynamo.Logger().Warn("scenario events after the last frame", "name", scenario.Name, "unplayed", n)
	}
	return &ScenarioResult{Result: result, Unplayed: timeline.Remaining()}, err
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	Model           physics.Model
	AngleDeg        float64
	PerturbationDeg float64
	NumTrials       int
	Duration        float64
	Dt              float64
	Seed            int64
	Workers         int
}

// MonteCarloResult is one randomly perturbed release.
type MonteCarloResult struct {
	TrialID     int
	AngleDeg    float64
	FinalTheta1 float64
	FinalTheta2 float64
	// FlipTime is when the bottom link first passed over the top, -1 if
	// it never did.
	FlipTime float64
}

// RunMonteCarlo releases NumTrials pendulums from AngleDeg plus a uniform
// perturbation in ±PerturbationDeg and integrates each for Duration.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials <= 0 || !(cfg.Dt > 0) {
		return nil, fmt.Errorf("monte carlo needs trials and a positive dt: %w", dynamo.ErrParameterBounds)
	}
	if err := cfg.Model.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	results := make([]MonteCarloResult, cfg.NumTrials)
	for i := range results {
		results[i] = MonteCarloResult{
			TrialID:  i,
			AngleDeg: cfg.AngleDeg + (rng.Float64()-0.5)*2*cfg.PerturbationDeg,
			FlipTime: -1,
		}
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	err := dynamo.ParallelForContext(ctx, len(results), cfg.Workers, 8, func(ctx context.Context, start, end int) error {
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := &results[i]
			dp := physics.NewDoublePendulum(cfg.Model, r.AngleDeg*math.Pi/180)
			for s := 0; s < steps; s++ {
				dp.Step(cfg.Dt)
				if r.FlipTime < 0 && math.Abs(dp.Bottom().Angle()) > math.Pi {
					r.FlipTime = float64(s+1) * cfg.Dt
				}
			}
			r.FinalTheta1, r.FinalTheta2 = dp.Top().Angle(), dp.Bottom().Angle()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dynamo.Logger().Debug("monte carlo finished", "trials", cfg.NumTrials, "seed", seed)
	return results, nil
}

// MonteCarloStats counts trials whose bottom link flipped.
func MonteCarloStats(results []MonteCarloResult) (flipped int, settled int) {
	for _, r := range results {
		if r.FlipTime >= 0 {
			flipped++
		} else {
			settled++
		}
	}
	return
}
