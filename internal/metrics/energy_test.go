package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/chaosdp/internal/dynamo"
	"github.com/san-kum/chaosdp/internal/integrators"
	"github.com/san-kum/chaosdp/internal/physics"
	"github.com/san-kum/chaosdp/internal/sim"
)

func TestEnergyMatchesModel(t *testing.T) {
	model := physics.DefaultModel()
	m := NewEnergy(model)

	x := dynamo.State{math.Pi / 4, math.Pi / 3, 0.5, -0.2}
	expected := model.Energy(x)

	m.Observe(x, 0)
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected energy %f, got %f", expected, m.Value())
	}
	if m.Last() != expected {
		t.Errorf("expected last %f, got %f", expected, m.Last())
	}
}

func TestEnergyReset(t *testing.T) {
	m := NewEnergy(physics.DefaultModel())

	m.Observe(dynamo.State{1.0, 1.0, 1.0, 1.0}, 0)
	if m.Value() == 0 {
		t.Error("expected non-zero energy")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDrift_SemiImplicitIsSmall(t *testing.T) {
	model := physics.DefaultModel()
	drift := NewEnergyDrift(model)
	step := integrators.NewSemiImplicitEuler()

	x := dynamo.State{2.0, 2.0, 0, 0}
	for i := 0; i < 5000; i++ {
		drift.Observe(x, float64(i)*2e-4)
		x = step.Step(model, x, 0, 2e-4)
	}

	if drift.Value() > 0.02 {
		t.Errorf("energy drift %.4f exceeds 2%%", drift.Value())
	}

	drift.Reset()
	if drift.Value() != 0 {
		t.Error("expected zero drift after reset")
	}
}

func TestStability(t *testing.T) {
	s := NewStability(10)
	if s.Value() != 1 || s.FirstViolation() != -1 {
		t.Error("empty metric should report full stability")
	}
	s.Observe(dynamo.State{3, 3, 1, 1}, 0)
	s.Observe(dynamo.State{3, 3, 50, 1}, 0.5)
	s.Observe(dynamo.State{math.NaN(), 0, 0, 0}, 1)
	s.Observe(dynamo.State{100, -100, 0, 0}, 1.5)

	if got := s.Value(); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
	if got := s.FirstViolation(); got != 0.5 {
		t.Errorf("first violation at %f, want 0.5", got)
	}

	s.Reset()
	if s.Value() != 1 || s.FirstViolation() != -1 {
		t.Error("Reset should clear history")
	}
	s.Observe(dynamo.State{0, 0, 20, 0}, 2)
	if s.Value() != 0 {
		t.Error("Reset should keep the speed limit")
	}
}

func TestSpread(t *testing.T) {
	opts := sim.DefaultOptions()
	opts.ChaosCount = 50
	set := sim.NewSet(opts)

	if Spread(set.Pendulums()) != 0 {
		t.Error("single pendulum should have zero spread")
	}

	set.SetChaos()
	initial := Spread(set.Pendulums())
	if initial > 1e-3 {
		t.Errorf("fresh chaos population should be tightly packed, got %f", initial)
	}

	for i := 0; i < 25000; i++ {
		set.Advance(2e-4)
	}
	if later := Spread(set.Pendulums()); later <= initial {
		t.Errorf("spread should grow: initial %g, later %g", initial, later)
	}
}

func TestAngleRange(t *testing.T) {
	opts := sim.DefaultOptions()
	opts.ChaosCount = 11
	opts.ChaosIncrementDeg = 1
	set := sim.NewSet(opts)
	set.SetChaos()

	want := 10 * math.Pi / 180
	if got := AngleRange(set.Pendulums()); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, got)
	}
}
