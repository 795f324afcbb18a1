package physics

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/chaosdp/internal/dynamo"
)

const (
	DefaultGravity      = 9.81
	DefaultTopMass      = 10.0
	DefaultTopLength    = 2.0
	DefaultBottomMass   = 20.0
	DefaultBottomLength = 1.0
)

// Link holds the fixed physical parameters of one pendulum.
type Link struct {
	Mass   float64
	Length float64
}

// Model is the parameter set of a double pendulum. It implements
// dynamo.System over the state [θ1, θ2, ω1, ω2].
type Model struct {
	Gravity float64
	Top     Link
	Bottom  Link
}

func DefaultModel() Model {
	return Model{
		Gravity: DefaultGravity,
		Top:     Link{Mass: DefaultTopMass, Length: DefaultTopLength},
		Bottom:  Link{Mass: DefaultBottomMass, Length: DefaultBottomLength},
	}
}

func (m Model) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"top mass", m.Top.Mass},
		{"top length", m.Top.Length},
		{"bottom mass", m.Bottom.Mass},
		{"bottom length", m.Bottom.Length},
	}
	for _, f := range fields {
		if !(f.value > 0) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%s must be positive, got %v: %w", f.name, f.value, dynamo.ErrParameterBounds)
		}
	}
	if math.IsNaN(m.Gravity) || math.IsInf(m.Gravity, 0) {
		return fmt.Errorf("gravity must be finite, got %v: %w", m.Gravity, dynamo.ErrParameterBounds)
	}
	return nil
}

func (m Model) StateDim() int { return 4 }

func (m Model) Derive(x dynamo.State, _ float64) dynamo.State {
	theta1, theta2, omega1, omega2 := x[0], x[1], x[2], x[3]
	alpha1, alpha2 := accelerations(m.Gravity,
		m.Top.Mass, m.Top.Length, theta1, omega1,
		m.Bottom.Mass, m.Bottom.Length, theta2, omega2)
	return dynamo.State{omega1, omega2, alpha1, alpha2}
}

// Energy is kinetic plus potential energy with the pivot as zero height.
func (m Model) Energy(x dynamo.State) float64 {
	theta1, theta2, omega1, omega2 := x[0], x[1], x[2], x[3]
	m1, m2, l1, l2, g := m.Top.Mass, m.Bottom.Mass, m.Top.Length, m.Bottom.Length, m.Gravity

	v1sq := l1 * l1 * omega1 * omega1
	v2sq := v1sq + l2*l2*omega2*omega2 +
		2*l1*l2*omega1*omega2*math.Cos(theta1-theta2)
	ke := 0.5*m1*v1sq + 0.5*m2*v2sq

	// y grows downward, height is -y.
	y1 := l1 * math.Cos(theta1)
	y2 := y1 + l2*math.Cos(theta2)
	pe := -m1*g*y1 - m2*g*y2

	return ke + pe
}

// accelerations evaluates the closed-form angular accelerations of both
// links (myphysicslab, "Double Pendulum", numerical solution).
func accelerations(g, m1, l1, theta1, omega1, m2, l2, theta2, omega2 float64) (alpha1, alpha2 float64) {
	delta := theta1 - theta2
	sinD, cosD := math.Sin(delta), math.Cos(delta)
	den := 2*m1 + m2 - m2*math.Cos(2*theta1-2*theta2)

	n1 := -g * (2*m1 + m2) * math.Sin(theta1)
	n2 := -m2 * g * math.Sin(theta1-2*theta2)
	n3 := -2 * sinD * m2 * (omega2*omega2*l2 + omega1*omega1*l1*cosD)
	alpha1 = (n1 + n2 + n3) / (l1 * den)

	alpha2 = 2 * sinD * (omega1*omega1*l1*(m1+m2) +
		g*(m1+m2)*math.Cos(theta1) +
		omega2*omega2*l2*m2*cosD) / (l2 * den)

	return alpha1, alpha2
}

// Tag is presentation metadata carried alongside the physics. Nothing in
// this package reads it.
type Tag struct {
	Color colorful.Color
	Trail bool
}

// DoublePendulum couples a top link hung from the pivot and a bottom link
// hung from the top bob.
type DoublePendulum struct {
	top     Pendulum
	bottom  Pendulum
	gravity float64
	Tag     Tag
}

// NewDoublePendulum starts both links at rest at the same angle (radians).
func NewDoublePendulum(m Model, angle float64) *DoublePendulum {
	d := &DoublePendulum{
		top:     NewPendulum(angle, m.Top.Mass, m.Top.Length),
		bottom:  NewPendulum(angle, m.Bottom.Mass, m.Bottom.Length),
		gravity: m.Gravity,
	}
	d.place()
	return d
}

func (d *DoublePendulum) Top() Pendulum    { return d.top }
func (d *DoublePendulum) Bottom() Pendulum { return d.bottom }
func (d *DoublePendulum) Gravity() float64 { return d.gravity }

// Model returns the parameters this pendulum was built with.
func (d *DoublePendulum) Model() Model {
	return Model{
		Gravity: d.gravity,
		Top:     Link{Mass: d.top.mass, Length: d.top.length},
		Bottom:  Link{Mass: d.bottom.mass, Length: d.bottom.length},
	}
}

// Step advances both links by dt seconds of simulated time.
func (d *DoublePendulum) Step(dt float64) {
	top, bottom := &d.top, &d.bottom

	top.angularAcceleration, bottom.angularAcceleration = accelerations(d.gravity,
		top.mass, top.length, top.angle, top.angularVelocity,
		bottom.mass, bottom.length, bottom.angle, bottom.angularVelocity)

	top.angularVelocity += top.angularAcceleration * dt
	bottom.angularVelocity += bottom.angularAcceleration * dt

	top.angle += top.angularVelocity * dt
	bottom.angle += bottom.angularVelocity * dt

	d.place()
}

func (d *DoublePendulum) place() {
	d.top.place(Vec2{})
	d.bottom.place(d.top.position)
}

// State returns [θ1, θ2, ω1, ω2].
func (d *DoublePendulum) State() dynamo.State {
	return dynamo.State{d.top.angle, d.bottom.angle, d.top.angularVelocity, d.bottom.angularVelocity}
}

// SetState overwrites angles and angular velocities from [θ1, θ2, ω1, ω2]
// and recomputes positions.
func (d *DoublePendulum) SetState(x dynamo.State) error {
	if len(x) != 4 {
		return fmt.Errorf("double pendulum state has %d entries: %w", len(x), dynamo.ErrDimensionMismatch)
	}
	d.top.angle, d.bottom.angle = x[0], x[1]
	d.top.angularVelocity, d.bottom.angularVelocity = x[2], x[3]
	d.place()
	return nil
}

func (d *DoublePendulum) Energy() float64 {
	return d.Model().Energy(d.State())
}
