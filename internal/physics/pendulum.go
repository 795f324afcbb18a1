package physics

import "math"

// Vec2 is a pivot-relative position in metres, y pointing down.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(w Vec2) Vec2      { return Vec2{v.X + w.X, v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2      { return Vec2{v.X - w.X, v.Y - w.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }

// Pendulum is one link of a chain. Mass and length are fixed at
// construction; position is derived from angle and the parent's position
// and is only valid after place has run for the current angle.
type Pendulum struct {
	position            Vec2
	angle               float64
	angularVelocity     float64
	angularAcceleration float64
	length              float64
	mass                float64
}

func NewPendulum(angle, mass, length float64) Pendulum {
	p := Pendulum{angle: angle, mass: mass, length: length}
	p.place(Vec2{})
	return p
}

func (p Pendulum) Position() Vec2               { return p.position }
func (p Pendulum) Angle() float64               { return p.angle }
func (p Pendulum) AngularVelocity() float64     { return p.angularVelocity }
func (p Pendulum) AngularAcceleration() float64 { return p.angularAcceleration }
func (p Pendulum) Length() float64              { return p.length }
func (p Pendulum) Mass() float64                { return p.mass }

// place recomputes the bob position from the current angle, hanging the
// link from origin.
func (p *Pendulum) place(origin Vec2) {
	p.position = Vec2{
		X: origin.X + p.length*math.Sin(p.angle),
		Y: origin.Y + p.length*math.Cos(p.angle),
	}
}
