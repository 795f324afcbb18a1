package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm is the Euclidean length of s.
func (s State) Norm() float64 {
	return math.Sqrt(s.dot(s))
}

func (s State) dot(o State) float64 {
	sum := 0.0
	for i := range s {
		sum += s[i] * o[i]
	}
	return sum
}

// Sub returns s - other. Components missing from other count as zero.
func (s State) Sub(other State) State {
	result := s.Clone()
	for i := range result[:min(len(s), len(other))] {
		result[i] -= other[i]
	}
	return result
}

// Axpy returns s + a*v.
func (s State) Axpy(a float64, v State) State {
	result := s.Clone()
	for i := range result {
		result[i] += a * v[i]
	}
	return result
}

// Split returns the position and velocity halves of s. Both alias s.
func (s State) Split() (pos, vel State) {
	half := len(s) / 2
	return s[:half], s[half:]
}

// System is an autonomous or time-dependent ODE. States are laid out as
// [positions..., velocities...] so half-split steppers can address them.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t, dt float64) State
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(dyn System, x State, t, dt, tol float64) (State, float64, error)
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}
