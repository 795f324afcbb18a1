package dynamo

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidState      = errors.New("dynamo: state holds NaN or Inf")
	ErrParameterBounds   = errors.New("dynamo: parameter out of range")
	ErrDimensionMismatch = errors.New("dynamo: state and system dimensions differ")

	// Registry lookups.
	ErrUnknownIntegrator = errors.New("dynamo: unknown integrator")
	ErrUnknownPreset     = errors.New("dynamo: unknown preset")
	ErrUnknownEvent      = errors.New("dynamo: unknown input event")
)

// SimulationError locates a failure within a run. Step counts frames for
// headless runs and integration steps elsewhere. Pendulum is the index of
// the offending population member, or -1 when not applicable.
type SimulationError struct {
	Step     int
	Time     float64
	Pendulum int
	Wrapped  error
}

func (e *SimulationError) Error() string {
	if e.Pendulum < 0 {
		return fmt.Sprintf("step %d (t=%.4fs): %v", e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.4fs), pendulum %d: %v", e.Step, e.Time, e.Pendulum, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
