package metrics

import (
	"math"

	"github.com/san-kum/chaosdp/internal/dynamo"
)

// Energy averages the total energy of the observed states.
type Energy struct {
	name        string
	sys         dynamo.Hamiltonian
	samples     int
	totalEnergy float64
	last        float64
}

func NewEnergy(sys dynamo.Hamiltonian) *Energy {
	return &Energy{
		name: "energy",
		sys:  sys,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(x dynamo.State, t float64) {
	e.last = e.sys.Energy(x)
	e.totalEnergy += e.last
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

// Last returns the energy of the most recent observation.
func (e *Energy) Last() float64 { return e.last }

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
	e.last = 0
}

// EnergyDrift tracks the largest relative departure from the energy of
// the first observed state. A zero reference energy makes the relative
// drift undefined and it then stays at 0.
type EnergyDrift struct {
	sys       dynamo.Hamiltonian
	reference float64
	seeded    bool
	worst     float64
	worstAt   float64
}

func NewEnergyDrift(sys dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{sys: sys}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	energy := e.sys.Energy(x)
	if !e.seeded {
		e.reference, e.seeded = energy, true
		return
	}
	if e.reference == 0 {
		return
	}
	if d := math.Abs((energy - e.reference) / e.reference); d > e.worst {
		e.worst, e.worstAt = d, t
	}
}

func (e *EnergyDrift) Value() float64 { return e.worst }

// WorstAt is the time of the largest drift seen so far.
func (e *EnergyDrift) WorstAt() float64 { return e.worstAt }

func (e *EnergyDrift) Reset() {
	*e = EnergyDrift{sys: e.sys}
}
