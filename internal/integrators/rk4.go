package integrators

import "github.com/san-kum/chaosdp/internal/dynamo"

// Classic fourth order Runge-Kutta tableau.
var (
	rk4Nodes   = [4]float64{0, 0.5, 0.5, 1}
	rk4Weights = [4]float64{1.0 / 6, 2.0 / 6, 2.0 / 6, 1.0 / 6}
)

// RK4 keeps its stage derivatives between calls, so one instance must not
// be shared across goroutines.
type RK4 struct {
	k [4]dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	stage := x
	for s := range r.k {
		if s > 0 {
			stage = x.Axpy(rk4Nodes[s]*dt, r.k[s-1])
		}
		r.k[s] = dyn.Derive(stage, t+rk4Nodes[s]*dt)
	}

	result := x.Clone()
	for s, k := range r.k {
		w := rk4Weights[s] * dt
		for i := range result {
			result[i] += w * k[i]
		}
	}
	return result
}
