package integrators

import (
	"math"

	"github.com/san-kum/chaosdp/internal/dynamo"
)

// Dormand-Prince 5(4) tableau. The seventh stage is evaluated at the fifth
// order solution (first same as last), so dpA has seven rows and the last
// one doubles as the fifth order weights.
var (
	dpC = [7]float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}
	// fifth minus fourth order weights
	dpE = [7]float64{
		35.0/384 - 5179.0/57600,
		0,
		500.0/1113 - 7571.0/16695,
		125.0/192 - 393.0/640,
		-2187.0/6784 + 92097.0/339200,
		11.0/84 - 187.0/2100,
		-1.0 / 40,
	}
)

// RK45 is the Dormand-Prince embedded pair. Step takes the fifth order
// solution for the requested dt and drops the suggested next step;
// StepAdaptive also returns it.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64
	tol      float64
}

var _ dynamo.AdaptiveIntegrator = (*RK45)(nil)

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
		tol:      1e-6,
	}
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next, _, _ := r.StepAdaptive(dyn, x, t, dt, r.tol)
	return next
}

// StepAdaptive advances x by dt and returns the new state together with a
// step size that would keep the local error near tol.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	var k [7]dynamo.State
	var next dynamo.State

	for s := range k {
		stage := x.Clone()
		for j := 0; j < s; j++ {
			if a := dpA[s][j]; a != 0 {
				for i := range stage {
					stage[i] += dt * a * k[j][i]
				}
			}
		}
		if s == len(k)-1 {
			next = stage
		}
		k[s] = dyn.Derive(stage, t+dpC[s]*dt)
	}

	if !next.IsValid() {
		return next, dt, dynamo.ErrInvalidState
	}

	errMax := 0.0
	for i := range x {
		est := 0.0
		for s, e := range dpE {
			est += e * k[s][i]
		}
		scale := math.Abs(x[i]) + math.Abs(dt*k[0][i]) + 1e-10
		errMax = math.Max(errMax, math.Abs(dt*est)/scale)
	}

	ratio := errMax / tol
	switch {
	case ratio > 1:
		return next, dt * math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25)), nil
	case ratio > 0:
		return next, dt * math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2)), nil
	default:
		return next, dt * r.maxScale, nil
	}
}
