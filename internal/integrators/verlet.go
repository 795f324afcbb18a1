package integrators

import "github.com/san-kum/chaosdp/internal/dynamo"

// Verlet is velocity Verlet over a [positions..., velocities...] state.
// The pendulum's angular accelerations depend on the angular velocities,
// so the closing acceleration is evaluated at the new angles with an
// Euler-predicted velocity.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	_, acc := dyn.Derive(x, t).Split()
	pos, vel := x.Split()

	next := make(dynamo.State, len(x))
	nextPos, nextVel := next.Split()
	for i := range pos {
		nextPos[i] = pos[i] + vel[i]*dt + 0.5*acc[i]*dt*dt
		nextVel[i] = vel[i] + acc[i]*dt
	}

	_, accNew := dyn.Derive(next, t+dt).Split()
	for i := range vel {
		nextVel[i] = vel[i] + 0.5*(acc[i]+accNew[i])*dt
	}
	return next
}

// Leapfrog is the kick-drift-kick form. The closing kick uses the
// half-step velocity, which makes it exact only for velocity independent
// forces.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	half := 0.5 * dt
	_, acc := dyn.Derive(x, t).Split()
	pos, vel := x.Split()

	next := make(dynamo.State, len(x))
	nextPos, nextVel := next.Split()
	for i := range vel {
		nextVel[i] = vel[i] + acc[i]*half
		nextPos[i] = pos[i] + nextVel[i]*dt
	}

	_, accNew := dyn.Derive(next, t+dt).Split()
	for i := range nextVel {
		nextVel[i] += accNew[i] * half
	}
	return next
}
