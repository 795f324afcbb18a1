// Package dynamo provides the numeric primitives shared by the simulation
// packages.
//
// The package defines the small vocabulary the rest of the module speaks:
//
//   - [State]: flat vector of generalized coordinates and velocities
//   - [System]: an ODE right-hand side (dX/dt = f(X, t))
//   - [Integrator]: advances a [System] by one step
//   - [Metric] and [Observer]: passive consumers of a trajectory
//
// # Example
//
//	m := physics.DefaultModel()
//	x := physics.NewDoublePendulum(m, angle).State()
//	x = integrators.NewRK4().Step(m, x, 0, 2e-4)
//
// # Logging
//
// Library code logs through [Logger], which discards everything until the
// host calls [SetLogger].
//
// # Thread Safety
//
// Systems and integrators are NOT thread-safe. [ParallelFor] may only be
// used over index ranges whose work items share no mutable state.
package dynamo
