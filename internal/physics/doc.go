// Package physics models the double pendulum: two point masses on rigid,
// massless rods, the upper hung from a fixed pivot and the lower hung from
// the upper bob.
//
// Angles are measured from the downward vertical. Cartesian positions are
// pivot-relative with y growing downward, matching screen coordinates:
//
//	top    = (l1·sin θ1, l1·cos θ1)
//	bottom = top + (l2·sin θ2, l2·cos θ2)
//
// [DoublePendulum.Step] is the authoritative integrator. It is a
// semi-implicit Euler pass: accelerations from the current state, then
// velocities, then angles from the fresh velocities. Do not swap it for a
// higher order scheme; the population demos depend on this exact trajectory.
//
// [Model] exposes the same equations as a [dynamo.System] so the generic
// steppers in package integrators and the tools in package analysis can
// run on them.
//
// # Singularities
//
// The shared denominator 2m1 + m2 - m2·cos(2θ1 - 2θ2) can approach zero for
// some parameter choices. The resulting blow-up is a property of the
// equations and is left unguarded.
package physics
