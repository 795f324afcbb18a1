// Package sim owns a population of independent double pendulums and the
// policy that turns wall-clock time into integrator steps.
//
//   - [Set]: the population. [Set.SetDefault] holds one pendulum,
//     [Set.SetChaos] holds many whose start angles differ by a tiny
//     increment. [Set.Advance] steps every member by the same dt.
//   - [Scheduler]: per tick, either one variable step of the measured
//     wall-clock delta ([RealTime]) or as many fixed steps as an
//     accumulator allows ([Precision]).
//   - [Driver]: glues the two together with edge-triggered input events
//     that are applied at tick boundaries.
//
// Everything here runs on the caller's goroutine; a [Set] built with more
// than one worker fans Advance out and joins before returning.
package sim
