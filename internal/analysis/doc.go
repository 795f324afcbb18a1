// Package analysis characterizes double pendulum trajectories.
//
//   - [LyapunovExponent]: largest Lyapunov exponent via trajectory separation
//   - [LyapunovSpectrum]: the same estimate seeded along each state axis
//   - [AngleSweep]: first-flip time as a function of the start angle
//   - [PowerSpectrum]: windowed FFT of a sampled coordinate
//   - [GeneratePhasePortrait]: 2D phase space trajectories
//   - [GeneratePoincareSection]: stroboscopic section of phase space
//
// # Chaos Detection
//
// A positive largest Lyapunov exponent indicates chaotic dynamics:
//
//	m := physics.DefaultModel()
//	x0 := physics.NewDoublePendulum(m, 2.1).State()
//	lambda := analysis.LyapunovExponent(m, integrators.NewRK4(), x0, 1e-3, 20, 1e-8)
//	if lambda > 0 {
//	    // chaotic
//	}
package analysis
