package analysis

import (
	"math"

	"github.com/san-kum/chaosdp/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent using the
// trajectory separation method. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two trajectories started perturbation apart in x0[0]
// 2. After every step accumulate ln(|δx|/δ0)
// 3. Pull the shadow trajectory back to distance δ0 along δx
// 4. λ ≈ Σ ln(|δx|/δ0) / t
func LyapunovExponent(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 {
		return 0
	}
	xp := x0.Clone()
	xp[0] += perturbation
	return lyapunovForPerturbation(dyn, integ, x0, xp, dt, duration, perturbation)
}

// LyapunovSpectrum perturbs each state dimension independently. Every
// entry converges towards the largest exponent for long runs; the spread
// between entries shows how quickly each direction aligns with it.
func LyapunovSpectrum(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) []float64 {
	n := len(x0)
	spectrum := make([]float64, n)

	for i := 0; i < n; i++ {
		xp := x0.Clone()
		xp[i] += perturbation
		spectrum[i] = lyapunovForPerturbation(dyn, integ, x0, xp, dt, duration, perturbation)
	}

	return spectrum
}

func lyapunovForPerturbation(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0, x0p dynamo.State,
	dt, duration, d0 float64,
) float64 {
	if !(d0 > 0) || !(dt > 0) {
		return 0
	}

	x := x0.Clone()
	xp := x0p.Clone()
	t := 0.0
	sumLog := 0.0

	for t < duration {
		x = integ.Step(dyn, x, t, dt)
		xp = integ.Step(dyn, xp, t, dt)
		t += dt

		sep := xp.Sub(x).Norm()
		if !(sep > 0) || math.IsInf(sep, 0) {
			break
		}
		sumLog += math.Log(sep / d0)

		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	if t == 0 {
		return 0
	}
	return sumLog / t
}
