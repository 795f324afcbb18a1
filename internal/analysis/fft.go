package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Spectrum is a one-sided magnitude spectrum. Bin i sits at i*Resolution Hz.
type Spectrum struct {
	Magnitude  []float64
	Resolution float64
}

// PowerSpectrum returns the magnitude of the FFT of a Hann-windowed copy
// of data sampled every dt seconds. The input is zero-padded to a power
// of two; only the non-negative frequencies are kept.
func PowerSpectrum(data []float64, dt float64) Spectrum {
	if len(data) == 0 || !(dt > 0) {
		return Spectrum{}
	}

	n := nextPow2(len(data))
	buf := make([]float64, n)
	copy(buf, data)
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	for i := range data {
		buf[i] -= mean
	}
	window.Apply(buf[:len(data)], window.Hann)

	out := fft.FFTReal(buf)
	mag := make([]float64, n/2+1)
	for i := range mag {
		mag[i] = cmplx.Abs(out[i])
	}
	return Spectrum{Magnitude: mag, Resolution: 1 / (float64(n) * dt)}
}

// Peak returns the frequency of the strongest non-DC bin.
func (s Spectrum) Peak() float64 {
	best, idx := 0.0, 0
	for i := 1; i < len(s.Magnitude); i++ {
		if s.Magnitude[i] > best {
			best, idx = s.Magnitude[i], i
		}
	}
	return float64(idx) * s.Resolution
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << uint(math.Ceil(math.Log2(float64(n))))
}
