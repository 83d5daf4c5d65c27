package motion

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is the one-sided magnitude spectrum of a sampled column.
type Spectrum struct {
	// Resolution is the bin spacing in Hz.
	Resolution float64
	Power      []float64
}

// PowerSpectrum removes the mean from data and returns magnitudes for bins
// 0..n/2, with bins spaced fps/n apart.
func PowerSpectrum(data []float64, fps float64) Spectrum {
	n := len(data)
	if n == 0 || fps <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	centered := make([]float64, n)
	for i, v := range data {
		centered[i] = v - mean
	}

	out := fft.FFTReal(centered)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(out[i])
	}
	return Spectrum{Resolution: fps / float64(n), Power: ps}
}

// Dominant returns the frequency of the strongest non-DC bin, or 0 when
// the signal is constant.
func (s Spectrum) Dominant() float64 {
	best, idx := 0.0, 0
	for i := 1; i < len(s.Power); i++ {
		if s.Power[i] > best {
			best, idx = s.Power[i], i
		}
	}
	return float64(idx) * s.Resolution
}
