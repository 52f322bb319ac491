package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooShort = errors.New("analysis: trace too short")

// PowerSpectrum returns the magnitude of the first n/2 bins of the
// mean-removed samples. Bin k is k*rate/n Hz.
func PowerSpectrum(samples []float64) []float64 {
	if len(samples) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= float64(len(samples))

	centered := make([]float64, len(samples))
	for i, v := range samples {
		centered[i] = v - mean
	}

	spec := fft.FFTReal(centered)
	ps := make([]float64, len(spec)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in Hz of samples
// taken at rate Hz, with its magnitude.
func DominantFrequency(samples []float64, rate float64) (hz, power float64, err error) {
	ps := PowerSpectrum(samples)
	if len(ps) < 2 {
		return 0, 0, ErrTooShort
	}

	peak := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}
	return float64(peak) * rate / float64(len(samples)), ps[peak], nil
}
