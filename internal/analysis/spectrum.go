package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude of each non-negative frequency bin of
// data, len(data)/2+1 values.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	fft := fourier.NewFFT(len(data))
	coeff := fft.Coefficients(nil, data)

	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantFrequency returns the frequency, in cycles per unit of
// 1/sampleRate, of the strongest non-DC component of data.
func DominantFrequency(data []float64, sampleRate float64) float64 {
	if len(data) < 2 {
		return 0
	}

	mean := stat.Mean(data, nil)
	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(len(centered))
	coeff := fft.Coefficients(nil, centered)

	best, bestMag := 0, 0.0
	for i := 1; i < len(coeff); i++ {
		if m := cmplx.Abs(coeff[i]); m > bestMag {
			best, bestMag = i, m
		}
	}
	return fft.Freq(best) * sampleRate
}
