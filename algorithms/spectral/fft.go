package spectral

import (
	"github.com/mjibson/go-dsp/fft"
)

// FFT provides Fast Fourier Transform functionality for real-valued
// voltage windows
type FFT struct {
	// No state needed for now
}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the Fast Fourier Transform using mjibson/go-dsp.
// Takes []float64 input and returns the full []complex128 spectrum.
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	// mjibson/go-dsp handles all sizes efficiently, including non-power-of-2
	return fft.FFTReal(x)
}

// ComputeOneSided computes the FFT and keeps only the non-negative
// frequency bins (len/2 + 1 of them). For real input the discarded half is
// the complex conjugate mirror, so no information is lost.
func (f *FFT) ComputeOneSided(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}

	spectrum := f.Compute(x)
	bins := len(x)/2 + 1

	oneSided := make([]complex128, bins)
	copy(oneSided, spectrum[:bins])

	return oneSided
}
