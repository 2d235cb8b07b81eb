package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// PSD computes one-sided Welch-scaled power spectral density estimates.
//
// The scaling is the single most delicate constant in the whole pipeline:
//
//	power[k] = |X[k]|^2 / (fs * sum(w^2))
//
// doubled for every bin except DC and Nyquist to fold in the
// negative-frequency energy. Getting the window-energy term wrong inflates
// every downstream band power by orders of magnitude, so this file is
// covered by its own unit tests independent of the pipeline.
type PSD struct {
	sampleRate float64
	fft        *FFT
}

// NewPSD creates a PSD calculator for the given sample rate
func NewPSD(sampleRate float64) (*PSD, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %g", sampleRate)
	}

	return &PSD{
		sampleRate: sampleRate,
		fft:        NewFFT(),
	}, nil
}

// Frequencies returns the one-sided frequency grid for a window of the
// given size: windowSize/2+1 points spaced fs/windowSize apart, from 0 to
// Nyquist. The grid depends only on the window size and sample rate, never
// on sample values.
func (p *PSD) Frequencies(windowSize int) []float64 {
	if windowSize <= 0 {
		return []float64{}
	}

	resolution := p.sampleRate / float64(windowSize)
	bins := windowSize/2 + 1

	frequencies := make([]float64, bins)
	for i := range frequencies {
		frequencies[i] = float64(i) * resolution
	}

	return frequencies
}

// Compute returns the one-sided power spectral density of an
// already-tapered window. windowEnergy is the sum of squared taper
// coefficients used on the signal; passing the wrong energy breaks the
// density scaling, so it is validated here.
func (p *PSD) Compute(windowed []float64, windowEnergy float64) ([]float64, error) {
	if len(windowed) == 0 {
		return nil, fmt.Errorf("empty window")
	}
	if windowEnergy <= 0 {
		return nil, fmt.Errorf("window energy must be positive: %g", windowEnergy)
	}

	spectrum := p.fft.ComputeOneSided(windowed)
	scale := 1.0 / (p.sampleRate * windowEnergy)

	power := make([]float64, len(spectrum))
	for i, bin := range spectrum {
		re := real(bin)
		im := imag(bin)
		power[i] = (re*re + im*im) * scale
	}

	// Fold the negative-frequency energy into every bin except DC and,
	// for even window sizes, Nyquist
	if len(power) > 1 {
		if len(windowed)%2 == 0 {
			floats.Scale(2.0, power[1:len(power)-1])
		} else {
			floats.Scale(2.0, power[1:])
		}
	}

	return power, nil
}

// SampleRate returns the configured sample rate
func (p *PSD) SampleRate() float64 {
	return p.sampleRate
}
