package filters

import (
	"math"
)

// Biquad holds the coefficients of one second-order filter section,
// normalized so that a0 == 1. Sections are immutable once designed;
// per-application state lives on the stack inside Filter, so a designed
// section can be shared across windows and goroutines.
//
// Designs in this package use the cookbook formulas from Robert
// Bristow-Johnson's "Cookbook formulae for audio EQ biquad filter
// coefficients"
// Reference: https://webaudio.github.io/Audio-EQ-Cookbook/audio-eq-cookbook.html
type Biquad struct {
	B0, B1, B2 float64 // Numerator coefficients
	A1, A2     float64 // Denominator coefficients (a0 normalized to 1)
}

// Chain is a cascade of second-order sections applied in order
type Chain []Biquad

// butterworthQ is the quality factor that makes a single RBJ low/high-pass
// section a second-order Butterworth response (maximally flat passband)
const butterworthQ = math.Sqrt2 / 2.0

// Filter runs the cascade over input and returns the filtered signal.
// Each section uses the transposed direct form II difference equations:
//
//	y[n] = b0*x[n] + d0
//	d0   = b1*x[n] - a1*y[n] + d1
//	d1   = b2*x[n] - a2*y[n]
//
// State starts at zero for every call, so each window is filtered
// independently of the previous one.
func (c Chain) Filter(input []float64) []float64 {
	output := make([]float64, len(input))
	copy(output, input)

	for _, section := range c {
		var d0, d1 float64
		for i, x := range output {
			y := section.B0*x + d0
			d0 = section.B1*x - section.A1*y + d1
			d1 = section.B2*x - section.A2*y
			output[i] = y
		}
	}

	return output
}

// FrequencyResponse computes the cascade's magnitude and phase response at
// the given frequency. Magnitude is linear scale, phase in radians.
//
// Each section contributes:
//
//	H(e^jw) = (b0 + b1*e^-jw + b2*e^-j2w) / (1 + a1*e^-jw + a2*e^-j2w)
//
// and the cascade response is the product of the sections.
func (c Chain) FrequencyResponse(frequency, sampleRate float64) (magnitude, phase float64) {
	w := 2.0 * math.Pi * frequency / sampleRate

	cosW := math.Cos(w)
	sinW := math.Sin(w)
	cos2W := math.Cos(2 * w)
	sin2W := math.Sin(2 * w)

	magnitude = 1.0
	phase = 0.0

	for _, section := range c {
		// Numerator: b0 + b1*e^-jw + b2*e^-j2w
		numReal := section.B0 + section.B1*cosW + section.B2*cos2W
		numImag := -section.B1*sinW - section.B2*sin2W

		// Denominator: 1 + a1*e^-jw + a2*e^-j2w
		denReal := 1.0 + section.A1*cosW + section.A2*cos2W
		denImag := -section.A1*sinW - section.A2*sin2W

		denMagSq := denReal*denReal + denImag*denImag

		hReal := (numReal*denReal + numImag*denImag) / denMagSq
		hImag := (numImag*denReal - numReal*denImag) / denMagSq

		magnitude *= math.Sqrt(hReal*hReal + hImag*hImag)
		phase += math.Atan2(hImag, hReal)
	}

	return magnitude, phase
}

// clampW0 keeps the normalized center frequency away from Nyquist to
// prevent numerical issues in the trig terms
func clampW0(w0 float64) float64 {
	if w0 >= math.Pi {
		return math.Pi * 0.99
	}
	return w0
}

// designLowpass produces one RBJ low-pass section
func designLowpass(sampleRate, cutoffFreq, q float64) Biquad {
	w0 := clampW0(2.0 * math.Pi * cutoffFreq / sampleRate)

	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / (2.0 * q)

	b0 := (1.0 - cosW0) / 2.0
	b1 := 1.0 - cosW0
	b2 := (1.0 - cosW0) / 2.0
	a0 := 1.0 + alpha
	a1 := -2.0 * cosW0
	a2 := 1.0 - alpha

	return Biquad{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// designHighpass produces one RBJ high-pass section
func designHighpass(sampleRate, cutoffFreq, q float64) Biquad {
	w0 := clampW0(2.0 * math.Pi * cutoffFreq / sampleRate)

	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / (2.0 * q)

	b0 := (1.0 + cosW0) / 2.0
	b1 := -(1.0 + cosW0)
	b2 := (1.0 + cosW0) / 2.0
	a0 := 1.0 + alpha
	a1 := -2.0 * cosW0
	a2 := 1.0 - alpha

	return Biquad{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}

// designNotch produces one RBJ band-stop section centered at centerFreq
func designNotch(sampleRate, centerFreq, q float64) Biquad {
	w0 := clampW0(2.0 * math.Pi * centerFreq / sampleRate)

	cosW0 := math.Cos(w0)
	sinW0 := math.Sin(w0)
	alpha := sinW0 / (2.0 * q)

	b0 := 1.0
	b1 := -2.0 * cosW0
	b2 := 1.0
	a0 := 1.0 + alpha
	a1 := -2.0 * cosW0
	a2 := 1.0 - alpha

	return Biquad{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
