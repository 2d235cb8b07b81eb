package filters

import (
	"fmt"
)

// NewBandpass designs the wide band-pass used to isolate the physiological
// EEG range: a second-order Butterworth high-pass at lowFreq cascaded with
// a second-order Butterworth low-pass at highFreq. Both edges are realized
// as cookbook biquads with Q = 1/sqrt(2).
//
// The chain is designed once from the sample rate and reused for every
// window; it is never recomputed during a session.
func NewBandpass(sampleRate, lowFreq, highFreq float64) (Chain, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %g", sampleRate)
	}

	nyquist := sampleRate / 2.0
	if lowFreq <= 0 || lowFreq >= nyquist {
		return nil, fmt.Errorf("band-pass low edge must be between 0 and Nyquist (%g Hz): %g", nyquist, lowFreq)
	}
	if highFreq <= lowFreq || highFreq >= nyquist {
		return nil, fmt.Errorf("band-pass high edge must be between low edge (%g Hz) and Nyquist (%g Hz): %g", lowFreq, nyquist, highFreq)
	}

	return Chain{
		designHighpass(sampleRate, lowFreq, butterworthQ),
		designLowpass(sampleRate, highFreq, butterworthQ),
	}, nil
}
