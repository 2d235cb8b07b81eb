package filters

import (
	"fmt"
)

// NewNotch designs a narrow band-stop chain centered at the mains frequency
// (50 Hz in most regions, 60 Hz in North America). Q controls the stop-band
// width: Q = centerFreq/bandwidth, so Q=30 at 50 Hz rejects roughly a
// 1.7 Hz wide band around the line frequency.
func NewNotch(sampleRate, centerFreq, q float64) (Chain, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %g", sampleRate)
	}

	nyquist := sampleRate / 2.0
	if centerFreq <= 0 || centerFreq >= nyquist {
		return nil, fmt.Errorf("notch center must be between 0 and Nyquist (%g Hz): %g", nyquist, centerFreq)
	}
	if q <= 0 {
		return nil, fmt.Errorf("notch Q must be positive: %g", q)
	}

	return Chain{
		designNotch(sampleRate, centerFreq, q),
	}, nil
}
