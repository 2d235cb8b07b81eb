package spectral

import (
	"math"
	"sort"
)

// Peak represents a detected spectral peak
type Peak struct {
	Frequency float64 // Peak frequency in Hz
	Power     float64 // Peak power density
	BinIndex  int     // Original grid index
}

// PeakDetector finds peaks on a one-sided PSD grid. Used by the theta
// metrics to locate the dominant oscillation inside a band.
type PeakDetector struct {
	minPeakHeight   float64
	minPeakDistance float64 // Minimum distance between peaks in Hz
	maxPeaks        int
}

// NewPeakDetector creates a new peak detector
func NewPeakDetector(minPeakHeight, minPeakDistance float64, maxPeaks int) *PeakDetector {
	return &PeakDetector{
		minPeakHeight:   minPeakHeight,
		minPeakDistance: minPeakDistance,
		maxPeaks:        maxPeaks,
	}
}

// Detect finds local maxima on the (frequencies, power) grid, keeping the
// higher of any two peaks closer than the minimum distance, sorted by
// power descending and capped at maxPeaks.
func (pd *PeakDetector) Detect(frequencies, power []float64) []Peak {
	if len(power) < 3 || len(frequencies) != len(power) {
		return []Peak{}
	}

	resolution := frequencies[1] - frequencies[0]
	minDistanceBins := 1
	if resolution > 0 {
		minDistanceBins = max(int(pd.minPeakDistance/resolution), 1)
	}

	var peaks []Peak

	for i := 1; i < len(power)-1; i++ {
		if power[i] <= power[i-1] || power[i] <= power[i+1] || power[i] < pd.minPeakHeight {
			continue
		}

		// Enforce minimum distance, keeping the higher peak
		valid := true
		for j := 0; j < len(peaks); j++ {
			if int(math.Abs(float64(i-peaks[j].BinIndex))) >= minDistanceBins {
				continue
			}
			if power[i] > peaks[j].Power {
				peaks = append(peaks[:j], peaks[j+1:]...)
			} else {
				valid = false
			}
			break
		}

		if valid {
			peaks = append(peaks, Peak{
				Frequency: frequencies[i],
				Power:     power[i],
				BinIndex:  i,
			})
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].Power > peaks[j].Power
	})

	if pd.maxPeaks > 0 && len(peaks) > pd.maxPeaks {
		peaks = peaks[:pd.maxPeaks]
	}

	return peaks
}

// Refine sharpens peak locations with parabolic interpolation across the
// three bins around each peak, for sub-bin frequency accuracy.
func (pd *PeakDetector) Refine(frequencies, power []float64, peaks []Peak) []Peak {
	if len(frequencies) < 2 {
		return peaks
	}

	resolution := frequencies[1] - frequencies[0]
	refined := make([]Peak, len(peaks))

	for i, peak := range peaks {
		refined[i] = refinePeak(frequencies, power, peak, resolution)
	}

	return refined
}

// MaxInBand returns the highest-power grid point with lowFreq <= f <=
// highFreq, refined by parabolic interpolation when it sits on an interior
// local maximum. The boolean is false when the band contains no grid
// points.
func (pd *PeakDetector) MaxInBand(frequencies, power []float64, lowFreq, highFreq float64) (Peak, bool) {
	if len(frequencies) != len(power) || len(power) == 0 {
		return Peak{}, false
	}

	best := -1
	for i, f := range frequencies {
		if f < lowFreq || f > highFreq {
			continue
		}
		if best < 0 || power[i] > power[best] {
			best = i
		}
	}

	if best < 0 {
		return Peak{}, false
	}

	peak := Peak{
		Frequency: frequencies[best],
		Power:     power[best],
		BinIndex:  best,
	}

	if len(frequencies) >= 2 {
		resolution := frequencies[1] - frequencies[0]
		peak = refinePeak(frequencies, power, peak, resolution)
	}

	return peak, true
}

// refinePeak applies parabolic interpolation around an interior local
// maximum; edge bins and flat neighborhoods pass through unchanged
func refinePeak(frequencies, power []float64, peak Peak, resolution float64) Peak {
	i := peak.BinIndex
	if i <= 0 || i >= len(power)-1 {
		return peak
	}

	y1 := power[i-1]
	y2 := power[i]
	y3 := power[i+1]

	// Interpolation is only meaningful around a genuine local maximum;
	// a band-edge argmax on a monotonic slope stays on the grid
	if y2 < y1 || y2 < y3 {
		return peak
	}

	denom := 2.0 * (2.0*y2 - y1 - y3)
	if math.Abs(denom) <= 1e-10 {
		return peak
	}

	offset := (y3 - y1) / denom

	a := 0.5 * (y1 - 2.0*y2 + y3)
	b := 0.5 * (y3 - y1)

	peak.Frequency = frequencies[i] + offset*resolution
	peak.Power = y2 + a*offset*offset + b*offset

	return peak
}
