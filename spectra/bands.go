package spectra

import (
	"fmt"

	"gonum.org/v1/gonum/integrate"

	"github.com/RyanBlaney/neuro-sonar/algorithms/common"
	"github.com/RyanBlaney/neuro-sonar/logging"
)

// Band is a named frequency range in Hz
type Band struct {
	Name string  `json:"name"`
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Contains reports whether f lies inside the band, edges included
func (b Band) Contains(f float64) bool {
	return f >= b.Low && f <= b.High
}

// The five canonical EEG bands. Adjacent bands share their boundary
// frequency; the shared grid point contributes to both trapezoids, which
// the band-sum cross-check tolerance absorbs.
var (
	BandDelta = Band{Name: "delta", Low: 0.5, High: 4.0}
	BandTheta = Band{Name: "theta", Low: 4.0, High: 8.0}
	BandAlpha = Band{Name: "alpha", Low: 8.0, High: 12.0}
	BandBeta  = Band{Name: "beta", Low: 12.0, High: 30.0}
	BandGamma = Band{Name: "gamma", Low: 30.0, High: 45.0}
)

// CanonicalBands returns the five bands in ascending frequency order
func CanonicalBands() []Band {
	return []Band{BandDelta, BandTheta, BandAlpha, BandBeta, BandGamma}
}

// BandPowers holds the integrated power per canonical band plus the
// time-domain total. Created fresh per window and never mutated after.
//
// TotalPower is deliberately NOT the sum of the five bands: it is the
// population variance of the filtered time-domain window, computed
// independently so the two can be cross-checked. They approximate each
// other but need not match exactly, because the bands do not cover the
// full 0..Nyquist range and the integration is discrete.
type BandPowers struct {
	Delta      float64 `json:"delta"`
	Theta      float64 `json:"theta"`
	Alpha      float64 `json:"alpha"`
	Beta       float64 `json:"beta"`
	Gamma      float64 `json:"gamma"`
	TotalPower float64 `json:"total_power"`
}

// Sum returns the combined power of the five bands
func (bp *BandPowers) Sum() float64 {
	return bp.Delta + bp.Theta + bp.Alpha + bp.Beta + bp.Gamma
}

// BandPowerCalculator integrates a PSD over the canonical bands
type BandPowerCalculator struct {
	nyquist float64
	logger  logging.Logger
}

// NewBandPowerCalculator creates a calculator for the given sample rate
func NewBandPowerCalculator(sampleRate float64) (*BandPowerCalculator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %g", sampleRate)
	}

	return &BandPowerCalculator{
		nyquist: sampleRate / 2.0,
		logger: logging.WithFields(logging.Fields{
			"component": "band_power_calculator",
		}),
	}, nil
}

// Compute integrates the PSD over each canonical band and pairs the
// result with the independent time-domain total of the same filtered
// window the PSD came from.
func (bc *BandPowerCalculator) Compute(psd *PSDResult, filtered []float64) (*BandPowers, error) {
	if psd == nil || len(psd.Frequencies) != len(psd.Power) {
		return nil, fmt.Errorf("malformed density: frequency and power grids must match")
	}

	powers := &BandPowers{
		Delta:      bc.IntegrateBand(psd, BandDelta),
		Theta:      bc.IntegrateBand(psd, BandTheta),
		Alpha:      bc.IntegrateBand(psd, BandAlpha),
		Beta:       bc.IntegrateBand(psd, BandBeta),
		Gamma:      bc.IntegrateBand(psd, BandGamma),
		TotalPower: common.PopVariance(filtered),
	}

	return powers, nil
}

// IntegrateBand applies the trapezoidal rule over the grid points inside
// the band, clipped to [0, Nyquist]. A band covering fewer than two grid
// points has no area and yields 0.
func (bc *BandPowerCalculator) IntegrateBand(psd *PSDResult, band Band) float64 {
	high := band.High
	if high > bc.nyquist {
		high = bc.nyquist
	}
	if band.Low >= high {
		return 0.0
	}

	start := -1
	end := -1
	for i, f := range psd.Frequencies {
		if f < band.Low {
			continue
		}
		if f > high {
			break
		}
		if start < 0 {
			start = i
		}
		end = i
	}

	// Trapezoids need at least two points
	if start < 0 || end-start < 1 {
		return 0.0
	}

	return integrate.Trapezoidal(psd.Frequencies[start:end+1], psd.Power[start:end+1])
}
