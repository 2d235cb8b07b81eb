package spectra

import (
	"fmt"

	"github.com/RyanBlaney/neuro-sonar/algorithms/spectral"
	"github.com/RyanBlaney/neuro-sonar/algorithms/stats"
	"github.com/RyanBlaney/neuro-sonar/logging"
	"github.com/RyanBlaney/neuro-sonar/spectra/config"
)

// ThetaMetricsState is a snapshot of the one piece of state the engine
// carries across windows. It belongs to a single engine instance; nothing
// here is global, so concurrent sessions stay isolated.
type ThetaMetricsState struct {
	SmoothedTheta float64 `json:"smoothed_theta"`
	Initialized   bool    `json:"initialized"`
	WindowCount   uint64  `json:"window_count"`
}

// ThetaResult holds the adaptive theta values for one window. Every field
// is finite: zero denominators yield 0, never NaN or Inf.
type ThetaResult struct {
	Contribution  float64 `json:"contribution"`   // percent of cross-band power in theta, 0-100
	Relative      float64 `json:"relative"`       // Contribution / 100
	SNRBroad      float64 `json:"snr_broad"`      // theta power over the other four bands
	SNRPeak       float64 `json:"snr_peak"`       // in-band peak density over mean out-of-band density
	PeakFrequency float64 `json:"peak_frequency"` // Hz
	PeakPower     float64 `json:"peak_power"`
	AdaptedTheta  float64 `json:"adapted_theta"`  // SNR-weighted, clamped to 0 below the floor
	SmoothedTheta float64 `json:"smoothed_theta"` // running average across windows
}

// ThetaMetrics derives the adaptive theta neurofeedback values from a
// window's PSD and band powers. It is the only stateful pipeline stage:
// the exponential smoother persists across windows until Reset.
//
// The peak SNR compares the strongest theta-band density against the
// average density elsewhere in the physiological range. It reacts to a
// narrow theta oscillation that the broadband ratio would dilute.
type ThetaMetrics struct {
	band Band

	// Out-of-band average range: the analysis span that survives the
	// band-pass, minus theta itself. Bins outside the pass band carry
	// only filter leakage and would deflate the average into noise.
	outsideLow  float64
	outsideHigh float64

	snrPeakFloor float64

	smoother    *stats.ExponentialSmoother
	peaks       *spectral.PeakDetector
	windowCount uint64

	logger logging.Logger
}

// NewThetaMetrics creates the stage from the engine configuration.
func NewThetaMetrics(cfg *config.EngineConfig) (*ThetaMetrics, error) {
	if cfg.SNRPeakFloor < 0 {
		return nil, fmt.Errorf("SNR peak floor must not be negative: %g", cfg.SNRPeakFloor)
	}

	smoother, err := stats.NewExponentialSmoother(cfg.SmoothingAlpha)
	if err != nil {
		return nil, err
	}

	outsideLow := cfg.BandpassLow
	if BandDelta.Low > outsideLow {
		outsideLow = BandDelta.Low
	}
	outsideHigh := cfg.BandpassHigh
	if BandGamma.High < outsideHigh {
		outsideHigh = BandGamma.High
	}

	return &ThetaMetrics{
		band:         BandTheta,
		outsideLow:   outsideLow,
		outsideHigh:  outsideHigh,
		snrPeakFloor: cfg.SNRPeakFloor,
		smoother:     smoother,
		peaks:        spectral.NewPeakDetector(0, 0, 1),
		logger: logging.WithFields(logging.Fields{
			"component": "theta_metrics",
		}),
	}, nil
}

// Compute derives the theta values for one window. When updateSmoothing
// is false the running average is reported but not advanced, which is how
// constant-window gating is realized when the caller enables it.
func (tm *ThetaMetrics) Compute(psd *PSDResult, bands *BandPowers, updateSmoothing bool) *ThetaResult {
	result := &ThetaResult{}

	totalBand := bands.Sum()
	if totalBand > 0 {
		result.Contribution = bands.Theta / totalBand * 100.0
		result.Relative = result.Contribution / 100.0
	}

	others := bands.Delta + bands.Alpha + bands.Beta + bands.Gamma
	if others > 0 {
		result.SNRBroad = bands.Theta / others
	}

	if peak, ok := tm.peaks.MaxInBand(psd.Frequencies, psd.Power, tm.band.Low, tm.band.High); ok {
		result.PeakFrequency = peak.Frequency
		result.PeakPower = peak.Power

		outside := tm.averageOutsideBand(psd)
		if outside > 0 {
			result.SNRPeak = peak.Power / outside
		}
	}

	if result.SNRPeak >= tm.snrPeakFloor && result.SNRPeak > 0 {
		result.AdaptedTheta = result.SNRPeak / (result.SNRPeak + 1.0)
	}

	if updateSmoothing {
		result.SmoothedTheta = tm.smoother.Update(result.Contribution)
		tm.windowCount++
	} else {
		result.SmoothedTheta = tm.smoother.Value()
	}

	return result
}

// averageOutsideBand returns the mean density over the grid points inside
// the analysis range but outside theta. Returns 0 when no such points
// exist, which the caller maps to a zero SNR.
func (tm *ThetaMetrics) averageOutsideBand(psd *PSDResult) float64 {
	sum := 0.0
	count := 0

	for i, f := range psd.Frequencies {
		if f < tm.outsideLow || f > tm.outsideHigh {
			continue
		}
		if tm.band.Contains(f) {
			continue
		}
		sum += psd.Power[i]
		count++
	}

	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}

// State returns a snapshot of the cross-window smoothing state
func (tm *ThetaMetrics) State() ThetaMetricsState {
	return ThetaMetricsState{
		SmoothedTheta: tm.smoother.Value(),
		Initialized:   tm.smoother.Initialized(),
		WindowCount:   tm.windowCount,
	}
}

// Reset clears the smoothing state so the next window seeds it afresh.
// Whether a reconnect warrants this is the caller's policy; it is never
// triggered automatically.
func (tm *ThetaMetrics) Reset() {
	tm.smoother.Reset()
	tm.windowCount = 0
}
