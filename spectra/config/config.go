package config

import (
	"fmt"

	"github.com/RyanBlaney/neuro-sonar/algorithms/windowing"
)

// MinWindowSize is the smallest processing window the engine accepts.
// Below this the frequency grid is too coarse to resolve the canonical
// bands at typical EEG sample rates.
const MinWindowSize = 64

// MainsRegion selects the power-line frequency to reject
type MainsRegion string

const (
	// MainsEurope covers the 50 Hz grid regions (Europe, most of Asia,
	// Africa, Australia)
	MainsEurope MainsRegion = "europe"
	// MainsNorthAmerica covers the 60 Hz grid regions (North America,
	// most of South America)
	MainsNorthAmerica MainsRegion = "north_america"
)

// EngineConfig holds the full configuration of one analysis engine. The
// engine copies it at construction and derives its filter coefficients,
// taper and frequency grid from it once; nothing is recomputed per window.
type EngineConfig struct {
	// Signal geometry
	SampleRate float64 `json:"sample_rate"` // nominal rate in Hz, fixed for the engine's lifetime
	WindowSize int     `json:"window_size"` // samples per non-overlapping window

	// Spectral estimation
	WindowType windowing.Type `json:"window_type"` // taper applied before the FFT

	// Mains rejection
	NotchEnabled   bool    `json:"notch_enabled"`
	NotchFrequency float64 `json:"notch_frequency"` // Hz: 50 or 60 depending on region
	NotchQ         float64 `json:"notch_q"`         // center/bandwidth ratio

	// Physiological band isolation
	BandpassLow  float64 `json:"bandpass_low"`  // Hz, removes sub-delta drift
	BandpassHigh float64 `json:"bandpass_high"` // Hz, removes supra-gamma content

	// Artifact suppression
	ArtifactThreshold  float64 `json:"artifact_threshold"`   // spike threshold as a multiple of the window std
	ArtifactMedianSpan int     `json:"artifact_median_span"` // local median width, odd

	// Quality assessment thresholds, all in microvolts
	ConstantEpsilonUV float64 `json:"constant_epsilon_uv"` // std below this flags a stuck source
	DCOffsetLimitUV   float64 `json:"dc_offset_limit_uv"`  // |mean| above this flags electrode drift
	SaturationLimitUV float64 `json:"saturation_limit_uv"` // |mean| above this flags an upstream fault

	// Theta metric tuning
	SNRPeakFloor   float64 `json:"snr_peak_floor"`  // below this the adapted theta clamps to zero
	SmoothingAlpha float64 `json:"smoothing_alpha"` // weight of the newest window in the running average

	// GateConstantWindows stops constant-flagged windows from updating
	// the smoothed theta state. Off by default: degraded windows still
	// produce metrics and the caller gates on the quality score.
	GateConstantWindows bool `json:"gate_constant_windows"`

	// IncludePSD attaches the raw density to every result. Most
	// consumers only want the integrated bands, so this is opt-in.
	IncludePSD bool `json:"include_psd"`
}

// DefaultEngineConfig returns the reference configuration: 512-sample
// windows at 512 Hz, Hann taper, 50 Hz notch, 1-45 Hz band-pass.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		SampleRate:          512.0,
		WindowSize:          512,
		WindowType:          windowing.TypeHann,
		NotchEnabled:        true,
		NotchFrequency:      50.0,
		NotchQ:              30.0,
		BandpassLow:         1.0,
		BandpassHigh:        45.0,
		ArtifactThreshold:   5.0,
		ArtifactMedianSpan:  5,
		ConstantEpsilonUV:   0.1,
		DCOffsetLimitUV:     100.0,
		SaturationLimitUV:   5000.0,
		SNRPeakFloor:        0.2,
		SmoothingAlpha:      0.3,
		GateConstantWindows: false,
	}
}

// RegionalEngineConfig returns the default configuration with the notch
// centered on the region's mains frequency. Unknown regions fall back to
// 50 Hz, the more common grid.
func RegionalEngineConfig(region MainsRegion) *EngineConfig {
	cfg := DefaultEngineConfig()

	switch region {
	case MainsNorthAmerica:
		cfg.NotchFrequency = 60.0
	case MainsEurope:
		cfg.NotchFrequency = 50.0
	default:
		cfg.NotchFrequency = 50.0
	}

	return cfg
}

// Validate checks the configuration before any coefficients are derived
// from it. Construction must fail on a bad configuration rather than
// proceed with mismatched filters.
func (c *EngineConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %g", c.SampleRate)
	}

	if c.WindowSize < MinWindowSize {
		return fmt.Errorf("window size must be at least %d samples: %d", MinWindowSize, c.WindowSize)
	}

	nyquist := c.SampleRate / 2.0

	if c.BandpassLow <= 0 || c.BandpassLow >= nyquist {
		return fmt.Errorf("band-pass low edge must be between 0 and Nyquist (%g Hz): %g", nyquist, c.BandpassLow)
	}
	if c.BandpassHigh <= c.BandpassLow || c.BandpassHigh >= nyquist {
		return fmt.Errorf("band-pass high edge must be between low edge (%g Hz) and Nyquist (%g Hz): %g",
			c.BandpassLow, nyquist, c.BandpassHigh)
	}

	if c.NotchEnabled {
		if c.NotchFrequency <= 0 || c.NotchFrequency >= nyquist {
			return fmt.Errorf("notch frequency must be between 0 and Nyquist (%g Hz): %g", nyquist, c.NotchFrequency)
		}
		if c.NotchQ <= 0 {
			return fmt.Errorf("notch Q must be positive: %g", c.NotchQ)
		}
	}

	if c.ArtifactThreshold <= 0 {
		return fmt.Errorf("artifact threshold must be positive: %g", c.ArtifactThreshold)
	}
	if c.ArtifactMedianSpan < 3 || c.ArtifactMedianSpan%2 == 0 {
		return fmt.Errorf("artifact median span must be an odd number >= 3: %d", c.ArtifactMedianSpan)
	}

	if c.ConstantEpsilonUV <= 0 {
		return fmt.Errorf("constant epsilon must be positive: %g", c.ConstantEpsilonUV)
	}
	if c.DCOffsetLimitUV <= 0 {
		return fmt.Errorf("DC offset limit must be positive: %g", c.DCOffsetLimitUV)
	}
	if c.SaturationLimitUV <= c.DCOffsetLimitUV {
		return fmt.Errorf("saturation limit (%g) must exceed the DC offset limit (%g)",
			c.SaturationLimitUV, c.DCOffsetLimitUV)
	}

	if c.SNRPeakFloor < 0 {
		return fmt.Errorf("SNR peak floor must not be negative: %g", c.SNRPeakFloor)
	}
	if c.SmoothingAlpha <= 0 || c.SmoothingAlpha > 1 {
		return fmt.Errorf("smoothing alpha must be in (0, 1]: %g", c.SmoothingAlpha)
	}

	if _, err := windowing.New(c.WindowType, c.WindowSize, false); err != nil {
		return fmt.Errorf("invalid window type: %w", err)
	}

	return nil
}

// Clone returns an independent copy so an engine can own its
// configuration without sharing mutable state with the caller.
func (c *EngineConfig) Clone() *EngineConfig {
	clone := *c
	return &clone
}

// Nyquist returns half the sample rate
func (c *EngineConfig) Nyquist() float64 {
	return c.SampleRate / 2.0
}

// FrequencyResolution returns the spacing of the PSD grid in Hz
func (c *EngineConfig) FrequencyResolution() float64 {
	return c.SampleRate / float64(c.WindowSize)
}
