package spectra

import (
	"time"
)

// WindowAdmissionDecision states whether a submitted window was usable,
// as an explicit tagged value rather than a pile of booleans.
type WindowAdmissionDecision string

const (
	// WindowAccept marks a clean window processed end to end.
	WindowAccept WindowAdmissionDecision = "accept"
	// WindowRejectConstant marks a stuck or near-zero-variance window.
	// Processing still completes; the decision is advisory and the
	// caller gates on the quality score.
	WindowRejectConstant WindowAdmissionDecision = "reject_constant"
	// WindowRejectNonFinite marks a window containing NaN or Inf
	// samples. Such windows never reach filtering or the FFT.
	WindowRejectNonFinite WindowAdmissionDecision = "reject_non_finite"
)

func (d WindowAdmissionDecision) String() string {
	return string(d)
}

// WindowMetrics is the per-window output record. The serialized field
// names are display names consumed verbatim by existing downstream
// sinks, so they are part of the compatibility contract and must not
// change.
type WindowMetrics struct {
	DeltaPower        float64 `json:"Delta power"`
	ThetaPower        float64 `json:"Theta power"`
	AlphaPower        float64 `json:"Alpha power"`
	BetaPower         float64 `json:"Beta power"`
	GammaPower        float64 `json:"Gamma power"`
	TotalPower        float64 `json:"Total variance (power)"`
	ThetaContribution float64 `json:"Theta contribution"` // percent of cross-band power, 0-100
	ThetaRelative     float64 `json:"Theta relative"`     // ThetaContribution / 100, 0-1
	ThetaSNRBroad     float64 `json:"Theta SNR broad"`
	ThetaSNRPeak      float64 `json:"Theta SNR peak"`
}

// Fields returns the record keyed by the same display names the JSON
// encoding uses, for sinks that take flat name/value pairs.
func (m *WindowMetrics) Fields() map[string]float64 {
	return map[string]float64{
		"Delta power":            m.DeltaPower,
		"Theta power":            m.ThetaPower,
		"Alpha power":            m.AlphaPower,
		"Beta power":             m.BetaPower,
		"Gamma power":            m.GammaPower,
		"Total variance (power)": m.TotalPower,
		"Theta contribution":     m.ThetaContribution,
		"Theta relative":         m.ThetaRelative,
		"Theta SNR broad":        m.ThetaSNRBroad,
		"Theta SNR peak":         m.ThetaSNRPeak,
	}
}

// ThetaTelemetry carries the adaptive theta values beyond the minimal
// consumer contract: the SNR-weighted adapted value, the cross-window
// smoothed value, and where in the band the dominant oscillation sits.
type ThetaTelemetry struct {
	AdaptedTheta  float64 `json:"adapted_theta"`  // snr/(snr+1), clamped to 0 below the SNR floor
	SmoothedTheta float64 `json:"smoothed_theta"` // exponentially smoothed contribution across windows
	PeakFrequency float64 `json:"peak_frequency"` // Hz, parabolic-refined in-band peak
	PeakPower     float64 `json:"peak_power"`     // density at the peak
}

// PSDResult is the one-sided power spectral density of one window.
// Frequencies ascend from 0 to Nyquist and derive purely from the window
// size and sample rate, never from sample values.
type PSDResult struct {
	Frequencies []float64 `json:"frequencies"` // Hz
	Power       []float64 `json:"power"`       // density per Hz
}

// WindowResult wraps everything the engine knows about one processed
// window. Metrics and Theta are nil when the window was rejected as
// non-finite; Quality is present for every assessed window.
type WindowResult struct {
	Sequence  uint64                  `json:"sequence"`  // submission order, starting at 1
	EngineID  string                  `json:"engine_id"` // identifies the channel/session
	Timestamp time.Time               `json:"timestamp"`
	Decision  WindowAdmissionDecision `json:"admission_decision"`

	Quality *QualityReport  `json:"quality,omitempty"`
	Metrics *WindowMetrics  `json:"metrics,omitempty"`
	Theta   *ThetaTelemetry `json:"theta,omitempty"`

	// PSD is populated only when the engine is configured to keep it;
	// most consumers want the integrated bands, not the raw density.
	PSD *PSDResult `json:"psd,omitempty"`

	SpikesReplaced int `json:"spikes_replaced"` // samples substituted by the artifact suppressor
}

// Usable reports whether the window's metrics should be trusted: the
// window was admitted and its quality score clears the caller's
// threshold. Purely advisory, mirroring the gating decision left to the
// consumer.
func (r *WindowResult) Usable(minQualityScore float64) bool {
	if r.Decision == WindowRejectNonFinite || r.Metrics == nil {
		return false
	}
	if r.Quality == nil {
		return true
	}
	return r.Quality.QualityScore >= minQualityScore
}
