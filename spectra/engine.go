package spectra

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/RyanBlaney/neuro-sonar/algorithms/common"
	"github.com/RyanBlaney/neuro-sonar/algorithms/filters"
	"github.com/RyanBlaney/neuro-sonar/logging"
	"github.com/RyanBlaney/neuro-sonar/spectra/config"
)

// Engine runs the full per-window analysis pipeline: quality assessment,
// mean removal, despiking, zero-phase notch and band-pass filtering,
// Welch density estimation, band integration and the adaptive theta
// metrics. All coefficients are derived once at construction; processing
// a window is a pure, blocking computation with no I/O.
//
// One engine serves one channel/session. Calls on a single instance must
// be serialized by the caller, since the theta smoothing state is not safe
// for concurrent mutation; separate instances share nothing and may run
// concurrently. Results are produced in submission order.
type Engine struct {
	id     string
	config *config.EngineConfig

	accumulator *WindowAccumulator
	quality     *QualityAssessor
	despiker    *filters.Despiker
	notch       filters.Chain // nil when mains rejection is disabled
	bandpass    filters.Chain
	estimator   *SpectralEstimator
	bands       *BandPowerCalculator
	theta       *ThetaMetrics

	sequence uint64

	logger logging.Logger
}

// New constructs an engine from the configuration, failing fast on any
// invalid setting rather than proceeding with mismatched coefficients.
// A nil configuration selects the reference defaults.
func New(cfg *config.EngineConfig) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	cfg = cfg.Clone()

	id := uuid.NewString()
	logger := logging.WithFields(logging.Fields{
		"component":   "spectral_engine",
		"engine_id":   id,
		"sample_rate": cfg.SampleRate,
		"window_size": cfg.WindowSize,
	})

	accumulator, err := NewWindowAccumulator(cfg.WindowSize)
	if err != nil {
		return nil, err
	}

	despiker, err := filters.NewDespiker(cfg.ArtifactThreshold, cfg.ArtifactMedianSpan)
	if err != nil {
		return nil, fmt.Errorf("artifact suppressor construction failed: %w", err)
	}

	var notch filters.Chain
	if cfg.NotchEnabled {
		notch, err = filters.NewNotch(cfg.SampleRate, cfg.NotchFrequency, cfg.NotchQ)
		if err != nil {
			return nil, fmt.Errorf("notch design failed: %w", err)
		}
	}

	bandpass, err := filters.NewBandpass(cfg.SampleRate, cfg.BandpassLow, cfg.BandpassHigh)
	if err != nil {
		return nil, fmt.Errorf("band-pass design failed: %w", err)
	}

	estimator, err := NewSpectralEstimator(cfg.SampleRate, cfg.WindowSize, cfg.WindowType)
	if err != nil {
		return nil, fmt.Errorf("spectral estimator construction failed: %w", err)
	}
	if !common.IsPowerOfTwo(cfg.WindowSize) {
		logger.Debug("Window size is not a power of two, FFT takes the Bluestein path")
	}

	bands, err := NewBandPowerCalculator(cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	theta, err := NewThetaMetrics(cfg)
	if err != nil {
		return nil, fmt.Errorf("theta metrics construction failed: %w", err)
	}

	logger.Debug("Engine configured", logging.Fields{
		"taper":           string(cfg.WindowType),
		"notch_enabled":   cfg.NotchEnabled,
		"notch_frequency": cfg.NotchFrequency,
		"bandpass_low":    cfg.BandpassLow,
		"bandpass_high":   cfg.BandpassHigh,
		"freq_resolution": cfg.FrequencyResolution(),
	})

	return &Engine{
		id:          id,
		config:      cfg,
		accumulator: accumulator,
		quality:     NewQualityAssessor(cfg),
		despiker:    despiker,
		notch:       notch,
		bandpass:    bandpass,
		estimator:   estimator,
		bands:       bands,
		theta:       theta,
		logger:      logger,
	}, nil
}

// Process feeds samples through the accumulator and runs the pipeline for
// every window completed by this call, returning their results in order.
// Partially accumulated samples stay buffered for the next call.
func (e *Engine) Process(samples []float64) ([]*WindowResult, error) {
	windows := e.accumulator.Add(samples)
	if len(windows) == 0 {
		return nil, nil
	}

	results := make([]*WindowResult, 0, len(windows))
	for _, window := range windows {
		result, err := e.ProcessWindow(window)
		if err != nil {
			return results, fmt.Errorf("window %d failed: %w", result.Sequence, err)
		}
		results = append(results, result)
	}

	return results, nil
}

// ProcessWindow runs the pipeline on exactly one full window. Windows
// containing non-finite samples are refused before any filtering: the
// returned result carries the rejection decision alongside the error, so
// callers tracking the admission taxonomy see the refused window too.
// Degenerate-but-finite windows (constant, saturated) are processed to
// completion and flagged, never refused.
func (e *Engine) ProcessWindow(window []float64) (*WindowResult, error) {
	if len(window) != e.config.WindowSize {
		return nil, fmt.Errorf("window length (%d) doesn't match configured size (%d)",
			len(window), e.config.WindowSize)
	}

	e.sequence++
	result := &WindowResult{
		Sequence:  e.sequence,
		EngineID:  e.id,
		Timestamp: time.Now(),
		Decision:  WindowAccept,
	}

	logger := e.logger.WithFields(logging.Fields{
		"function": "ProcessWindow",
		"sequence": e.sequence,
	})

	logger.Debug("Processing window")

	if nonFinite := common.CountNonFinite(window); nonFinite > 0 {
		result.Decision = WindowRejectNonFinite
		logger.Warn("Rejecting window with non-finite samples", logging.Fields{
			"non_finite": nonFinite,
		})
		return result, fmt.Errorf("window contains %d non-finite samples", nonFinite)
	}

	report, err := e.quality.Assess(window)
	if err != nil {
		return result, fmt.Errorf("quality assessment failed: %w", err)
	}
	result.Quality = report
	if report.IsConstant {
		result.Decision = WindowRejectConstant
		logger.Warn("Window flagged constant, metrics are advisory", logging.Fields{
			"std_dev": report.StdDev,
			"mean":    report.Mean,
		})
	}

	centered, _ := filters.RemoveMean(window)

	despiked, replaced := e.despiker.Process(centered)
	result.SpikesReplaced = replaced

	filtered := despiked
	if e.notch != nil {
		filtered = filters.FiltFilt(e.notch, filtered)
	}
	filtered = filters.FiltFilt(e.bandpass, filtered)

	psd, err := e.estimator.Estimate(filtered)
	if err != nil {
		return result, fmt.Errorf("spectral estimation failed: %w", err)
	}

	bands, err := e.bands.Compute(psd, filtered)
	if err != nil {
		return result, fmt.Errorf("band integration failed: %w", err)
	}

	updateSmoothing := !(e.config.GateConstantWindows && report.IsConstant)
	theta := e.theta.Compute(psd, bands, updateSmoothing)

	result.Metrics = &WindowMetrics{
		DeltaPower:        bands.Delta,
		ThetaPower:        bands.Theta,
		AlphaPower:        bands.Alpha,
		BetaPower:         bands.Beta,
		GammaPower:        bands.Gamma,
		TotalPower:        bands.TotalPower,
		ThetaContribution: theta.Contribution,
		ThetaRelative:     theta.Relative,
		ThetaSNRBroad:     theta.SNRBroad,
		ThetaSNRPeak:      theta.SNRPeak,
	}
	result.Theta = &ThetaTelemetry{
		AdaptedTheta:  theta.AdaptedTheta,
		SmoothedTheta: theta.SmoothedTheta,
		PeakFrequency: theta.PeakFrequency,
		PeakPower:     theta.PeakPower,
	}
	if e.config.IncludePSD {
		result.PSD = psd
	}

	logger.Debug("Window processing completed", logging.Fields{
		"decision":           result.Decision,
		"quality_score":      report.QualityScore,
		"total_power":        bands.TotalPower,
		"theta_contribution": theta.Contribution,
		"theta_snr_peak":     theta.SNRPeak,
		"smoothed_theta":     theta.SmoothedTheta,
		"spikes_replaced":    replaced,
	})

	return result, nil
}

// Reset discards the partial accumulator window and re-initializes the
// theta smoothing state. Call it when the sample source reconnects or a
// session restarts; it never happens automatically.
func (e *Engine) Reset() {
	e.accumulator.Reset()
	e.theta.Reset()
	e.logger.Debug("Engine state reset")
}

// State returns a snapshot of the cross-window smoothing state
func (e *Engine) State() ThetaMetricsState {
	return e.theta.State()
}

// Pending returns the number of samples buffered toward the next window
func (e *Engine) Pending() int {
	return e.accumulator.Pending()
}

// DroppedNonFinite returns the total count of NaN/Inf samples rejected at
// ingestion since construction
func (e *Engine) DroppedNonFinite() uint64 {
	return e.accumulator.DroppedNonFinite()
}

// ID returns the identifier tagging this engine's logs and results
func (e *Engine) ID() string {
	return e.id
}

// Config returns a copy of the engine's configuration
func (e *Engine) Config() *config.EngineConfig {
	return e.config.Clone()
}

// Frequencies returns the fixed one-sided PSD grid
func (e *Engine) Frequencies() []float64 {
	return e.estimator.Frequencies()
}
