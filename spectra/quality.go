package spectra

import (
	"fmt"

	"github.com/RyanBlaney/neuro-sonar/algorithms/common"
	"github.com/RyanBlaney/neuro-sonar/algorithms/stats"
	"github.com/RyanBlaney/neuro-sonar/logging"
	"github.com/RyanBlaney/neuro-sonar/spectra/config"
)

// Penalty weights for the quality score. A constant signal is the
// strongest indicator of a dead or demo-mode source, so it costs the most.
const (
	penaltyConstant   = 0.5
	penaltySaturated  = 0.3
	penaltyHighOffset = 0.2
)

// QualityReport is the per-window diagnostic produced before any signal
// conditioning runs. It is advisory: downstream stages still process the
// raw data, and the caller decides whether to trust the window's metrics.
type QualityReport struct {
	Mean   float64 `json:"mean"` // also the DC offset removed later in the pipeline
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`

	IsConstant   bool `json:"is_constant"`    // std below epsilon: stuck or demo-mode source
	HighDCOffset bool `json:"high_dc_offset"` // |mean| beyond the electrode drift limit
	Saturated    bool `json:"saturated"`      // |mean| implausible: upstream parsing or hardware fault

	QualityScore float64 `json:"quality_score"` // 1.0 = clean, 0.0 = unusable
}

// QualityAssessor flags degenerate raw windows using thresholds fixed at
// engine construction.
type QualityAssessor struct {
	constantEpsilon float64
	dcOffsetLimit   float64
	saturationLimit float64

	logger logging.Logger
}

// NewQualityAssessor creates an assessor from the engine configuration.
func NewQualityAssessor(cfg *config.EngineConfig) *QualityAssessor {
	return &QualityAssessor{
		constantEpsilon: cfg.ConstantEpsilonUV,
		dcOffsetLimit:   cfg.DCOffsetLimitUV,
		saturationLimit: cfg.SaturationLimitUV,
		logger: logging.WithFields(logging.Fields{
			"component": "quality_assessor",
		}),
	}
}

// Assess computes single-pass statistics over the raw window and scores
// it. The score starts at 1.0 and loses a fixed penalty per flag, clamped
// to [0, 1].
func (qa *QualityAssessor) Assess(window []float64) (*QualityReport, error) {
	if len(window) == 0 {
		return nil, fmt.Errorf("empty window")
	}

	moments, err := stats.AnalyzeMoments(window)
	if err != nil {
		return nil, fmt.Errorf("window statistics failed: %w", err)
	}

	report := &QualityReport{
		Mean:   moments.Mean,
		StdDev: moments.StdDev,
		Min:    moments.Min,
		Max:    moments.Max,
	}

	absMean := moments.Mean
	if absMean < 0 {
		absMean = -absMean
	}

	report.IsConstant = moments.StdDev < qa.constantEpsilon
	report.HighDCOffset = absMean > qa.dcOffsetLimit
	report.Saturated = absMean > qa.saturationLimit

	score := 1.0
	if report.IsConstant {
		score -= penaltyConstant
	}
	if report.Saturated {
		score -= penaltySaturated
	}
	if report.HighDCOffset {
		score -= penaltyHighOffset
	}
	report.QualityScore = common.Clamp(score, 0.0, 1.0)

	if report.QualityScore < 1.0 {
		qa.logger.Debug("Window quality degraded", logging.Fields{
			"quality_score":  report.QualityScore,
			"is_constant":    report.IsConstant,
			"high_dc_offset": report.HighDCOffset,
			"saturated":      report.Saturated,
			"mean":           report.Mean,
			"std_dev":        report.StdDev,
		})
	}

	return report, nil
}
