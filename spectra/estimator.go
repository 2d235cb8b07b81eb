package spectra

import (
	"fmt"

	"github.com/RyanBlaney/neuro-sonar/algorithms/spectral"
	"github.com/RyanBlaney/neuro-sonar/algorithms/windowing"
	"github.com/RyanBlaney/neuro-sonar/logging"
)

// SpectralEstimator turns a filtered time-domain window into a one-sided
// Welch-scaled power spectral density. The taper, its energy and the
// frequency grid are all fixed at construction; per window it only
// applies the taper, runs the FFT and scales the result.
type SpectralEstimator struct {
	sampleRate float64
	windowSize int

	taper       windowing.Window
	psd         *spectral.PSD
	frequencies []float64 // immutable grid, 0..Nyquist

	logger logging.Logger
}

// NewSpectralEstimator builds an estimator for the given geometry. The
// taper is generated periodic, the right flavor for spectral estimation.
func NewSpectralEstimator(sampleRate float64, windowSize int, taperType windowing.Type) (*SpectralEstimator, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive: %d", windowSize)
	}

	taper, err := windowing.New(taperType, windowSize, false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate taper: %w", err)
	}

	psd, err := spectral.NewPSD(sampleRate)
	if err != nil {
		return nil, err
	}

	return &SpectralEstimator{
		sampleRate:  sampleRate,
		windowSize:  windowSize,
		taper:       taper,
		psd:         psd,
		frequencies: psd.Frequencies(windowSize),
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_estimator",
			"sample_rate": sampleRate,
			"window_size": windowSize,
			"taper":       taper.GetType(),
		}),
	}, nil
}

// Estimate computes the PSD of one filtered window. The returned result
// owns its slices; the estimator's grid is never exposed for mutation.
func (se *SpectralEstimator) Estimate(filtered []float64) (*PSDResult, error) {
	if len(filtered) != se.windowSize {
		return nil, fmt.Errorf("window length (%d) doesn't match estimator size (%d)", len(filtered), se.windowSize)
	}

	tapered := se.taper.Apply(filtered)
	if tapered == nil {
		return nil, fmt.Errorf("taper application failed for window of %d samples", len(filtered))
	}

	power, err := se.psd.Compute(tapered, se.taper.Energy())
	if err != nil {
		return nil, fmt.Errorf("density computation failed: %w", err)
	}

	return &PSDResult{
		Frequencies: se.Frequencies(),
		Power:       power,
	}, nil
}

// Frequencies returns a copy of the fixed one-sided frequency grid
func (se *SpectralEstimator) Frequencies() []float64 {
	grid := make([]float64, len(se.frequencies))
	copy(grid, se.frequencies)
	return grid
}

// Resolution returns the grid spacing in Hz
func (se *SpectralEstimator) Resolution() float64 {
	return se.sampleRate / float64(se.windowSize)
}

// TaperEnergy returns the sum of squared taper coefficients used in the
// density normalization
func (se *SpectralEstimator) TaperEnergy() float64 {
	return se.taper.Energy()
}
