package filters

import (
	"github.com/RyanBlaney/neuro-sonar/algorithms/common"
)

// RemoveMean subtracts the window mean from every sample and returns the
// centered window along with the removed mean. This runs before any
// spectral stage: a large constant offset (a saturated electrode pinned at
// thousands of microvolts) would otherwise be misread as enormous
// delta-band power. Mandatory, not an optimization.
func RemoveMean(window []float64) ([]float64, float64) {
	if len(window) == 0 {
		return []float64{}, 0.0
	}

	mean := common.Mean(window)

	centered := make([]float64, len(window))
	for i, v := range window {
		centered[i] = v - mean
	}

	return centered, mean
}
