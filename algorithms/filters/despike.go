package filters

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/neuro-sonar/algorithms/common"
)

// Despiker suppresses isolated high-amplitude transients (eye blinks,
// electrode motion) in a mean-centered window. Samples whose magnitude
// exceeds Threshold times the window's standard deviation are replaced by
// the local median, preserving window length so the spectral estimate sees
// a full window instead of discarding it.
type Despiker struct {
	threshold  float64 // multiple of the window standard deviation
	medianSpan int     // local median window, odd
}

// NewDespiker creates a despiker. threshold is the sigma multiple above
// which a sample counts as a spike; medianSpan is the local median width.
func NewDespiker(threshold float64, medianSpan int) (*Despiker, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("despike threshold must be positive: %g", threshold)
	}
	if medianSpan < 3 || medianSpan%2 == 0 {
		return nil, fmt.Errorf("median span must be an odd number >= 3: %d", medianSpan)
	}

	return &Despiker{
		threshold:  threshold,
		medianSpan: medianSpan,
	}, nil
}

// Process returns a copy of the window with spikes replaced by the local
// median, plus the number of samples replaced. A window with zero variance
// has no spikes and passes through unchanged.
func (d *Despiker) Process(window []float64) ([]float64, int) {
	output := make([]float64, len(window))
	copy(output, window)

	if len(window) < d.medianSpan {
		return output, 0
	}

	std := common.PopStdDev(window)
	if std == 0 {
		return output, 0
	}

	limit := d.threshold * std

	var medians []float64
	replaced := 0
	for i, v := range window {
		if math.Abs(v) <= limit {
			continue
		}
		if medians == nil {
			medians = common.MedianFilter(window, d.medianSpan)
		}
		output[i] = medians[i]
		replaced++
	}

	return output, replaced
}

// Threshold returns the configured sigma multiple
func (d *Despiker) Threshold() float64 {
	return d.threshold
}

// MedianSpan returns the configured local median width
func (d *Despiker) MedianSpan() int {
	return d.medianSpan
}
