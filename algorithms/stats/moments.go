package stats

import (
	"fmt"
	"math"
)

// Moments contains single-pass descriptive statistics for one window of
// samples. Population variants divide by n (not n-1) because a window is
// treated as the complete signal under analysis, not a sample of one.
type Moments struct {
	Mean      float64 `json:"mean"`
	Variance  float64 `json:"variance"`   // population variance (second central moment)
	StdDev    float64 `json:"std_dev"`    // population standard deviation
	SampleVar float64 `json:"sample_var"` // Bessel-corrected variance (n-1)
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Range     float64 `json:"range"`

	NumSamples int `json:"num_samples"`
	NonFinite  int `json:"non_finite"` // NaN or Inf samples, excluded from the accumulation
}

// AnalyzeMoments computes window statistics in a single pass using Welford's
// update, which stays numerically stable for signals riding on a large DC
// offset (an unreferenced EEG electrode can sit thousands of microvolts away
// from zero while varying by fractions of one).
//
// Non-finite samples are counted and excluded so the returned statistics are
// always finite; callers decide whether a nonzero NonFinite count disqualifies
// the window.
//
// References:
//   - Welford, B.P. (1962). "Note on a method for calculating corrected sums of squares"
func AnalyzeMoments(data []float64) (*Moments, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty data")
	}

	result := &Moments{
		Min: math.Inf(1),
		Max: math.Inf(-1),
	}

	mean := 0.0
	m2 := 0.0

	for _, x := range data {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			result.NonFinite++
			continue
		}

		result.NumSamples++
		delta := x - mean
		mean += delta / float64(result.NumSamples)
		m2 += delta * (x - mean)

		if x < result.Min {
			result.Min = x
		}
		if x > result.Max {
			result.Max = x
		}
	}

	if result.NumSamples == 0 {
		result.Min = 0
		result.Max = 0
		return result, nil
	}

	result.Mean = mean
	result.Variance = m2 / float64(result.NumSamples)
	result.StdDev = math.Sqrt(result.Variance)
	if result.NumSamples > 1 {
		result.SampleVar = m2 / float64(result.NumSamples-1)
	}
	result.Range = result.Max - result.Min

	return result, nil
}
