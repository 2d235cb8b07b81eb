package stats

import "fmt"

// ExponentialSmoother applies an exponentially weighted moving average:
//
//	smoothed = alpha*new + (1-alpha)*previous
//
// The first observation seeds the average directly instead of decaying up
// from zero, so early output tracks the signal rather than the startup ramp.
type ExponentialSmoother struct {
	alpha       float64
	value       float64
	initialized bool
}

// NewExponentialSmoother creates a smoother with the given weight for new
// observations. Alpha must be in (0, 1]; alpha = 1 disables smoothing.
func NewExponentialSmoother(alpha float64) (*ExponentialSmoother, error) {
	if alpha <= 0 || alpha > 1 {
		return nil, fmt.Errorf("smoothing alpha must be in (0, 1], got %v", alpha)
	}
	return &ExponentialSmoother{alpha: alpha}, nil
}

// Update folds a new observation into the running average and returns the
// smoothed value.
func (s *ExponentialSmoother) Update(sample float64) float64 {
	if !s.initialized {
		s.value = sample
		s.initialized = true
		return s.value
	}
	s.value = s.alpha*sample + (1-s.alpha)*s.value
	return s.value
}

// Value returns the current smoothed value, or 0 before the first update.
func (s *ExponentialSmoother) Value() float64 {
	return s.value
}

// Initialized reports whether at least one observation has been folded in.
func (s *ExponentialSmoother) Initialized() bool {
	return s.initialized
}

// Alpha returns the configured weight for new observations.
func (s *ExponentialSmoother) Alpha() float64 {
	return s.alpha
}

// Reset clears the running average so the next update seeds it again.
func (s *ExponentialSmoother) Reset() {
	s.value = 0
	s.initialized = false
}
