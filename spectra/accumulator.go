package spectra

import (
	"fmt"

	"github.com/RyanBlaney/neuro-sonar/algorithms/common"
	"github.com/RyanBlaney/neuro-sonar/logging"
)

// WindowAccumulator buffers a continuous sample stream into fixed-length,
// non-overlapping windows. It applies no timeout and no resampling: if the
// source stalls, accumulation simply pauses until more samples arrive.
// Backpressure policy belongs to the caller at the source boundary.
type WindowAccumulator struct {
	windowSize int
	buffer     []float64

	droppedNonFinite uint64
	warnedThisWindow bool

	logger logging.Logger
}

// NewWindowAccumulator creates an accumulator emitting windows of exactly
// windowSize samples.
func NewWindowAccumulator(windowSize int) (*WindowAccumulator, error) {
	if windowSize <= 0 {
		return nil, fmt.Errorf("window size must be positive: %d", windowSize)
	}

	return &WindowAccumulator{
		windowSize: windowSize,
		buffer:     make([]float64, 0, windowSize*2),
		logger: logging.WithFields(logging.Fields{
			"component":   "window_accumulator",
			"window_size": windowSize,
		}),
	}, nil
}

// Add admits samples singly or in batches and returns every window
// completed by this call, in arrival order. Non-finite samples (NaN, ±Inf)
// are dropped before admission and counted; they never occupy a window
// slot. Completed windows are independent copies.
func (wa *WindowAccumulator) Add(samples []float64) [][]float64 {
	for _, sample := range samples {
		if !common.IsFinite(sample) {
			wa.droppedNonFinite++
			if !wa.warnedThisWindow {
				wa.warnedThisWindow = true
				wa.logger.Warn("Dropping non-finite sample", logging.Fields{
					"dropped_total": wa.droppedNonFinite,
					"pending":       len(wa.buffer),
				})
			}
			continue
		}
		wa.buffer = append(wa.buffer, sample)
	}

	var windows [][]float64

	for len(wa.buffer) >= wa.windowSize {
		window := make([]float64, wa.windowSize)
		copy(window, wa.buffer[:wa.windowSize])
		windows = append(windows, window)

		copy(wa.buffer, wa.buffer[wa.windowSize:])
		wa.buffer = wa.buffer[:len(wa.buffer)-wa.windowSize]
		wa.warnedThisWindow = false
	}

	return windows
}

// Pending returns the number of samples waiting for the next window
func (wa *WindowAccumulator) Pending() int {
	return len(wa.buffer)
}

// DroppedNonFinite returns the total number of NaN/Inf samples rejected
// since construction. The counter survives Reset so it stays useful as a
// source-health diagnostic across reconnects.
func (wa *WindowAccumulator) DroppedNonFinite() uint64 {
	return wa.droppedNonFinite
}

// WindowSize returns the configured window length
func (wa *WindowAccumulator) WindowSize() int {
	return wa.windowSize
}

// Reset discards any partially accumulated window, for use when the
// source reconnects and sample continuity is broken.
func (wa *WindowAccumulator) Reset() {
	wa.buffer = wa.buffer[:0]
	wa.warnedThisWindow = false
}
