package recording

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Recording represents a decoded block of raw EEG samples
type Recording struct {
	Samples    []float64     `json:"-"` // microvolts, interleaved when multi-channel
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
	Timestamp  time.Time     `json:"timestamp"`
	Metadata   *Metadata     `json:"metadata,omitempty"`
}

// Metadata describes where a recording came from
type Metadata struct {
	SessionID string            `json:"session_id"`
	Device    string            `json:"device,omitempty"`
	Subject   string            `json:"subject,omitempty"`
	Format    string            `json:"format,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewSessionMetadata creates metadata with a fresh session identifier
func NewSessionMetadata(device string) *Metadata {
	return &Metadata{
		SessionID: uuid.NewString(),
		Device:    device,
		Headers:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// SamplesPerChannel returns the per-channel length of the recording
func (r *Recording) SamplesPerChannel() int {
	if r.Channels <= 0 {
		return 0
	}
	return len(r.Samples) / r.Channels
}

// SplitChannels de-interleaves the sample block into one slice per
// channel. A mono recording returns a single copied slice, so callers can
// always mutate the result without touching the recording.
func (r *Recording) SplitChannels() [][]float64 {
	if r.Channels <= 0 {
		return nil
	}

	perChannel := r.SamplesPerChannel()
	channels := make([][]float64, r.Channels)
	for ch := range channels {
		channels[ch] = make([]float64, perChannel)
	}

	for i := 0; i < perChannel; i++ {
		base := i * r.Channels
		for ch := 0; ch < r.Channels; ch++ {
			channels[ch][i] = r.Samples[base+ch]
		}
	}

	return channels
}

// Channel extracts a single channel's samples
func (r *Recording) Channel(ch int) ([]float64, error) {
	if ch < 0 || ch >= r.Channels {
		return nil, fmt.Errorf("channel %d out of range [0, %d)", ch, r.Channels)
	}

	perChannel := r.SamplesPerChannel()
	samples := make([]float64, perChannel)
	for i := 0; i < perChannel; i++ {
		samples[i] = r.Samples[i*r.Channels+ch]
	}

	return samples, nil
}

// Interleave combines equal-length per-channel slices into one
// interleaved block, the inverse of SplitChannels.
func Interleave(channels [][]float64) ([]float64, error) {
	if len(channels) == 0 {
		return nil, fmt.Errorf("no channels to interleave")
	}

	perChannel := len(channels[0])
	for ch, samples := range channels {
		if len(samples) != perChannel {
			return nil, fmt.Errorf("channel %d length (%d) doesn't match channel 0 (%d)",
				ch, len(samples), perChannel)
		}
	}

	interleaved := make([]float64, perChannel*len(channels))
	for i := 0; i < perChannel; i++ {
		base := i * len(channels)
		for ch := range channels {
			interleaved[base+ch] = channels[ch][i]
		}
	}

	return interleaved, nil
}

// durationOf returns the wall-clock span of perChannel samples at rate Hz
func durationOf(perChannel, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(perChannel) * time.Second / time.Duration(rate)
}
