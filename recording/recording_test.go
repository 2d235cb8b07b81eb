package recording

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterleave_RoundTrip(t *testing.T) {
	channels := [][]float64{
		{1, 2, 3},
		{10, 20, 30},
	}

	interleaved, err := Interleave(channels)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 10, 2, 20, 3, 30}, interleaved)

	rec := &Recording{
		Samples:    interleaved,
		SampleRate: 512,
		Channels:   2,
	}

	split := rec.SplitChannels()
	require.Len(t, split, 2)
	assert.Equal(t, channels[0], split[0])
	assert.Equal(t, channels[1], split[1])
}

func TestInterleave_Validation(t *testing.T) {
	_, err := Interleave(nil)
	assert.Error(t, err)

	_, err = Interleave([][]float64{})
	assert.Error(t, err)

	_, err = Interleave([][]float64{{1, 2, 3}, {1, 2}})
	assert.Error(t, err, "ragged channels must be refused")
}

func TestRecording_Channel(t *testing.T) {
	rec := &Recording{
		Samples:  []float64{1, 10, 2, 20, 3, 30},
		Channels: 2,
	}

	right, err := rec.Channel(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30}, right)

	_, err = rec.Channel(2)
	assert.Error(t, err)

	_, err = rec.Channel(-1)
	assert.Error(t, err)
}

func TestRecording_SamplesPerChannel(t *testing.T) {
	rec := &Recording{
		Samples:  make([]float64, 1024),
		Channels: 4,
	}
	assert.Equal(t, 256, rec.SamplesPerChannel())

	degenerate := &Recording{Samples: make([]float64, 10)}
	assert.Zero(t, degenerate.SamplesPerChannel())
	assert.Nil(t, degenerate.SplitChannels())
}

func TestRecording_SplitChannelsCopies(t *testing.T) {
	rec := &Recording{
		Samples:  []float64{1, 10, 2, 20},
		Channels: 2,
	}

	split := rec.SplitChannels()
	split[0][0] = 999

	assert.Equal(t, 1.0, rec.Samples[0], "mutating a split channel must not touch the recording")
}

func TestNewSessionMetadata(t *testing.T) {
	md := NewSessionMetadata("test-headset")

	assert.NotEmpty(t, md.SessionID)
	assert.Equal(t, "test-headset", md.Device)
	assert.NotNil(t, md.Headers)
	assert.WithinDuration(t, time.Now(), md.Timestamp, time.Minute)

	other := NewSessionMetadata("")
	assert.NotEqual(t, md.SessionID, other.SessionID, "every session gets a fresh identifier")
}
