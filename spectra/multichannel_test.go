package spectra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/neuro-sonar/recording"
	"github.com/RyanBlaney/neuro-sonar/spectra/config"
)

// stereoRecording builds a two-channel recording with a theta tone on
// channel 0 and an alpha tone on channel 1.
func stereoRecording(t *testing.T, perChannel int) *recording.Recording {
	t.Helper()

	left := sineWindow(6, 30, perChannel, testSampleRate)
	right := sineWindow(10, 30, perChannel, testSampleRate)

	samples, err := recording.Interleave([][]float64{left, right})
	require.NoError(t, err)

	return &recording.Recording{
		Samples:    samples,
		SampleRate: 512,
		Channels:   2,
	}
}

func TestNewMultiChannelProcessor_Validation(t *testing.T) {
	_, err := NewMultiChannelProcessor(0, nil)
	assert.Error(t, err)

	_, err = NewMultiChannelProcessor(-2, nil)
	assert.Error(t, err)

	bad := config.DefaultEngineConfig()
	bad.WindowSize = 1
	_, err = NewMultiChannelProcessor(2, bad)
	assert.Error(t, err, "an invalid engine configuration must fail construction")
}

func TestNewMultiChannelProcessor_Defaults(t *testing.T) {
	p, err := NewMultiChannelProcessor(2, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, p.Channels())

	first, err := p.Engine(0)
	require.NoError(t, err)
	second, err := p.Engine(1)
	require.NoError(t, err)

	assert.Equal(t, 512.0, first.Config().SampleRate)
	assert.NotEqual(t, first.ID(), second.ID(), "channels must not share an engine")
}

func TestMultiChannelProcessor_ProcessRecording(t *testing.T) {
	p, err := NewMultiChannelProcessor(2, nil)
	require.NoError(t, err)

	rec := stereoRecording(t, 1024)

	results, err := p.ProcessRecording(context.Background(), rec)
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Len(t, results[0], 2, "1024 samples per channel complete two windows")
	require.Len(t, results[1], 2)

	for ch, channelResults := range results {
		assert.Equal(t, uint64(1), channelResults[0].Sequence, "channel %d", ch)
		assert.Equal(t, uint64(2), channelResults[1].Sequence, "channel %d", ch)
		assert.Equal(t, channelResults[0].EngineID, channelResults[1].EngineID,
			"one engine serves all of channel %d", ch)
	}
	assert.NotEqual(t, results[0][0].EngineID, results[1][0].EngineID)

	for _, r := range results[0] {
		assert.Greater(t, r.Metrics.ThetaContribution, 70.0, "channel 0 carries the theta tone")
	}
	for _, r := range results[1] {
		assert.Greater(t, r.Metrics.AlphaPower, 10*r.Metrics.ThetaPower, "channel 1 carries the alpha tone")
	}
}

func TestMultiChannelProcessor_RecordingValidation(t *testing.T) {
	p, err := NewMultiChannelProcessor(2, nil)
	require.NoError(t, err)

	_, err = p.ProcessRecording(context.Background(), nil)
	assert.Error(t, err)

	wrongChannels := stereoRecording(t, 512)
	wrongChannels.Channels = 3
	_, err = p.ProcessRecording(context.Background(), wrongChannels)
	assert.Error(t, err)

	wrongRate := stereoRecording(t, 512)
	wrongRate.SampleRate = 256
	_, err = p.ProcessRecording(context.Background(), wrongRate)
	assert.Error(t, err, "resampling is out of scope, mismatched rates must be refused")
}

func TestMultiChannelProcessor_Cancellation(t *testing.T) {
	p, err := NewMultiChannelProcessor(2, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.ProcessRecording(ctx, stereoRecording(t, 1024))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMultiChannelProcessor_EngineBounds(t *testing.T) {
	p, err := NewMultiChannelProcessor(2, nil)
	require.NoError(t, err)

	_, err = p.Engine(-1)
	assert.Error(t, err)

	_, err = p.Engine(2)
	assert.Error(t, err)
}

func TestMultiChannelProcessor_Reset(t *testing.T) {
	p, err := NewMultiChannelProcessor(2, nil)
	require.NoError(t, err)

	_, err = p.ProcessRecording(context.Background(), stereoRecording(t, 1024))
	require.NoError(t, err)

	for ch := 0; ch < p.Channels(); ch++ {
		engine, err := p.Engine(ch)
		require.NoError(t, err)
		require.Equal(t, uint64(2), engine.State().WindowCount)
	}

	p.Reset()

	for ch := 0; ch < p.Channels(); ch++ {
		engine, err := p.Engine(ch)
		require.NoError(t, err)
		assert.Zero(t, engine.State().WindowCount, "channel %d must restart cleanly", ch)
		assert.False(t, engine.State().Initialized)
	}
}
