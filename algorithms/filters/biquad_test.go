package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSampleRate = 512.0

// sineWave generates amplitude*sin(2*pi*freq*i/rate) for i in [0, samples)
func sineWave(freq, amplitude float64, samples int, rate float64) []float64 {
	signal := make([]float64, samples)
	step := 2.0 * math.Pi * freq / rate
	for i := range signal {
		signal[i] = amplitude * math.Sin(step*float64(i))
	}
	return signal
}

// rms returns the root mean square of a slice
func rms(data []float64) float64 {
	sum := 0.0
	for _, v := range data {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(data)))
}

func TestNewBandpass_PassbandResponse(t *testing.T) {
	chain, err := NewBandpass(testSampleRate, 1.0, 45.0)
	require.NoError(t, err)
	require.Len(t, chain, 2, "band-pass is a high-pass plus low-pass cascade")

	// Mid-band is essentially transparent
	magnitude, _ := chain.FrequencyResponse(10.0, testSampleRate)
	assert.InDelta(t, 1.0, magnitude, 0.02, "10 Hz sits in the middle of the pass band")

	magnitude, _ = chain.FrequencyResponse(20.0, testSampleRate)
	assert.InDelta(t, 1.0, magnitude, 0.05)

	// Band edges are the -3 dB points of a Butterworth design
	magnitude, _ = chain.FrequencyResponse(1.0, testSampleRate)
	assert.InDelta(t, math.Sqrt2/2.0, magnitude, 0.02)

	magnitude, _ = chain.FrequencyResponse(45.0, testSampleRate)
	assert.InDelta(t, math.Sqrt2/2.0, magnitude, 0.02)
}

func TestNewBandpass_StopbandResponse(t *testing.T) {
	chain, err := NewBandpass(testSampleRate, 1.0, 45.0)
	require.NoError(t, err)

	// Sub-delta drift is strongly attenuated
	lowMag, _ := chain.FrequencyResponse(0.1, testSampleRate)
	assert.Less(t, lowMag, 0.05, "0.1 Hz drift should be suppressed")

	// Attenuation grows monotonically into the low stop band
	nearEdge, _ := chain.FrequencyResponse(0.5, testSampleRate)
	assert.Greater(t, nearEdge, lowMag)

	// The low-pass half has an exact zero at Nyquist
	nyquistMag, _ := chain.FrequencyResponse(testSampleRate/2.0, testSampleRate)
	assert.Less(t, nyquistMag, 1e-9)
}

func TestNewBandpass_Validation(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		low  float64
		high float64
	}{
		{name: "zero_sample_rate", rate: 0, low: 1, high: 45},
		{name: "negative_sample_rate", rate: -512, low: 1, high: 45},
		{name: "zero_low_edge", rate: 512, low: 0, high: 45},
		{name: "low_edge_at_nyquist", rate: 512, low: 256, high: 300},
		{name: "high_below_low", rate: 512, low: 45, high: 1},
		{name: "high_equals_low", rate: 512, low: 45, high: 45},
		{name: "high_at_nyquist", rate: 512, low: 1, high: 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBandpass(tt.rate, tt.low, tt.high)
			assert.Error(t, err)
		})
	}
}

func TestNewNotch_Response(t *testing.T) {
	chain, err := NewNotch(testSampleRate, 50.0, 30.0)
	require.NoError(t, err)
	require.Len(t, chain, 1)

	// Exact zero at the center frequency
	centerMag, _ := chain.FrequencyResponse(50.0, testSampleRate)
	assert.Less(t, centerMag, 1e-9, "notch should null the mains frequency")

	// Narrow: 10 Hz away the response is already back to unity
	magnitude, _ := chain.FrequencyResponse(40.0, testSampleRate)
	assert.Greater(t, magnitude, 0.95)

	magnitude, _ = chain.FrequencyResponse(60.0, testSampleRate)
	assert.Greater(t, magnitude, 0.95)

	// DC passes untouched
	dcMag, _ := chain.FrequencyResponse(0.0, testSampleRate)
	assert.InDelta(t, 1.0, dcMag, 1e-9)
}

func TestNewNotch_Validation(t *testing.T) {
	tests := []struct {
		name   string
		rate   float64
		center float64
		q      float64
	}{
		{name: "zero_sample_rate", rate: 0, center: 50, q: 30},
		{name: "zero_center", rate: 512, center: 0, q: 30},
		{name: "center_at_nyquist", rate: 512, center: 256, q: 30},
		{name: "zero_q", rate: 512, center: 50, q: 0},
		{name: "negative_q", rate: 512, center: 50, q: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNotch(tt.rate, tt.center, tt.q)
			assert.Error(t, err)
		})
	}
}

func TestChain_FilterSuppressesNotchedTone(t *testing.T) {
	chain, err := NewNotch(testSampleRate, 50.0, 30.0)
	require.NoError(t, err)

	// Long enough for the Q=30 transient to fully decay
	input := sineWave(50.0, 10.0, 2048, testSampleRate)
	output := chain.Filter(input)

	// Steady state: the tail carries almost nothing of the tone
	steadyState := rms(output[1536:])
	assert.Less(t, steadyState, 0.01*rms(input), "50 Hz should vanish after the transient")
}

func TestChain_FilterPassesInBandTone(t *testing.T) {
	chain, err := NewBandpass(testSampleRate, 1.0, 45.0)
	require.NoError(t, err)

	input := sineWave(10.0, 10.0, 4096, testSampleRate)
	output := chain.Filter(input)

	steadyState := rms(output[3072:])
	assert.InDelta(t, rms(input[3072:]), steadyState, 0.05*rms(input[3072:]))
}

func TestChain_FilterDoesNotMutateInput(t *testing.T) {
	chain, err := NewBandpass(testSampleRate, 1.0, 45.0)
	require.NoError(t, err)

	input := sineWave(10.0, 10.0, 256, testSampleRate)
	original := make([]float64, len(input))
	copy(original, input)

	_ = chain.Filter(input)

	assert.Equal(t, original, input)
}

func TestChain_EmptyInput(t *testing.T) {
	chain, err := NewBandpass(testSampleRate, 1.0, 45.0)
	require.NoError(t, err)

	output := chain.Filter([]float64{})
	assert.Empty(t, output)
}
