package recording

import (
	"fmt"
	"math"
	"math/rand"
)

// Tone describes one sinusoidal component of a synthetic signal
type Tone struct {
	Frequency float64 `json:"frequency"`
	Amplitude float64 `json:"amplitude"`
	Phase     float64 `json:"phase"`
}

// Generator produces deterministic synthetic signals in microvolts.
// The same seed always yields the same noise and spike placement, which
// keeps calibration runs and tests reproducible.
type Generator struct {
	sampleRate float64
	rng        *rand.Rand
}

// NewGenerator creates a seeded signal generator
func NewGenerator(sampleRate float64, seed int64) (*Generator, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive: %g", sampleRate)
	}
	return &Generator{
		sampleRate: sampleRate,
		rng:        rand.New(rand.NewSource(seed)),
	}, nil
}

// SampleRate returns the generator sample rate in Hz
func (g *Generator) SampleRate() float64 {
	return g.sampleRate
}

// Sine generates a pure sine wave
func (g *Generator) Sine(frequency, amplitude float64, samples int) ([]float64, error) {
	return g.Composite(samples, Tone{Frequency: frequency, Amplitude: amplitude})
}

// Composite generates a sum of tones evaluated on the shared sample grid
func (g *Generator) Composite(samples int, tones ...Tone) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sample count must be positive: %d", samples)
	}

	out := make([]float64, samples)
	for _, tone := range tones {
		step := 2 * math.Pi * tone.Frequency / g.sampleRate
		for i := range out {
			out[i] += tone.Amplitude * math.Sin(step*float64(i)+tone.Phase)
		}
	}
	return out, nil
}

// Constant generates a flat signal at the given level
func (g *Generator) Constant(level float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sample count must be positive: %d", samples)
	}

	out := make([]float64, samples)
	for i := range out {
		out[i] = level
	}
	return out, nil
}

// WithNoise adds Gaussian noise with the given standard deviation and
// returns a new slice
func (g *Generator) WithNoise(signal []float64, stddev float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = v + g.rng.NormFloat64()*stddev
	}
	return out
}

// WithOffset adds a constant DC offset and returns a new slice
func (g *Generator) WithOffset(signal []float64, offset float64) []float64 {
	out := make([]float64, len(signal))
	for i, v := range signal {
		out[i] = v + offset
	}
	return out
}

// WithSpikes injects count transient spikes of the given amplitude at
// random positions and returns a new slice. Spike signs alternate with
// the random draw so the injected artifact stays roughly zero-mean.
func (g *Generator) WithSpikes(signal []float64, count int, amplitude float64) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)

	if len(out) == 0 || count <= 0 {
		return out
	}

	for i := 0; i < count; i++ {
		pos := g.rng.Intn(len(out))
		sign := 1.0
		if g.rng.Float64() < 0.5 {
			sign = -1.0
		}
		out[pos] += sign * amplitude
	}
	return out
}
