package spectra

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/RyanBlaney/neuro-sonar/logging"
	"github.com/RyanBlaney/neuro-sonar/recording"
	"github.com/RyanBlaney/neuro-sonar/spectra/config"
)

// MultiChannelProcessor fans a multi-channel recording out to one engine
// per channel. Channels are independent: each runs strictly sequentially
// on its own engine (the smoothing state demands it) while different
// channels proceed in parallel on a bounded worker pool.
type MultiChannelProcessor struct {
	config  *config.EngineConfig
	engines []*Engine
	logger  logging.Logger
}

// NewMultiChannelProcessor builds channels engines from a shared
// configuration. Each engine keeps its own identity and smoothing state.
func NewMultiChannelProcessor(channels int, cfg *config.EngineConfig) (*MultiChannelProcessor, error) {
	if channels < 1 {
		return nil, fmt.Errorf("channel count must be positive: %d", channels)
	}
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}

	engines := make([]*Engine, channels)
	for ch := range engines {
		engine, err := New(cfg)
		if err != nil {
			return nil, fmt.Errorf("engine construction failed for channel %d: %w", ch, err)
		}
		engines[ch] = engine
	}

	return &MultiChannelProcessor{
		config:  engines[0].config,
		engines: engines,
		logger: logging.WithFields(logging.Fields{
			"component": "multichannel_processor",
			"channels":  channels,
		}),
	}, nil
}

// ProcessRecording de-interleaves the recording and runs every channel
// through its engine, returning per-channel results in channel order.
// Cancellation is honored between windows; a canceled context returns
// the first context error with whatever results completed.
func (p *MultiChannelProcessor) ProcessRecording(ctx context.Context, rec *recording.Recording) ([][]*WindowResult, error) {
	logger := p.logger.WithFields(logging.Fields{
		"function": "ProcessRecording",
	})

	if rec == nil {
		return nil, fmt.Errorf("recording is nil")
	}
	if rec.Channels != len(p.engines) {
		return nil, fmt.Errorf("recording has %d channels, processor expects %d",
			rec.Channels, len(p.engines))
	}
	if float64(rec.SampleRate) != p.config.SampleRate {
		return nil, fmt.Errorf("recording sample rate (%d Hz) doesn't match engine configuration (%g Hz)",
			rec.SampleRate, p.config.SampleRate)
	}

	channels := rec.SplitChannels()

	logger.Debug("Starting multi-channel processing", logging.Fields{
		"samples_per_channel": rec.SamplesPerChannel(),
		"duration":            rec.Duration.Seconds(),
	})

	results := make([][]*WindowResult, len(channels))
	errors := make([]error, len(channels))

	type channelJob struct {
		index   int
		samples []float64
	}

	jobs := make(chan channelJob, len(channels))

	var wg sync.WaitGroup
	numWorkers := min(runtime.NumCPU(), len(channels))

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results[job.index], errors[job.index] = p.processChannel(ctx, job.index, job.samples)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for ch, samples := range channels {
			jobs <- channelJob{index: ch, samples: samples}
		}
	}()

	wg.Wait()

	for ch, err := range errors {
		if err != nil {
			return results, fmt.Errorf("channel %d failed: %w", ch, err)
		}
	}

	logger.Debug("Multi-channel processing completed", logging.Fields{
		"windows_per_channel": windowCounts(results),
		"workers_used":        numWorkers,
	})

	return results, nil
}

// processChannel feeds one channel window-by-window so cancellation takes
// effect between windows rather than only at channel boundaries
func (p *MultiChannelProcessor) processChannel(ctx context.Context, ch int, samples []float64) ([]*WindowResult, error) {
	engine := p.engines[ch]
	windowSize := p.config.WindowSize

	results := make([]*WindowResult, 0, len(samples)/windowSize)
	for start := 0; start < len(samples); start += windowSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		end := min(start+windowSize, len(samples))
		windowResults, err := engine.Process(samples[start:end])
		results = append(results, windowResults...)
		if err != nil {
			return results, err
		}
	}

	return results, nil
}

// Engine returns the engine serving the given channel
func (p *MultiChannelProcessor) Engine(ch int) (*Engine, error) {
	if ch < 0 || ch >= len(p.engines) {
		return nil, fmt.Errorf("channel %d out of range [0, %d)", ch, len(p.engines))
	}
	return p.engines[ch], nil
}

// Channels returns the number of channels this processor serves
func (p *MultiChannelProcessor) Channels() int {
	return len(p.engines)
}

// Reset resets every channel engine
func (p *MultiChannelProcessor) Reset() {
	for _, engine := range p.engines {
		engine.Reset()
	}
	p.logger.Debug("All channel engines reset")
}

func windowCounts(results [][]*WindowResult) []int {
	counts := make([]int, len(results))
	for i, channelResults := range results {
		counts[i] = len(channelResults)
	}
	return counts
}
