package recording

import (
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/neuro-sonar/logging"
)

// Sample encodings accepted by the decoder. These are flat dumps produced
// upstream of this module: raw little-endian floats, signed 16-bit ADC
// counts, or plain CSV. Protocol framing and container formats are out of
// scope; by the time data reaches the decoder it is already a flat
// numeric stream.
const (
	FormatF64LE = "f64le"
	FormatF32LE = "f32le"
	FormatS16LE = "s16le"
	FormatCSV   = "csv"
)

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	SampleRate int    `json:"sample_rate"`
	Channels   int    `json:"channels"`
	Format     string `json:"format"`

	// LSBMicrovolts scales integer ADC counts to microvolts. Float
	// formats are assumed to carry microvolts already and ignore it.
	LSBMicrovolts float64 `json:"lsb_microvolts"`

	// MaxSamples caps the interleaved sample count, 0 = no limit
	MaxSamples int `json:"max_samples"`
}

// DefaultDecoderConfig returns the reference ingest configuration:
// single-channel 512 Hz raw float64 microvolts.
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		SampleRate:    512,
		Channels:      1,
		Format:        FormatF64LE,
		LSBMicrovolts: 1.0,
		MaxSamples:    0,
	}
}

// Validate checks the configuration before any data is decoded
func (c *DecoderConfig) Validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", c.SampleRate)
	}
	if c.Channels < 1 || c.Channels > 8 {
		return fmt.Errorf("channels must be between 1 and 8: %d", c.Channels)
	}
	switch c.Format {
	case FormatF64LE, FormatF32LE, FormatS16LE, FormatCSV:
	default:
		return fmt.Errorf("unsupported sample format: %q", c.Format)
	}
	if c.LSBMicrovolts <= 0 {
		return fmt.Errorf("LSB scale must be positive: %g", c.LSBMicrovolts)
	}
	if c.MaxSamples < 0 {
		return fmt.Errorf("max samples must not be negative: %d", c.MaxSamples)
	}
	return nil
}

// Decoder converts recorded raw sample dumps into Recordings
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a decoder. A nil configuration selects the defaults;
// an invalid one fails here, before any data is touched.
func NewDecoder(config *DecoderConfig) (*Decoder, error) {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid decoder configuration: %w", err)
	}
	return &Decoder{config: config}, nil
}

// DecodeBytes decodes a raw sample dump. Trailing bytes that do not fill
// a complete frame (one sample for every channel) are trimmed.
func (d *Decoder) DecodeBytes(data []byte) (*Recording, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "recording_decoder",
		"function":  "DecodeBytes",
		"format":    d.config.Format,
		"data_size": len(data),
	})

	logger.Debug("Starting decode")

	if len(data) == 0 {
		return nil, fmt.Errorf("empty recording data")
	}

	var samples []float64
	var err error

	switch d.config.Format {
	case FormatF64LE:
		samples = bytesToFloat64(data)
	case FormatF32LE:
		samples = bytesToFloat32(data)
	case FormatS16LE:
		samples = bytesToInt16Scaled(data, d.config.LSBMicrovolts)
	case FormatCSV:
		samples, err = parseCSV(data)
		if err != nil {
			logger.Error(err, "CSV parse failed")
			return nil, fmt.Errorf("csv decode failed: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported sample format: %q", d.config.Format)
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no samples decoded")
	}

	// Drop a trailing partial frame so every channel has equal length
	if rem := len(samples) % d.config.Channels; rem != 0 {
		samples = samples[:len(samples)-rem]
	}

	if d.config.MaxSamples > 0 && len(samples) > d.config.MaxSamples {
		capped := d.config.MaxSamples - d.config.MaxSamples%d.config.Channels
		samples = samples[:capped]
	}

	if len(samples) == 0 {
		return nil, fmt.Errorf("no complete frames in recording data")
	}

	perChannel := len(samples) / d.config.Channels
	duration := durationOf(perChannel, d.config.SampleRate)

	logger.Debug("Decode completed", logging.Fields{
		"samples":        len(samples),
		"samples_per_ch": perChannel,
		"channels":       d.config.Channels,
		"duration":       duration.Seconds(),
	})

	metadata := NewSessionMetadata("")
	metadata.Format = d.config.Format

	return &Recording{
		Samples:    samples,
		SampleRate: d.config.SampleRate,
		Channels:   d.config.Channels,
		Duration:   duration,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}, nil
}

// DecodeReader decodes a recording from an io.Reader
func (d *Decoder) DecodeReader(reader io.Reader) (*Recording, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording data: %w", err)
	}
	return d.DecodeBytes(data)
}

// DecodeFile decodes a recording from a file on disk
func (d *Decoder) DecodeFile(filename string) (*Recording, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read recording file: %w", err)
	}

	recording, err := d.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	if recording.Metadata != nil {
		recording.Metadata.Headers["source_file"] = filename
	}

	return recording, nil
}

// Config returns a copy of the decoder configuration
func (d *Decoder) Config() DecoderConfig {
	return *d.config
}

// bytesToFloat64 converts raw little-endian float64 bytes
func bytesToFloat64(data []byte) []float64 {
	data = data[:len(data)-len(data)%8]
	if len(data) == 0 {
		return nil
	}

	samples := make([]float64, len(data)/8)
	for i := range samples {
		bits := binary.LittleEndian.Uint64(data[i*8 : i*8+8])
		samples[i] = math.Float64frombits(bits)
	}

	return samples
}

// bytesToFloat32 converts raw little-endian float32 bytes
func bytesToFloat32(data []byte) []float64 {
	data = data[:len(data)-len(data)%4]
	if len(data) == 0 {
		return nil
	}

	samples := make([]float64, len(data)/4)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(data[i*4 : i*4+4])
		samples[i] = float64(math.Float32frombits(bits))
	}

	return samples
}

// bytesToInt16Scaled converts signed 16-bit little-endian ADC counts,
// scaling each count by lsbMicrovolts
func bytesToInt16Scaled(data []byte, lsbMicrovolts float64) []float64 {
	data = data[:len(data)-len(data)%2]
	if len(data) == 0 {
		return nil
	}

	samples := make([]float64, len(data)/2)
	for i := range samples {
		count := int16(binary.LittleEndian.Uint16(data[i*2 : i*2+2]))
		samples[i] = float64(count) * lsbMicrovolts
	}

	return samples
}

// parseCSV reads one value per field, comma or newline separated. Blank
// fields are skipped; anything else that fails to parse is an error
// rather than a silently dropped sample.
func parseCSV(data []byte) ([]float64, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var samples []float64

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		for _, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid sample %q: %w", field, err)
			}
			samples = append(samples, value)
		}
	}

	return samples, nil
}
