package recording

import (
	"fmt"
)

// StreamBuffer is a fixed-capacity ring buffer for live acquisition.
// Writers never block: when the buffer is full the oldest samples are
// overwritten and counted, so a stalled consumer loses the oldest data
// rather than the newest.
type StreamBuffer struct {
	buffer   []float64
	size     int
	writePos int
	readPos  int
	count    int
	dropped  uint64
}

// NewStreamBuffer creates a stream buffer holding size samples
func NewStreamBuffer(size int) (*StreamBuffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("stream buffer size must be positive: %d", size)
	}
	return &StreamBuffer{
		buffer: make([]float64, size),
		size:   size,
	}, nil
}

// Write adds samples to the buffer, overwriting the oldest samples when
// full. Returns the number of samples written, which is always len(data).
func (sb *StreamBuffer) Write(data []float64) int {
	written := 0
	for _, sample := range data {
		if sb.count < sb.size {
			sb.buffer[sb.writePos] = sample
			sb.writePos = (sb.writePos + 1) % sb.size
			sb.count++
			written++
		} else {
			// Buffer full, overwrite oldest sample
			sb.buffer[sb.writePos] = sample
			sb.writePos = (sb.writePos + 1) % sb.size
			sb.readPos = (sb.readPos + 1) % sb.size
			sb.dropped++
			written++
		}
	}
	return written
}

// Read consumes up to len(data) samples from the buffer
func (sb *StreamBuffer) Read(data []float64) int {
	read := 0
	for i := range data {
		if sb.count > 0 {
			data[i] = sb.buffer[sb.readPos]
			sb.readPos = (sb.readPos + 1) % sb.size
			sb.count--
			read++
		} else {
			break
		}
	}
	return read
}

// Peek copies up to len(data) samples without consuming them
func (sb *StreamBuffer) Peek(data []float64) int {
	read := 0
	pos := sb.readPos
	remaining := sb.count

	for i := range data {
		if remaining > 0 {
			data[i] = sb.buffer[pos]
			pos = (pos + 1) % sb.size
			remaining--
			read++
		} else {
			break
		}
	}
	return read
}

// Available returns the number of samples ready to read
func (sb *StreamBuffer) Available() int {
	return sb.count
}

// Space returns how many samples can be written before overwriting begins
func (sb *StreamBuffer) Space() int {
	return sb.size - sb.count
}

// Dropped returns the total number of samples lost to overwriting
// since the buffer was created. Clear does not reset it.
func (sb *StreamBuffer) Dropped() uint64 {
	return sb.dropped
}

// Clear empties the buffer
func (sb *StreamBuffer) Clear() {
	sb.writePos = 0
	sb.readPos = 0
	sb.count = 0
}

// IsFull returns true if the next write will overwrite
func (sb *StreamBuffer) IsFull() bool {
	return sb.count == sb.size
}

// IsEmpty returns true if no samples are buffered
func (sb *StreamBuffer) IsEmpty() bool {
	return sb.count == 0
}
