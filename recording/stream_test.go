package recording

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStreamBuffer_Validation(t *testing.T) {
	_, err := NewStreamBuffer(0)
	assert.Error(t, err)

	_, err = NewStreamBuffer(-4)
	assert.Error(t, err)
}

func TestStreamBuffer_WriteRead(t *testing.T) {
	sb, err := NewStreamBuffer(8)
	require.NoError(t, err)

	assert.True(t, sb.IsEmpty())
	assert.Equal(t, 8, sb.Space())

	written := sb.Write([]float64{1, 2, 3})
	assert.Equal(t, 3, written)
	assert.Equal(t, 3, sb.Available())
	assert.Equal(t, 5, sb.Space())
	assert.False(t, sb.IsEmpty())
	assert.False(t, sb.IsFull())

	out := make([]float64, 2)
	read := sb.Read(out)
	assert.Equal(t, 2, read)
	assert.Equal(t, []float64{1, 2}, out, "samples come back in arrival order")
	assert.Equal(t, 1, sb.Available())

	// A short buffer drains what remains.
	out = make([]float64, 4)
	read = sb.Read(out)
	assert.Equal(t, 1, read)
	assert.Equal(t, 3.0, out[0])
	assert.True(t, sb.IsEmpty())
}

func TestStreamBuffer_PeekDoesNotConsume(t *testing.T) {
	sb, err := NewStreamBuffer(8)
	require.NoError(t, err)

	sb.Write([]float64{1, 2, 3})

	peeked := make([]float64, 3)
	assert.Equal(t, 3, sb.Peek(peeked))
	assert.Equal(t, []float64{1, 2, 3}, peeked)
	assert.Equal(t, 3, sb.Available(), "peeking must leave the samples in place")

	out := make([]float64, 3)
	assert.Equal(t, 3, sb.Read(out))
	assert.Equal(t, []float64{1, 2, 3}, out)
}

// TestStreamBuffer_OverwritesOldest pins the backpressure policy: a full
// buffer drops the oldest samples so a stalled consumer sees the freshest
// data when it catches up.
func TestStreamBuffer_OverwritesOldest(t *testing.T) {
	sb, err := NewStreamBuffer(4)
	require.NoError(t, err)

	written := sb.Write([]float64{1, 2, 3, 4, 5, 6})
	assert.Equal(t, 6, written, "writers never block or truncate")
	assert.Equal(t, uint64(2), sb.Dropped())
	assert.True(t, sb.IsFull())
	assert.Zero(t, sb.Space())

	out := make([]float64, 4)
	assert.Equal(t, 4, sb.Read(out))
	assert.Equal(t, []float64{3, 4, 5, 6}, out, "the oldest two samples were lost")
}

func TestStreamBuffer_WrapAround(t *testing.T) {
	sb, err := NewStreamBuffer(4)
	require.NoError(t, err)

	sb.Write([]float64{1, 2, 3})
	out := make([]float64, 2)
	sb.Read(out)

	// Write past the physical end of the ring.
	sb.Write([]float64{4, 5, 6})
	assert.Equal(t, 4, sb.Available())
	assert.Zero(t, sb.Dropped())

	drained := make([]float64, 4)
	assert.Equal(t, 4, sb.Read(drained))
	assert.Equal(t, []float64{3, 4, 5, 6}, drained)
}

func TestStreamBuffer_ClearKeepsDropCounter(t *testing.T) {
	sb, err := NewStreamBuffer(2)
	require.NoError(t, err)

	sb.Write([]float64{1, 2, 3})
	require.Equal(t, uint64(1), sb.Dropped())

	sb.Clear()

	assert.True(t, sb.IsEmpty())
	assert.Equal(t, 2, sb.Space())
	assert.Equal(t, uint64(1), sb.Dropped(), "the loss diagnostic survives a clear")

	sb.Write([]float64{9})
	out := make([]float64, 1)
	sb.Read(out)
	assert.Equal(t, 9.0, out[0])
}
