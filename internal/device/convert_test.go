package device

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeakLevel(t *testing.T) {
	assert.InDelta(t, 0.0, peakLevel(nil), 0)
	assert.InDelta(t, 0.5, peakLevel([]int32{0, 1 << 30, -100}), 0)
	assert.InDelta(t, 1.0, peakLevel([]int32{math.MinInt32}), 0)
	assert.InDelta(t, float64(math.MaxInt32)/(1<<31), peakLevel([]int32{math.MaxInt32}), 0)
}

func TestInt32ToInt(t *testing.T) {
	dst := make([]int, 4)
	got := int32ToInt(dst, []int32{1, -2, math.MaxInt32})
	assert.Equal(t, []int{1, -2, math.MaxInt32}, got)
	assert.Len(t, got, 3)
}

func TestFillChunk(t *testing.T) {
	src := [][]float64{{1, 2, 3, 4, 5}, {-1, -2, -3, -4, -5}}
	dst := [][]float32{make([]float32, 2), make([]float32, 2)}

	n := fillChunk(dst, src, 0)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float32{1, 2}, dst[0])
	assert.Equal(t, []float32{-1, -2}, dst[1])

	// Last chunk is zero-padded
	n = fillChunk(dst, src, 4)
	assert.Equal(t, 1, n)
	assert.Equal(t, []float32{5, 0}, dst[0])
	assert.Equal(t, []float32{-5, 0}, dst[1])

	// Past the end leaves silence
	n = fillChunk(dst, src, 10)
	assert.Equal(t, 0, n)
	assert.Equal(t, []float32{0, 0}, dst[0])

	assert.Equal(t, 0, fillChunk(nil, src, 0))
}

func TestNumChunks(t *testing.T) {
	tests := []struct {
		total, frames, want int
	}{
		{0, 1024, 0},
		{1, 1024, 1},
		{1024, 1024, 1},
		{1025, 1024, 2},
		{720000, 1024, 704},
		{100, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, numChunks(tt.total, tt.frames), "numChunks(%d, %d)", tt.total, tt.frames)
	}
}

func TestFramesFor(t *testing.T) {
	assert.Equal(t, 720000, framesFor(15, 48000))
	assert.Equal(t, 345600000, framesFor(12*3600, 8000))
	assert.Equal(t, 0, framesFor(0, 48000))
}
