package bandpass

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Accessors(t *testing.T) {
	buf := NewBuffer(48000, make([]float64, 24000), make([]float64, 24000))
	assert.Equal(t, 2, buf.NumChannels())
	assert.Equal(t, 24000, buf.Len())
	assert.Equal(t, 500*time.Millisecond, buf.Duration())

	empty := &Buffer{}
	assert.Equal(t, 0, empty.NumChannels())
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, time.Duration(0), empty.Duration())
}

func TestBuffer_Clone(t *testing.T) {
	buf := NewMonoBuffer(8000, []float64{1, 2, 3})
	clone := buf.Clone()

	require.Equal(t, buf.Data, clone.Data)
	assert.Equal(t, buf.SampleRate, clone.SampleRate)

	clone.Data[0][0] = 42
	assert.InDelta(t, 1.0, buf.Data[0][0], 0)
}

func TestBuffer_Validate(t *testing.T) {
	var nilBuf *Buffer
	require.ErrorIs(t, nilBuf.Validate(), ErrInvalidConfig)

	require.NoError(t, (&Buffer{}).Validate())
	require.NoError(t, NewBuffer(0, []float64{1}, []float64{2}).Validate())

	require.ErrorIs(t, NewBuffer(-1, []float64{1}).Validate(), ErrInvalidConfig)
	require.ErrorIs(t, NewBuffer(48000, []float64{1}, []float64{}).Validate(), ErrChannelLength)

	tooMany := &Buffer{Data: make([][]float64, maxChannels+1), SampleRate: 48000}
	require.ErrorIs(t, tooMany.Validate(), ErrInvalidConfig)
}

func TestInterleave(t *testing.T) {
	tests := []struct {
		name string
		data [][]float64
		want []float64
	}{
		{"mono", [][]float64{{1, 2, 3}}, []float64{1, 2, 3}},
		{"stereo", [][]float64{{1, 2, 3}, {-1, -2, -3}}, []float64{1, -1, 2, -2, 3, -3}},
		{"three_channel", [][]float64{{1, 2}, {3, 4}, {5, 6}}, []float64{1, 3, 5, 2, 4, 6}},
		{"no_channels", nil, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interleave(NewBuffer(48000, tt.data...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			if len(tt.data) == 0 {
				return
			}
			back, err := Deinterleave(got, len(tt.data), 48000)
			require.NoError(t, err)
			assert.Equal(t, tt.data, back.Data)
			assert.Equal(t, 48000, back.SampleRate)
		})
	}
}

func TestInterleave_Ragged(t *testing.T) {
	_, err := Interleave(NewBuffer(48000, []float64{1, 2}, []float64{1}))
	require.ErrorIs(t, err, ErrChannelLength)
}

func TestDeinterleave_Stereo(t *testing.T) {
	buf, err := Deinterleave([]float64{1, -1, 2, -2, 3, -3}, 2, 44100)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, buf.Data[0])
	assert.Equal(t, []float64{-1, -2, -3}, buf.Data[1])
	assert.Equal(t, 44100, buf.SampleRate)
}

func TestDeinterleave_Errors(t *testing.T) {
	_, err := Deinterleave([]float64{1, 2, 3}, 2, 48000)
	require.ErrorIs(t, err, ErrChannelLength)

	_, err = Deinterleave([]float64{1, 2}, 0, 48000)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = Deinterleave([]float64{1, 2}, maxChannels+1, 48000)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
