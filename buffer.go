package bandpass

import (
	"fmt"
	"time"

	"github.com/tphakala/go-audio-bandpass/internal/simdops"
)

// Buffer is an in-memory block of planar audio.
//
// Data is indexed [channel][sample]; a mono buffer has exactly one channel.
// All channels must have the same length. Samples are nominally in [-1, 1].
type Buffer struct {
	// Data holds one slice per channel.
	Data [][]float64

	// SampleRate is the sample rate in Hz. Zero means unknown, in which case
	// the rate in the FilterSpec is trusted.
	SampleRate int
}

// NewBuffer wraps the given channel slices without copying them.
func NewBuffer(sampleRate int, channels ...[]float64) *Buffer {
	return &Buffer{Data: channels, SampleRate: sampleRate}
}

// NewMonoBuffer wraps a single channel without copying it.
func NewMonoBuffer(sampleRate int, samples []float64) *Buffer {
	return NewBuffer(sampleRate, samples)
}

// NumChannels returns the number of channels.
func (b *Buffer) NumChannels() int {
	return len(b.Data)
}

// Len returns the number of samples per channel.
func (b *Buffer) Len() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the playback length, or zero if the sample rate is unknown.
func (b *Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(b.Len()) / float64(b.SampleRate) * float64(time.Second))
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Data:       make([][]float64, len(b.Data)),
		SampleRate: b.SampleRate,
	}
	for ch, samples := range b.Data {
		out.Data[ch] = append(make([]float64, 0, len(samples)), samples...)
	}
	return out
}

// Validate checks the buffer shape.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: buffer is nil", ErrInvalidConfig)
	}
	if len(b.Data) > maxChannels {
		return fmt.Errorf("%w: too many channels (%d, max %d)", ErrInvalidConfig, len(b.Data), maxChannels)
	}
	if b.SampleRate < 0 {
		return fmt.Errorf("%w: negative sample rate %d", ErrInvalidConfig, b.SampleRate)
	}
	n := b.Len()
	for ch, samples := range b.Data {
		if len(samples) != n {
			return fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrChannelLength, ch, len(samples), n)
		}
	}
	return nil
}

// Interleave converts the buffer to interleaved frames
// (L0, R0, L1, R1, ... for stereo).
func Interleave(b *Buffer) ([]float64, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	channels := b.NumChannels()
	n := b.Len()
	out := make([]float64, n*channels)

	switch channels {
	case 0:
		return out, nil
	case monoChannels:
		copy(out, b.Data[0])
	case stereoChannels:
		simdops.Float64Ops().Interleave2(out, b.Data[0], b.Data[1])
	default:
		for i := range n {
			base := i * channels
			for ch := range channels {
				out[base+ch] = b.Data[ch][i]
			}
		}
	}
	return out, nil
}

// Deinterleave splits interleaved frames into a planar buffer.
// A trailing partial frame is an error.
func Deinterleave(data []float64, channels, sampleRate int) (*Buffer, error) {
	if channels < 1 || channels > maxChannels {
		return nil, fmt.Errorf("%w: channels must be 1-%d, got %d", ErrInvalidConfig, maxChannels, channels)
	}
	if len(data)%channels != 0 {
		return nil, fmt.Errorf("%w: %d samples is not a whole number of %d-channel frames", ErrChannelLength, len(data), channels)
	}

	n := len(data) / channels
	out := &Buffer{Data: make([][]float64, channels), SampleRate: sampleRate}
	for ch := range channels {
		out.Data[ch] = make([]float64, n)
	}
	if channels == 2 {
		simdops.Float64Ops().Deinterleave2(out.Data[0], out.Data[1], data)
		return out, nil
	}
	for i := range n {
		base := i * channels
		for ch := range channels {
			out.Data[ch][i] = data[base+ch]
		}
	}
	return out, nil
}
