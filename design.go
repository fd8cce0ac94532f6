package bandpass

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-audio-bandpass/internal/filter"
)

// Coefficients is a digital IIR transfer function: numerator B and
// denominator A in powers of z⁻¹, with A[0] == 1 for designed filters.
type Coefficients = filter.Coefficients

// Kind selects a high-pass or low-pass design.
type Kind = filter.Kind

// Filter kinds accepted by DesignFilter.
const (
	LowPass  = filter.LowPass
	HighPass = filter.HighPass
)

// DesignFilter designs a Butterworth filter of the given order and kind with
// its -3 dB point at cutoffHz.
//
// The cutoff is normalized to Nyquist (cutoffHz / (sampleRateHz/2)); a result
// outside the open interval (0, 1) fails with ErrInvalidCutoff.
func DesignFilter(cutoffHz, sampleRateHz float64, order int, kind Kind) (Coefficients, error) {
	if !(sampleRateHz > 0) {
		return Coefficients{}, fmt.Errorf("%w: sample rate must be positive, got %g", ErrInvalidCutoff, sampleRateHz)
	}

	c, err := filter.DesignButterworth(filter.ButterworthParams{
		Order:      order,
		CutoffHz:   cutoffHz,
		SampleRate: sampleRateHz,
		Kind:       kind,
	})
	if err != nil {
		if errors.Is(err, filter.ErrInvalidOrder) || errors.Is(err, filter.ErrInvalidKind) {
			return Coefficients{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		return Coefficients{}, err
	}
	return c, nil
}

// ApplyFilter runs c over every channel of buf and returns a new buffer of
// the same shape and sample rate. The recursion is causal (not zero-phase).
func ApplyFilter(buf *Buffer, c Coefficients) (*Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	out := &Buffer{
		Data:       make([][]float64, buf.NumChannels()),
		SampleRate: buf.SampleRate,
	}
	for ch, samples := range buf.Data {
		y, err := filter.Apply(c, samples)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		out.Data[ch] = y
	}
	return out, nil
}

// MaxOrder returns the highest Butterworth order DesignFilter accepts.
func MaxOrder() int {
	return filter.MaxOrder()
}
