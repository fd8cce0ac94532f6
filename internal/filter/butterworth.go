// Package filter provides IIR filter design and application for the
// bandpass engine.
//
// Filters are designed and run as cascades of second-order sections; the
// expanded transfer function is kept alongside for inspection only.
package filter

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design/pass"
)

const (
	// Filter design limits
	minOrder = 1
	maxOrder = 12

	nyquistDivisor = 2.0
)

// Kind selects which side of the cutoff a filter passes.
type Kind int

const (
	// LowPass attenuates content above the cutoff.
	LowPass Kind = iota

	// HighPass attenuates content below the cutoff.
	HighPass
)

// String returns the human-readable name of the filter kind.
func (k Kind) String() string {
	switch k {
	case LowPass:
		return "low-pass"
	case HighPass:
		return "high-pass"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Errors returned by filter design.
var (
	// ErrInvalidCutoff indicates a cutoff outside the open interval (0, Nyquist).
	ErrInvalidCutoff = errors.New("invalid cutoff frequency")

	// ErrInvalidOrder indicates a filter order outside the supported range.
	ErrInvalidOrder = errors.New("invalid filter order")

	// ErrInvalidKind indicates an unknown filter kind.
	ErrInvalidKind = errors.New("invalid filter kind")
)

// ButterworthParams holds parameters for Butterworth design.
type ButterworthParams struct {
	// Order is the filter order (number of poles).
	Order int

	// CutoffHz is the -3 dB frequency.
	CutoffHz float64

	// SampleRate is the rate the filter will run at, in Hz.
	SampleRate float64

	// Kind selects low-pass or high-pass.
	Kind Kind
}

// NormalizedCutoff returns the cutoff relative to Nyquist.
func (p *ButterworthParams) NormalizedCutoff() float64 {
	return p.CutoffHz / (p.SampleRate / nyquistDivisor)
}

// Validate checks if the design parameters are valid.
func (p *ButterworthParams) Validate() error {
	if p.Order < minOrder || p.Order > maxOrder {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidOrder, p.Order, minOrder, maxOrder)
	}

	// Written as negated range checks so NaN is rejected too.
	if !(p.SampleRate > 0) {
		return fmt.Errorf("%w: sample rate must be positive, got %g", ErrInvalidCutoff, p.SampleRate)
	}
	if wn := p.NormalizedCutoff(); !(wn > 0 && wn < 1) {
		return fmt.Errorf("%w: normalized cutoff %g (must be in (0, 1))", ErrInvalidCutoff, wn)
	}

	if p.Kind != LowPass && p.Kind != HighPass {
		return fmt.Errorf("%w: %v", ErrInvalidKind, p.Kind)
	}

	return nil
}

// MaxOrder returns the highest supported filter order.
func MaxOrder() int {
	return maxOrder
}

// DesignSections designs a digital Butterworth filter as a cascade of
// second-order sections. Odd orders end with a first-order section.
//
// The cutoff is pre-warped, so the -3 dB point lands exactly on CutoffHz.
func DesignSections(p ButterworthParams) ([]biquad.Coefficients, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if p.Kind == HighPass {
		return pass.ButterworthHP(p.CutoffHz, p.Order, p.SampleRate), nil
	}
	return pass.ButterworthLP(p.CutoffHz, p.Order, p.SampleRate), nil
}

// DesignButterworth designs a digital Butterworth filter and returns its
// sections together with the expanded transfer function.
func DesignButterworth(p ButterworthParams) (Coefficients, error) {
	sections, err := DesignSections(p)
	if err != nil {
		return Coefficients{}, err
	}
	return FromSections(sections), nil
}
