// Package sweep generates sine sweeps for checking a filter's response by ear
// or with the analyze command.
package sweep

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Mode selects how the instantaneous frequency moves from start to end.
type Mode int

const (
	// Linear moves the frequency at a constant rate in Hz per second.
	Linear Mode = iota

	// Exponential moves the frequency at a constant rate in octaves per second.
	Exponential
)

// Defaults for the test tone generator.
const (
	DefaultDuration   = 10 * time.Second
	DefaultSampleRate = 48000
	DefaultStartHz    = 20.0
	DefaultEndHz      = 20000.0
	DefaultAmplitude  = 0.5
)

// ErrInvalidParams indicates sweep parameters that cannot be rendered.
var ErrInvalidParams = errors.New("invalid sweep parameters")

// ParseMode converts "linear" or "exponential" (also "log") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "linear", "lin", "":
		return Linear, nil
	case "exponential", "exp", "log":
		return Exponential, nil
	default:
		return Linear, fmt.Errorf("%w: unknown mode %q", ErrInvalidParams, s)
	}
}

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Linear:
		return "linear"
	case Exponential:
		return "exponential"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Params describes one sweep.
type Params struct {
	Duration   time.Duration
	SampleRate int
	StartHz    float64
	EndHz      float64
	Amplitude  float64
	Mode       Mode
}

// DefaultParams returns a 10 s, 20 Hz to 20 kHz linear sweep at 48 kHz with
// amplitude 0.5.
func DefaultParams() Params {
	return Params{
		Duration:   DefaultDuration,
		SampleRate: DefaultSampleRate,
		StartHz:    DefaultStartHz,
		EndHz:      DefaultEndHz,
		Amplitude:  DefaultAmplitude,
		Mode:       Linear,
	}
}

// Validate checks if the parameters are valid.
func (p Params) Validate() error {
	if p.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidParams, p.Duration)
	}
	if p.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidParams, p.SampleRate)
	}
	nyquist := float64(p.SampleRate) / 2
	if !(p.StartHz > 0 && p.StartHz < nyquist) {
		return fmt.Errorf("%w: start frequency %g Hz outside (0, %g)", ErrInvalidParams, p.StartHz, nyquist)
	}
	if !(p.EndHz > 0 && p.EndHz < nyquist) {
		return fmt.Errorf("%w: end frequency %g Hz outside (0, %g)", ErrInvalidParams, p.EndHz, nyquist)
	}
	if !(p.Amplitude > 0 && p.Amplitude <= 1) {
		return fmt.Errorf("%w: amplitude must be in (0, 1], got %g", ErrInvalidParams, p.Amplitude)
	}
	if p.Mode != Linear && p.Mode != Exponential {
		return fmt.Errorf("%w: unknown mode %v", ErrInvalidParams, p.Mode)
	}
	return nil
}

// NumSamples returns the sweep length in samples.
func (p Params) NumSamples() int {
	return int(p.Duration.Seconds() * float64(p.SampleRate))
}

// FrequencyAt returns the instantaneous frequency of sample i. Sample i
// sits at time i/SampleRate, so the sweep starts at StartHz and would reach
// EndHz one sample past the end.
func (p Params) FrequencyAt(i int) float64 {
	n := p.NumSamples()
	if n <= 0 {
		return p.StartHz
	}
	frac := float64(i) / float64(n)
	if p.Mode == Exponential {
		return p.StartHz * math.Pow(p.EndHz/p.StartHz, frac)
	}
	return p.StartHz + (p.EndHz-p.StartHz)*frac
}

// Generate renders the sweep. The phase is the running sum of the
// instantaneous frequency, so it stays continuous across the whole sweep.
func Generate(p Params) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := p.NumSamples()
	out := make([]float64, n)
	step := 2 * math.Pi / float64(p.SampleRate)

	var phase float64
	for i := range out {
		phase += step * p.FrequencyAt(i)
		out[i] = p.Amplitude * math.Sin(phase)
	}
	return out, nil
}
