package bandpass

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/go-audio-bandpass/internal/filter"
	"github.com/tphakala/go-audio-bandpass/internal/simdops"
)

// Common errors returned by the engine.
var (
	// ErrInvalidCutoff indicates a cutoff that violates
	// 0 < low < high < sampleRate/2, or a normalized cutoff outside (0, 1).
	ErrInvalidCutoff = filter.ErrInvalidCutoff

	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid bandpass configuration")

	// ErrSampleRateMismatch indicates the buffer and the FilterSpec disagree
	// on the sample rate.
	ErrSampleRateMismatch = fmt.Errorf("%w: sample rate mismatch", ErrInvalidConfig)

	// ErrChannelLength indicates channels of unequal length.
	ErrChannelLength = fmt.Errorf("%w: channel length mismatch", ErrInvalidConfig)

	// ErrNonFinite indicates filtering or normalization produced NaN or Inf
	// samples. No partial output is returned.
	ErrNonFinite = filter.ErrNonFinite
)

// FilterSpec describes one bandpass request.
type FilterSpec struct {
	// LowCutoffHz is the high-pass corner: content below it is attenuated.
	LowCutoffHz float64

	// HighCutoffHz is the low-pass corner: content above it is attenuated.
	HighCutoffHz float64

	// Order is the Butterworth order of each of the two stages.
	Order int

	// SampleRateHz is the sample rate the coefficients are designed for.
	SampleRateHz float64
}

// NewFilterSpec returns a FilterSpec with DefaultOrder.
func NewFilterSpec(lowCutoffHz, highCutoffHz, sampleRateHz float64) FilterSpec {
	return FilterSpec{
		LowCutoffHz:  lowCutoffHz,
		HighCutoffHz: highCutoffHz,
		Order:        DefaultOrder,
		SampleRateHz: sampleRateHz,
	}
}

// Nyquist returns half the sample rate.
func (s FilterSpec) Nyquist() float64 {
	return s.SampleRateHz / nyquistDivisor
}

// Validate checks cutoff ordering against Nyquist and the order range.
// Cutoffs are never clamped.
func (s FilterSpec) Validate() error {
	if !(s.SampleRateHz > 0) {
		return fmt.Errorf("%w: sample rate must be positive, got %g", ErrInvalidConfig, s.SampleRateHz)
	}

	if s.Order < 1 || s.Order > filter.MaxOrder() {
		return fmt.Errorf("%w: order must be 1-%d, got %d", ErrInvalidConfig, filter.MaxOrder(), s.Order)
	}

	// Negated comparisons so NaN fails as well.
	if !(s.LowCutoffHz > 0) {
		return fmt.Errorf("%w: low cutoff must be positive, got %g Hz", ErrInvalidCutoff, s.LowCutoffHz)
	}
	if !(s.HighCutoffHz > s.LowCutoffHz) {
		return fmt.Errorf("%w: low cutoff %g Hz must be below high cutoff %g Hz", ErrInvalidCutoff, s.LowCutoffHz, s.HighCutoffHz)
	}
	if !(s.HighCutoffHz < s.Nyquist()) {
		return fmt.Errorf("%w: high cutoff %g Hz must be below Nyquist (%g Hz)", ErrInvalidCutoff, s.HighCutoffHz, s.Nyquist())
	}

	return nil
}

// Config holds everything a front end passes to Process for one request.
type Config struct {
	// Spec describes the band to keep.
	Spec FilterSpec

	// Apply enables filtering. When false, Process returns its input untouched.
	Apply bool

	// NormalizePeak is the target peak after filtering, in (0, 1].
	// Zero selects DefaultNormalizePeak.
	NormalizePeak float64

	// Parallel filters channels concurrently. Results are identical to the
	// sequential path; it only helps for multi-channel buffers.
	Parallel bool
}

// DefaultConfig returns an enabled Config for the default 300-3400 Hz band.
func DefaultConfig(sampleRateHz float64) *Config {
	return &Config{
		Spec:          NewFilterSpec(DefaultLowCutoffHz, DefaultHighCutoffHz, sampleRateHz),
		Apply:         true,
		NormalizePeak: DefaultNormalizePeak,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Spec.Validate(); err != nil {
		return err
	}
	return validatePeak(c.NormalizePeak, true)
}

// peak returns the effective normalization target.
func (c *Config) peak() float64 {
	if c.NormalizePeak == 0 {
		return DefaultNormalizePeak
	}
	return c.NormalizePeak
}

func validatePeak(peak float64, allowZero bool) error {
	if allowZero && peak == 0 {
		return nil
	}
	if !(peak > 0 && peak <= maxNormalizePeak) {
		return fmt.Errorf("%w: normalize peak must be in (0, %g], got %g", ErrInvalidConfig, maxNormalizePeak, peak)
	}
	return nil
}

// Bandpass keeps the band [spec.LowCutoffHz, spec.HighCutoffHz] of buf and
// normalizes the result to DefaultNormalizePeak.
//
// The input is validated before any filtering; on error nothing is returned.
// The input buffer is never modified.
func Bandpass(buf *Buffer, spec FilterSpec) (*Buffer, error) {
	return Process(buf, &Config{Spec: spec, Apply: true})
}

// Process runs the bandpass pipeline described by cfg:
//
//  1. high-pass at cfg.Spec.LowCutoffHz
//  2. low-pass at cfg.Spec.HighCutoffHz
//  3. scale so the peak across all channels equals the normalize target
//
// If cfg.Apply is false the engine is bypassed and buf itself is returned.
func Process(buf *Buffer, cfg *Config) (*Buffer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if !cfg.Apply {
		return buf, nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if buf.SampleRate != 0 && float64(buf.SampleRate) != cfg.Spec.SampleRateHz {
		return nil, fmt.Errorf("%w: buffer is %d Hz, spec is %g Hz", ErrSampleRateMismatch, buf.SampleRate, cfg.Spec.SampleRateHz)
	}

	hp, lp, err := designStages(cfg.Spec)
	if err != nil {
		return nil, err
	}

	out := &Buffer{
		Data:       make([][]float64, buf.NumChannels()),
		SampleRate: buf.SampleRate,
	}

	if cfg.Parallel && buf.NumChannels() > 1 {
		var g errgroup.Group
		for ch := range buf.Data {
			g.Go(func() error {
				y, err := cascade(buf.Data[ch], hp, lp)
				if err != nil {
					return fmt.Errorf("channel %d: %w", ch, err)
				}
				out.Data[ch] = y
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for ch, samples := range buf.Data {
			y, err := cascade(samples, hp, lp)
			if err != nil {
				return nil, fmt.Errorf("channel %d: %w", ch, err)
			}
			out.Data[ch] = y
		}
	}

	if err := normalizeChannels(out.Data, cfg.peak()); err != nil {
		return nil, err
	}
	return out, nil
}

// designStages derives the high-pass and low-pass coefficients for spec.
func designStages(spec FilterSpec) (hp, lp Coefficients, err error) {
	hp, err = DesignFilter(spec.LowCutoffHz, spec.SampleRateHz, spec.Order, HighPass)
	if err != nil {
		return Coefficients{}, Coefficients{}, fmt.Errorf("high-pass stage: %w", err)
	}
	lp, err = DesignFilter(spec.HighCutoffHz, spec.SampleRateHz, spec.Order, LowPass)
	if err != nil {
		return Coefficients{}, Coefficients{}, fmt.Errorf("low-pass stage: %w", err)
	}
	return hp, lp, nil
}

// cascade runs x through hp then lp, returning a new slice.
func cascade[F simdops.Float](x []F, hp, lp Coefficients) ([]F, error) {
	y, err := filter.Apply(hp, x)
	if err != nil {
		return nil, err
	}
	return filter.Apply(lp, y)
}

// normalizeChannels scales all channels in place by a single factor so the
// overall peak equals target. Silent or empty input is left alone; a NaN or
// infinite sample fails with ErrNonFinite.
func normalizeChannels[F simdops.Float](channels [][]F, target float64) error {
	ops := simdops.For[F]()

	var peak F
	for i, ch := range channels {
		for _, v := range ch {
			if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("%w: channel %d contains %g", ErrNonFinite, i, f)
			}
		}
		peak = max(peak, ops.MaxAbs(ch))
	}
	if peak == 0 {
		return nil
	}

	scale := F(target / float64(peak))
	for _, ch := range channels {
		ops.Scale(ch, ch, scale)
	}
	return nil
}
