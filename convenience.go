package bandpass

import "fmt"

// Common sample rates for convenience functions.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate, the usual rate of MEMS microphones.
	RateDAT = 48000

	// RateTelephony is the telephony (PSTN narrowband) sample rate.
	RateTelephony = 8000

	// RateVoIP is the VoIP wideband sample rate.
	RateVoIP = 16000
)

// Telephone applies the classic 300-3400 Hz voice band to buf.
// The sample rate must be above 6800 Hz.
func Telephone(buf *Buffer) (*Buffer, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	return Bandpass(buf, NewFilterSpec(DefaultLowCutoffHz, DefaultHighCutoffHz, float64(buf.SampleRate)))
}

// BandpassMono is a convenience function for one-shot mono filtering with
// the default order and normalize peak.
func BandpassMono(samples []float64, sampleRate int, lowHz, highHz float64) ([]float64, error) {
	out, err := Bandpass(NewMonoBuffer(sampleRate, samples), NewFilterSpec(lowHz, highHz, float64(sampleRate)))
	if err != nil {
		return nil, err
	}
	return out.Data[0], nil
}

// BandpassStereo is a convenience function for one-shot stereo filtering.
// Both channels share one normalization factor so the stereo image is kept.
func BandpassStereo(left, right []float64, sampleRate int, lowHz, highHz float64) (leftOut, rightOut []float64, err error) {
	out, err := Bandpass(NewBuffer(sampleRate, left, right), NewFilterSpec(lowHz, highHz, float64(sampleRate)))
	if err != nil {
		return nil, nil, err
	}
	return out.Data[0], out.Data[1], nil
}

// =============================================================================
// Float32 Native API
// =============================================================================
//
// The float32 path keeps samples in float32 end to end (the recursion state
// is still float64). Use it when the surrounding pipeline is float32, e.g.
// PortAudio streams.

// BandpassFloat32 filters a mono float32 slice and normalizes it to
// DefaultNormalizePeak.
func BandpassFloat32(samples []float32, spec FilterSpec) ([]float32, error) {
	return ProcessFloat32([][]float32{samples}, &Config{Spec: spec, Apply: true})
}

// ProcessFloat32 is the float32 counterpart of Process for planar channels.
// It returns channels itself (first element) when cfg.Apply is false.
func ProcessFloat32(channels [][]float32, cfg *Config) ([]float32, error) {
	out, err := ProcessMultiFloat32(channels, cfg)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

// ProcessMultiFloat32 filters planar float32 channels as one buffer.
// The sample rate is taken from cfg.Spec.
func ProcessMultiFloat32(channels [][]float32, cfg *Config) ([][]float32, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if !cfg.Apply {
		return channels, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for ch := range channels {
		if len(channels[ch]) != len(channels[0]) {
			return nil, fmt.Errorf("%w: channel %d has %d samples, channel 0 has %d", ErrChannelLength, ch, len(channels[ch]), len(channels[0]))
		}
	}

	hp, lp, err := designStages(cfg.Spec)
	if err != nil {
		return nil, err
	}

	out := make([][]float32, len(channels))
	for ch, samples := range channels {
		y, err := cascade(samples, hp, lp)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		out[ch] = y
	}

	if err := normalizeChannels(out, cfg.peak()); err != nil {
		return nil, err
	}
	return out, nil
}
