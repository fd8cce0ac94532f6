package bandpass

import "github.com/tphakala/go-audio-bandpass/internal/simdops"

// Normalize returns a copy of buf scaled so the largest absolute sample
// across all channels equals peak. Silent and empty buffers are copied
// unchanged. peak must be in (0, 1].
func Normalize(buf *Buffer, peak float64) (*Buffer, error) {
	if err := validatePeak(peak, false); err != nil {
		return nil, err
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	out := buf.Clone()
	if err := normalizeChannels(out.Data, peak); err != nil {
		return nil, err
	}
	return out, nil
}

// Peak returns the largest absolute sample across all channels.
func Peak(buf *Buffer) float64 {
	ops := simdops.Float64Ops()
	var peak float64
	for _, ch := range buf.Data {
		peak = max(peak, ops.MaxAbs(ch))
	}
	return peak
}
