package device

import (
	"math"
	"slices"
)

// int32Scale maps full-scale S32 samples to [-1, 1).
const int32Scale = 1 << 31

// peakLevel returns the largest absolute sample of S32 audio, scaled to [0, 1].
func peakLevel(src []int32) float64 {
	var peak int64
	for _, v := range src {
		a := int64(v)
		if a < 0 {
			a = -a
		}
		peak = max(peak, a)
	}
	return float64(peak) / int32Scale
}

// int32ToInt widens S32 samples for the WAV encoder.
func int32ToInt(dst []int, src []int32) []int {
	dst = slices.Grow(dst[:0], len(src))[:len(src)]
	for i, v := range src {
		dst[i] = int(v)
	}
	return dst
}

// int32ToFloat32 scales S32 samples to float32 in [-1, 1).
func int32ToFloat32(dst []float32, src []int32) []float32 {
	dst = slices.Grow(dst[:0], len(src))[:len(src)]
	for i, v := range src {
		dst[i] = float32(float64(v) / int32Scale)
	}
	return dst
}

// fillChunk copies frames [start, start+len(dst[ch])) of src into the
// float32 playback buffers, zero-padding past the end of src. It returns
// the number of real frames copied.
func fillChunk(dst [][]float32, src [][]float64, start int) int {
	if len(dst) == 0 {
		return 0
	}
	frames := len(dst[0])
	n := 0
	for ch := range dst {
		var samples []float64
		if ch < len(src) && start < len(src[ch]) {
			samples = src[ch][start:min(start+frames, len(src[ch]))]
		}
		for i, v := range samples {
			dst[ch][i] = float32(v)
		}
		clear(dst[ch][len(samples):])
		n = max(n, len(samples))
	}
	return n
}

// numChunks returns how many buffers of size frames cover total frames.
func numChunks(total, frames int) int {
	if total <= 0 || frames <= 0 {
		return 0
	}
	return (total + frames - 1) / frames
}

// framesFor returns the number of frames in seconds of audio at sampleRate,
// rounded to the nearest frame.
func framesFor(seconds float64, sampleRate int) int {
	return int(math.Round(seconds * float64(sampleRate)))
}
