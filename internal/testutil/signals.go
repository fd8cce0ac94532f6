package testutil

import "math"

// Tone describes one sinusoidal component of a test signal.
type Tone struct {
	FreqHz    float64
	Amplitude float64
}

// Sine generates numSamples of a sine wave at freqHz.
func Sine(freqHz, amplitude, sampleRate float64, numSamples int) []float64 {
	return MultiTone(sampleRate, numSamples, Tone{FreqHz: freqHz, Amplitude: amplitude})
}

// MultiTone sums the given tones into one signal of numSamples samples.
func MultiTone(sampleRate float64, numSamples int, tones ...Tone) []float64 {
	out := make([]float64, numSamples)
	for _, tone := range tones {
		w := 2 * math.Pi * tone.FreqHz / sampleRate
		for i := range out {
			out[i] += tone.Amplitude * math.Sin(w*float64(i))
		}
	}
	return out
}

// Impulse returns a unit impulse of length n.
func Impulse(n int) []float64 {
	out := make([]float64, n)
	if n > 0 {
		out[0] = 1
	}
	return out
}

// Float32s converts a float64 slice to float32.
func Float32s(s []float64) []float32 {
	out := make([]float32, len(s))
	for i, v := range s {
		out[i] = float32(v)
	}
	return out
}
