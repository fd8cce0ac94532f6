package bandpass

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-bandpass/internal/testutil"
)

func TestBandpassMono(t *testing.T) {
	samples := threeTone()

	got, err := BandpassMono(samples, testRate, 300, 3400)
	require.NoError(t, err)

	want, err := Bandpass(NewMonoBuffer(testRate, samples), NewFilterSpec(300, 3400, testRate))
	require.NoError(t, err)

	assert.Equal(t, want.Data[0], got)

	_, err = BandpassMono(samples, testRate, 3400, 300)
	require.ErrorIs(t, err, ErrInvalidCutoff)
}

func TestBandpassStereo(t *testing.T) {
	left := testutil.Sine(1000, 0.8, testRate, 4800)
	right := testutil.Sine(2000, 0.2, testRate, 4800)

	l, r, err := BandpassStereo(left, right, testRate, 300, 3400)
	require.NoError(t, err)
	require.Len(t, l, 4800)
	require.Len(t, r, 4800)
	testutil.AssertPeak(t, DefaultNormalizePeak, testutil.PeakTolerance, l, r)
	assert.Less(t, testutil.MaxAbs(r), testutil.MaxAbs(l))

	_, _, err = BandpassStereo(left, right[:10], testRate, 300, 3400)
	require.ErrorIs(t, err, ErrChannelLength)
}

func TestTelephone(t *testing.T) {
	buf := NewMonoBuffer(RateTelephony, testutil.Sine(1000, 0.3, RateTelephony, 8000))

	out, err := Telephone(buf)
	require.NoError(t, err)
	assert.Equal(t, RateTelephony, out.SampleRate)
	testutil.AssertPeak(t, DefaultNormalizePeak, testutil.PeakTolerance, out.Data...)

	// 3400 Hz is above Nyquist at 6 kHz
	_, err = Telephone(NewMonoBuffer(6000, make([]float64, 10)))
	require.ErrorIs(t, err, ErrInvalidCutoff)

	_, err = Telephone(NewMonoBuffer(0, make([]float64, 10)))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestBandpassFloat32_MatchesFloat64(t *testing.T) {
	samples := threeTone()
	spec := NewFilterSpec(300, 3400, testRate)

	want, err := Bandpass(NewMonoBuffer(testRate, samples), spec)
	require.NoError(t, err)

	got, err := BandpassFloat32(testutil.Float32s(samples), spec)
	require.NoError(t, err)
	require.Len(t, got, len(samples))

	for i := range got {
		if !assert.InDelta(t, want.Data[0][i], float64(got[i]), 1e-4, "sample %d", i) {
			break
		}
	}
}

func TestProcessFloat32_Bypass(t *testing.T) {
	samples := []float32{0.1, 0.2, 0.3}
	cfg := DefaultConfig(testRate)
	cfg.Apply = false

	out, err := ProcessFloat32([][]float32{samples}, cfg)
	require.NoError(t, err)
	assert.Same(t, &samples[0], &out[0])
}

func TestProcessMultiFloat32(t *testing.T) {
	left := testutil.Float32s(testutil.Sine(1000, 0.4, testRate, 4800))
	right := testutil.Float32s(testutil.Sine(100, 0.4, testRate, 4800))

	out, err := ProcessMultiFloat32([][]float32{left, right}, DefaultConfig(testRate))
	require.NoError(t, err)
	require.Len(t, out, 2)

	var peakL, peakR float32
	for i := range out[0] {
		peakL = max(peakL, out[0][i], -out[0][i])
		peakR = max(peakR, out[1][i], -out[1][i])
	}
	assert.InDelta(t, DefaultNormalizePeak, float64(peakL), 1e-6)
	assert.Less(t, peakR, peakL)

	_, err = ProcessMultiFloat32([][]float32{left, right[:1]}, DefaultConfig(testRate))
	require.ErrorIs(t, err, ErrChannelLength)

	_, err = ProcessMultiFloat32([][]float32{left}, nil)
	require.ErrorIs(t, err, ErrInvalidConfig)
}
