package filter

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// Test design parameters
	testOrder4      = 4
	testOrder3      = 3
	testSampleRate  = 48000.0
	testLowHz       = 300.0
	testHighHz      = 3400.0
	testNyquistRad  = math.Pi
	cutoffGainDB    = -3.0103 // 20·log10(1/√2)
	cutoffTolerance = 1e-4
	coeffTolerance  = 1e-6
)

func lowpass(order int, cutoffHz float64) ButterworthParams {
	return ButterworthParams{Order: order, CutoffHz: cutoffHz, SampleRate: testSampleRate, Kind: LowPass}
}

func highpass(order int, cutoffHz float64) ButterworthParams {
	return ButterworthParams{Order: order, CutoffHz: cutoffHz, SampleRate: testSampleRate, Kind: HighPass}
}

// TestButterworthParams_Validate covers rejection of out-of-range parameters.
func TestButterworthParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  ButterworthParams
		wantErr error
	}{
		{"valid", lowpass(testOrder4, 6000), nil},
		{"order_zero", lowpass(0, 6000), ErrInvalidOrder},
		{"order_too_high", lowpass(maxOrder+1, 6000), ErrInvalidOrder},
		{"cutoff_zero", lowpass(testOrder4, 0), ErrInvalidCutoff},
		{"cutoff_negative", lowpass(testOrder4, -100), ErrInvalidCutoff},
		{"cutoff_nyquist", lowpass(testOrder4, 24000), ErrInvalidCutoff},
		{"cutoff_above_nyquist", lowpass(testOrder4, 30000), ErrInvalidCutoff},
		{"cutoff_nan", lowpass(testOrder4, math.NaN()), ErrInvalidCutoff},
		{"rate_zero", ButterworthParams{Order: testOrder4, CutoffHz: 1000}, ErrInvalidCutoff},
		{"unknown_kind", ButterworthParams{Order: testOrder4, CutoffHz: 1000, SampleRate: testSampleRate, Kind: Kind(7)}, ErrInvalidKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestDesignSections_Count verifies one section per pole pair plus a
// first-order section for odd orders.
func TestDesignSections_Count(t *testing.T) {
	for order := minOrder; order <= maxOrder; order++ {
		sections, err := DesignSections(lowpass(order, testHighHz))
		require.NoError(t, err)
		assert.Len(t, sections, (order+1)/2, "order %d", order)
	}
}

// TestDesignButterworth_KnownCoefficients compares against the closed form for
// a 4th-order lowpass at half Nyquist, whose poles are ±j·tan(π/16) and ±j·tan(3π/16).
func TestDesignButterworth_KnownCoefficients(t *testing.T) {
	c, err := DesignButterworth(lowpass(testOrder4, testSampleRate/4))
	require.NoError(t, err)

	p1 := math.Pow(math.Tan(math.Pi/16), 2)
	p2 := math.Pow(math.Tan(3*math.Pi/16), 2)
	wantA := []float64{1, 0, p1 + p2, 0, p1 * p2}
	k := (1 + p1 + p2 + p1*p2) / 16
	wantB := []float64{k, 4 * k, 6 * k, 4 * k, k}

	assert.InDeltaSlice(t, wantA, c.A, coeffTolerance)
	assert.InDeltaSlice(t, wantB, c.B, coeffTolerance)
	assert.InDelta(t, 0.0939809, c.B[0], coeffTolerance)
}

// TestDesignButterworth_Lowpass verifies unity DC gain, -3 dB at cutoff and a null at Nyquist.
func TestDesignButterworth_Lowpass(t *testing.T) {
	for _, order := range []int{1, 2, testOrder3, testOrder4, 8, maxOrder} {
		c, err := DesignButterworth(lowpass(order, testHighHz))
		require.NoError(t, err)
		require.Len(t, c.B, order+1)
		require.Len(t, c.A, order+1)

		assert.InDelta(t, 1.0, cmplx.Abs(c.Response(0)), 1e-9, "order %d DC gain", order)
		assert.InDelta(t, cutoffGainDB, c.MagnitudeDB(testHighHz, testSampleRate), cutoffTolerance, "order %d cutoff gain", order)
		assert.Less(t, cmplx.Abs(c.Response(testNyquistRad)), 1e-9, "order %d Nyquist gain", order)
	}
}

// TestDesignButterworth_Highpass verifies a null at DC, -3 dB at cutoff and unity gain at Nyquist.
func TestDesignButterworth_Highpass(t *testing.T) {
	for _, order := range []int{1, 2, testOrder3, testOrder4, 9, maxOrder} {
		c, err := DesignButterworth(highpass(order, testLowHz))
		require.NoError(t, err)

		assert.Less(t, cmplx.Abs(c.Response(0)), 1e-9, "order %d DC gain", order)
		assert.InDelta(t, cutoffGainDB, c.MagnitudeDB(testLowHz, testSampleRate), cutoffTolerance, "order %d cutoff gain", order)
		assert.InDelta(t, 1.0, cmplx.Abs(c.Response(testNyquistRad)), 1e-9, "order %d Nyquist gain", order)
	}
}

// TestDesignButterworth_ExpandedMatchesSections verifies the transfer
// function view evaluates to the same response as the section cascade.
func TestDesignButterworth_ExpandedMatchesSections(t *testing.T) {
	c, err := DesignButterworth(highpass(testOrder3, testLowHz))
	require.NoError(t, err)

	tf := Coefficients{B: c.B, A: c.A}
	for _, w := range []float64{0.01, 0.1, 1, 3} {
		assert.InDelta(t, cmplx.Abs(c.Response(w)), cmplx.Abs(tf.Response(w)), 1e-9, "w=%g", w)
	}
}

// TestDesignButterworth_RollOff checks the 4th-order stopband slope used by the bandpass cascade.
func TestDesignButterworth_RollOff(t *testing.T) {
	hp, err := DesignButterworth(highpass(testOrder4, testLowHz))
	require.NoError(t, err)
	lp, err := DesignButterworth(lowpass(testOrder4, testHighHz))
	require.NoError(t, err)

	// One decade below/above the band is roughly 80 dB down for order 4.
	assert.Less(t, hp.MagnitudeDB(30, testSampleRate), -70.0)
	assert.Less(t, lp.MagnitudeDB(20000, testSampleRate), -60.0)

	// Passband in the middle of the band is flat.
	assert.InDelta(t, 0.0, hp.MagnitudeDB(1000, testSampleRate)+lp.MagnitudeDB(1000, testSampleRate), 0.1)
}

// TestDesignButterworth_Stable verifies every digital pole is inside the
// unit circle for all orders, down to cutoffs far below the sample rate.
func TestDesignButterworth_Stable(t *testing.T) {
	for _, kind := range []Kind{LowPass, HighPass} {
		for _, rate := range []float64{8000, 44100, 48000, 96000, 192000} {
			for _, cutoff := range []float64{20, 300, 3400} {
				for order := minOrder; order <= maxOrder; order++ {
					c, err := DesignButterworth(ButterworthParams{Order: order, CutoffHz: cutoff, SampleRate: rate, Kind: kind})
					require.NoError(t, err)
					for _, p := range c.Poles() {
						assert.Less(t, cmplx.Abs(p), 1.0, "%v order %d %g Hz at %g Hz: pole %v", kind, order, cutoff, rate, p)
					}
				}
			}
		}
	}
}

// TestDesignButterworth_InvalidParams verifies errors propagate from validation.
func TestDesignButterworth_InvalidParams(t *testing.T) {
	_, err := DesignButterworth(lowpass(testOrder4, 30000))
	assert.ErrorIs(t, err, ErrInvalidCutoff)

	_, err = DesignSections(lowpass(0, 1000))
	assert.ErrorIs(t, err, ErrInvalidOrder)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "low-pass", LowPass.String())
	assert.Equal(t, "high-pass", HighPass.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
