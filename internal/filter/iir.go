package filter

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"

	"github.com/tphakala/go-audio-bandpass/internal/mathutil"
	"github.com/tphakala/go-audio-bandpass/internal/simdops"
)

// Errors returned when running a filter.
var (
	// ErrInvalidCoefficients indicates a transfer function that cannot be run
	// as a recursive filter.
	ErrInvalidCoefficients = errors.New("invalid filter coefficients")

	// ErrNonFinite indicates the filter produced NaN or Inf samples.
	ErrNonFinite = errors.New("filter output is not finite")
)

// Coefficients describes a digital IIR transfer function
//
//	H(z) = (B[0] + B[1]z⁻¹ + … + B[M]z⁻ᴹ) / (A[0] + A[1]z⁻¹ + … + A[N]z⁻ᴺ)
//
// Designed filters also carry Sections, the same response factored into
// second-order sections. When present, Sections is what Apply runs.
type Coefficients struct {
	B []float64 // Numerator
	A []float64 // Denominator

	Sections []biquad.Coefficients
}

// FromSections expands a section cascade into transfer function form.
func FromSections(sections []biquad.Coefficients) Coefficients {
	b := []float64{1}
	a := []float64{1}
	for _, s := range sections {
		if s.B2 == 0 && s.A2 == 0 {
			b = mathutil.PolyMul(b, []float64{s.B0, s.B1})
			a = mathutil.PolyMul(a, []float64{1, s.A1})
			continue
		}
		b = mathutil.PolyMul(b, []float64{s.B0, s.B1, s.B2})
		a = mathutil.PolyMul(a, []float64{1, s.A1, s.A2})
	}
	return Coefficients{
		B:        b,
		A:        a,
		Sections: append([]biquad.Coefficients(nil), sections...),
	}
}

// Validate checks that the coefficients describe a runnable filter.
func (c Coefficients) Validate() error {
	for i, s := range c.Sections {
		for _, v := range []float64{s.B0, s.B1, s.B2, s.A1, s.A2} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: section %d has coefficient %g", ErrInvalidCoefficients, i, v)
			}
		}
	}
	if len(c.Sections) > 0 {
		return nil
	}
	return c.validateTransferFunction()
}

func (c Coefficients) validateTransferFunction() error {
	if len(c.B) == 0 {
		return fmt.Errorf("%w: empty numerator", ErrInvalidCoefficients)
	}
	if len(c.A) == 0 {
		return fmt.Errorf("%w: empty denominator", ErrInvalidCoefficients)
	}
	if c.A[0] == 0 || math.IsNaN(c.A[0]) {
		return fmt.Errorf("%w: leading denominator coefficient is %g", ErrInvalidCoefficients, c.A[0])
	}
	return nil
}

// Clone returns a deep copy of the coefficients.
func (c Coefficients) Clone() Coefficients {
	return Coefficients{
		B: append([]float64(nil), c.B...),
		A: append([]float64(nil), c.A...),

		Sections: append([]biquad.Coefficients(nil), c.Sections...),
	}
}

// Order returns the filter order (the larger polynomial degree).
func (c Coefficients) Order() int {
	return max(len(c.B), len(c.A)) - 1
}

// normalized returns B and A padded to equal length and scaled so A[0] == 1.
func (c Coefficients) normalized() (b, a []float64) {
	n := max(len(c.B), len(c.A))
	b = make([]float64, n)
	a = make([]float64, n)
	a0 := c.A[0]
	for i, v := range c.B {
		b[i] = v / a0
	}
	for i, v := range c.A {
		a[i] = v / a0
	}
	return b, a
}

// Response evaluates the complex frequency response at w radians/sample
// (0 = DC, π = Nyquist).
func (c Coefficients) Response(w float64) complex128 {
	if len(c.Sections) > 0 {
		h := complex(1, 0)
		for i := range c.Sections {
			// In Hz at a 2π sample rate, w radians/sample maps onto itself.
			h *= c.Sections[i].Response(w, 2*math.Pi)
		}
		return h
	}

	b, a := c.normalized()
	z := cmplx.Exp(complex(0, w))
	// Both polynomials have equal length, so the common zⁿ factor from
	// evaluating in positive powers cancels in the ratio.
	return mathutil.PolyEvalComplex(b, z) / mathutil.PolyEvalComplex(a, z)
}

// MagnitudeDB returns the gain in dB at freqHz for a filter running at sampleRate.
func (c Coefficients) MagnitudeDB(freqHz, sampleRate float64) float64 {
	w := 2 * math.Pi * freqHz / sampleRate
	return mathutil.AmplitudeToDB(cmplx.Abs(c.Response(w)))
}

// Poles returns the z-plane poles of every section. First-order sections
// contribute a pole at the origin in place of the missing second one.
func (c Coefficients) Poles() []complex128 {
	pairs := biquad.PoleZeroPairs(c.Sections)
	poles := make([]complex128, 0, 2*len(pairs))
	for _, p := range pairs {
		poles = append(poles, p.Poles[0], p.Poles[1])
	}
	return poles
}

// Apply runs x through the filter and returns a new slice of the same
// length. Designed filters run section by section; bare transfer functions
// fall back to LFilter. Output that is not finite fails with ErrNonFinite.
func Apply[F simdops.Float](c Coefficients, x []F) ([]F, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var y []F
	if len(c.Sections) > 0 {
		y = runSections(c.Sections, x)
	} else {
		var err error
		if y, err = LFilter(c, x); err != nil {
			return nil, err
		}
	}

	for i, v := range y {
		if f := float64(v); math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: sample %d is %g", ErrNonFinite, i, f)
		}
	}
	return y, nil
}

// runSections cascades x through a fresh biquad chain. State is float64
// regardless of F.
func runSections[F simdops.Float](sections []biquad.Coefficients, x []F) []F {
	if len(x) == 0 {
		return make([]F, 0)
	}
	buf := make([]float64, len(x))
	for i, v := range x {
		buf[i] = float64(v)
	}

	biquad.NewChain(sections).ProcessBlock(buf)

	if y, ok := any(buf).([]F); ok {
		return y
	}
	y := make([]F, len(buf))
	for i, v := range buf {
		y[i] = F(v)
	}
	return y
}

// LFilter runs x through the expanded transfer function using the direct
// form II transposed recursion and returns a new slice of the same length.
// High orders lose precision in this form; prefer Apply. The input is never
// modified. State is kept in float64 regardless of F.
//
// The filter starts from rest, so a step at the start of x produces the usual
// transient; no attempt is made to compensate for phase.
func LFilter[F simdops.Float](c Coefficients, x []F) ([]F, error) {
	if err := c.validateTransferFunction(); err != nil {
		return nil, err
	}

	b, a := c.normalized()
	y := make([]F, len(x))
	if len(x) == 0 {
		return y, nil
	}

	order := len(b) - 1
	if order == 0 {
		g := b[0]
		for i, v := range x {
			y[i] = F(g * float64(v))
		}
		return y, nil
	}

	z := make([]float64, order)
	for i, v := range x {
		xi := float64(v)
		yi := b[0]*xi + z[0]
		for k := 1; k < order; k++ {
			z[k-1] = b[k]*xi + z[k] - a[k]*yi
		}
		z[order-1] = b[order]*xi - a[order]*yi
		y[i] = F(yi)
	}
	return y, nil
}
