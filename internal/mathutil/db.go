package mathutil

import "math"

// AmplitudeToDB converts an amplitude ratio to decibels.
// Values at or below zero are floored so the result stays finite.
func AmplitudeToDB(ratio float64) float64 {
	return amplitudeDBFactor * math.Log10(math.Max(ratio, minLevel))
}

// BesselI0 computes the modified Bessel function of the first kind, order
// zero, by summing its power series:
//
//	I₀(x) = Σ ((x/2)^k / k!)²
//
// The series converges for all x; terms are accumulated until they fall
// below besselConvergence relative to the running sum. It is accurate to
// near machine precision for the Kaiser β range used in spectral windows.
func BesselI0(x float64) float64 {
	half := x / halfDivisor
	sum := 1.0
	term := 1.0
	for k := 1; k <= besselMaxTerms; k++ {
		f := half / float64(k)
		term *= f * f
		sum += term
		if term < besselConvergence*sum {
			break
		}
	}
	return sum
}
