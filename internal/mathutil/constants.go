package mathutil

// Decibel conversion constants
const (
	amplitudeDBFactor = 20.0 // 20·log10 for amplitude ratios

	// minLevel is the floor applied before taking a logarithm so that
	// silent signals map to a finite (very negative) dB value.
	minLevel = 1e-20
)

// Modified Bessel function series constants
const (
	besselMaxTerms    = 500   // Upper bound on series terms for I₀(x)
	besselConvergence = 1e-17 // Relative term size at which the series stops
)

// Common division constants
const (
	halfDivisor = 2.0 // Division by 2
)
