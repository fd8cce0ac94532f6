// Package mathutil provides numeric helpers shared by the filter design and
// analysis packages.
package mathutil

// PolyMul multiplies two polynomials whose coefficients are ordered from the
// highest power down. The result has len(a)+len(b)-1 entries.
func PolyMul(a, b []float64) []float64 {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// PolyEvalComplex evaluates the polynomial c (highest power first) at z
// using Horner's method.
func PolyEvalComplex(c []float64, z complex128) complex128 {
	var acc complex128
	for _, v := range c {
		acc = acc*z + complex(v, 0)
	}
	return acc
}
