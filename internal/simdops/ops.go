// Package simdops provides generic SIMD operations for float32 and float64 types.
// This lets the filter and normalization code support both precisions from a
// single implementation.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Ops provides SIMD-accelerated operations for type F.
// Function pointers allow type-safe generic code while delegating
// to optimized type-specific implementations.
type Ops[F Float] struct {
	// Interleave2 interleaves two slices: dst[0]=a[0], dst[1]=b[0], dst[2]=a[1], ...
	Interleave2 func(dst, a, b []F)

	// Deinterleave2 is the inverse of Interleave2: a[0]=src[0], b[0]=src[1], ...
	Deinterleave2 func(a, b, src []F)

	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []F, s F)

	// MaxAbs returns the largest absolute value in a, or 0 for an empty slice.
	MaxAbs func(a []F) F
}

// Pre-instantiated operations for each float type.
var (
	ops32 = Ops[float32]{
		Interleave2:   f32.Interleave2,
		Deinterleave2: f32.Deinterleave2,
		Scale:         f32.Scale,
		MaxAbs:        maxAbs32,
	}
	ops64 = Ops[float64]{
		Interleave2:   f64.Interleave2,
		Deinterleave2: f64.Deinterleave2,
		Scale:         f64.Scale,
		MaxAbs:        maxAbs64,
	}
)

// For returns the Ops instance for type F.
// The type switch happens at instantiation time, not in hot paths.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}

// Float64Ops returns the float64 SIMD operations.
func Float64Ops() *Ops[float64] {
	return &ops64
}

// maxAbs32 and maxAbs64 fold the SIMD extrema into a peak magnitude.
func maxAbs32(a []float32) float32 {
	if len(a) == 0 {
		return 0
	}
	return max(f32.Max(a), -f32.Min(a))
}

func maxAbs64(a []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	return max(f64.Max(a), -f64.Min(a))
}
