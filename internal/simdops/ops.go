// Package simdops exposes the SIMD vector kernels used by the STFT pipeline
// and its audio I/O through one generic table, so float32 and float64 callers
// share a single code path.
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
type Ops[F Float] struct {
	// Scale multiplies each element by scalar s: dst[i] = a[i] * s.
	// dst and a may alias.
	Scale func(dst, a []F, s F)

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// DotProductUnsafe computes the dot product without bounds checking.
	// Use only when slices are guaranteed to have equal length.
	DotProductUnsafe func(a, b []F) F

	// Interleave2 interleaves two slices: dst[0]=a[0], dst[1]=b[0], dst[2]=a[1], ...
	Interleave2 func(dst, a, b []F)
}

var (
	ops32 = Ops[float32]{
		Scale:            f32.Scale,
		Sum:              f32.Sum,
		DotProductUnsafe: f32.DotProductUnsafe,
		Interleave2:      f32.Interleave2,
	}
	ops64 = Ops[float64]{
		Scale:            f64.Scale,
		Sum:              f64.Sum,
		DotProductUnsafe: f64.DotProductUnsafe,
		Interleave2:      f64.Interleave2,
	}
)

// For returns the Ops instance for type F.
// The type switch happens once per caller, not in hot paths.
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

// Type aliases for common configurations.
type (
	Ops32 = Ops[float32]
	Ops64 = Ops[float64]
)

// Float64Ops returns the float64 SIMD operations.
func Float64Ops() *Ops64 {
	return &ops64
}

// Energy returns the sum of squares of a.
func Energy[F Float](a []F) F {
	return For[F]().DotProductUnsafe(a, a)
}
