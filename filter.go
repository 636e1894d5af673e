package stft

import (
	"fmt"
	"slices"

	"github.com/tphakala/go-audio-stft/internal/fft"
	"github.com/tphakala/go-audio-stft/internal/simdops"
)

// Filter rewrites one block's spectrum in place. It is called exactly once
// per block, between the forward and inverse transform, with the 2N packed
// coefficients already scaled by 1/√N.
//
// A Filter must not retain the slice, and it must be safe for concurrent
// use if it is shared by channels processed in parallel.
type Filter func(spectrum []float64)

// Identity leaves the spectrum unchanged.
func Identity([]float64) {}

// Shift moves every packed coefficient offset positions towards index 0,
// zero-filling the vacated tail: x[i] = x[i+offset]. A negative offset moves
// coefficients towards the end and zero-fills the head. Offsets whose
// magnitude reaches the spectrum length clear it entirely.
//
// Shift operates on the raw packed buffer, so an odd offset swaps real and
// imaginary parts. This is the frequency-shift effect of the stft-wav tool.
func Shift(offset int) Filter {
	if offset == 0 {
		return Identity
	}
	return func(x []float64) {
		size := len(x)
		switch {
		case offset >= size || -offset >= size:
			clear(x)
		case offset > 0:
			copy(x, x[offset:])
			clear(x[size-offset:])
		default:
			k := -offset
			copy(x[k:], x[:size-k])
			clear(x[:k])
		}
	}
}

// Gain multiplies every coefficient by g.
func Gain(g float64) Filter {
	ops := simdops.Float64Ops()
	return func(x []float64) {
		ops.Scale(x, x, g)
	}
}

// Chain applies filters in order. Nil filters are skipped.
func Chain(filters ...Filter) Filter {
	active := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	switch len(active) {
	case 0:
		return Identity
	case 1:
		return active[0]
	}
	return func(x []float64) {
		for _, f := range active {
			f(x)
		}
	}
}

// Response multiplies frequency bin k by h[k]. Bins at or beyond len(h) are
// left unchanged. h is copied.
func Response(h []complex128) Filter {
	h = slices.Clone(h)
	return func(x []float64) {
		bins := min(len(h), NumBins(x))
		for k := range bins {
			SetBin(x, k, Bin(x, k)*h[k])
		}
	}
}

// FIRResponse returns the N+1 bin frequency response of an FIR kernel,
// zero-padded to the 2N block of ctx, for use with Response.
//
// Applying it per block is circular convolution: the kernel tail wraps
// around within each block. Keep len(taps) well below N to limit the error.
//
// Returns ErrInvalidConfig if ctx is nil or taps is empty or longer than 2N.
func FIRResponse(ctx *Context, taps []float64) ([]complex128, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: nil context", ErrInvalidConfig)
	}
	size := ctx.BlockSize()
	if len(taps) == 0 || len(taps) > size {
		return nil, fmt.Errorf("%w: kernel length must be in [1, %d], got %d", ErrInvalidConfig, size, len(taps))
	}

	engine, err := ctx.acquire()
	if err != nil {
		return nil, err
	}
	defer ctx.release(engine)

	padded := make([]float64, size)
	copy(padded, taps)
	engine.Forward(padded)

	h := make([]complex128, fft.NumBins(size))
	for k := range h {
		h[k] = fft.Bin(padded, k)
	}
	return h, nil
}

// NumBins returns the number of frequency bins (DC through Nyquist, N+1)
// held by a packed spectrum.
func NumBins(spectrum []float64) int {
	return fft.NumBins(len(spectrum))
}

// Bin returns frequency bin k (0 ≤ k ≤ N) of a packed spectrum.
func Bin(spectrum []float64, k int) complex128 {
	return fft.Bin(spectrum, k)
}

// SetBin stores v into frequency bin k of a packed spectrum. The DC and
// Nyquist bins are real; their imaginary part is dropped.
func SetBin(spectrum []float64, k int, v complex128) {
	fft.SetBin(spectrum, k, v)
}
