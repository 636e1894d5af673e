// Package fft provides in-place real FFT engines operating on packed
// half-complex buffers, the representation the STFT block pipeline hands to
// frequency-domain filters.
//
// Packed layout for a transform of length L = 2N (FFTPACK order):
//
//	[Re0, Re1, Im1, Re2, Im2, ..., Re(N-1), Im(N-1), ReN]
//
// Re0 is the DC bin and ReN the Nyquist bin; both are purely real so the
// spectrum of L real samples fits exactly in L float64 values.
//
// Normalization: Forward is unnormalized. Inverse is scaled so that
// Inverse(Forward(x)) == (L/2)·x. Callers that apply 1/sqrt(L/2) after each
// direction get a unity round trip.
package fft

import (
	"errors"
	"fmt"
)

// Backend selects the FFT implementation behind an Engine.
type Backend int

const (
	// BackendGonum uses gonum's FFTPACK port. Supports any even length.
	BackendGonum Backend = iota

	// BackendAlgoFFT uses algo-fft complex plans. Requires a power-of-two length.
	BackendAlgoFFT
)

// String returns the backend name used in configuration files and flags.
func (b Backend) String() string {
	switch b {
	case BackendGonum:
		return "gonum"
	case BackendAlgoFFT:
		return "algofft"
	default:
		return fmt.Sprintf("backend(%d)", int(b))
	}
}

// ParseBackend converts a backend name to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch name {
	case "", "gonum":
		return BackendGonum, nil
	case "algofft", "algo-fft":
		return BackendAlgoFFT, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}

// Packing constants.
const (
	// complexStride is the number of float64 slots per interior packed bin.
	complexStride = 2

	// halfDivisor converts a transform length to its bin count minus one.
	halfDivisor = 2

	// inverseHalfScale maps an unnormalized L·x round trip onto (L/2)·x.
	inverseHalfScale = 0.5
)

// Errors returned by New.
var (
	// ErrInvalidLength indicates a transform length the backend cannot handle.
	ErrInvalidLength = errors.New("invalid transform length")

	// ErrUnknownBackend indicates an unrecognized Backend value.
	ErrUnknownBackend = errors.New("unknown fft backend")
)

// Engine is an in-place real FFT of a fixed even length.
//
// An Engine holds mutable scratch state and must not be used by more than
// one goroutine at a time.
type Engine interface {
	// Forward replaces the real sequence in buf with its packed spectrum.
	Forward(buf []float64)

	// Inverse replaces the packed spectrum in buf with its real sequence,
	// scaled by Len()/2.
	Inverse(buf []float64)

	// Len returns the transform length.
	Len() int
}

// New creates an Engine of the given length using the selected backend.
// The length must be a positive even number.
func New(backend Backend, size int) (Engine, error) {
	if size < halfDivisor || size%halfDivisor != 0 {
		return nil, fmt.Errorf("%w: %d must be a positive even number", ErrInvalidLength, size)
	}

	switch backend {
	case BackendGonum:
		return newGonumEngine(size), nil
	case BackendAlgoFFT:
		return newAlgoEngine(size)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownBackend, backend)
	}
}

// NumBins returns the number of frequency bins (DC through Nyquist) held by a
// packed spectrum of the given length.
func NumBins(size int) int {
	return size/halfDivisor + 1
}

// Bin returns bin k of a packed spectrum.
func Bin(packed []float64, k int) complex128 {
	last := len(packed) / halfDivisor
	switch k {
	case 0:
		return complex(packed[0], 0)
	case last:
		return complex(packed[len(packed)-1], 0)
	default:
		return complex(packed[complexStride*k-1], packed[complexStride*k])
	}
}

// SetBin stores v into bin k of a packed spectrum. The imaginary part of the
// DC and Nyquist bins cannot be represented and is dropped.
func SetBin(packed []float64, k int, v complex128) {
	last := len(packed) / halfDivisor
	switch k {
	case 0:
		packed[0] = real(v)
	case last:
		packed[len(packed)-1] = real(v)
	default:
		packed[complexStride*k-1] = real(v)
		packed[complexStride*k] = imag(v)
	}
}

// pack writes the N+1 one-sided coefficients in coeffs into packed.
func pack(packed []float64, coeffs []complex128) {
	last := len(coeffs) - 1
	packed[0] = real(coeffs[0])
	for k := 1; k < last; k++ {
		packed[complexStride*k-1] = real(coeffs[k])
		packed[complexStride*k] = imag(coeffs[k])
	}
	packed[len(packed)-1] = real(coeffs[last])
}

// unpack expands packed into the N+1 one-sided coefficients, multiplying
// every value by scale.
func unpack(coeffs []complex128, packed []float64, scale float64) {
	last := len(coeffs) - 1
	coeffs[0] = complex(packed[0]*scale, 0)
	for k := 1; k < last; k++ {
		coeffs[k] = complex(packed[complexStride*k-1]*scale, packed[complexStride*k]*scale)
	}
	coeffs[last] = complex(packed[len(packed)-1]*scale, 0)
}
