package fft

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// algoEngine runs a full-length complex plan from algo-fft over the real
// input. The imaginary parts are zero on the way in and the Hermitian
// mirror is rebuilt from the packed half on the way out.
type algoEngine struct {
	plan    *algofft.Plan[complex128]
	size    int
	scratch []complex128 // transform input, size complex values
	out     []complex128 // transform output, size complex values
	scale   float64      // size/2; Plan.Inverse is normalized by 1/size
}

func newAlgoEngine(size int) (*algoEngine, error) {
	if size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: algo-fft backend needs a power of two, got %d", ErrInvalidLength, size)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("failed to create FFT plan: %w", err)
	}

	return &algoEngine{
		plan:    plan,
		size:    size,
		scratch: make([]complex128, size),
		out:     make([]complex128, size),
		scale:   float64(size) / halfDivisor,
	}, nil
}

func (e *algoEngine) Len() int { return e.size }

func (e *algoEngine) Forward(buf []float64) {
	for i, v := range buf {
		e.scratch[i] = complex(v, 0)
	}

	// Plan sizes are validated at construction; the only failure mode is a
	// length mismatch, which cannot happen with the owned buffers.
	_ = e.plan.Forward(e.out, e.scratch)

	half := e.size / halfDivisor
	buf[0] = real(e.out[0])
	for k := 1; k < half; k++ {
		buf[complexStride*k-1] = real(e.out[k])
		buf[complexStride*k] = imag(e.out[k])
	}
	buf[e.size-1] = real(e.out[half])
}

func (e *algoEngine) Inverse(buf []float64) {
	half := e.size / halfDivisor
	e.scratch[0] = complex(buf[0], 0)
	for k := 1; k < half; k++ {
		v := complex(buf[complexStride*k-1], buf[complexStride*k])
		e.scratch[k] = v
		e.scratch[e.size-k] = complex(real(v), -imag(v))
	}
	e.scratch[half] = complex(buf[e.size-1], 0)

	_ = e.plan.Inverse(e.out, e.scratch)

	for i := range buf {
		buf[i] = real(e.out[i]) * e.scale
	}
}
