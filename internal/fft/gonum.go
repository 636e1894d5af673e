package fft

import "gonum.org/v1/gonum/dsp/fourier"

// gonumEngine wraps gonum's real FFT with a pre-allocated coefficient buffer
// so that Forward and Inverse never allocate.
type gonumEngine struct {
	fft    *fourier.FFT
	size   int
	coeffs []complex128 // size/2 + 1 one-sided coefficients
}

func newGonumEngine(size int) *gonumEngine {
	return &gonumEngine{
		fft:    fourier.NewFFT(size),
		size:   size,
		coeffs: make([]complex128, NumBins(size)),
	}
}

func (e *gonumEngine) Len() int { return e.size }

func (e *gonumEngine) Forward(buf []float64) {
	e.coeffs = e.fft.Coefficients(e.coeffs, buf)
	pack(buf, e.coeffs)
}

// Inverse halves the coefficients before the backward transform; gonum's
// Sequence returns size·x for a Coefficients/Sequence round trip.
func (e *gonumEngine) Inverse(buf []float64) {
	unpack(e.coeffs, buf, inverseHalfScale)
	e.fft.Sequence(buf, e.coeffs)
}
