// Package window generates the analysis window used by the STFT block
// pipeline and applies it to overlapped blocks.
package window

import "math"

const (
	// hannOffset is the constant term of the Hann formula.
	hannOffset = 0.5

	// hannAmplitude scales the cosine term of the Hann formula.
	hannAmplitude = 0.5

	// halfSampleShift samples the window between integer positions so the
	// full window has no repeated endpoint.
	halfSampleShift = 0.5

	// overlapFactor is the ratio of block length to new samples per block.
	overlapFactor = 2
)

// HalfHann returns the first half of a Hann window of length 2n sampled at
// half-sample offsets:
//
//	w[i] = 0.5 - 0.5·cos(2π/(2n)·(i + 0.5)),  i in [0, n)
//
// The second half of the window is the mirror image, w[2n-1-i] = w[i].
// Paired with its mirror at 50% overlap the window sums to exactly one
// (w[i] + w[n-1-i] = 1), which is what makes identity-filter reconstruction
// possible without a synthesis window.
//
// Returns an empty slice for n < 1.
func HalfHann(n int) []float64 {
	if n < 1 {
		return []float64{}
	}

	half := make([]float64, n)
	step := 2 * math.Pi / float64(overlapFactor*n)
	for i := range half {
		half[i] = hannOffset - hannAmplitude*math.Cos(step*(float64(i)+halfSampleShift))
	}
	return half
}

// Full expands a half window into the full symmetric window of length
// 2·len(half).
func Full(half []float64) []float64 {
	n := len(half)
	full := make([]float64, overlapFactor*n)
	copy(full, half)
	for i, w := range half {
		full[overlapFactor*n-1-i] = w
	}
	return full
}

// Apply multiplies block in place by the mirrored window described by half.
// block must have length 2·len(half).
func Apply(block, half []float64) {
	n := len(half)
	last := overlapFactor*n - 1
	_ = block[last]
	for i, w := range half {
		block[i] *= w
		block[last-i] *= w
	}
}
