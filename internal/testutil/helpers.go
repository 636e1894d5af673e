// Package testutil provides shared signal generators and testify-based
// assertions for the STFT tests.
package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-audio-stft/internal/simdops"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10

	// ReconstructionSNR is the minimum SNR in dB an identity filter must
	// achieve in double precision.
	ReconstructionSNR = 300.0
)

// halfDivisor is used for finding center indices in symmetric arrays.
const halfDivisor = 2

// decibelsPerDecade converts a power ratio to dB.
const decibelsPerDecade = 10.0

// Cosine returns cos(omega·i) for i in [0, n).
func Cosine(n int, omega float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Cos(omega * float64(i))
	}
	return x
}

// Noise returns n deterministic pseudo-random samples in [-amp, amp).
// A simple LCG keeps test signals identical across Go versions.
func Noise(n int, amp float64, seed uint32) []float64 {
	x := make([]float64, n)
	state := seed
	for i := range x {
		state = state*1664525 + 1013904223
		x[i] = amp * (float64(state)/math.MaxUint32*2 - 1)
	}
	return x
}

// SNR returns the signal-to-noise ratio in dB of got against the reference
// signal ref. Identical signals yield +Inf.
func SNR(ref, got []float64) float64 {
	signal := simdops.Energy(ref)
	var noise float64
	for i := range ref {
		d := ref[i] - got[i]
		noise += d * d
	}
	if noise == 0 {
		return math.Inf(1)
	}
	return decibelsPerDecade * math.Log10(signal/noise)
}

// AssertSNRAtLeast verifies that got reproduces ref with at least minDB of
// signal-to-noise ratio.
func AssertSNRAtLeast(t testing.TB, ref, got []float64, minDB float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, got, len(ref), msgAndArgs...) {
		return false
	}
	snr := SNR(ref, got)
	return assert.GreaterOrEqual(t, snr, minDB,
		"SNR %.1f dB below threshold %.1f dB", snr, minDB)
}

// AssertSymmetric verifies that a slice is symmetric (s[i] == s[n-1-i]).
func AssertSymmetric(t *testing.T, s []float64, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	n := len(s)
	for i := range n / halfDivisor {
		j := n - 1 - i
		if !assert.InDelta(t, s[i], s[j], tolerance,
			"slice not symmetric at i=%d: s[%d]=%f != s[%d]=%f", i, i, s[i], j, s[j]) {
			return false
		}
	}
	return true
}

// AssertNoNaNOrInf verifies that no elements in the slice are NaN or Inf.
func AssertNoNaNOrInf(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if math.IsNaN(v) {
			return assert.Fail(t, "found NaN", "s[%d] is NaN", i)
		}
		if math.IsInf(v, 0) {
			return assert.Fail(t, "found Inf", "s[%d] is Inf", i)
		}
	}
	return true
}

// AssertAllInRange verifies that all elements are within [min, max].
func AssertAllInRange(t *testing.T, s []float64, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v < minVal || v > maxVal {
			return assert.Fail(t, "value out of range",
				"s[%d]=%f is outside range [%f, %f]", i, v, minVal, maxVal)
		}
	}
	return true
}

// AssertMonotonic verifies that a slice is monotonically increasing.
func AssertMonotonic(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return assert.Fail(t, "not monotonic",
				"s[%d]=%f < s[%d]=%f", i, s[i], i-1, s[i-1])
		}
	}
	return true
}

// AssertCenterIsMax verifies that the center element is the maximum value.
func AssertCenterIsMax(t *testing.T, s []float64, msgAndArgs ...any) bool {
	t.Helper()
	if len(s) == 0 {
		return assert.Fail(t, "empty slice")
	}
	centerIdx := len(s) / halfDivisor
	centerValue := s[centerIdx]
	for i, v := range s {
		if v > centerValue {
			return assert.Fail(t, "center is not max",
				"s[%d]=%f > center s[%d]=%f", i, v, centerIdx, centerValue)
		}
	}
	return true
}

// AssertDiffers verifies that two equal-length signals differ by more than
// tolerance in at least one position.
func AssertDiffers(t *testing.T, a, b []float64, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, b, len(a), msgAndArgs...) {
		return false
	}
	var maxDiff float64
	for i := range a {
		maxDiff = max(maxDiff, math.Abs(a[i]-b[i]))
	}
	return assert.Greater(t, maxDiff, tolerance, "signals are indistinguishable (max diff %e)", maxDiff)
}
