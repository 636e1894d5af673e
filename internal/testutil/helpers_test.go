package testutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSNR(t *testing.T) {
	ref := Cosine(64, 0.3)
	assert.True(t, math.IsInf(SNR(ref, ref), 1))

	got := make([]float64, len(ref))
	for i := range ref {
		got[i] = ref[i] * 1.1 // error energy is 1% of signal energy
	}
	assert.InDelta(t, 20.0, SNR(ref, got), 1e-9)
}

func TestNoise_DeterministicAndBounded(t *testing.T) {
	a := Noise(1000, 0.5, 7)
	b := Noise(1000, 0.5, 7)
	assert.Equal(t, a, b)
	AssertAllInRange(t, a, -0.5, 0.5)
	assert.NotEqual(t, a, Noise(1000, 0.5, 8))
}

func TestCosine(t *testing.T) {
	x := Cosine(4, math.Pi/2)
	assert.InDeltaSlice(t, []float64{1, 0, -1, 0}, x, DefaultTolerance)
}
