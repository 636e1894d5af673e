package stft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testN = 128

func TestNewContext_Invalid(t *testing.T) {
	for _, n := range []int{0, -1, -128} {
		ctx, err := NewContext(n)
		require.ErrorIs(t, err, ErrInvalidConfig, "n=%d", n)
		assert.Nil(t, ctx)
	}
}

func TestNewContext_BackendValidation(t *testing.T) {
	_, err := NewContext(testN, WithBackend(Backend(99)))
	require.ErrorIs(t, err, ErrInvalidConfig)

	// 2·48 = 96 is not a power of two.
	_, err = NewContext(48, WithBackend(BackendAlgoFFT))
	require.ErrorIs(t, err, ErrInvalidConfig)

	ctx, err := NewContext(48)
	require.NoError(t, err)
	assert.Equal(t, BackendGonum, ctx.Backend())
}

func TestNewContext_Accessors(t *testing.T) {
	ctx, err := NewContext(testN, WithBackend(BackendAlgoFFT))
	require.NoError(t, err)

	assert.Equal(t, testN, ctx.NewSamplesPerBlock())
	assert.Equal(t, 2*testN, ctx.BlockSize())
	assert.Equal(t, BackendAlgoFFT, ctx.Backend())

	w := ctx.Window()
	require.Len(t, w, testN)
	w[0] = 42
	assert.NotEqual(t, 42.0, ctx.Window()[0], "Window must return a copy")
}

func TestParseBackend(t *testing.T) {
	b, err := ParseBackend("algofft")
	require.NoError(t, err)
	assert.Equal(t, BackendAlgoFFT, b)

	_, err = ParseBackend("fftw")
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestContext_EnginePoolRefills(t *testing.T) {
	ctx, err := NewContext(testN)
	require.NoError(t, err)

	// Drain more engines than were seeded; the pool must build new ones.
	e1, err := ctx.acquire()
	require.NoError(t, err)
	e2, err := ctx.acquire()
	require.NoError(t, err)
	assert.Equal(t, 2*testN, e1.Len())
	assert.Equal(t, 2*testN, e2.Len())

	ctx.release(e1)
	ctx.release(e2)
}
