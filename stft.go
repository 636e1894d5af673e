package stft

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/tphakala/go-audio-stft/internal/fft"
	"github.com/tphakala/go-audio-stft/internal/window"
)

// Backend selects the FFT implementation used by a Context.
type Backend = fft.Backend

// Available FFT backends.
const (
	// BackendGonum uses gonum's FFTPACK port. Accepts any block size.
	BackendGonum = fft.BackendGonum

	// BackendAlgoFFT uses algo-fft plans. Requires 2N to be a power of two.
	BackendAlgoFFT = fft.BackendAlgoFFT
)

// Common errors returned by the engine.
var (
	// ErrInvalidConfig indicates an invalid block size, sample count or option.
	ErrInvalidConfig = errors.New("invalid stft configuration")

	// ErrLengthMismatch indicates an input or output buffer whose length
	// differs from the channel's total sample count.
	ErrLengthMismatch = errors.New("buffer length mismatch")

	// ErrAlreadyProcessed indicates a second Process call on a channel that
	// has not been Reset.
	ErrAlreadyProcessed = errors.New("channel already processed")
)

// ParseBackend converts a backend name ("gonum", "algofft") to a Backend.
func ParseBackend(name string) (Backend, error) {
	b, err := fft.ParseBackend(name)
	if err != nil {
		return b, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return b, nil
}

// Option configures a Context.
type Option func(*options)

type options struct {
	backend Backend
}

// WithBackend selects the FFT backend. The default is BackendGonum.
func WithBackend(b Backend) Option {
	return func(o *options) {
		o.backend = b
	}
}

// Context holds everything that depends only on the block size: the
// analysis window, the spectral scale factor and the FFT engines.
//
// A Context is immutable after construction and may be shared by any number
// of channels, including channels processed concurrently. FFT engines keep
// scratch state, so the Context hands each Channel.Process call its own
// engine from an internal pool.
type Context struct {
	n       int
	window  []float64 // first half of the 2N Hann window
	scale   float64   // 1/√N, applied after each transform direction
	backend Backend
	engines sync.Pool
}

// NewContext creates a Context for blocks of n new samples (2n overlapped).
//
// Returns ErrInvalidConfig if n < 1, if the backend is unknown, or if the
// backend cannot handle a transform of length 2n.
func NewContext(n int, opts ...Option) (*Context, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: samples per block must be at least 1, got %d", ErrInvalidConfig, n)
	}

	o := options{backend: BackendGonum}
	for _, opt := range opts {
		opt(&o)
	}

	engine, err := fft.New(o.backend, overlapFactor*n)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	c := &Context{
		n:       n,
		window:  window.HalfHann(n),
		scale:   1 / math.Sqrt(float64(n)),
		backend: o.backend,
	}
	c.engines.Put(engine)
	return c, nil
}

// NewSamplesPerBlock returns N, the number of new samples consumed and
// produced per block.
func (c *Context) NewSamplesPerBlock() int {
	return c.n
}

// BlockSize returns the overlapped analysis block length 2N.
func (c *Context) BlockSize() int {
	return overlapFactor * c.n
}

// Window returns a copy of the first half of the analysis window.
func (c *Context) Window() []float64 {
	return append([]float64(nil), c.window...)
}

// Backend returns the FFT backend used by the Context.
func (c *Context) Backend() Backend {
	return c.backend
}

// acquire takes an engine from the pool, building a new one when the pool
// is empty.
func (c *Context) acquire() (fft.Engine, error) {
	if e, ok := c.engines.Get().(fft.Engine); ok {
		return e, nil
	}
	e, err := fft.New(c.backend, c.BlockSize())
	if err != nil {
		return nil, fmt.Errorf("failed to create FFT engine: %w", err)
	}
	return e, nil
}

func (c *Context) release(e fft.Engine) {
	c.engines.Put(e)
}
