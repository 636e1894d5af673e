package stft

import (
	"fmt"

	"github.com/tphakala/go-audio-stft/internal/fft"
	"github.com/tphakala/go-audio-stft/internal/simdops"
	"github.com/tphakala/go-audio-stft/internal/window"
)

// Channel runs the STFT pipeline over one channel of a signal whose length
// is fixed at construction.
//
// All buffers are allocated by NewChannel; Process does not allocate.
// A Channel processes one signal. Call Reset to process another signal of
// the same length.
type Channel struct {
	ctx    *Context
	total  int
	filter Filter
	ops    *simdops.Ops64

	// Stream cursors into the input and output buffers.
	readPos  int
	writePos int

	prevIn  []float64 // last N input samples (left half of the next block)
	block   []float64 // 2N working block, transformed in place
	prevOut []float64 // right half of the previous synthesized block
	padIn   []float64 // zero-padded input for partial and flush blocks
	discard []float64 // output sink for blocks whose samples are not emitted

	blocks    int
	processed bool
}

// NewChannel creates a Channel for a signal of totalSamples samples.
// A nil filter is treated as Identity.
//
// Returns ErrInvalidConfig if ctx is nil or totalSamples < 1.
func NewChannel(ctx *Context, totalSamples int, filter Filter) (*Channel, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: context is nil", ErrInvalidConfig)
	}
	if totalSamples < 1 {
		return nil, fmt.Errorf("%w: total samples must be at least 1, got %d", ErrInvalidConfig, totalSamples)
	}
	if filter == nil {
		filter = Identity
	}

	n := ctx.n
	return &Channel{
		ctx:     ctx,
		total:   totalSamples,
		filter:  filter,
		ops:     simdops.Float64Ops(),
		prevIn:  make([]float64, n),
		block:   make([]float64, overlapFactor*n),
		prevOut: make([]float64, n),
		padIn:   make([]float64, n),
		discard: make([]float64, n),
	}, nil
}

// TotalSamples returns the signal length the channel was built for.
func (c *Channel) TotalSamples() int {
	return c.total
}

// Blocks returns the number of blocks synthesized by the last Process call.
func (c *Channel) Blocks() int {
	return c.blocks
}

// Reset clears all streaming state so the channel can process a new signal.
func (c *Channel) Reset() {
	c.readPos = 0
	c.writePos = 0
	c.blocks = 0
	c.processed = false
	clear(c.prevIn)
	clear(c.block)
	clear(c.prevOut)
	clear(c.padIn)
	clear(c.discard)
}

// Process filters the whole signal in into out. Both buffers must hold
// exactly TotalSamples samples; every position of out is written.
//
// Returns ErrLengthMismatch if either buffer has the wrong length, and
// ErrAlreadyProcessed if the channel was used before without Reset.
// Nothing is written when an error is returned.
func (c *Channel) Process(out, in []float64) error {
	if len(in) != c.total {
		return fmt.Errorf("%w: input has %d samples, want %d", ErrLengthMismatch, len(in), c.total)
	}
	if len(out) != c.total {
		return fmt.Errorf("%w: output has %d samples, want %d", ErrLengthMismatch, len(out), c.total)
	}
	if c.processed {
		return ErrAlreadyProcessed
	}

	engine, err := c.ctx.acquire()
	if err != nil {
		return err
	}
	defer c.ctx.release(engine)

	c.processed = true
	n := c.ctx.n

	for c.writePos < c.total {
		switch {
		case c.readPos == 0:
			// First block: prime the history, emit nothing. Signals
			// shorter than one block are zero-padded.
			m := min(n, c.total)
			c.synthesize(engine, c.discard, c.stagePartial(in[:m]))
			c.readPos = m

		case c.readPos+n <= c.total:
			c.synthesize(engine, out[c.writePos:c.writePos+n], in[c.readPos:c.readPos+n])
			c.readPos += n
			c.writePos += n

		case c.readPos < c.total:
			// Partial last input block, zero-padded.
			c.synthesize(engine, c.discard, c.stagePartial(in[c.readPos:]))
			c.writePos += copy(out[c.writePos:], c.discard)
			c.readPos = c.total

		default:
			// Flush the final overlap with silence.
			clear(c.padIn)
			c.synthesize(engine, c.discard, c.padIn)
			c.writePos += copy(out[c.writePos:], c.discard)
		}
		c.blocks++
	}

	return nil
}

// stagePartial copies src into padIn and zero-fills the remainder.
func (c *Channel) stagePartial(src []float64) []float64 {
	m := copy(c.padIn, src)
	clear(c.padIn[m:])
	return c.padIn
}

// synthesize runs one block: slide src into the working block, window,
// transform, filter, inverse transform, and overlap-add N samples into dst.
func (c *Channel) synthesize(engine fft.Engine, dst, src []float64) {
	n := len(c.prevIn)

	copy(c.block[:n], c.prevIn)
	copy(c.block[n:], src)
	copy(c.prevIn, src)

	window.Apply(c.block, c.ctx.window)

	engine.Forward(c.block)
	c.ops.Scale(c.block, c.block, c.ctx.scale)
	c.filter(c.block)
	engine.Inverse(c.block)
	c.ops.Scale(c.block, c.block, c.ctx.scale)

	for i, v := range c.block[:n] {
		dst[i] = c.prevOut[i] + v
	}
	copy(c.prevOut, c.block[n:])
}
