package stft

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BlockCount returns the number of blocks Process runs for a signal of
// totalSamples samples with n new samples per block: ⌈totalSamples/n⌉ + 1.
// Returns 0 for non-positive arguments.
func BlockCount(totalSamples, n int) int {
	if totalSamples < 1 || n < 1 {
		return 0
	}
	return (totalSamples+n-1)/n + primingBlocks
}

// ProcessMono filters a single channel with blocks of n new samples using
// the default backend.
func ProcessMono(input []float64, n int, filter Filter) ([]float64, error) {
	ctx, err := NewContext(n)
	if err != nil {
		return nil, err
	}
	return processOne(ctx, input, filter)
}

// ProcessStereo filters a left/right channel pair sharing one Context.
// The two channels are processed in parallel.
func ProcessStereo(left, right []float64, n int, filter Filter) (leftOut, rightOut []float64, err error) {
	ctx, err := NewContext(n)
	if err != nil {
		return nil, nil, err
	}

	inputs := [][]float64{left, right}
	outputs := make([][]float64, stereoChannels)
	for ch, in := range inputs {
		outputs[ch] = make([]float64, len(in))
	}

	if err := ProcessMulti(ctx, outputs, inputs, filter, true); err != nil {
		return nil, nil, err
	}
	return outputs[0], outputs[1], nil
}

func processOne(ctx *Context, input []float64, filter Filter) ([]float64, error) {
	ch, err := NewChannel(ctx, len(input), filter)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(input))
	if err := ch.Process(out, input); err != nil {
		return nil, err
	}
	return out, nil
}

// ProcessMulti filters each inputs[i] into outputs[i] with its own Channel,
// all sharing ctx. Channels may have different lengths, but outputs[i] must
// match len(inputs[i]).
//
// With parallel set, every channel runs in its own goroutine. The result is
// bit-identical to sequential processing. Errors are wrapped with the index
// of the failing channel.
func ProcessMulti(ctx *Context, outputs, inputs [][]float64, filter Filter, parallel bool) error {
	if len(outputs) != len(inputs) {
		return fmt.Errorf("%w: %d outputs for %d inputs", ErrLengthMismatch, len(outputs), len(inputs))
	}
	if len(inputs) > maxChannels {
		return fmt.Errorf("%w: too many channels (max %d)", ErrInvalidConfig, maxChannels)
	}

	channels := make([]*Channel, len(inputs))
	for i, in := range inputs {
		ch, err := NewChannel(ctx, len(in), filter)
		if err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		channels[i] = ch
	}

	if !parallel {
		for i, ch := range channels {
			if err := ch.Process(outputs[i], inputs[i]); err != nil {
				return fmt.Errorf("channel %d: %w", i, err)
			}
		}
		return nil
	}

	var g errgroup.Group
	for i, ch := range channels {
		g.Go(func() error {
			if err := ch.Process(outputs[i], inputs[i]); err != nil {
				return fmt.Errorf("channel %d: %w", i, err)
			}
			return nil
		})
	}
	return g.Wait()
}
