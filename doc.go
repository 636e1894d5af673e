// Package stft provides a streaming Short-Time Fourier Transform
// analysis / modify / synthesis engine in pure Go.
//
// A signal is cut into 50%-overlapped blocks of 2N samples, each block is
// weighted by a half-sample Hann window, forward transformed, handed to a
// caller-supplied [Filter] that may rewrite the spectrum, inverse transformed
// and overlap-added back into the time domain. With the identity filter the
// output reproduces the input to within double-precision rounding.
//
// # Quick Start
//
// For one-shot processing of a single channel:
//
//	out, err := stft.ProcessMono(input, 128, stft.Shift(4))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For several channels sharing one block size:
//
//	ctx, err := stft.NewContext(128)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	left, _ := stft.NewChannel(ctx, len(leftIn), stft.Identity)
//	right, _ := stft.NewChannel(ctx, len(rightIn), stft.Gain(0.5))
//	if err := left.Process(leftOut, leftIn); err != nil {
//	    log.Fatal(err)
//	}
//	if err := right.Process(rightOut, rightIn); err != nil {
//	    log.Fatal(err)
//	}
//
// # Block Pipeline
//
// Every block runs the same fixed pipeline over pre-allocated buffers:
//
//	prevIn | new  ->  window  ->  FFT  ->  ×1/√N  ->  filter  ->  IFFT  ->  ×1/√N  ->  overlap-add
//
// The first block only primes the history and emits nothing. A final
// partial block is zero-padded, and one extra all-zero block flushes the
// last overlap, so a signal of length T is processed in ⌈T/N⌉+1 blocks and
// produces exactly T output samples.
//
// # Spectrum Layout
//
// Filters receive the 2N packed real-FFT coefficients in half-complex order:
//
//	[Re0, Re1, Im1, Re2, Im2, ..., Re(N-1), Im(N-1), ReN]
//
// [Bin], [SetBin] and [NumBins] address bins without depending on the packing.
//
// # Backends
//
// [BackendGonum] (default) uses gonum's FFTPACK port and accepts any N.
// [BackendAlgoFFT] uses algo-fft plans and requires 2N to be a power of two.
//
// # Thread Safety
//
// A [Context] is immutable and safe to share between goroutines; each
// [Channel] borrows its own FFT engine from the Context for the duration of
// [Channel.Process]. A Channel itself must not be used concurrently.
// [ProcessMulti] processes channels in parallel on request.
package stft
