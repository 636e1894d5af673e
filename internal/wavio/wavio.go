// Package wavio reads and writes PCM WAV files as planar float64 channels
// normalized to [-1, 1].
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/go-audio-stft/internal/simdops"
)

const (
	// Channel count constants for fast paths
	monoChannels   = 1
	stereoChannels = 2

	// Supported sample formats
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// Full-scale values per bit depth
	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	// wavFormatPCM is the WAVE_FORMAT_PCM format tag.
	wavFormatPCM = 1
)

var (
	// ErrInvalidFile indicates input that is not a readable WAV file.
	ErrInvalidFile = errors.New("invalid WAV file")

	// ErrUnsupportedFormat indicates a bit depth or layout wavio cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported WAV format")
)

// Audio is a decoded WAV file in planar form.
type Audio struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64 // one slice per channel, equal lengths
}

// NumSamples returns the number of samples per channel.
func (a *Audio) NumSamples() int {
	if len(a.Channels) == 0 {
		return 0
	}
	return len(a.Channels[0])
}

// Read decodes the WAV file at path.
func Read(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Decode reads a complete PCM WAV stream.
func Decode(r io.ReadSeeker) (*Audio, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidFile
	}

	bitDepth := int(decoder.BitDepth)
	maxVal, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, channels)
	}

	return &Audio{
		SampleRate: buf.Format.SampleRate,
		BitDepth:   bitDepth,
		Channels:   Deinterleave(buf.Data, channels, 1/maxVal),
	}, nil
}

// Write encodes a to a new WAV file at path.
func Write(path string, a *Audio) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Encode(f, a); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Encode writes a as PCM WAV at a.BitDepth. Samples outside [-1, 1] are
// clamped to full scale.
func Encode(w io.WriteSeeker, a *Audio) error {
	maxVal, err := fullScale(a.BitDepth)
	if err != nil {
		return err
	}
	numChannels := len(a.Channels)
	if numChannels < 1 {
		return fmt.Errorf("%w: no channels", ErrUnsupportedFormat)
	}
	for ch, c := range a.Channels {
		if len(c) != a.NumSamples() {
			return fmt.Errorf("%w: channel %d has %d samples, want %d",
				ErrUnsupportedFormat, ch, len(c), a.NumSamples())
		}
	}

	encoder := wav.NewEncoder(w, a.SampleRate, a.BitDepth, numChannels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numChannels, SampleRate: a.SampleRate},
		Data:           Interleave(a.Channels, maxVal),
		SourceBitDepth: a.BitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return nil
}

// fullScale returns the maximum sample value for the given bit depth.
func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample16:
		return maxInt16, nil
	case bitsPerSample24:
		return maxInt24, nil
	case bitsPerSample32:
		return maxInt32, nil
	default:
		return 0, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}
}

// Deinterleave splits interleaved integer samples into per-channel float
// slices, multiplying each by invMaxVal.
func Deinterleave(data []int, numChannels int, invMaxVal float64) [][]float64 {
	samplesPerChannel := len(data) / numChannels
	out := make([][]float64, numChannels)
	for ch := range numChannels {
		out[ch] = make([]float64, samplesPerChannel)
	}

	// Fast path for mono
	if numChannels == monoChannels {
		buf := out[0]
		for i := range samplesPerChannel {
			buf[i] = float64(data[i]) * invMaxVal
		}
		return out
	}

	// Fast path for stereo
	if numChannels == stereoChannels {
		buf0, buf1 := out[0], out[1]
		for i := range samplesPerChannel {
			idx := i * stereoChannels
			buf0[i] = float64(data[idx]) * invMaxVal
			buf1[i] = float64(data[idx+1]) * invMaxVal
		}
		return out
	}

	for i := range samplesPerChannel {
		base := i * numChannels
		for ch := range numChannels {
			out[ch][i] = float64(data[base+ch]) * invMaxVal
		}
	}
	return out
}

// Interleave merges per-channel float slices into interleaved integer
// samples scaled by maxVal, rounding to nearest and clamping to ±maxVal.
func Interleave(channels [][]float64, maxVal float64) []int {
	if len(channels) == 0 || len(channels[0]) == 0 {
		return nil
	}

	numChannels := len(channels)
	samplesPerChannel := len(channels[0])
	dst := make([]int, samplesPerChannel*numChannels)

	// Fast path for stereo: SIMD interleave, then one scale over the block.
	if numChannels == stereoChannels {
		ops := simdops.Float64Ops()
		scratch := make([]float64, len(dst))
		ops.Interleave2(scratch, channels[0], channels[1])
		ops.Scale(scratch, scratch, maxVal)
		for i, v := range scratch {
			dst[i] = quantize(v, maxVal)
		}
		return dst
	}

	for i := range samplesPerChannel {
		base := i * numChannels
		for ch := range numChannels {
			dst[base+ch] = quantize(channels[ch][i]*maxVal, maxVal)
		}
	}
	return dst
}

// quantize rounds an already scaled sample and clamps it to [-maxVal, maxVal].
func quantize(v, maxVal float64) int {
	v = math.Round(v)
	if v > maxVal {
		v = maxVal
	} else if v < -maxVal {
		v = -maxVal
	}
	return int(v)
}
