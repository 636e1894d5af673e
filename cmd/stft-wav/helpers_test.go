package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-audio-stft/internal/config"
	"github.com/tphakala/go-audio-stft/internal/testutil"
	"github.com/tphakala/go-audio-stft/internal/wavio"
)

const (
	testRate    = 44100
	testSamples = 3000
	fullScale16 = 32767.0
)

func quietLogger(t *testing.T) *logrus.Logger {
	t.Helper()
	log, err := newLogger("debug", false, io.Discard)
	require.NoError(t, err)
	return log
}

// stereoAudio returns 16-bit stereo audio whose samples are exact 16-bit
// values, so an identity pass survives quantization unchanged.
func stereoAudio() *wavio.Audio {
	a := &wavio.Audio{SampleRate: testRate, BitDepth: 16}
	for ch := range 2 {
		x := testutil.Noise(testSamples, 0.5, uint32(ch+10))
		for i := range x {
			x[i] = float64(int(x[i]*fullScale16)) / fullScale16
		}
		a.Channels = append(a.Channels, x)
	}
	return a
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, wavio.Write(path, stereoAudio()))
	return path
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("loud", false, io.Discard)
	require.Error(t, err)

	log, err := newLogger("warn", false, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())

	log, err = newLogger("warn", true, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log, err = newLogger("trace", true, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, logrus.TraceLevel, log.GetLevel())
}

func TestProcessAudio_IdentityReconstructs(t *testing.T) {
	cfg := config.Default()
	cfg.Shift = 0

	in := stereoAudio()
	out, stats, err := processAudio(quietLogger(t), in, cfg)
	require.NoError(t, err)

	assert.Equal(t, in.SampleRate, out.SampleRate)
	assert.Equal(t, in.BitDepth, out.BitDepth)
	require.Len(t, out.Channels, 2)
	for ch := range out.Channels {
		testutil.AssertSNRAtLeast(t, in.Channels[ch], out.Channels[ch], testutil.ReconstructionSNR)
	}

	assert.Equal(t, 2, stats.channels)
	assert.Equal(t, testSamples, stats.samples)
	assert.Equal(t, (testSamples+cfg.NumSamples-1)/cfg.NumSamples+1, stats.blocks)
}

func TestProcessAudio_ShiftAltersSignal(t *testing.T) {
	cfg := config.Default()
	in := stereoAudio()
	out, _, err := processAudio(quietLogger(t), in, cfg)
	require.NoError(t, err)
	testutil.AssertDiffers(t, in.Channels[0], out.Channels[0], 1e-3)
}

func TestProcessAudio_Errors(t *testing.T) {
	log := quietLogger(t)

	_, _, err := processAudio(log, &wavio.Audio{SampleRate: testRate, BitDepth: 16}, config.Default())
	require.Error(t, err)

	cfg := config.Default()
	cfg.Backend = "fftw"
	_, _, err = processAudio(log, stereoAudio(), cfg)
	require.Error(t, err)

	cfg = config.Default()
	cfg.Backend = "algofft"
	cfg.NumSamples = 100 // 2N is not a power of two
	_, _, err = processAudio(log, stereoAudio(), cfg)
	require.Error(t, err)
}

func TestRun_WritesOutputFile(t *testing.T) {
	inPath := writeInput(t)
	outPath := filepath.Join(t.TempDir(), "out.wav")

	cfg := config.Default()
	cfg.Shift = 0
	cfg.NumSamples = 64
	stats, err := run(quietLogger(t), inPath, outPath, cfg)
	require.NoError(t, err)
	assert.Equal(t, testSamples, stats.samples)

	got, err := wavio.Read(outPath)
	require.NoError(t, err)
	want := stereoAudio()
	for ch := range want.Channels {
		assert.InDeltaSlice(t, want.Channels[ch], got.Channels[ch], 1e-9, "channel %d", ch)
	}
}

func TestRun_MissingInput(t *testing.T) {
	_, err := run(quietLogger(t), "/nonexistent/in.wav", filepath.Join(t.TempDir(), "out.wav"), config.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open input file")
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, "/a/in.wav", "/b/out.wav", &processStats{
		sampleRate: testRate, channels: 2, bitDepth: 16, samples: testRate, blocks: 346,
	})
	assert.Contains(t, buf.String(), "Filtered in.wav -> out.wav")
	assert.Contains(t, buf.String(), "346 blocks per channel")
}

func TestRootCmd_EndToEnd(t *testing.T) {
	inPath := writeInput(t)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.wav")
	cfgPath := filepath.Join(dir, "stft.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("num: 256\nshift: 0\nlog_level: error\n"), 0o644))

	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"-i", inPath, "-o", outPath, "--config", cfgPath, "-n", "128", "--parallel=false"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "Filtered in.wav -> out.wav")
	// -n overrides the file; BlockCount(3000, 128) = 25.
	assert.Contains(t, stdout.String(), "25 blocks per channel")
	_, err := os.Stat(outPath)
	require.NoError(t, err)
}

func TestRootCmd_RequiresPaths(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"-i", "in.wav"})
	require.Error(t, cmd.Execute())
}

func TestApplyFlags_OnlyChangedFlagsOverride(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--shift", "9", "--backend", "algofft"}))

	cfg := &config.Config{NumSamples: 512, CPU: 3, Shift: 1, Backend: "gonum", Parallel: false, LogLevel: "info"}
	opts := &options{}
	opts.shift, _ = cmd.Flags().GetInt("shift")
	opts.backend, _ = cmd.Flags().GetString("backend")
	applyFlags(cmd, opts, cfg)

	assert.Equal(t, 9, cfg.Shift)
	assert.Equal(t, "algofft", cfg.Backend)
	assert.Equal(t, 512, cfg.NumSamples)
	assert.Equal(t, 3, cfg.CPU)
	assert.False(t, cfg.Parallel)
}
