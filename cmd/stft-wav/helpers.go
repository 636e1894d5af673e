package main

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	stft "github.com/tphakala/go-audio-stft"
	"github.com/tphakala/go-audio-stft/internal/affinity"
	"github.com/tphakala/go-audio-stft/internal/config"
	"github.com/tphakala/go-audio-stft/internal/wavio"
)

// processStats summarizes one run for the final report.
type processStats struct {
	sampleRate int
	channels   int
	bitDepth   int
	samples    int // per channel
	blocks     int // per channel
	elapsed    time.Duration
}

// newLogger builds a text logger writing to w. verbose forces debug level.
func newLogger(level string, verbose bool, w io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose && lvl < logrus.DebugLevel {
		lvl = logrus.DebugLevel
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return log, nil
}

// run pins the process if requested, filters the input file and writes the
// output file.
func run(log *logrus.Logger, inputPath, outputPath string, cfg *config.Config) (*processStats, error) {
	if cfg.PinningEnabled() {
		if err := pinCPU(log, cfg.CPU); err != nil {
			return nil, err
		}
	}

	in, err := wavio.Read(inputPath)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"file":        filepath.Base(inputPath),
		"sample_rate": in.SampleRate,
		"channels":    len(in.Channels),
		"bit_depth":   in.BitDepth,
		"samples":     in.NumSamples(),
	}).Debug("input format")

	out, stats, err := processAudio(log, in, cfg)
	if err != nil {
		return nil, err
	}

	if err := wavio.Write(outputPath, out); err != nil {
		return nil, err
	}
	return stats, nil
}

// processAudio filters every channel of in and returns the filtered audio in
// the same format.
func processAudio(log *logrus.Logger, in *wavio.Audio, cfg *config.Config) (*wavio.Audio, *processStats, error) {
	if in.NumSamples() == 0 {
		return nil, nil, fmt.Errorf("input has no samples")
	}

	backend, err := stft.ParseBackend(cfg.Backend)
	if err != nil {
		return nil, nil, err
	}
	ctx, err := stft.NewContext(cfg.NumSamples, stft.WithBackend(backend))
	if err != nil {
		return nil, nil, err
	}

	log.WithFields(logrus.Fields{
		"num":      cfg.NumSamples,
		"backend":  backend.String(),
		"shift":    cfg.Shift,
		"parallel": cfg.Parallel,
	}).Debug("processing")

	outputs := make([][]float64, len(in.Channels))
	for ch := range outputs {
		outputs[ch] = make([]float64, in.NumSamples())
	}

	start := time.Now()
	if err := stft.ProcessMulti(ctx, outputs, in.Channels, stft.Shift(cfg.Shift), cfg.Parallel); err != nil {
		return nil, nil, fmt.Errorf("processing failed: %w", err)
	}
	elapsed := time.Since(start)

	log.WithField("elapsed", elapsed).Info("time elapsed")

	out := &wavio.Audio{
		SampleRate: in.SampleRate,
		BitDepth:   in.BitDepth,
		Channels:   outputs,
	}
	stats := &processStats{
		sampleRate: in.SampleRate,
		channels:   len(in.Channels),
		bitDepth:   in.BitDepth,
		samples:    in.NumSamples(),
		blocks:     stft.BlockCount(in.NumSamples(), cfg.NumSamples),
		elapsed:    elapsed,
	}
	return out, stats, nil
}

// pinCPU pins the process to cpu, logging the allowed CPU set before and after.
func pinCPU(log *logrus.Logger, cpu int) error {
	logCPUs(log, "CPUs enabled before")
	if err := affinity.Pin(cpu); err != nil {
		return fmt.Errorf("failed to pin to CPU %d: %w", cpu, err)
	}
	logCPUs(log, "CPUs enabled after")
	return nil
}

func logCPUs(log *logrus.Logger, msg string) {
	cpus, err := affinity.Allowed()
	if err != nil {
		log.WithError(err).Warn("cannot read CPU affinity")
		return
	}
	log.WithField("cpus", affinity.Format(cpus)).Info(msg)
}

// printSummary writes the human-readable result of a run.
func printSummary(w io.Writer, inputPath, outputPath string, s *processStats) {
	_, _ = fmt.Fprintf(w, "Filtered %s -> %s\n", filepath.Base(inputPath), filepath.Base(outputPath))
	_, _ = fmt.Fprintf(w, "  %d Hz, %d channels, %d-bit, %d samples per channel\n",
		s.sampleRate, s.channels, s.bitDepth, s.samples)
	speed := 0.0
	if s.elapsed > 0 && s.sampleRate > 0 {
		speed = float64(s.samples) / float64(s.sampleRate) / s.elapsed.Seconds()
	}
	_, _ = fmt.Fprintf(w, "  %d blocks per channel, %v elapsed, %.1fx realtime\n",
		s.blocks, s.elapsed, speed)
}
