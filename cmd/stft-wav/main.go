// Command stft-wav runs every channel of a WAV file through the STFT engine
// with a spectral shift filter and writes the result.
//
// Usage:
//
//	stft-wav -i input.wav -o output.wav -n 128
//	stft-wav -i input.wav -o output.wav -n 512 -c 2          # pin to CPU 2
//	stft-wav -i input.wav -o output.wav --shift 0            # identity filter
//	stft-wav -i input.wav -o output.wav --backend algofft    # power-of-two blocks
//	stft-wav --config stft.yaml -i input.wav -o output.wav
//
// Settings come from built-in defaults, then the YAML file, then STFT_*
// environment variables, then explicitly set flags.
package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tphakala/go-audio-stft/internal/config"
)

// options holds the raw command-line flags.
type options struct {
	inputPath  string
	outputPath string
	configPath string
	cpuProfile string
	cpu        int
	num        int
	shift      int
	backend    string
	parallel   bool
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Error("stft-wav failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "stft-wav -i input.wav -o output.wav",
		Short:         "Filter a WAV file in the STFT domain",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, opts, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := newLogger(cfg.LogLevel, opts.verbose, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if opts.cpuProfile != "" {
				stop, err := startProfile(opts.cpuProfile)
				if err != nil {
					return err
				}
				defer stop()
			}

			stats, err := run(log, opts.inputPath, opts.outputPath, cfg)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), opts.inputPath, opts.outputPath, stats)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.inputPath, "in", "i", "", "Input WAV file")
	flags.StringVarP(&opts.outputPath, "out", "o", "", "Output WAV file")
	flags.IntVarP(&opts.cpu, "cpu", "c", config.DefaultCPU, "CPU to pin the process to (negative disables pinning)")
	flags.IntVarP(&opts.num, "num", "n", config.DefaultNumSamples, "Number of new samples per block (N)")
	flags.IntVar(&opts.shift, "shift", config.DefaultShift, "Spectral shift in packed coefficients (0 = identity)")
	flags.StringVar(&opts.backend, "backend", config.DefaultBackend, "FFT backend: gonum or algofft")
	flags.BoolVar(&opts.parallel, "parallel", config.DefaultParallel, "Process channels concurrently")
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file (default ./"+config.DefaultFile+" if present)")
	flags.StringVar(&opts.cpuProfile, "cpuprofile", "", "Write CPU profile to file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output (debug logging)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("cpu") {
		cfg.CPU = opts.cpu
	}
	if flags.Changed("num") {
		cfg.NumSamples = opts.num
	}
	if flags.Changed("shift") {
		cfg.Shift = opts.shift
	}
	if flags.Changed("backend") {
		cfg.Backend = opts.backend
	}
	if flags.Changed("parallel") {
		cfg.Parallel = opts.parallel
	}
}

// startProfile starts CPU profiling into path and returns the stop function.
func startProfile(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("could not start CPU profile: %w", err)
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}
