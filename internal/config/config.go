// Package config loads stft-wav settings from built-in defaults, an optional
// YAML file and STFT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default values used when neither a file nor the environment set a field.
const (
	DefaultNumSamples = 128
	DefaultCPU        = -1 // no pinning
	DefaultShift      = 4
	DefaultBackend    = "gonum"
	DefaultLogLevel   = "info"
	DefaultParallel   = true

	// DefaultFile is looked up in the working directory when no path is given.
	DefaultFile = "stft.yaml"
)

// Environment variables that override file and default values.
const (
	EnvNumSamples = "STFT_NUM"
	EnvCPU        = "STFT_CPU"
	EnvShift      = "STFT_SHIFT"
	EnvBackend    = "STFT_BACKEND"
	EnvLogLevel   = "STFT_LOG_LEVEL"
	EnvParallel   = "STFT_PARALLEL"
)

// maxNumSamples caps N so a typo cannot request a multi-gigabyte block.
const maxNumSamples = 1 << 22

// ErrInvalidConfig indicates a configuration value outside its valid range.
var ErrInvalidConfig = errors.New("invalid configuration")

var validLogLevels = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}

// Config holds the stft-wav settings.
type Config struct {
	NumSamples int    `yaml:"num"`       // New samples per block (N).
	CPU        int    `yaml:"cpu"`       // CPU to pin the process to; negative disables pinning.
	Shift      int    `yaml:"shift"`     // Packed-spectrum shift applied by the filter; 0 is identity.
	Backend    string `yaml:"backend"`   // FFT backend: "gonum" or "algofft".
	Parallel   bool   `yaml:"parallel"`  // Process channels concurrently.
	LogLevel   string `yaml:"log_level"` // logrus level name.
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		NumSamples: DefaultNumSamples,
		CPU:        DefaultCPU,
		Shift:      DefaultShift,
		Backend:    DefaultBackend,
		Parallel:   DefaultParallel,
		LogLevel:   DefaultLogLevel,
	}
}

// Load builds the configuration from defaults, the YAML file at path and the
// environment. An empty path falls back to DefaultFile if it exists, and to
// defaults otherwise. A non-empty path that cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field is in range.
func (c *Config) Validate() error {
	if c.NumSamples < 1 || c.NumSamples > maxNumSamples {
		return fmt.Errorf("%w: num must be in [1, %d], got %d", ErrInvalidConfig, maxNumSamples, c.NumSamples)
	}

	switch strings.ToLower(c.Backend) {
	case "gonum", "algofft", "algo-fft":
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	}

	return nil
}

// PinningEnabled reports whether a CPU was requested.
func (c *Config) PinningEnabled() bool {
	return c.CPU >= 0
}

// applyEnvOverrides applies STFT_* variables. Malformed numbers are errors
// rather than silently ignored.
func (c *Config) applyEnvOverrides() error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvNumSamples, &c.NumSamples},
		{EnvCPU, &c.CPU},
		{EnvShift, &c.Shift},
	}
	for _, o := range ints {
		val, ok := os.LookupEnv(o.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, o.key, val)
		}
		*o.dst = n
	}

	if val, ok := os.LookupEnv(EnvParallel); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, EnvParallel, val)
		}
		c.Parallel = b
	}

	if val, ok := os.LookupEnv(EnvBackend); ok {
		c.Backend = strings.TrimSpace(val)
	}
	if val, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = strings.TrimSpace(val)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	level = strings.ToLower(level)
	for _, l := range validLogLevels {
		if l == level {
			return true
		}
	}
	return false
}
