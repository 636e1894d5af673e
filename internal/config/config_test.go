package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// clearEnv unsets every STFT_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvNumSamples, EnvCPU, EnvShift, EnvBackend, EnvLogLevel, EnvParallel} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, cfg.PinningEnabled())
}

func TestLoad_DefaultFileInWorkingDirectory(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFile), []byte("num: 256\n"), 0o644))
	t.Chdir(dir)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.NumSamples)
}

func TestLoad_YAML(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, `
num: 512
cpu: 2
shift: 0
backend: algofft
parallel: false
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		NumSamples: 512,
		CPU:        2,
		Shift:      0,
		Backend:    "algofft",
		Parallel:   false,
		LogLevel:   "debug",
	}, cfg)
	assert.True(t, cfg.PinningEnabled())
}

func TestLoad_PartialYAMLKeepsDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeTempConfig(t, "shift: 8\n"))
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Shift)
	assert.Equal(t, DefaultNumSamples, cfg.NumSamples)
	assert.Equal(t, DefaultBackend, cfg.Backend)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeTempConfig(t, "num: 512\nbackend: gonum\n")
	t.Setenv(EnvNumSamples, "1024")
	t.Setenv(EnvCPU, "3")
	t.Setenv(EnvShift, "-2")
	t.Setenv(EnvBackend, "algofft")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvParallel, "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.NumSamples)
	assert.Equal(t, 3, cfg.CPU)
	assert.Equal(t, -2, cfg.Shift)
	assert.Equal(t, "algofft", cfg.Backend)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Parallel)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr error
		wantMsg string
	}{
		{name: "bad yaml", yaml: ":\n:bad", wantMsg: "failed to parse config file"},
		{name: "zero num", yaml: "num: 0\n", wantErr: ErrInvalidConfig},
		{name: "huge num", yaml: "num: 99999999\n", wantErr: ErrInvalidConfig},
		{name: "unknown backend", yaml: "backend: fftw\n", wantErr: ErrInvalidConfig},
		{name: "unknown level", yaml: "log_level: loud\n", wantErr: ErrInvalidConfig},
		{name: "env not int", env: map[string]string{EnvNumSamples: "many"}, wantErr: ErrInvalidConfig},
		{name: "env not bool", env: map[string]string{EnvParallel: "sometimes"}, wantErr: ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(writeTempConfig(t, tt.yaml))
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}
