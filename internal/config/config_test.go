package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "flightusd/internal/errors"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flightusd.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars or file",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ModeLocal, cfg.Pipeline.Mode)
				assert.Equal(t, DefaultInputFile, cfg.Pipeline.InputFile)
				assert.Equal(t, DefaultOutputFile, cfg.Pipeline.OutputFile)
				assert.Nil(t, cfg.Pipeline.ExchangeRate)
				assert.Equal(t, 10*time.Second, cfg.Rates.Timeout)
				assert.Equal(t, 0.012, cfg.Rates.FallbackRate)
				assert.Equal(t, "INR", cfg.Rates.BaseCurrency)
				assert.Equal(t, "info", cfg.Logging.Level)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"FLIGHTUSD_PIPELINE_EXCHANGE_RATE": "0.0125",
				"FLIGHTUSD_PIPELINE_MODE":          "remote",
				"FLIGHTUSD_RATES_TIMEOUT":          "3s",
				"FLIGHTUSD_LOGGING_LEVEL":          "DEBUG",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				require.NotNil(t, cfg.Pipeline.ExchangeRate)
				assert.Equal(t, 0.0125, *cfg.Pipeline.ExchangeRate)
				assert.Equal(t, ModeRemote, cfg.Pipeline.Mode)
				assert.Equal(t, 3*time.Second, cfg.Rates.Timeout)
				assert.Equal(t, "debug", cfg.Logging.Level)
			},
		},
		{
			name: "file values are applied and env wins",
			file: `
logging:
  level: debug
pipeline:
  output_file: out/flights.csv
  exchange_rate: 0.011
rates:
  timeout: 5s
`,
			env: map[string]string{
				"FLIGHTUSD_LOGGING_LEVEL": "warn",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, "out/flights.csv", cfg.Pipeline.OutputFile)
				require.NotNil(t, cfg.Pipeline.ExchangeRate)
				assert.Equal(t, 0.011, *cfg.Pipeline.ExchangeRate)
				assert.Equal(t, 5*time.Second, cfg.Rates.Timeout)
				// untouched sections keep their defaults
				assert.Equal(t, DefaultRateServiceURL, cfg.Rates.BaseURL)
			},
		},
		{
			name: "kaggle credentials from plain variables",
			env: map[string]string{
				"KAGGLE_USERNAME": "traveller",
				"KAGGLE_KEY":      "secret",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "traveller", cfg.Dataset.Username)
				assert.Equal(t, "secret", cfg.Dataset.Key)
			},
		},
		{
			name:    "zero exchange rate is rejected",
			env:     map[string]string{"FLIGHTUSD_PIPELINE_EXCHANGE_RATE": "0"},
			wantErr: true,
		},
		{
			name:    "unknown mode is rejected",
			env:     map[string]string{"FLIGHTUSD_PIPELINE_MODE": "s3"},
			wantErr: true,
		},
		{
			name:    "malformed rate is rejected",
			env:     map[string]string{"FLIGHTUSD_PIPELINE_EXCHANGE_RATE": "cheap"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "pipeline: [unbalanced",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var path string
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrConfig), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_MissingFileIsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrConfig))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("file output needs a path", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Output = "file"
		cfg.Logging.FilePath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative fallback rate", func(t *testing.T) {
		cfg := Default()
		cfg.Rates.FallbackRate = -1
		err := cfg.Validate()
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrTypeConfig, apperrors.KindOf(err))
		assert.Contains(t, err.Error(), "FallbackRate")
	})

	t.Run("currencies are normalised", func(t *testing.T) {
		cfg := Default()
		cfg.Rates.BaseCurrency = "inr"
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "INR", cfg.Rates.BaseCurrency)
	})
}

func TestSummaryPath(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"airlines_flights_data_usd.csv", "airlines_flights_data_usd_summary.txt"},
		{filepath.Join("out", "flights.csv"), filepath.Join("out", "flights_summary.txt")},
		{"flights", "flights_summary.txt"},
		{"flights.tsv", "flights_summary.txt"},
		{"archive.tar.csv", "archive.tar_summary.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.output, func(t *testing.T) {
			assert.Equal(t, tt.want, SummaryPath(tt.output))
		})
	}
}

func TestConfigPaths(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.OutputFile = filepath.Join("reports", "usd.csv")
	cfg.Telemetry.MetricsFile = "metrics.prom"

	paths := cfg.Paths()
	assert.Equal(t, DefaultInputFile, paths.InputFile)
	assert.Equal(t, filepath.Join("reports", "usd_summary.txt"), paths.SummaryFile)
	assert.Equal(t, "metrics.prom", paths.MetricsFile)
	assert.Equal(t, DefaultLogFile, paths.LogFile)
}
