package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "flightusd/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Pipeline  PipelineConfig  `yaml:"pipeline" envconfig:"PIPELINE"`
	Rates     RatesConfig     `yaml:"rates" envconfig:"RATES"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PipelineConfig selects the data source and output locations of a run.
type PipelineConfig struct {
	Mode       string `yaml:"mode" envconfig:"MODE" validate:"oneof=local remote"`
	InputFile  string `yaml:"input_file" envconfig:"INPUT_FILE"`
	OutputFile string `yaml:"output_file" envconfig:"OUTPUT_FILE" validate:"required"`
	ChartFile  string `yaml:"chart_file" envconfig:"CHART_FILE"`

	// ExchangeRate pins the INR->USD rate. Nil means look it up.
	ExchangeRate *float64 `yaml:"exchange_rate" envconfig:"EXCHANGE_RATE" validate:"omitempty,gt=0"`
}

// RatesConfig contains exchange rate service configuration
type RatesConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	BaseCurrency   string        `yaml:"base_currency" envconfig:"BASE_CURRENCY" validate:"len=3"`
	TargetCurrency string        `yaml:"target_currency" envconfig:"TARGET_CURRENCY" validate:"len=3"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	FallbackRate   float64       `yaml:"fallback_rate" envconfig:"FALLBACK_RATE" validate:"gt=0"`
}

// DatasetConfig configures the remote dataset loader used in remote mode.
// Username and Key also fall back to the plain KAGGLE_USERNAME / KAGGLE_KEY variables.
type DatasetConfig struct {
	BaseURL  string        `yaml:"base_url" envconfig:"BASE_URL" validate:"required,url"`
	Owner    string        `yaml:"owner" envconfig:"OWNER" validate:"required"`
	Slug     string        `yaml:"slug" envconfig:"SLUG" validate:"required"`
	Username string        `yaml:"username" envconfig:"KAGGLE_USERNAME"`
	Key      string        `yaml:"key" envconfig:"KAGGLE_KEY"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
}

// TelemetryConfig controls tracing and the metrics textfile written at the end of a run.
type TelemetryConfig struct {
	TracingEnabled bool   `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED"`
	TraceFile      string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile    string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Pipeline: PipelineConfig{
			Mode:       ModeLocal,
			InputFile:  DefaultInputFile,
			OutputFile: DefaultOutputFile,
			ChartFile:  DefaultChartFile,
		},
		Rates: RatesConfig{
			BaseURL:        DefaultRateServiceURL,
			BaseCurrency:   BaseCurrency,
			TargetCurrency: TargetCurrency,
			Timeout:        DefaultRateTimeout,
			FallbackRate:   DefaultFallbackRate,
		},
		Dataset: DatasetConfig{
			BaseURL: DefaultDatasetURL,
			Owner:   DefaultDatasetOwner,
			Slug:    DefaultDatasetSlug,
			Timeout: DefaultDatasetTimeout,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty configFile means
// search the usual locations. A .env file in the working directory is loaded
// into the environment first when present.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.NewConfigError("failed to load .env file", err)
	}

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("path", configFile)
		}
	}

	// Env fields without a value leave the file/default value untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays YAML file values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks field constraints declared in the struct tags. Failures are CONFIG errors.
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Pipeline.Mode = strings.ToLower(c.Pipeline.Mode)
	c.Rates.BaseCurrency = strings.ToUpper(c.Rates.BaseCurrency)
	c.Rates.TargetCurrency = strings.ToUpper(c.Rates.TargetCurrency)

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return apperrors.NewConfigError("config validation failed", fmt.Errorf("invalid fields: %s", strings.Join(fields, ", ")))
		}
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"flightusd.yaml",
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}
