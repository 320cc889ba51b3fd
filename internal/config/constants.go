package config

import "time"

// Application constants
const (
	AppName    = "flightusd"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. FLIGHTUSD_RATES_TIMEOUT
	EnvPrefix = "FLIGHTUSD"

	// Default file locations, relative to the working directory
	DefaultInputFile  = "airlines_flights_data.csv"
	DefaultOutputFile = "airlines_flights_data_usd.csv"
	DefaultChartFile  = "etl_results_visualization.xlsx"
	DefaultLogFile    = "logs/flightusd.log"

	// Summary report naming
	SummarySuffix    = "_summary"
	SummaryExtension = ".txt"

	// Currency pair
	BaseCurrency   = "INR"
	TargetCurrency = "USD"

	// Exchange rate service
	DefaultRateServiceURL = "https://api.exchangerate-api.com/v4/latest"
	DefaultRateTimeout    = 10 * time.Second

	// DefaultFallbackRate is the static INR->USD rate used when the live lookup fails.
	// Approximate market rate as of November 2024.
	DefaultFallbackRate = 0.012

	// Remote dataset (Kaggle mode)
	DefaultDatasetURL     = "https://www.kaggle.com/api/v1"
	DefaultDatasetOwner   = "rohitgrewal"
	DefaultDatasetSlug    = "airlines-flights-data"
	DefaultDatasetTimeout = 5 * time.Minute

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogOutput = "console"
)

// Pipeline source modes
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)
