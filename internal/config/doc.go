// Package config provides configuration management for the flightusd batch job.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (flightusd.yaml, config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// A .env file in the working directory is loaded into the environment before
// the variables are read.
//
// # Environment Variables
//
// All environment variables follow the pattern FLIGHTUSD_<SECTION>_<FIELD>:
//
//	FLIGHTUSD_PIPELINE_EXCHANGE_RATE=0.012
//	FLIGHTUSD_RATES_TIMEOUT=10s
//	FLIGHTUSD_LOGGING_LEVEL=debug
//	KAGGLE_USERNAME=... KAGGLE_KEY=...
//
// # Validation
//
// Field constraints are declared as validator struct tags and checked at load
// time, so a pinned exchange rate that is zero or negative never reaches a run.
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary := config.SummaryPath(cfg.Pipeline.OutputFile)
package config
