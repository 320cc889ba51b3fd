// Command etl converts the airline flights dataset from INR to USD.
//
// Usage:
//
//	etl [-kaggle] [-in airlines_flights_data.csv] [-out airlines_flights_data_usd.csv] [-rate 0.012] [-config flightusd.yaml]
//
// The converted CSV is written to -out and a summary report next to it.
// Without -rate the current rate is fetched, falling back to a fixed rate
// when the rate service cannot be reached.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"flightusd/internal/config"
	"flightusd/internal/dataset"
	"flightusd/internal/infrastructure"
	"flightusd/internal/pipeline"
	"flightusd/internal/rates"
)

var rule = strings.Repeat("=", 60)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one conversion and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("etl", flag.ContinueOnError)
	flags.SetOutput(stderr)

	var kaggle bool
	flags.BoolVar(&kaggle, "kaggle", false, "load the dataset from the Kaggle API instead of a local file")
	flags.BoolVar(&kaggle, "k", false, "shorthand for -kaggle")
	inFile := flags.String("in", "", "input CSV file (default "+config.DefaultInputFile+")")
	outFile := flags.String("out", "", "output CSV file (default "+config.DefaultOutputFile+")")
	configFile := flags.String("config", "", "YAML configuration file")

	var explicitRate *float64
	flags.Func("rate", "fixed INR to USD exchange rate, skips the live lookup", func(s string) error {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid rate %q", s)
		}
		if v <= 0 {
			return fmt.Errorf("rate must be positive, got %v", v)
		}
		explicitRate = &v
		return nil
	})

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	if kaggle {
		cfg.Pipeline.Mode = config.ModeRemote
	}
	if *inFile != "" {
		cfg.Pipeline.InputFile = *inFile
	}
	if *outFile != "" {
		cfg.Pipeline.OutputFile = *outFile
	}
	if explicitRate != nil {
		cfg.Pipeline.ExchangeRate = explicitRate
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer closeLog()

	telemetry, err := infrastructure.NewTelemetry(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("Telemetry disabled", "error", err)
		telemetry = infrastructure.NoopTelemetry()
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}()

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.GenerateRunID())

	opts := pipeline.Options{
		Mode:         cfg.Pipeline.Mode,
		InputFile:    cfg.Pipeline.InputFile,
		OutputFile:   cfg.Pipeline.OutputFile,
		ExchangeRate: cfg.Pipeline.ExchangeRate,
		Rates:        rates.NewResolver(cfg.Rates, nil, infrastructure.WithComponent(logger, "rates")),
		Logger:       logger,
		Telemetry:    telemetry,
	}

	if cfg.Pipeline.Mode == config.ModeRemote {
		loader := dataset.NewRemoteLoader(cfg.Dataset, nil, infrastructure.WithComponent(logger, "dataset"))
		opts.Loader = loader
		fmt.Fprintf(stdout, "Using Kaggle API to fetch data (%s)...\n", loader.Name())
		if cfg.Dataset.Username == "" {
			fmt.Fprintln(stdout, "Note: set KAGGLE_USERNAME and KAGGLE_KEY, or add them to .env")
		}
		fmt.Fprintln(stdout)
	}

	result := pipeline.New(opts).Run(ctx)
	if !result.OK() {
		fmt.Fprintln(stdout, "\nETL process failed. Check logs for details.")
		return 1
	}

	printBanner(stdout, cfg, result)
	return 0
}

func printBanner(w io.Writer, cfg *config.Config, result pipeline.Result) {
	fmt.Fprintf(w, "\n%s\nETL PROCESS COMPLETED SUCCESSFULLY!\n%s\n", rule, rule)
	if cfg.Pipeline.Mode == config.ModeRemote {
		fmt.Fprintf(w, "✓ Data source: Kaggle API (%s/%s)\n", cfg.Dataset.Owner, cfg.Dataset.Slug)
	} else {
		fmt.Fprintf(w, "✓ Input file:  %s\n", cfg.Pipeline.InputFile)
	}
	fmt.Fprintf(w, "✓ Output file: %s\n", result.OutputFile)
	fmt.Fprintf(w, "✓ Summary:     %s\n", result.SummaryFile)
	fmt.Fprintf(w, "✓ Records:     %s\n", humanize.Comma(int64(result.Records)))
	if result.Context != nil {
		fmt.Fprintf(w, "✓ Rate:        1 INR = $%s USD (%s)\n", result.Context.RateText(), result.Context.Source)
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "\nTip: Use -kaggle or -k flag to load data from the Kaggle API")
	fmt.Fprintln(w, "     etl -kaggle")
}
