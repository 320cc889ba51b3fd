// Command visualize analyzes the converted flights CSV written by etl. It
// prints a summary of prices by airline, class, stops and route, and saves
// charts of the same figures to an Excel workbook.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"flightusd/internal/config"
	"flightusd/internal/dataset"
	"flightusd/internal/exporter"
	"flightusd/internal/infrastructure"
	"flightusd/internal/insights"
	"flightusd/internal/validation"
)

var rule = strings.Repeat("=", 70)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("visualize", flag.ContinueOnError)
	flags.SetOutput(stderr)
	inFile := flags.String("in", "", "converted CSV file (default "+config.DefaultOutputFile+")")
	chartFile := flags.String("chart", "", "chart workbook to write (default "+config.DefaultChartFile+")")
	configFile := flags.String("config", "", "YAML configuration file")
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
	input := cfg.Pipeline.OutputFile
	if *inFile != "" {
		input = *inFile
	}
	chart := cfg.Pipeline.ChartFile
	if *chartFile != "" {
		chart = *chartFile
	}
	if chart == "" {
		chart = config.DefaultChartFile
	}

	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer closeLog()

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.GenerateRunID())

	fmt.Fprintf(stdout, "%s\nETL RESULTS VISUALIZATION\n%s\n\n", rule, rule)

	if err := validation.NewFileValidator(logger).ValidateInputFile(input); err != nil {
		if errors.Is(err, validation.ErrNotFound) {
			fmt.Fprintf(stdout, "Error: %s not found!\n", input)
			fmt.Fprintln(stdout, "Please run the ETL pipeline first: etl")
		} else {
			fmt.Fprintf(stdout, "Error: %v\n", err)
		}
		return 1
	}

	table, err := dataset.NewFileSource(input, logger).Load(ctx)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "✓ Loaded %s records from %s\n", humanize.Comma(int64(table.Len())), input)

	ins, err := insights.Analyze(table)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return 1
	}
	if err := ins.Print(stdout); err != nil {
		logger.ErrorContext(ctx, "Failed to print insights", "error", err)
		return 1
	}

	fmt.Fprintln(stdout, "\nCreating visualizations...")
	if err := exporter.NewWorkbookWriter(logger).Write(ctx, chart, ins.ChartSheets()); err != nil {
		fmt.Fprintf(stdout, "Error: failed to save visualization: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "✓ Visualization saved to: %s\n", chart)
	fmt.Fprintln(stdout, "\n✓ Analysis complete!")
	return 0
}
