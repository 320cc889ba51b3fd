package config

import (
	"path/filepath"
	"strings"
)

// Paths contains every file location touched by a run, derived from the configuration
type Paths struct {
	InputFile   string
	OutputFile  string
	SummaryFile string
	ChartFile   string
	LogFile     string
	MetricsFile string
	TraceFile   string
}

// Paths resolves the file locations for this configuration
func (c *Config) Paths() Paths {
	return Paths{
		InputFile:   c.Pipeline.InputFile,
		OutputFile:  c.Pipeline.OutputFile,
		SummaryFile: SummaryPath(c.Pipeline.OutputFile),
		ChartFile:   c.Pipeline.ChartFile,
		LogFile:     c.Logging.FilePath,
		MetricsFile: c.Telemetry.MetricsFile,
		TraceFile:   c.Telemetry.TraceFile,
	}
}

// SummaryPath returns the summary report location for an output file: the same
// directory and base name with the extension replaced by "_summary.txt".
//
//	data/flights_usd.csv -> data/flights_usd_summary.txt
//	flights_usd          -> flights_usd_summary.txt
func SummaryPath(outputFile string) string {
	dir, base := filepath.Split(outputFile)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return dir + base + SummarySuffix + SummaryExtension
}
