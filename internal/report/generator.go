// Package report renders the fixed-format text summary written next to the
// converted flight data.
package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"flightusd/internal/config"
	"flightusd/internal/dataset"
)

const (
	heavyRule = "============================================================"
	lightRule = "------------------------------------------------------------"

	timestampLayout = "2006-01-02 15:04:05"
)

// Meta identifies a run for the report header. Rate and ConversionDate are
// used only when the table has no rows to read them from.
type Meta struct {
	InputFile      string
	OutputFile     string
	Rate           string
	RateSource     string
	ConversionDate string
}

// Summary is the aggregate a report is rendered from
type Summary struct {
	ExecutedAt     time.Time
	InputFile      string
	OutputFile     string
	Records        int
	Rate           string
	RateSource     string
	ConversionDate string
	INR            dataset.Stats
	USD            dataset.Stats
	Missing        []dataset.FieldCount
}

// Generator builds and writes summary reports
type Generator struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewGenerator creates a generator. now defaults to time.Now.
func NewGenerator(logger *slog.Logger, now func() time.Time) *Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{logger: logger, now: now}
}

// Summarize aggregates a converted table. The rate and conversion date are
// taken from the first record.
func (g *Generator) Summarize(table *dataset.Table, meta Meta) (*Summary, error) {
	s := &Summary{
		ExecutedAt:     g.now(),
		InputFile:      meta.InputFile,
		OutputFile:     meta.OutputFile,
		Records:        table.Len(),
		Rate:           meta.Rate,
		RateSource:     meta.RateSource,
		ConversionDate: meta.ConversionDate,
		Missing:        table.MissingCounts(),
	}

	if table.Len() > 0 {
		first := table.Rows[0]
		if idx := table.ColumnIndex(dataset.FieldExchangeRateUsed); idx >= 0 {
			s.Rate = first[idx]
		}
		if idx := table.ColumnIndex(dataset.FieldConversionDate); idx >= 0 {
			s.ConversionDate = first[idx]
		}
	}

	var err error
	if s.INR, err = table.DescribeColumn(dataset.FieldPriceINR); err != nil {
		return nil, err
	}
	if s.USD, err = table.DescribeColumn(dataset.FieldPriceUSD); err != nil {
		return nil, err
	}

	return s, nil
}

// Render formats the summary as report text
func (s *Summary) Render() string {
	var b strings.Builder

	fmt.Fprintln(&b, heavyRule)
	fmt.Fprintln(&b, "ETL PIPELINE SUMMARY REPORT")
	fmt.Fprintln(&b, heavyRule)
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Execution Date: %s\n", s.ExecutedAt.Format(timestampLayout))
	fmt.Fprintf(&b, "Input File: %s\n", s.InputFile)
	fmt.Fprintf(&b, "Output File: %s\n", s.OutputFile)
	fmt.Fprintf(&b, "Total Records Processed: %d\n", s.Records)
	fmt.Fprintln(&b)

	section(&b, "CURRENCY CONVERSION")
	fmt.Fprintf(&b, "Exchange Rate Used: 1 INR = $%s USD\n", s.Rate)
	if s.RateSource != "" {
		fmt.Fprintf(&b, "Rate Source: %s\n", s.RateSource)
	}
	fmt.Fprintf(&b, "Conversion Date: %s\n", s.ConversionDate)
	fmt.Fprintln(&b)

	section(&b, "PRICE STATISTICS")
	writeStats(&b, "Original Prices (INR):", "₹", s.INR)
	fmt.Fprintln(&b)
	writeStats(&b, "Converted Prices (USD):", "$", s.USD)
	fmt.Fprintln(&b)

	section(&b, "DATA QUALITY")
	if len(s.Missing) == 0 {
		fmt.Fprintln(&b, "No missing values detected")
	} else {
		fmt.Fprintln(&b, "Missing Values:")
		for _, m := range s.Missing {
			fmt.Fprintf(&b, "  %s: %d\n", m.Field, m.Count)
		}
	}

	fmt.Fprintln(&b)
	fmt.Fprintln(&b, heavyRule)
	return b.String()
}

func section(b *strings.Builder, title string) {
	fmt.Fprintln(b, lightRule)
	fmt.Fprintln(b, title)
	fmt.Fprintln(b, lightRule)
}

func writeStats(b *strings.Builder, title, symbol string, st dataset.Stats) {
	fmt.Fprintln(b, title)
	fmt.Fprintf(b, "  Minimum: %s\n", Money(symbol, st.Min, st.Empty()))
	fmt.Fprintf(b, "  Maximum: %s\n", Money(symbol, st.Max, st.Empty()))
	fmt.Fprintf(b, "  Average: %s\n", Money(symbol, st.Mean, st.Empty()))
	fmt.Fprintf(b, "  Median:  %s\n", Money(symbol, st.Median, st.Empty()))
}

// Money renders v thousands-grouped with two decimals, or n/a when empty
func Money(symbol string, v float64, empty bool) string {
	if empty {
		return "n/a"
	}
	return symbol + humanize.FormatFloat("#,###.##", v)
}

// Generate summarizes table and writes the report next to meta.OutputFile.
// It returns the report path.
func (g *Generator) Generate(ctx context.Context, table *dataset.Table, meta Meta) (string, error) {
	summary, err := g.Summarize(table, meta)
	if err != nil {
		return "", fmt.Errorf("failed to summarize: %w", err)
	}

	path := config.SummaryPath(meta.OutputFile)
	if err := os.WriteFile(path, []byte(summary.Render()), 0644); err != nil {
		return "", fmt.Errorf("failed to write summary report: %w", err)
	}

	g.logger.InfoContext(ctx, "Summary report created",
		slog.String("path", path),
		slog.Int("records", summary.Records))
	return path, nil
}
