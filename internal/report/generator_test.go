package report

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightusd/internal/dataset"
	"flightusd/internal/shared/testutil"
)

var fixedNow = func() time.Time {
	return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
}

var convertedColumns = []string{
	"airline", "price", "price_inr", "price_usd", "currency", "exchange_rate_used", "conversion_date",
}

func TestSummary_Render(t *testing.T) {
	table := &dataset.Table{
		Columns: convertedColumns,
		Rows: [][]string{
			{"Vistara", "1000", "1000", "12.00", "USD", "0.012", "2026-10-14"},
			{"Indigo", "", "", "", "USD", "0.012", "2026-10-14"},
		},
	}

	summary, err := NewGenerator(nil, fixedNow).Summarize(table, Meta{
		InputFile:  "airlines_flights_data.csv",
		OutputFile: "airlines_flights_data_usd.csv",
		RateSource: "explicit",
	})
	require.NoError(t, err)

	want := `============================================================
ETL PIPELINE SUMMARY REPORT
============================================================

Execution Date: 2026-10-14 09:30:00
Input File: airlines_flights_data.csv
Output File: airlines_flights_data_usd.csv
Total Records Processed: 2

------------------------------------------------------------
CURRENCY CONVERSION
------------------------------------------------------------
Exchange Rate Used: 1 INR = $0.012 USD
Rate Source: explicit
Conversion Date: 2026-10-14

------------------------------------------------------------
PRICE STATISTICS
------------------------------------------------------------
Original Prices (INR):
  Minimum: ₹1,000.00
  Maximum: ₹1,000.00
  Average: ₹1,000.00
  Median:  ₹1,000.00

Converted Prices (USD):
  Minimum: $12.00
  Maximum: $12.00
  Average: $12.00
  Median:  $12.00

------------------------------------------------------------
DATA QUALITY
------------------------------------------------------------
Missing Values:
  price: 1
  price_inr: 1
  price_usd: 1

============================================================
`
	assert.Equal(t, want, summary.Render())
}

func TestGenerator_Generate(t *testing.T) {
	rows := make([][]string, 100)
	for i := range rows {
		inr := (i + 1) * 1000
		usd := strconv.FormatFloat(float64(inr)*0.012, 'f', 2, 64)
		rows[i] = []string{"Vistara", strconv.Itoa(inr), strconv.Itoa(inr), usd, "USD", "0.012", "2026-10-14"}
	}
	table := &dataset.Table{Columns: convertedColumns, Rows: rows}

	output := filepath.Join(t.TempDir(), "flights_usd.csv")
	logger, handler := testutil.NewTestLogger(t)

	path, err := NewGenerator(logger, fixedNow).Generate(context.Background(), table, Meta{
		InputFile:  "flights.csv",
		OutputFile: output,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(output), "flights_usd_summary.txt"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)

	assert.Contains(t, text, "Total Records Processed: 100\n")
	assert.Contains(t, text, "Exchange Rate Used: 1 INR = $0.012 USD\n")
	assert.NotContains(t, text, "Rate Source:")
	assert.Contains(t, text, "  Minimum: ₹1,000.00\n")
	assert.Contains(t, text, "  Maximum: ₹100,000.00\n")
	assert.Contains(t, text, "  Average: ₹50,500.00\n")
	assert.Contains(t, text, "  Median:  ₹50,500.00\n")
	assert.Contains(t, text, "  Maximum: $1,200.00\n")
	assert.Contains(t, text, "  Average: $606.00\n")
	assert.Contains(t, text, "No missing values detected\n")
	assert.True(t, handler.ContainsMessage("Summary report created"))
}

func TestGenerator_EmptyTable(t *testing.T) {
	table := &dataset.Table{Columns: convertedColumns}

	summary, err := NewGenerator(nil, fixedNow).Summarize(table, Meta{
		Rate:           "0.012",
		RateSource:     "fallback",
		ConversionDate: "2026-10-14",
	})
	require.NoError(t, err)

	text := summary.Render()
	assert.Contains(t, text, "Total Records Processed: 0\n")
	assert.Contains(t, text, "Exchange Rate Used: 1 INR = $0.012 USD\n")
	assert.Contains(t, text, "Conversion Date: 2026-10-14\n")
	assert.Contains(t, text, "  Minimum: n/a\n")
}

func TestGenerator_Errors(t *testing.T) {
	gen := NewGenerator(nil, fixedNow)

	noDerived := &dataset.Table{Columns: []string{"price"}, Rows: [][]string{{"1"}}}
	_, err := gen.Generate(context.Background(), noDerived, Meta{OutputFile: filepath.Join(t.TempDir(), "x.csv")})
	assert.Error(t, err)

	table := &dataset.Table{Columns: convertedColumns}
	_, err = gen.Generate(context.Background(), table, Meta{OutputFile: filepath.Join(t.TempDir(), "missing", "x.csv")})
	assert.Error(t, err)
}

func TestMoney(t *testing.T) {
	assert.Equal(t, "₹1,234,567.89", Money("₹", 1234567.891, false))
	assert.Equal(t, "$0.00", Money("$", 0, false))
	assert.Equal(t, "$999.50", Money("$", 999.5, false))
	assert.Equal(t, "n/a", Money("$", 12, true))
}
