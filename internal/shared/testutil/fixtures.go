package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// FlightColumns is the header of the published airline flights dataset
var FlightColumns = []string{
	"index", "airline", "flight", "source_city", "departure_time", "stops",
	"arrival_time", "destination_city", "class", "duration", "days_left", "price",
}

var (
	airlines = []string{"Vistara", "Air_India", "Indigo", "SpiceJet"}
	cities   = []string{"Delhi", "Mumbai", "Bangalore", "Kolkata", "Hyderabad"}
	stops    = []string{"zero", "one", "two_or_more"}
	classes  = []string{"Economy", "Business"}
)

// FlightRows returns n deterministic rows whose price is 1000, 2000, ..., n*1000
func FlightRows(n int) [][]string {
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		src := cities[i%len(cities)]
		dst := cities[(i+1)%len(cities)]
		rows[i] = []string{
			strconv.Itoa(i),
			airlines[i%len(airlines)],
			"AI-" + strconv.Itoa(100+i),
			src,
			"Morning",
			stops[i%len(stops)],
			"Night",
			dst,
			classes[i%len(classes)],
			"2.17",
			strconv.Itoa(1 + i%49),
			strconv.Itoa((i + 1) * 1000),
		}
	}
	return rows
}

// FlightCSV renders header and rows as CSV text
func FlightCSV(t *testing.T, header []string, rows [][]string) string {
	t.Helper()

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return sb.String()
}

// WriteFlightCSV writes n flight rows to name inside a temp dir and returns the path
func WriteFlightCSV(t *testing.T, name string, n int) string {
	t.Helper()
	return WriteFile(t, name, FlightCSV(t, FlightColumns, FlightRows(n)))
}

// WriteFile writes content to name inside a temp dir and returns the path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ReadCSVFile reads a CSV file back into header and rows
func ReadCSVFile(t *testing.T, path string) ([]string, [][]string) {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], records[1:]
}
