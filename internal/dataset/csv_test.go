package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flightusd/internal/shared/testutil"
)

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCols []string
		wantRows int
		wantErr  string
	}{
		{
			name:     "header and rows",
			input:    "airline,price\nVistara,5953\nIndigo,5956\n",
			wantCols: []string{"airline", "price"},
			wantRows: 2,
		},
		{
			name:     "header only",
			input:    "airline,price\n",
			wantCols: []string{"airline", "price"},
			wantRows: 0,
		},
		{
			name:     "utf8 bom and quoted header",
			input:    "\xEF\xBB\xBF\"airline\",price\nVistara,1\n",
			wantCols: []string{"airline", "price"},
			wantRows: 1,
		},
		{
			name:     "trims header names",
			input:    " airline , price\nVistara,1\n",
			wantCols: []string{"airline", "price"},
			wantRows: 1,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: "no header row",
		},
		{
			name:    "ragged row",
			input:   "airline,price\nVistara\n",
			wantErr: "malformed csv",
		},
		{
			name:    "duplicate header",
			input:   "price,price\n1,2\n",
			wantErr: "duplicate header",
		},
		{
			name:     "unnamed index column",
			input:    ",airline,price\n0,Vistara,5953\n1,Indigo,5956\n",
			wantCols: []string{"Unnamed: 0", "airline", "price"},
			wantRows: 2,
		},
		{
			name:    "unnamed column clashes with named one",
			input:   ",Unnamed: 0,price\n1,2,3\n",
			wantErr: "duplicate header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := ReadCSV(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, table.Columns)
			assert.Equal(t, tt.wantRows, table.Len())
		})
	}
}

func TestFileSource_Load(t *testing.T) {
	path := testutil.WriteFlightCSV(t, "flights.csv", 5)
	logger, handler := testutil.NewTestLogger(t)

	src := NewFileSource(path, logger)
	assert.Equal(t, path, src.Name())

	table, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testutil.FlightColumns, table.Columns)
	assert.Equal(t, 5, table.Len())
	assert.Equal(t, "5000", table.Rows[4][table.ColumnIndex("price")])
	assert.True(t, handler.ContainsMessage("CSV file parsed"))
}

func TestFileSource_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	tests := []struct {
		name string
		path string
	}{
		{"no path", ""},
		{"missing file", filepath.Join(dir, "nope.csv")},
		{"empty file", empty},
		{"directory", dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileSource(tt.path, nil).Load(context.Background())
			assert.Error(t, err)
		})
	}
}
