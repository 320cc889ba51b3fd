package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbookWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "results.xlsx")

	sheets := []ChartSheet{
		{
			Name:        "Airlines",
			Title:       "Average Price by Airline",
			Kind:        BarChart,
			LabelHeader: "airline",
			ValueHeader: "avg_price_usd",
			Labels:      []string{"Indigo", "Vistara"},
			Values:      []float64{60.5, 90.25},
		},
		{
			Name:        "Classes",
			Title:       "Average Price by Class",
			Kind:        ColumnChart,
			LabelHeader: "class",
			ValueHeader: "avg_price_usd",
			Labels:      []string{"Business"},
			Values:      []float64{630},
		},
		{
			Name:        "Empty",
			Title:       "Nothing",
			LabelHeader: "label",
			ValueHeader: "value",
		},
	}

	require.NoError(t, NewWorkbookWriter(nil).Write(context.Background(), path, sheets))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Airlines", "Classes", "Empty"}, f.GetSheetList())

	rows, err := f.GetRows("Airlines")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"airline", "avg_price_usd"}, rows[0])
	assert.Equal(t, []string{"Vistara", "90.25"}, rows[2])
}

func TestWorkbookWriter_Errors(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bad.xlsx")

	assert.Error(t, NewWorkbookWriter(nil).Write(ctx, path, nil))

	mismatched := []ChartSheet{{Name: "Bad", Labels: []string{"a"}, Values: nil}}
	assert.Error(t, NewWorkbookWriter(nil).Write(ctx, path, mismatched))
}
