package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// ChartKind selects the chart orientation
type ChartKind int

const (
	// ColumnChart draws vertical bars
	ColumnChart ChartKind = iota
	// BarChart draws horizontal bars
	BarChart
)

// ChartSheet is one worksheet holding a label/value table and a chart over it
type ChartSheet struct {
	Name        string
	Title       string
	Kind        ChartKind
	LabelHeader string
	ValueHeader string
	Labels      []string
	Values      []float64
}

// WorkbookWriter renders chart sheets into an XLSX workbook
type WorkbookWriter struct {
	logger *slog.Logger
}

// NewWorkbookWriter creates a workbook writer
func NewWorkbookWriter(logger *slog.Logger) *WorkbookWriter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &WorkbookWriter{logger: logger}
}

// Write saves one worksheet per chart sheet to path
func (w *WorkbookWriter) Write(ctx context.Context, path string, sheets []ChartSheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no chart sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if len(sheet.Labels) != len(sheet.Values) {
			return fmt.Errorf("sheet %s has %d labels for %d values", sheet.Name, len(sheet.Labels), len(sheet.Values))
		}

		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
				return fmt.Errorf("failed to name sheet %s: %w", sheet.Name, err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}

		if err := writeChartSheet(f, sheet); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet.Name, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.InfoContext(ctx, "Workbook written",
		slog.String("path", path),
		slog.Int("sheets", len(sheets)))
	return nil
}

func writeChartSheet(f *excelize.File, sheet ChartSheet) error {
	header := []interface{}{sheet.LabelHeader, sheet.ValueHeader}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, label := range sheet.Labels {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{label, sheet.Values[i]}
		if err := f.SetSheetRow(sheet.Name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if len(sheet.Labels) == 0 {
		return nil
	}

	last := len(sheet.Labels) + 1
	chartType := excelize.Col
	if sheet.Kind == BarChart {
		chartType = excelize.Bar
	}

	return f.AddChart(sheet.Name, "D2", &excelize.Chart{
		Type: chartType,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", sheet.Name),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet.Name, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet.Name, last),
		}},
		Title:     []excelize.RichTextRun{{Text: sheet.Title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: 720, Height: 400},
	})
}
