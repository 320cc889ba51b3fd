// Package exporter writes pipeline output: the converted flight table as CSV
// and the chart workbook produced by the visualization command.
//
// CSV output is written to a temporary file in the destination directory and
// renamed into place, so a reader never sees a partially written file.
package exporter
