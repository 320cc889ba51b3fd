package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Loader produces the flight table for a run
type Loader interface {
	Load(ctx context.Context) (*Table, error)
	Name() string
}

// ReadCSV parses a header row and data rows. Every row must have as many
// fields as the header and header names must be unique. An empty header name,
// as left by an exported index column, becomes "Unnamed: <position>".
func ReadCSV(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, _ := br.Peek(len(utf8BOM)); bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	seen := make(map[string]bool, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate header column %q", name)
		}
		seen[name] = true
		header[i] = name
	}

	table := &Table{Columns: header}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed csv: %w", err)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// FileSource loads a table from a local CSV file
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a source for the CSV at path
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FileSource{path: path, logger: logger}
}

// Name returns the file path
func (s *FileSource) Name() string {
	return s.path
}

// Load reads and parses the file
func (s *FileSource) Load(ctx context.Context) (*Table, error) {
	if s.path == "" {
		return nil, fmt.Errorf("no input file given")
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	s.logger.DebugContext(ctx, "CSV file parsed",
		slog.String("path", s.path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)))

	return table, nil
}
