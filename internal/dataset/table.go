package dataset

import (
	"fmt"
	"strings"
)

// Table is an ordered header plus rows of string cells
type Table struct {
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of name in the header, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether name is in the header
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Column returns a copy of the named column's cells
func (t *Table) Column(name string) ([]string, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// SetColumn replaces the named column's cells, or appends the column when it
// is absent. values must have one cell per row.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.Rows))
	}
	if idx := t.ColumnIndex(name); idx >= 0 {
		for i := range t.Rows {
			t.Rows[i][idx] = values[i]
		}
		return nil
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	return nil
}

// Reorder moves the named columns so they sit contiguously, in the given order,
// right after anchor. Every other column keeps its relative order.
func (t *Table) Reorder(anchor string, cols ...string) error {
	if !t.HasColumn(anchor) {
		return fmt.Errorf("anchor column %q not found", anchor)
	}

	moving := make(map[string]bool, len(cols))
	for _, c := range cols {
		if c == anchor {
			return fmt.Errorf("column %q cannot be moved after itself", c)
		}
		if !t.HasColumn(c) {
			return fmt.Errorf("column %q not found", c)
		}
		moving[c] = true
	}

	order := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if moving[c] {
			continue
		}
		order = append(order, i)
		if c == anchor {
			for _, m := range cols {
				order = append(order, t.ColumnIndex(m))
			}
		}
	}

	t.Columns = permute(t.Columns, order)
	for i, row := range t.Rows {
		t.Rows[i] = permute(row, order)
	}
	return nil
}

func permute(cells []string, order []int) []string {
	out := make([]string, len(order))
	for i, idx := range order {
		out[i] = cells[idx]
	}
	return out
}

// MissingCounts returns the number of missing cells per column, in header order.
// Columns with no missing values are omitted.
func (t *Table) MissingCounts() []FieldCount {
	var counts []FieldCount
	for col, name := range t.Columns {
		n := 0
		for _, row := range t.Rows {
			if IsMissing(row[col]) {
				n++
			}
		}
		if n > 0 {
			counts = append(counts, FieldCount{Field: name, Count: n})
		}
	}
	return counts
}

// FieldCount pairs a column name with a count
type FieldCount struct {
	Field string
	Count int
}

var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"#n/a": true,
}

// IsMissing reports whether a cell holds no value
func IsMissing(cell string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(cell))]
}
