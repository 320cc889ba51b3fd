package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Stats summarizes a numeric column. Count excludes missing cells.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
}

// Empty reports whether no values were seen
func (s Stats) Empty() bool {
	return s.Count == 0
}

// ParseFloat parses a numeric cell, ignoring surrounding whitespace
func ParseFloat(cell string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %q is not finite", cell)
	}
	return v, nil
}

// Floats parses the non-missing cells of a column
func Floats(cells []string) ([]float64, error) {
	values := make([]float64, 0, len(cells))
	for i, cell := range cells {
		if IsMissing(cell) {
			continue
		}
		v, err := ParseFloat(cell)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid number %q", i+1, cell)
		}
		values = append(values, v)
	}
	return values, nil
}

// Describe computes min, max, mean and median of values
func Describe(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}

	n := len(sorted)
	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Stats{
		Count:  n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   sum / float64(n),
		Median: median,
	}
}

// DescribeColumn parses and describes the named column
func (t *Table) DescribeColumn(name string) (Stats, error) {
	cells, err := t.Column(name)
	if err != nil {
		return Stats{}, err
	}
	values, err := Floats(cells)
	if err != nil {
		return Stats{}, fmt.Errorf("column %q: %w", name, err)
	}
	return Describe(values), nil
}
