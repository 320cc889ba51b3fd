// Package insights aggregates converted flight data for the visualization
// command: overall figures, per-airline, per-class, per-stops and per-route
// averages, and price histograms.
package insights

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"flightusd/internal/dataset"
)

// RouteSeparator joins source and destination city in route labels
const RouteSeparator = " → "

// HistogramBins is the number of bins in the price distribution charts
const HistogramBins = 50

var requiredFields = []string{
	dataset.FieldAirline,
	dataset.FieldSourceCity,
	dataset.FieldDestinationCity,
	dataset.FieldClass,
	dataset.FieldStops,
	dataset.FieldDaysLeft,
	dataset.FieldPriceINR,
	dataset.FieldPriceUSD,
	dataset.FieldExchangeRateUsed,
	dataset.FieldConversionDate,
}

// Group is the mean USD price of the rows sharing Key. Count includes rows
// with a missing price; Mean does not.
type Group struct {
	Key   string
	Mean  float64
	Count int
}

// Insights is the aggregate view of a converted table
type Insights struct {
	Flights     int
	Airlines    int
	Routes      int
	DaysLeftMin float64
	DaysLeftMax float64

	INR dataset.Stats
	USD dataset.Stats

	ByAirline       []Group // ascending mean
	CheapestAirline string
	PriciestAirline string
	BusiestAirline  string

	ByClass []Group // first appearance order
	ByStops []Group // ascending key

	ByRoute         []Group // descending mean
	MostCommonRoute string
	PriciestRoute   string
	CheapestRoute   string

	Rate           float64
	ConversionDate string

	inrValues []float64
	usdValues []float64
}

// Analyze computes insights over a converted table
func Analyze(table *dataset.Table) (*Insights, error) {
	for _, f := range requiredFields {
		if !table.HasColumn(f) {
			return nil, fmt.Errorf("required field %q is missing", f)
		}
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("no records to analyze")
	}

	col := func(name string) []string {
		cells, _ := table.Column(name)
		return cells
	}

	usdCells := col(dataset.FieldPriceUSD)
	usd := make([]float64, len(usdCells))
	present := make([]bool, len(usdCells))
	for i, cell := range usdCells {
		if dataset.IsMissing(cell) {
			continue
		}
		v, err := dataset.ParseFloat(cell)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s %q", i+1, dataset.FieldPriceUSD, cell)
		}
		usd[i], present[i] = v, true
	}

	inrValues, err := dataset.Floats(col(dataset.FieldPriceINR))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dataset.FieldPriceINR, err)
	}
	daysLeft, err := dataset.Floats(col(dataset.FieldDaysLeft))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dataset.FieldDaysLeft, err)
	}

	ins := &Insights{
		Flights:        table.Len(),
		INR:            dataset.Describe(inrValues),
		inrValues:      inrValues,
		ConversionDate: table.Rows[0][table.ColumnIndex(dataset.FieldConversionDate)],
	}

	for i, ok := range present {
		if ok {
			ins.usdValues = append(ins.usdValues, usd[i])
		}
	}
	ins.USD = dataset.Describe(ins.usdValues)

	if days := dataset.Describe(daysLeft); !days.Empty() {
		ins.DaysLeftMin, ins.DaysLeftMax = days.Min, days.Max
	}

	rateCell := table.Rows[0][table.ColumnIndex(dataset.FieldExchangeRateUsed)]
	if ins.Rate, err = dataset.ParseFloat(rateCell); err != nil {
		return nil, fmt.Errorf("invalid %s %q", dataset.FieldExchangeRateUsed, rateCell)
	}

	airlines := col(dataset.FieldAirline)
	sources := col(dataset.FieldSourceCity)
	destinations := col(dataset.FieldDestinationCity)

	ins.Airlines = distinct(airlines)
	ins.Routes = distinct(sources) * distinct(destinations)

	ins.ByAirline = groupBy(airlines, usd, present)
	ins.CheapestAirline, ins.PriciestAirline = extremes(ins.ByAirline)
	ins.BusiestAirline = mostCommon(ins.ByAirline)
	sortByMean(ins.ByAirline, false)

	ins.ByClass = groupBy(col(dataset.FieldClass), usd, present)

	ins.ByStops = groupBy(col(dataset.FieldStops), usd, present)
	sort.SliceStable(ins.ByStops, func(i, j int) bool { return ins.ByStops[i].Key < ins.ByStops[j].Key })

	routes := make([]string, len(sources))
	for i := range sources {
		routes[i] = sources[i] + RouteSeparator + destinations[i]
	}
	ins.ByRoute = groupBy(routes, usd, present)
	ins.CheapestRoute, ins.PriciestRoute = extremes(ins.ByRoute)
	ins.MostCommonRoute = mostCommon(ins.ByRoute)
	sortByMean(ins.ByRoute, true)

	return ins, nil
}

// groupBy averages values per key in first appearance order
func groupBy(keys []string, values []float64, present []bool) []Group {
	index := make(map[string]int)
	sums := []float64{}
	priced := []int{}
	var groups []Group

	for i, k := range keys {
		g, ok := index[k]
		if !ok {
			g = len(groups)
			index[k] = g
			groups = append(groups, Group{Key: k})
			sums = append(sums, 0)
			priced = append(priced, 0)
		}
		groups[g].Count++
		if present[i] {
			sums[g] += values[i]
			priced[g]++
		}
	}

	for g := range groups {
		if priced[g] == 0 {
			groups[g].Mean = math.NaN()
			continue
		}
		groups[g].Mean = sums[g] / float64(priced[g])
	}
	return groups
}

// extremes returns the keys with the lowest and highest mean. Ties go to the
// key that sorts first; groups without a mean are skipped.
func extremes(groups []Group) (lowest, highest string) {
	sorted := byKey(groups)
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, g := range sorted {
		if math.IsNaN(g.Mean) {
			continue
		}
		if g.Mean < lo {
			lo, lowest = g.Mean, g.Key
		}
		if g.Mean > hi {
			hi, highest = g.Mean, g.Key
		}
	}
	return lowest, highest
}

// mostCommon returns the key with the highest count, ties to the first key in sort order
func mostCommon(groups []Group) string {
	best, count := "", 0
	for _, g := range byKey(groups) {
		if g.Count > count {
			best, count = g.Key, g.Count
		}
	}
	return best
}

func byKey(groups []Group) []Group {
	sorted := append([]Group(nil), groups...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })
	return sorted
}

func sortByMean(groups []Group, descending bool) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i].Mean, groups[j].Mean
		if math.IsNaN(a) || math.IsNaN(b) {
			return !math.IsNaN(a) && math.IsNaN(b)
		}
		if descending {
			return a > b
		}
		return a < b
	})
}

func distinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// Bin is one histogram bucket covering [Low, High)
type Bin struct {
	Low   float64
	High  float64
	Count int
}

// Histogram splits values into n equal-width bins between their min and max.
// The last bin includes the maximum.
func Histogram(values []float64, n int) []Bin {
	if len(values) == 0 || n <= 0 {
		return nil
	}

	st := dataset.Describe(values)
	if st.Min == st.Max {
		return []Bin{{Low: st.Min, High: st.Max, Count: len(values)}}
	}

	width := (st.Max - st.Min) / float64(n)
	bins := make([]Bin, n)
	for i := range bins {
		bins[i].Low = st.Min + float64(i)*width
		bins[i].High = st.Min + float64(i+1)*width
	}
	bins[n-1].High = st.Max

	for _, v := range values {
		idx := int((v - st.Min) / width)
		if idx >= n {
			idx = n - 1
		}
		bins[idx].Count++
	}
	return bins
}

func formatDays(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
