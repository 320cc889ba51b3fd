package insights

import (
	"math"

	"github.com/dustin/go-humanize"

	"flightusd/internal/dataset"
	"flightusd/internal/exporter"
)

const topRoutes = 10

// ChartSheets lays out the workbook charts: the INR and USD price
// distributions, average price by airline, class and stops, and the most
// expensive routes
func (ins *Insights) ChartSheets() []exporter.ChartSheet {
	airlines := ins.ByAirline
	routes := ins.ByRoute
	if len(routes) > topRoutes {
		routes = routes[:topRoutes]
	}

	classes := append([]Group(nil), ins.ByClass...)
	sortByMean(classes, true)

	stops := append([]Group(nil), ins.ByStops...)
	sortByMean(stops, false)

	return []exporter.ChartSheet{
		histogramSheet("PriceINR", withMean("Price Distribution - Indian Rupees", "₹", ins.INR),
			"price_inr", ins.inrValues, "#,###."),
		histogramSheet("PriceUSD", withMean("Price Distribution - US Dollars", "$", ins.USD),
			"price_usd", ins.usdValues, "#,###.##"),
		groupSheet("Airlines", "Average Price by Airline", "airline", exporter.BarChart, airlines),
		groupSheet("Classes", "Average Price by Class", "class", exporter.ColumnChart, classes),
		groupSheet("Stops", "Average Price by Number of Stops", "stops", exporter.ColumnChart, stops),
		groupSheet("TopRoutes", "Top 10 Most Expensive Routes", "route", exporter.BarChart, routes),
	}
}

// withMean appends the mean marker to a distribution title
func withMean(title, symbol string, st dataset.Stats) string {
	if st.Empty() {
		return title
	}
	return title + " (Mean: " + symbol + humanize.FormatFloat("#,###.", st.Mean) + ")"
}

func histogramSheet(name, title, field string, values []float64, format string) exporter.ChartSheet {
	sheet := exporter.ChartSheet{
		Name:        name,
		Title:       title,
		Kind:        exporter.ColumnChart,
		LabelHeader: field + "_bin",
		ValueHeader: "frequency",
	}
	for _, bin := range Histogram(values, HistogramBins) {
		sheet.Labels = append(sheet.Labels, humanize.FormatFloat(format, bin.Low))
		sheet.Values = append(sheet.Values, float64(bin.Count))
	}
	return sheet
}

func groupSheet(name, title, field string, kind exporter.ChartKind, groups []Group) exporter.ChartSheet {
	sheet := exporter.ChartSheet{
		Name:        name,
		Title:       title,
		Kind:        kind,
		LabelHeader: field,
		ValueHeader: "avg_price_usd",
	}
	for _, g := range groups {
		if math.IsNaN(g.Mean) {
			continue
		}
		sheet.Labels = append(sheet.Labels, g.Key)
		sheet.Values = append(sheet.Values, math.Round(g.Mean*100)/100)
	}
	return sheet
}
