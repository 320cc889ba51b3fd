package insights

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

var rule = strings.Repeat("=", 70)

// Print writes the insights as a console report
func (ins *Insights) Print(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\nKEY INSIGHTS FROM TRANSFORMED DATA\n%s\n", rule, rule)

	fmt.Fprintln(&b, "\n📊 OVERALL STATISTICS:")
	fmt.Fprintf(&b, "   Total flights analyzed: %s\n", humanize.Comma(int64(ins.Flights)))
	fmt.Fprintf(&b, "   Number of airlines: %d\n", ins.Airlines)
	fmt.Fprintf(&b, "   Number of routes: %d\n", ins.Routes)
	fmt.Fprintf(&b, "   Date range: %s to %s days before departure\n", formatDays(ins.DaysLeftMin), formatDays(ins.DaysLeftMax))

	fmt.Fprintln(&b, "\n💰 PRICE INSIGHTS (USD):")
	fmt.Fprintf(&b, "   Cheapest flight: %s\n", usd(ins.USD.Min, ins.USD.Empty()))
	fmt.Fprintf(&b, "   Most expensive flight: %s\n", usd(ins.USD.Max, ins.USD.Empty()))
	fmt.Fprintf(&b, "   Average flight price: %s\n", usd(ins.USD.Mean, ins.USD.Empty()))
	fmt.Fprintf(&b, "   Median flight price: %s\n", usd(ins.USD.Median, ins.USD.Empty()))

	fmt.Fprintln(&b, "\n✈️  AIRLINE INSIGHTS:")
	fmt.Fprintf(&b, "   Most affordable airline: %s\n", ins.CheapestAirline)
	fmt.Fprintf(&b, "   Most expensive airline: %s\n", ins.PriciestAirline)
	fmt.Fprintf(&b, "   Most flights offered by: %s\n", ins.BusiestAirline)

	fmt.Fprintln(&b, "\n🎫 CLASS INSIGHTS:")
	for _, g := range ins.ByClass {
		fmt.Fprintf(&b, "   %s: %s average\n", g.Key, usd(g.Mean, math.IsNaN(g.Mean)))
	}

	fmt.Fprintln(&b, "\n🛬 STOPS INSIGHTS:")
	for _, g := range ins.ByStops {
		fmt.Fprintf(&b, "   %s stops: %s average (%s flights)\n", g.Key, usd(g.Mean, math.IsNaN(g.Mean)), humanize.Comma(int64(g.Count)))
	}

	fmt.Fprintln(&b, "\n🗺️  ROUTE INSIGHTS:")
	fmt.Fprintf(&b, "   Most common route: %s\n", ins.MostCommonRoute)
	fmt.Fprintf(&b, "   Most expensive route: %s\n", ins.PriciestRoute)
	fmt.Fprintf(&b, "   Cheapest route: %s\n", ins.CheapestRoute)

	fmt.Fprintln(&b, "\n💱 CONVERSION INFO:")
	fmt.Fprintf(&b, "   Exchange rate used: 1 INR = $%.4f USD\n", ins.Rate)
	fmt.Fprintf(&b, "   Conversion date: %s\n", ins.ConversionDate)

	fmt.Fprintf(&b, "\n%s\n\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}

func usd(v float64, empty bool) string {
	if empty {
		return "n/a"
	}
	return fmt.Sprintf("$%.2f", v)
}
