package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"flightusd/internal/config"
	"flightusd/internal/dataset"
	apperrors "flightusd/internal/errors"
)

const dateLayout = "2006-01-02"

// RateText renders the rate the way it appears in the output and report
func (c ConversionContext) RateText() string {
	return strconv.FormatFloat(c.Rate, 'f', -1, 64)
}

func (p *Pipeline) transform(ctx context.Context) error {
	p.logger.InfoContext(ctx, "Transforming data")

	if err := p.convert(ctx); err != nil {
		// Partial results are discarded; Load never runs
		p.table = nil
		p.conv = nil
		return err
	}

	p.checkQuality(ctx)

	p.logger.InfoContext(ctx, "Transformation completed successfully",
		slog.Int("records", p.table.Len()),
		slog.String("rate", p.conv.RateText()),
		slog.String("rate_source", string(p.conv.Source)))
	return nil
}

// convert derives price_inr, price_usd and the conversion metadata columns
func (p *Pipeline) convert(ctx context.Context) error {
	priceIdx := p.table.ColumnIndex(dataset.FieldPrice)
	if priceIdx < 0 {
		return apperrors.NewTransformError(fmt.Sprintf("required field %q is missing", dataset.FieldPrice), nil).
			WithContext("columns", p.table.Columns)
	}

	quote := p.opts.Rates.Resolve(ctx, p.opts.ExchangeRate)
	p.metrics.RateLookups.Add(ctx, 1, metric.WithAttributes(attribute.String("source", string(quote.Source))))

	if !(quote.Rate > 0) || math.IsInf(quote.Rate, 0) {
		return apperrors.NewTransformError(fmt.Sprintf("exchange rate %v is not a positive number", quote.Rate), nil).
			WithContext("rate_source", string(quote.Source))
	}
	if quote.IsFallback() {
		p.logger.WarnContext(ctx, "Converting with fallback exchange rate",
			slog.Float64("rate", quote.Rate))
	}

	conv := &ConversionContext{
		Rate:     quote.Rate,
		Currency: config.TargetCurrency,
		Date:     p.now().Format(dateLayout),
		Source:   quote.Source,
	}
	rate := decimal.NewFromFloat(conv.Rate)
	rateText := conv.RateText()

	n := p.table.Len()
	inr := make([]string, n)
	usd := make([]string, n)
	currency := make([]string, n)
	rateUsed := make([]string, n)
	date := make([]string, n)

	for i, row := range p.table.Rows {
		currency[i] = conv.Currency
		rateUsed[i] = rateText
		date[i] = conv.Date

		cell := row[priceIdx]
		if dataset.IsMissing(cell) {
			continue
		}

		price, err := dataset.ParseFloat(cell)
		if err != nil {
			return apperrors.NewTransformError(fmt.Sprintf("invalid price %q in row %d", cell, i+1), err)
		}
		inr[i] = cell
		usd[i] = decimal.NewFromFloat(price).Mul(rate).Round(2).StringFixed(2)
	}

	derived := [][]string{inr, usd, currency, rateUsed, date}
	for i, name := range dataset.DerivedFields {
		if err := p.table.SetColumn(name, derived[i]); err != nil {
			return apperrors.NewTransformError("failed to add derived field", err).
				WithContext("field", name)
		}
	}

	p.conv = conv
	return nil
}

// checkQuality logs advisory findings. It never fails the phase.
func (p *Pipeline) checkQuality(ctx context.Context) {
	p.logger.InfoContext(ctx, "Performing data quality checks")

	if missing := p.table.MissingCounts(); len(missing) > 0 {
		fields := make([]any, 0, len(missing))
		for _, m := range missing {
			fields = append(fields, slog.Int(m.Field, m.Count))
		}
		p.logger.WarnContext(ctx, "Missing values found", slog.Group("missing", fields...))
		p.metrics.QualityWarnings.Add(ctx, 1, metric.WithAttributes(attribute.String("check", "missing_values")))
	}

	inr, err := p.table.DescribeColumn(dataset.FieldPriceINR)
	if err != nil {
		p.logger.WarnContext(ctx, "Price statistics unavailable", slog.String("error", err.Error()))
		return
	}

	negative := 0
	cells, _ := p.table.Column(dataset.FieldPriceINR)
	values, _ := dataset.Floats(cells)
	for _, v := range values {
		if v < 0 {
			negative++
		}
	}
	if negative > 0 {
		p.logger.WarnContext(ctx, "Found records with negative prices", slog.Int("count", negative))
		p.metrics.QualityWarnings.Add(ctx, 1, metric.WithAttributes(attribute.String("check", "negative_price")))
	}

	usd, err := p.table.DescribeColumn(dataset.FieldPriceUSD)
	if err != nil {
		p.logger.WarnContext(ctx, "Price statistics unavailable", slog.String("error", err.Error()))
		return
	}

	p.logStats(ctx, config.BaseCurrency, inr)
	p.logStats(ctx, config.TargetCurrency, usd)
}

func (p *Pipeline) logStats(ctx context.Context, currency string, st dataset.Stats) {
	if st.Empty() {
		p.logger.InfoContext(ctx, "Price statistics", slog.String("currency", currency), slog.Int("count", 0))
		return
	}
	p.logger.InfoContext(ctx, "Price statistics",
		slog.String("currency", currency),
		slog.Int("count", st.Count),
		slog.String("min", fmt.Sprintf("%.2f", st.Min)),
		slog.String("max", fmt.Sprintf("%.2f", st.Max)),
		slog.String("mean", fmt.Sprintf("%.2f", st.Mean)),
		slog.String("median", fmt.Sprintf("%.2f", st.Median)))
}
