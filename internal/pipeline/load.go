package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"flightusd/internal/dataset"
	apperrors "flightusd/internal/errors"
	"flightusd/internal/exporter"
	"flightusd/internal/report"
)

func (p *Pipeline) load(ctx context.Context) error {
	out := p.opts.OutputFile
	p.logger.InfoContext(ctx, "Loading data", slog.String("output_file", out))

	if err := p.table.Reorder(dataset.FieldPrice, dataset.DerivedFields...); err != nil {
		return apperrors.NewPersistError("failed to reorder columns", err)
	}

	if err := p.validator.ValidateOutputPath(out); err != nil {
		return apperrors.NewPersistError("output location unavailable", err).
			WithContext("path", out)
	}

	if err := p.opts.Sink.WriteTable(ctx, out, p.table, exporter.WriteOptions{}); err != nil {
		return apperrors.NewPersistError("failed to write output", err).
			WithContext("path", out)
	}

	p.logger.InfoContext(ctx, "Successfully loaded records",
		slog.Int("records", p.table.Len()),
		slog.String("output_file", out))

	summary, err := p.opts.Reporter.Generate(ctx, p.table, report.Meta{
		InputFile:      p.sourceName(),
		OutputFile:     out,
		Rate:           p.conv.RateText(),
		RateSource:     string(p.conv.Source),
		ConversionDate: p.conv.Date,
	})
	if err != nil {
		// Output without its summary is treated as a failed run
		p.removeOutput(ctx, out)
		return apperrors.NewPersistError("failed to create summary report", err).
			WithContext("path", out)
	}

	p.summary = summary
	p.metrics.RecordsProcessed.Add(ctx, int64(p.table.Len()))
	return nil
}

func (p *Pipeline) removeOutput(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		p.logger.WarnContext(ctx, "Failed to remove output after report failure",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return
	}
	p.logger.WarnContext(ctx, "Removed output after report failure", slog.String("path", path))
}
