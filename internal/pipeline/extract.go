package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"flightusd/internal/config"
	"flightusd/internal/dataset"
	apperrors "flightusd/internal/errors"
)

func (p *Pipeline) extract(ctx context.Context) error {
	loader, err := p.source()
	if err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "Extracting data",
		slog.String("mode", p.opts.Mode),
		slog.String("source", loader.Name()))

	table, err := loader.Load(ctx)
	if err != nil {
		return apperrors.NewSourceError("failed to extract data", err).
			WithContext("source", loader.Name())
	}
	if table == nil {
		return apperrors.NewSourceError("loader returned no data", nil).
			WithContext("source", loader.Name())
	}

	p.table = table
	p.logger.InfoContext(ctx, "Successfully extracted records",
		slog.Int("records", table.Len()),
		slog.Any("columns", table.Columns))
	return nil
}

// source picks the loader for the configured mode
func (p *Pipeline) source() (dataset.Loader, error) {
	switch p.opts.Mode {
	case config.ModeRemote:
		if p.opts.Loader == nil {
			return nil, apperrors.NewSourceError("no dataset loader configured for remote mode", nil)
		}
		return p.opts.Loader, nil
	case config.ModeLocal:
		if p.opts.InputFile == "" {
			return nil, apperrors.NewSourceError("no input file specified for local mode", nil)
		}
		if err := p.validator.ValidateInputFile(p.opts.InputFile); err != nil {
			return nil, apperrors.NewSourceError("input file unavailable", err).
				WithContext("path", p.opts.InputFile)
		}
		return dataset.NewFileSource(p.opts.InputFile, p.logger), nil
	default:
		return nil, apperrors.NewSourceError(fmt.Sprintf("unknown mode %q", p.opts.Mode), nil)
	}
}

// sourceName identifies the input in the report
func (p *Pipeline) sourceName() string {
	if p.opts.Mode == config.ModeRemote && p.opts.Loader != nil {
		return p.opts.Loader.Name()
	}
	return p.opts.InputFile
}
