package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"flightusd/internal/config"
	"flightusd/internal/dataset"
	apperrors "flightusd/internal/errors"
	"flightusd/internal/exporter"
	"flightusd/internal/infrastructure"
	"flightusd/internal/rates"
	"flightusd/internal/report"
	"flightusd/internal/validation"
)

// RateResolver supplies the exchange rate for Transform
type RateResolver interface {
	Resolve(ctx context.Context, explicit *float64) rates.Quote
}

// Sink persists the converted table
type Sink interface {
	WriteTable(ctx context.Context, path string, table *dataset.Table, opts exporter.WriteOptions) error
}

// Reporter writes the summary report and returns its path
type Reporter interface {
	Generate(ctx context.Context, table *dataset.Table, meta report.Meta) (string, error)
}

// Options configures a pipeline run. Mode is config.ModeLocal or
// config.ModeRemote and is fixed for the life of the pipeline.
type Options struct {
	Mode         string
	InputFile    string
	OutputFile   string
	ExchangeRate *float64

	Loader    dataset.Loader // used in remote mode
	Rates     RateResolver
	Sink      Sink
	Reporter  Reporter
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Clock     func() time.Time
}

// Pipeline converts one flight table. It is not safe for concurrent use and
// is not reusable once it reaches a terminal state.
type Pipeline struct {
	opts      Options
	state     State
	table     *dataset.Table
	conv      *ConversionContext
	summary   string
	validator *validation.FileValidator
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *infrastructure.PipelineMetrics
	now       func() time.Time
}

// New creates a pipeline in the ready state. Missing collaborators get defaults.
func New(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = infrastructure.DiscardLogger()
	}
	if opts.Telemetry == nil {
		opts.Telemetry = infrastructure.NoopTelemetry()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Mode == "" {
		opts.Mode = config.ModeLocal
	}

	logger := infrastructure.WithComponent(opts.Logger, "pipeline")
	if opts.Rates == nil {
		opts.Rates = rates.NewResolver(config.Default().Rates, nil, infrastructure.WithComponent(opts.Logger, "rates"))
	}
	if opts.Sink == nil {
		opts.Sink = exporter.NewCSVWriter(infrastructure.WithComponent(opts.Logger, "exporter"))
	}
	if opts.Reporter == nil {
		opts.Reporter = report.NewGenerator(infrastructure.WithComponent(opts.Logger, "report"), opts.Clock)
	}

	return &Pipeline{
		opts:      opts,
		state:     StateReady,
		validator: validation.NewFileValidator(logger),
		logger:    logger,
		tracer:    opts.Telemetry.Tracer,
		metrics:   opts.Telemetry.Metrics,
		now:       opts.Clock,
	}
}

// State returns the current lifecycle state
func (p *Pipeline) State() State {
	return p.state
}

// Table returns the working table, nil before Extract or after a failed Transform
func (p *Pipeline) Table() *dataset.Table {
	return p.table
}

// Context returns the conversion metadata, nil before Transform
func (p *Pipeline) Context() *ConversionContext {
	return p.conv
}

// Extract moves ready -> extracted
func (p *Pipeline) Extract(ctx context.Context) error {
	return p.runPhase(ctx, PhaseExtract, StateReady, StateExtracted, p.extract)
}

// Transform moves extracted -> transformed
func (p *Pipeline) Transform(ctx context.Context) error {
	return p.runPhase(ctx, PhaseTransform, StateExtracted, StateTransformed, p.transform)
}

// Load moves transformed -> loaded
func (p *Pipeline) Load(ctx context.Context) error {
	return p.runPhase(ctx, PhaseLoad, StateTransformed, StateLoaded, p.load)
}

// Run executes Extract, Transform and Load, stopping at the first failure
func (p *Pipeline) Run(ctx context.Context) Result {
	ctx = infrastructure.EnsureRunID(ctx)
	start := time.Now()

	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", infrastructure.GetRunID(ctx)),
			attribute.String("pipeline.mode", p.opts.Mode),
			attribute.String("pipeline.output", p.opts.OutputFile),
		),
	)
	defer span.End()

	p.logger.InfoContext(ctx, "Starting ETL pipeline",
		slog.String("mode", p.opts.Mode),
		slog.String("input_file", p.opts.InputFile),
		slog.String("output_file", p.opts.OutputFile))

	result := Result{OutputFile: p.opts.OutputFile}

	phases := []struct {
		phase Phase
		run   func(context.Context) error
	}{
		{PhaseExtract, p.Extract},
		{PhaseTransform, p.Transform},
		{PhaseLoad, p.Load},
	}

	for _, ph := range phases {
		if err := ph.run(ctx); err != nil {
			result.Phase = ph.phase
			result.Err = err
			infrastructure.WithError(p.logger, err).ErrorContext(ctx, "ETL pipeline failed",
				slog.String("phase", string(ph.phase)),
				slog.String("kind", string(apperrors.KindOf(err))))
			break
		}
	}

	result.State = p.state
	result.Context = p.conv
	result.Records = p.table.Len()
	result.SummaryFile = p.summary
	result.Duration = time.Since(start)

	status := "success"
	if !result.OK() {
		status = "failure"
		span.SetStatus(codes.Error, result.Err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
		p.logger.InfoContext(ctx, "ETL pipeline completed successfully",
			slog.Int("records", result.Records),
			slog.Duration("duration", result.Duration))
	}
	p.metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))

	return result
}

// runPhase enforces the transition from -> to around fn
func (p *Pipeline) runPhase(ctx context.Context, phase Phase, from, to State, fn func(context.Context) error) error {
	// A finished pipeline is not reusable
	if p.state.Terminal() || p.state != from {
		return apperrors.NewInvalidStateError(string(phase), string(p.state))
	}

	ctx, span := p.tracer.Start(ctx, "pipeline."+string(phase), trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	p.metrics.RecordPhase(ctx, string(phase), time.Since(start).Seconds(), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.state = StateFailed
		return err
	}

	span.SetStatus(codes.Ok, "")
	p.state = to
	return nil
}
