package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.28.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"flightusd/internal/config"
)

const (
	ServiceName = "flightusd"
	MeterName   = "flightusd"
	TracerName  = "flightusd.pipeline"
)

// Telemetry holds the tracing and metrics providers for one run. Metrics are
// collected into a private Prometheus registry and written to a node-exporter
// textfile on Shutdown, since a batch job has no scrape endpoint.
type Telemetry struct {
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *PipelineMetrics

	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	registry       *prometheus.Registry
	metricsFile    string
	traceOut       io.Closer
	logger         *slog.Logger
}

// NewTelemetry initializes OpenTelemetry tracing and metrics for a run
func NewTelemetry(cfg config.TelemetryConfig, logger *slog.Logger) (*Telemetry, error) {
	if logger == nil {
		logger = DiscardLogger()
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(config.AppVersion),
	)

	t := &Telemetry{
		metricsFile: cfg.MetricsFile,
		logger:      WithComponent(logger, "telemetry"),
	}

	if cfg.TracingEnabled {
		if err := t.initializeTracing(cfg, res); err != nil {
			return nil, fmt.Errorf("failed to initialize tracing: %w", err)
		}
	} else {
		t.Tracer = tracenoop.NewTracerProvider().Tracer(TracerName)
	}

	if err := t.initializeMetrics(res); err != nil {
		t.closeTraceOutput()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	t.logger.Debug("Telemetry initialized",
		slog.Bool("tracing_enabled", cfg.TracingEnabled),
		slog.String("trace_file", cfg.TraceFile),
		slog.String("metrics_file", cfg.MetricsFile))

	return t, nil
}

// NoopTelemetry returns telemetry that records nothing
func NoopTelemetry() *Telemetry {
	meter := metricnoop.NewMeterProvider().Meter(MeterName)
	metrics, _ := NewPipelineMetrics(meter) // noop instruments never fail
	return &Telemetry{
		Tracer:  tracenoop.NewTracerProvider().Tracer(TracerName),
		Meter:   meter,
		Metrics: metrics,
		logger:  DiscardLogger(),
	}
}

// initializeTracing exports spans as JSON to the trace file, or stderr when unset
func (t *Telemetry) initializeTracing(cfg config.TelemetryConfig, res *resource.Resource) error {
	var out io.Writer = os.Stderr
	if cfg.TraceFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.TraceFile), 0755); err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		f, err := os.Create(cfg.TraceFile)
		if err != nil {
			return fmt.Errorf("failed to create trace file: %w", err)
		}
		t.traceOut = f
		out = f
	}

	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(out),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		t.closeTraceOutput()
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	t.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	t.Tracer = t.tracerProvider.Tracer(TracerName, trace.WithInstrumentationVersion(config.AppVersion))
	return nil
}

func (t *Telemetry) initializeMetrics(res *resource.Resource) error {
	t.registry = prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(t.registry))
	if err != nil {
		return fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	t.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	t.Meter = t.meterProvider.Meter(MeterName, metric.WithInstrumentationVersion(config.AppVersion))

	t.Metrics, err = NewPipelineMetrics(t.Meter)
	if err != nil {
		return fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	return nil
}

// Shutdown writes the metrics textfile, flushes spans and releases outputs
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error

	if t.metricsFile != "" && t.registry != nil {
		if err := os.MkdirAll(filepath.Dir(t.metricsFile), 0755); err != nil {
			errs = append(errs, fmt.Errorf("failed to create metrics directory: %w", err))
		} else if err := prometheus.WriteToTextfile(t.metricsFile, t.registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics textfile: %w", err))
		} else {
			t.logger.InfoContext(ctx, "Metrics written", slog.String("path", t.metricsFile))
		}
	}

	if t.meterProvider != nil {
		if err := t.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider shutdown: %w", err))
		}
	}
	if t.tracerProvider != nil {
		if err := t.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider shutdown: %w", err))
		}
	}
	if err := t.closeTraceOutput(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (t *Telemetry) closeTraceOutput() error {
	if t.traceOut == nil {
		return nil
	}
	err := t.traceOut.Close()
	t.traceOut = nil
	return err
}

// PipelineMetrics holds the instruments recorded by the conversion pipeline
type PipelineMetrics struct {
	RunsTotal        metric.Int64Counter
	PhaseDuration    metric.Float64Histogram
	RecordsProcessed metric.Int64Counter
	RateLookups      metric.Int64Counter
	QualityWarnings  metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runsTotal, err := meter.Int64Counter(
		"flightusd_runs",
		metric.WithDescription("Total number of pipeline runs by final state"),
	)
	if err != nil {
		return nil, err
	}

	phaseDuration, err := meter.Float64Histogram(
		"flightusd_phase_duration_seconds",
		metric.WithDescription("Pipeline phase duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	recordsProcessed, err := meter.Int64Counter(
		"flightusd_records_processed",
		metric.WithDescription("Total number of flight records written"),
	)
	if err != nil {
		return nil, err
	}

	rateLookups, err := meter.Int64Counter(
		"flightusd_rate_lookups",
		metric.WithDescription("Exchange rate resolutions by source"),
	)
	if err != nil {
		return nil, err
	}

	qualityWarnings, err := meter.Int64Counter(
		"flightusd_quality_warnings",
		metric.WithDescription("Advisory data quality findings by check"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RunsTotal:        runsTotal,
		PhaseDuration:    phaseDuration,
		RecordsProcessed: recordsProcessed,
		RateLookups:      rateLookups,
		QualityWarnings:  qualityWarnings,
	}, nil
}

// RecordPhase records the duration and outcome of one pipeline phase
func (m *PipelineMetrics) RecordPhase(ctx context.Context, phase string, seconds float64, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.PhaseDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("phase", phase),
		attribute.String("status", status),
	))
}
