package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	slogmulti "github.com/samber/slog-multi"

	"flightusd/internal/config"
)

// contextKey is a type for context keys
type contextKey string

// RunIDContextKey is the key for storing the run ID in context
const RunIDContextKey contextKey = "run_id"

// NewLogger builds the logger for a single run. The returned close function
// releases the log file, if one was opened, and must be called when the run ends.
// Nothing is installed as the process default; callers pass the logger down.
func NewLogger(cfg config.LoggingConfig, stdout io.Writer) (*slog.Logger, func() error, error) {
	if stdout == nil {
		stdout = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Level),
	}

	noop := func() error { return nil }

	var handler slog.Handler
	switch strings.ToLower(cfg.Output) {
	case "file":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open log file: %w", err)
		}
		handler = newHandler(cfg.Format, file, opts)
		return slog.New(&runHandler{Handler: handler}), file.Close, nil
	case "both":
		file, err := openLogFile(cfg.FilePath)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open log file: %w", err)
		}
		handler = slogmulti.Fanout(
			newHandler(cfg.Format, stdout, opts),
			newHandler(cfg.Format, file, opts),
		)
		return slog.New(&runHandler{Handler: handler}), file.Close, nil
	default:
		handler = newHandler(cfg.Format, stdout, opts)
		return slog.New(&runHandler{Handler: handler}), noop, nil
	}
}

func newHandler(format string, w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	if strings.ToLower(format) == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// runHandler wraps a slog.Handler to automatically inject run_id from context
type runHandler struct {
	slog.Handler
}

// Handle adds run_id to the record if present in context
func (h *runHandler) Handle(ctx context.Context, r slog.Record) error {
	if runID := GetRunID(ctx); runID != "" {
		r.AddAttrs(slog.String("run_id", runID))
	}
	return h.Handler.Handle(ctx, r)
}

// WithAttrs returns a new Handler with additional attributes
func (h *runHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &runHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup returns a new Handler with the given group name
func (h *runHandler) WithGroup(name string) slog.Handler {
	return &runHandler{Handler: h.Handler.WithGroup(name)}
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DiscardLogger returns a logger that drops every record
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// openLogFile opens or creates a log file with proper permissions
func openLogFile(filePath string) (*os.File, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", filePath, err)
	}

	return file, nil
}
