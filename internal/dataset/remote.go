package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/dustin/go-humanize"

	"flightusd/internal/config"
)

// maxDownloadBytes bounds the dataset body held in memory
const maxDownloadBytes = 512 << 20

// RemoteLoader downloads a published dataset and parses its CSV file.
// The endpoint returns either a zip archive or the CSV itself.
type RemoteLoader struct {
	cfg    config.DatasetConfig
	client *http.Client
	logger *slog.Logger
}

// NewRemoteLoader creates a loader for the dataset named in cfg. A nil client
// gets one bounded by cfg.Timeout.
func NewRemoteLoader(cfg config.DatasetConfig, client *http.Client, logger *slog.Logger) *RemoteLoader {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RemoteLoader{cfg: cfg, client: client, logger: logger}
}

// Name returns the dataset identifier, owner/slug
func (l *RemoteLoader) Name() string {
	return l.cfg.Owner + "/" + l.cfg.Slug
}

// Load downloads the dataset and returns its first CSV file as a table
func (l *RemoteLoader) Load(ctx context.Context) (*Table, error) {
	if l.cfg.Owner == "" || l.cfg.Slug == "" {
		return nil, fmt.Errorf("dataset owner and slug are required")
	}

	endpoint, err := url.JoinPath(l.cfg.BaseURL, "datasets", "download", l.cfg.Owner, l.cfg.Slug)
	if err != nil {
		return nil, fmt.Errorf("invalid dataset url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if l.cfg.Username != "" {
		req.SetBasicAuth(l.cfg.Username, l.cfg.Key)
	}

	l.logger.InfoContext(ctx, "Downloading dataset",
		slog.String("dataset", l.Name()),
		slog.String("url", endpoint))

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataset download returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset body: %w", err)
	}
	if len(body) > maxDownloadBytes {
		return nil, fmt.Errorf("dataset exceeds %s", humanize.IBytes(maxDownloadBytes))
	}

	l.logger.InfoContext(ctx, "Dataset downloaded",
		slog.String("dataset", l.Name()),
		slog.String("size", humanize.Bytes(uint64(len(body)))))

	if isZip(body) {
		return l.readArchive(ctx, body)
	}
	return ReadCSV(bytes.NewReader(body))
}

func isZip(body []byte) bool {
	return bytes.HasPrefix(body, []byte("PK\x03\x04"))
}

// readArchive parses the first .csv entry of a zip archive
func (l *RemoteLoader) readArchive(ctx context.Context, body []byte) (*Table, error) {
	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return nil, fmt.Errorf("invalid dataset archive: %w", err)
	}

	for _, file := range archive.File {
		if file.FileInfo().IsDir() || !strings.EqualFold(path.Ext(file.Name), ".csv") {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in archive: %w", file.Name, err)
		}
		defer rc.Close()

		table, err := ReadCSV(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file.Name, err)
		}

		l.logger.InfoContext(ctx, "Dataset file selected",
			slog.String("entry", file.Name),
			slog.Int("rows", table.Len()))
		return table, nil
	}

	return nil, fmt.Errorf("dataset archive contains no csv file")
}
