package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"

	"flightusd/internal/config"
	apperrors "flightusd/internal/errors"
)

// Source identifies where a rate came from
type Source string

const (
	SourceExplicit Source = "explicit"
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Quote is a resolved exchange rate
type Quote struct {
	Rate   float64
	Source Source
}

// IsFallback reports whether the rate is the static fallback constant
func (q Quote) IsFallback() bool {
	return q.Source == SourceFallback
}

// latestResponse is the subset of the rate service payload we read
type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]json.RawMessage `json:"rates"`
}

// Resolver obtains the exchange rate for a run
type Resolver struct {
	cfg    config.RatesConfig
	client *http.Client
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil client gets one bounded by cfg.Timeout.
func NewResolver(cfg config.RatesConfig, client *http.Client, logger *slog.Logger) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Resolver{cfg: cfg, client: client, logger: logger}
}

// Resolve returns explicit unchanged when it is non-nil, otherwise the live
// rate, otherwise the fallback rate.
func (r *Resolver) Resolve(ctx context.Context, explicit *float64) Quote {
	if explicit != nil {
		r.logger.InfoContext(ctx, "Using provided exchange rate",
			slog.Float64("rate", *explicit),
			slog.String("source", string(SourceExplicit)))
		return Quote{Rate: *explicit, Source: SourceExplicit}
	}

	rate, err := r.fetch(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "Exchange rate lookup failed, using fallback rate",
			slog.String("error", err.Error()),
			slog.Float64("rate", r.cfg.FallbackRate),
			slog.String("source", string(SourceFallback)))
		return Quote{Rate: r.cfg.FallbackRate, Source: SourceFallback}
	}

	r.logger.InfoContext(ctx, "Fetched live exchange rate",
		slog.String("pair", r.cfg.BaseCurrency+"/"+r.cfg.TargetCurrency),
		slog.Float64("rate", rate),
		slog.String("source", string(SourceLive)))
	return Quote{Rate: rate, Source: SourceLive}
}

// fetch makes exactly one request to the rate service
func (r *Resolver) fetch(ctx context.Context) (float64, error) {
	endpoint, err := url.JoinPath(r.cfg.BaseURL, r.cfg.BaseCurrency)
	if err != nil {
		return 0, apperrors.NewRateError("invalid rate service url", err)
	}

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, apperrors.NewRateError("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, apperrors.NewRateError("rate service request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, apperrors.NewRateError(fmt.Sprintf("rate service returned status %d", resp.StatusCode), nil)
	}

	var payload latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, apperrors.NewRateError("failed to decode rate response", err)
	}

	raw, ok := payload.Rates[r.cfg.TargetCurrency]
	if !ok {
		return 0, apperrors.NewRateError(fmt.Sprintf("rate response has no %s rate", r.cfg.TargetCurrency), nil)
	}
	var rate float64
	if err := json.Unmarshal(raw, &rate); err != nil {
		return 0, apperrors.NewRateError(fmt.Sprintf("rate response has non-numeric %s rate", r.cfg.TargetCurrency), err)
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, apperrors.NewRateError(fmt.Sprintf("rate response has unusable %s rate %v", r.cfg.TargetCurrency, rate), nil)
	}

	return rate, nil
}
