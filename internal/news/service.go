package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"market-pulse/internal/interfaces"
	"market-pulse/internal/logger"
	"market-pulse/internal/types"
)

// ServiceConfig configures the news feed
type ServiceConfig struct {
	BaseURL        string        // e.g. https://news.google.com
	Language       string        // hl
	Country        string        // gl
	Edition        string        // ceid
	Timeout        time.Duration // per fetch
	ScrapeFallback bool          // scrape the HTML page when RSS fails
	UserAgent      string
}

// DefaultServiceConfig returns default configuration
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		BaseURL:        "https://news.google.com",
		Language:       "en-IN",
		Country:        "IN",
		Edition:        "IN:en",
		Timeout:        15 * time.Second,
		ScrapeFallback: true,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Service fetches headlines from the primary source and falls back to the
// secondary one only when the primary errors. An empty primary result is
// returned as-is.
type Service struct {
	primary  interfaces.FeedSource
	fallback interfaces.FeedSource
}

var _ interfaces.FeedSource = (*Service)(nil)

// NewService wires the RSS source and, if enabled, the scrape fallback
func NewService(cfg *ServiceConfig, httpClient *http.Client) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	s := &Service{primary: NewRSSSource(cfg, httpClient)}
	if cfg.ScrapeFallback {
		s.fallback = NewScrapeSource(cfg)
	}
	return s
}

// NewServiceWithSources builds a Service from arbitrary sources; fallback may be nil
func NewServiceWithSources(primary, fallback interfaces.FeedSource) *Service {
	return &Service{primary: primary, fallback: fallback}
}

func (s *Service) Name() string {
	return s.primary.Name()
}

func (s *Service) Fetch(ctx context.Context, q types.FeedQuery) ([]types.Headline, error) {
	headlines, err := s.primary.Fetch(ctx, q)
	if err == nil {
		logger.Info(ctx, "Fetched headlines", "source", s.primary.Name(), "count", len(headlines))
		return headlines, nil
	}

	if s.fallback == nil || ctx.Err() != nil {
		return nil, err
	}

	logger.Warn(ctx, "Primary feed failed, trying fallback",
		"source", s.primary.Name(),
		"fallback", s.fallback.Name(),
		"error", err,
	)

	headlines, fbErr := s.fallback.Fetch(ctx, q)
	if fbErr != nil {
		return nil, fmt.Errorf("all feed sources failed: %w", errors.Join(err, fbErr))
	}
	logger.Info(ctx, "Fetched headlines", "source", s.fallback.Name(), "count", len(headlines))
	return headlines, nil
}
