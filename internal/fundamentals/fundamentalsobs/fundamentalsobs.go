package fundamentalsobs

import (
	"context"
	"errors"

	"market-pulse/internal/interfaces"
	"market-pulse/internal/logger"
	"market-pulse/internal/trace"
	"market-pulse/internal/types"
)

// observableFetcher wraps a FundamentalsFetcher with observability (logging & tracing)
type observableFetcher struct {
	fetcher  interfaces.FundamentalsFetcher
	provider string
}

// Compile-time interface check
var _ interfaces.FundamentalsFetcher = (*observableFetcher)(nil)

// Wrap wraps a fundamentals fetcher with observability middleware
func Wrap(fetcher interfaces.FundamentalsFetcher, provider string) interfaces.FundamentalsFetcher {
	return &observableFetcher{
		fetcher:  fetcher,
		provider: provider,
	}
}

func (of *observableFetcher) Fetch(ctx context.Context, ticker string) (*types.FundamentalsRecord, error) {
	ctx, span := trace.StartSpan(ctx, "fundamentals.Fetch")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching fundamentals", "provider", of.provider, "ticker", ticker)

	rec, err := of.fetcher.Fetch(ctx, ticker)
	if err != nil {
		if sf, ok := types.AsSoftFailure(err); ok {
			logger.SoftFailure(ctx, sf.Provider, sf.Message, "ticker", ticker)
		} else if errors.Is(err, types.ErrNoData) {
			logger.InfoSkip(ctx, 1, "No fundamentals available", "provider", of.provider, "ticker", ticker)
		} else {
			logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch fundamentals", err,
				"provider", of.provider,
				"ticker", ticker,
			)
		}
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Fundamentals fetched",
		"provider", of.provider,
		"ticker", ticker,
		"company", rec.CompanyName,
	)
	return rec, nil
}
