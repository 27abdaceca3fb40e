package fundamentals

import (
	"context"

	"market-pulse/internal/interfaces"
	"market-pulse/internal/provider/finnhub"
	"market-pulse/internal/provider/yahoo"
	"market-pulse/internal/types"
)

type overviewClient interface {
	Overview(ctx context.Context, symbol string) (map[string]any, error)
}

type quoteSummaryClient interface {
	QuoteSummary(ctx context.Context, symbol string) (*yahoo.Response, error)
}

type companyClient interface {
	Company(ctx context.Context, symbol string) (*finnhub.Company, error)
}

// AlphaVantage fetches fundamentals from OVERVIEW
type AlphaVantage struct {
	client           overviewClient
	descriptionLimit int
}

var _ interfaces.FundamentalsFetcher = (*AlphaVantage)(nil)

func NewAlphaVantage(client overviewClient, descriptionLimit int) *AlphaVantage {
	return &AlphaVantage{client: client, descriptionLimit: descriptionLimit}
}

func (s *AlphaVantage) Fetch(ctx context.Context, ticker string) (*types.FundamentalsRecord, error) {
	raw, err := s.client.Overview(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return NormalizeAlphaVantage(ticker, raw, s.descriptionLimit)
}

// Yahoo fetches fundamentals from the quote summary modules
type Yahoo struct {
	client           quoteSummaryClient
	descriptionLimit int
}

var _ interfaces.FundamentalsFetcher = (*Yahoo)(nil)

func NewYahoo(client quoteSummaryClient, descriptionLimit int) *Yahoo {
	return &Yahoo{client: client, descriptionLimit: descriptionLimit}
}

func (s *Yahoo) Fetch(ctx context.Context, ticker string) (*types.FundamentalsRecord, error) {
	env, err := s.client.QuoteSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return NormalizeYahoo(ticker, env, s.descriptionLimit)
}

// Finnhub fetches fundamentals from profile2 and basic financials
type Finnhub struct {
	client           companyClient
	descriptionLimit int
}

var _ interfaces.FundamentalsFetcher = (*Finnhub)(nil)

func NewFinnhub(client companyClient, descriptionLimit int) *Finnhub {
	return &Finnhub{client: client, descriptionLimit: descriptionLimit}
}

func (s *Finnhub) Fetch(ctx context.Context, ticker string) (*types.FundamentalsRecord, error) {
	c, err := s.client.Company(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return NormalizeFinnhub(ticker, c, s.descriptionLimit)
}
