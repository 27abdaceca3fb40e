// Package finnhub adapts the Finnhub SDK for symbol search and fundamentals.
package finnhub

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"market-pulse/internal/types"
)

const Name = "finnhub"

type Client struct {
	client *finnhub.DefaultApiService
}

// New builds a client. httpClient carries the timeout and throttle; an empty
// baseURL keeps the SDK's default server.
func New(apiKey, baseURL string, httpClient *http.Client) *Client {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if baseURL != "" {
		cfg.Servers = finnhub.ServerConfigurations{{URL: strings.TrimRight(baseURL, "/")}}
	}
	return &Client{client: finnhub.NewAPIClient(cfg).DefaultApi}
}

func (c *Client) Name() string {
	return Name
}

// Search runs /search. Finnhub has no match score, so Score stays nil.
func (c *Client) Search(ctx context.Context, keywords string) ([]types.SymbolMatch, error) {
	res, httpResp, err := c.client.SymbolSearch(ctx).Q(keywords).Execute()
	if err != nil {
		return nil, classify(httpResp, err)
	}

	var matches []types.SymbolMatch
	for _, info := range res.GetResult() {
		if info.GetSymbol() == "" {
			continue
		}
		matches = append(matches, types.SymbolMatch{
			Symbol: info.GetSymbol(),
			Name:   info.GetDescription(),
		})
	}
	return matches, nil
}

// Company is the raw profile plus the basic financials metric map.
type Company struct {
	Symbol  string
	Profile finnhub.CompanyProfile2
	Metrics map[string]interface{}
}

// Company fetches the profile and all basic financial metrics for symbol
func (c *Client) Company(ctx context.Context, symbol string) (*Company, error) {
	profile, httpResp, err := c.client.CompanyProfile2(ctx).Symbol(symbol).Execute()
	if err != nil {
		return nil, classify(httpResp, err)
	}

	financials, httpResp, err := c.client.CompanyBasicFinancials(ctx).Symbol(symbol).Metric("all").Execute()
	if err != nil {
		return nil, classify(httpResp, err)
	}

	return &Company{
		Symbol:  symbol,
		Profile: profile,
		Metrics: financials.GetMetric(),
	}, nil
}

func classify(resp *http.Response, err error) error {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return types.NewSoftFailure(Name, "API limit reached. Please try again later.")
	}

	switch {
	case resp == nil || resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: %s: %v", types.ErrTransient, Name, err)
	case resp.StatusCode >= http.StatusBadRequest:
		// bad symbol or key
		return fmt.Errorf("%w: %s: %v", types.ErrNoData, Name, err)
	default:
		// 2xx the SDK could not decode
		return fmt.Errorf("%w: %s: %v", types.ErrMalformed, Name, err)
	}
}
