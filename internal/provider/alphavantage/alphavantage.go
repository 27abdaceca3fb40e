// Package alphavantage talks to the Alpha Vantage query API
// (SYMBOL_SEARCH and OVERVIEW).
package alphavantage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"market-pulse/internal/api"
	"market-pulse/internal/types"
)

const Name = "alphavantage"

// Keys Alpha Vantage uses to report quota and request problems inside a 200 body.
var softFailureKeys = []string{"Note", "Information", "Error Message"}

type Client struct {
	http   *api.Client
	apiKey string
}

// New creates a client for baseURL (e.g. https://www.alphavantage.co)
func New(baseURL, apiKey string, opts ...api.ClientOption) *Client {
	opts = append([]api.ClientOption{api.WithBaseURL(strings.TrimRight(baseURL, "/"))}, opts...)
	return &Client{
		http:   api.NewClient(opts...),
		apiKey: apiKey,
	}
}

func (c *Client) Name() string {
	return Name
}

type searchResponse struct {
	BestMatches []map[string]string `json:"bestMatches"`
}

// Search runs SYMBOL_SEARCH with keywords passed through unchanged.
// Results keep the provider's ranking.
func (c *Client) Search(ctx context.Context, keywords string) ([]types.SymbolMatch, error) {
	raw, err := c.query(ctx, url.Values{
		"function": {"SYMBOL_SEARCH"},
		"keywords": {keywords},
	})
	if err != nil {
		return nil, err
	}
	if sf := DetectSoftFailure(raw.fields); sf != nil {
		return nil, sf
	}

	var resp searchResponse
	if err := raw.resp.ParseJSON(&resp); err != nil {
		return nil, err
	}

	matches := make([]types.SymbolMatch, 0, len(resp.BestMatches))
	for _, m := range resp.BestMatches {
		match := types.SymbolMatch{
			Symbol: strings.TrimSpace(m["1. symbol"]),
			Name:   strings.TrimSpace(m["2. name"]),
			Region: strings.TrimSpace(m["4. region"]),
		}
		if s, err := strconv.ParseFloat(strings.TrimSpace(m["9. matchScore"]), 64); err == nil {
			match.Score = &s
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// Overview runs OVERVIEW for symbol and returns the decoded body as-is.
// Quota notices are left in place for normalization to detect.
func (c *Client) Overview(ctx context.Context, symbol string) (map[string]any, error) {
	raw, err := c.query(ctx, url.Values{
		"function": {"OVERVIEW"},
		"symbol":   {symbol},
	})
	if err != nil {
		return nil, err
	}
	return raw.fields, nil
}

type rawResponse struct {
	resp   *api.Response
	fields map[string]any
}

func (c *Client) query(ctx context.Context, params url.Values) (*rawResponse, error) {
	params.Set("apikey", c.apiKey)

	resp, err := c.http.GET(ctx, "/query", params)
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) {
			if se.StatusCode == http.StatusTooManyRequests {
				return nil, types.NewSoftFailure(Name, "Rate limited or no data available.")
			}
			return nil, fmt.Errorf("%w: %s: %v", types.ErrTransient, Name, err)
		}
		return nil, err
	}

	var fields map[string]any
	if err := resp.ParseJSON(&fields); err != nil {
		return nil, err
	}
	return &rawResponse{resp: resp, fields: fields}, nil
}

// DetectSoftFailure returns a SoftFailure when the body carries one of
// Alpha Vantage's Note, Information or Error Message keys.
func DetectSoftFailure(raw map[string]any) *types.SoftFailure {
	for _, key := range softFailureKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		msg, _ := v.(string)
		return types.NewSoftFailure(Name, msg)
	}
	return nil
}
