package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"market-pulse/internal/types"
)

type countingLimiter struct{ calls int }

func (c *countingLimiter) Wait(context.Context) error {
	c.calls++
	return nil
}

func TestGETSendsHeadersAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.URL.Path, "/query")
		assert.Equal(t, r.URL.Query().Get("function"), "SYMBOL_SEARCH")
		assert.Equal(t, r.Header.Get("X-Test"), "yes")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	limiter := &countingLimiter{}
	c := NewClient(WithBaseURL(srv.URL), WithHeader("X-Test", "yes"), WithLimiter(limiter))
	resp, err := c.GET(context.Background(), "/query", url.Values{"function": {"SYMBOL_SEARCH"}})
	assert.Equal(t, err, nil)
	assert.Equal(t, limiter.calls, 1)

	var out struct {
		OK bool `json:"ok"`
	}
	assert.Equal(t, resp.ParseJSON(&out), nil)
	assert.Equal(t, out.OK, true)
}

func TestGETStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	_, err := NewClient(WithBaseURL(srv.URL)).GET(context.Background(), "/", nil)
	assert.Equal(t, IsStatus(err, http.StatusTooManyRequests), true)
	assert.Equal(t, IsStatus(err, http.StatusNotFound), false)
}

func TestGETTransportFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	_, err := c.GET(context.Background(), "/", nil)
	assert.Equal(t, errors.Is(err, types.ErrTransient), true)
}

func TestParseJSONMalformed(t *testing.T) {
	resp := &Response{Body: []byte("<html>")}
	var v map[string]any
	assert.Equal(t, errors.Is(resp.ParseJSON(&v), types.ErrMalformed), true)
}

func TestRedact(t *testing.T) {
	got := redact("https://example.com/query?apikey=secret&symbol=IBM")
	assert.Equal(t, got, "https://example.com/query?apikey=REDACTED&symbol=IBM")

	got = redact("https://example.com/v10/finance/quoteSummary/TCS.NS?crumb=abc&modules=price")
	assert.Equal(t, got, "https://example.com/v10/finance/quoteSummary/TCS.NS?crumb=REDACTED&modules=price")
}
