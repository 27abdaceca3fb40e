package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"market-pulse/internal/types"
)

const rssBody = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Google News</title>
<item>
  <title>Reliance shares rise as oil prices surge - Economic Times</title>
  <link>https://news.google.com/rss/articles/abc</link>
  <pubDate>Mon, 13 Oct 2026 09:30:00 GMT</pubDate>
  <description>&lt;a href="https://example.com"&gt;Reliance shares rise&lt;/a&gt;</description>
</item>
<item>
  <title>Markets edge lower amid global cues - Mint</title>
  <link>https://news.google.com/rss/articles/def</link>
  <description>Markets</description>
</item>
<item>
  <title>Infosys wins large deal - Moneycontrol</title>
  <link>https://news.google.com/rss/articles/ghi</link>
</item>
</channel></rss>`

const emptyRSS = `<?xml version="1.0"?><rss version="2.0"><channel><title>Google News</title></channel></rss>`

const searchPage = `<html><body>
<article><h3>Tata Motors unveils EV</h3><a href="./articles/xyz">open</a><time datetime="2026-10-14T08:00:00Z"></time></article>
<article><h4>HDFC Bank results</h4><a href="./articles/uvw">open</a></article>
<article><p>no title here</p></article>
</body></html>`

func testConfig(baseURL string) *ServiceConfig {
	cfg := DefaultServiceConfig()
	cfg.BaseURL = baseURL
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestFeedURL(t *testing.T) {
	s := NewRSSSource(DefaultServiceConfig(), nil)
	raw := s.FeedURL(types.FeedQuery{Text: "stock market", When: "3d", MaxItems: 5})

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.Path != "/rss/search" {
		t.Errorf("Expected /rss/search, got %s", u.Path)
	}
	q := u.Query()
	if q.Get("q") != "stock market when:3d" {
		t.Errorf("Expected query with window, got %q", q.Get("q"))
	}
	if q.Get("hl") != "en-IN" || q.Get("gl") != "IN" || q.Get("ceid") != "IN:en" {
		t.Errorf("Unexpected locale params: %v", q)
	}
}

func TestRSSSourceFetch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssBody))
	}))
	defer srv.Close()

	s := NewRSSSource(testConfig(srv.URL), srv.Client())
	headlines, err := s.Fetch(context.Background(), types.FeedQuery{Text: "stocks", When: "1d", MaxItems: 2})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if gotQuery != "stocks when:1d" {
		t.Errorf("Expected q=stocks when:1d, got %q", gotQuery)
	}
	if len(headlines) != 2 {
		t.Fatalf("Expected 2 headlines (max items), got %d", len(headlines))
	}
	first := headlines[0]
	if first.Title != "Reliance shares rise as oil prices surge - Economic Times" {
		t.Errorf("Unexpected title %q", first.Title)
	}
	if first.Source != "Economic Times" {
		t.Errorf("Expected source Economic Times, got %q", first.Source)
	}
	if first.PublishedAt == nil || first.PublishedAt.Day() != 13 {
		t.Errorf("Expected published date, got %v", first.PublishedAt)
	}
	if !strings.Contains(first.Summary, "<a href") {
		t.Errorf("Expected raw HTML summary, got %q", first.Summary)
	}
	if headlines[1].PublishedAt != nil {
		t.Errorf("Expected nil published time, got %v", headlines[1].PublishedAt)
	}
}

func TestRSSSourceNonPositiveMaxKeepsAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssBody))
	}))
	defer srv.Close()

	s := NewRSSSource(testConfig(srv.URL), srv.Client())
	for _, limit := range []int{0, -1} {
		headlines, err := s.Fetch(context.Background(), types.FeedQuery{Text: "x", When: "1d", MaxItems: limit})
		if err != nil {
			t.Fatalf("Fetch(max=%d): %v", limit, err)
		}
		if len(headlines) != 3 {
			t.Errorf("Fetch(max=%d): expected all 3 headlines, got %d", limit, len(headlines))
		}
	}
}

func TestRSSSourceEmptyFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(emptyRSS))
	}))
	defer srv.Close()

	headlines, err := NewRSSSource(testConfig(srv.URL), srv.Client()).
		Fetch(context.Background(), types.FeedQuery{Text: "x", When: "1d", MaxItems: 10})
	if err != nil {
		t.Fatalf("Expected no error for empty feed, got %v", err)
	}
	if len(headlines) != 0 {
		t.Errorf("Expected 0 headlines, got %d", len(headlines))
	}
}

func TestScrapeSourceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(searchPage))
	}))
	defer srv.Close()

	headlines, err := NewScrapeSource(testConfig(srv.URL)).
		Fetch(context.Background(), types.FeedQuery{Text: "autos", When: "7d", MaxItems: 10})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(headlines) != 2 {
		t.Fatalf("Expected 2 headlines, got %d: %+v", len(headlines), headlines)
	}
	if headlines[0].Title != "Tata Motors unveils EV" {
		t.Errorf("Unexpected title %q", headlines[0].Title)
	}
	if headlines[0].Link != srv.URL+"/articles/xyz" {
		t.Errorf("Expected absolute link, got %q", headlines[0].Link)
	}
	if headlines[0].PublishedAt == nil {
		t.Error("Expected published time from <time datetime>")
	}
}

type stubSource struct {
	name      string
	headlines []types.Headline
	err       error
	calls     int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context, types.FeedQuery) ([]types.Headline, error) {
	s.calls++
	return s.headlines, s.err
}

func TestServiceFallsBackOnErrorOnly(t *testing.T) {
	fallback := &stubSource{name: "fallback", headlines: []types.Headline{{Title: "From fallback"}}}

	// empty primary result is not an error
	primary := &stubSource{name: "primary"}
	got, err := NewServiceWithSources(primary, fallback).Fetch(context.Background(), types.FeedQuery{})
	if err != nil || len(got) != 0 || fallback.calls != 0 {
		t.Errorf("Expected empty result without fallback, got %v, %v, calls=%d", got, err, fallback.calls)
	}

	primary = &stubSource{name: "primary", err: errors.New("timeout")}
	got, err = NewServiceWithSources(primary, fallback).Fetch(context.Background(), types.FeedQuery{})
	if err != nil {
		t.Fatalf("Expected fallback to succeed, got %v", err)
	}
	if len(got) != 1 || got[0].Title != "From fallback" {
		t.Errorf("Expected fallback headlines, got %+v", got)
	}
}

func TestServiceBothSourcesFail(t *testing.T) {
	primary := &stubSource{name: "primary", err: errors.New("rss down")}
	fallback := &stubSource{name: "fallback", err: errors.New("html down")}

	_, err := NewServiceWithSources(primary, fallback).Fetch(context.Background(), types.FeedQuery{})
	if err == nil {
		t.Fatal("Expected error when both sources fail")
	}
	if !strings.Contains(err.Error(), "rss down") || !strings.Contains(err.Error(), "html down") {
		t.Errorf("Expected both causes in error, got %v", err)
	}
}

func TestDefaultServiceConfig(t *testing.T) {
	cfg := DefaultServiceConfig()

	if cfg.Language != "en-IN" || cfg.Country != "IN" || cfg.Edition != "IN:en" {
		t.Errorf("Unexpected locale defaults: %+v", cfg)
	}
	if !cfg.ScrapeFallback {
		t.Error("Expected scrape fallback enabled by default")
	}
}
