package news

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"market-pulse/internal/logger"
	"market-pulse/internal/types"
)

// ScrapeSource scrapes the Google News HTML search page. It is the fallback
// when the RSS feed cannot be fetched.
type ScrapeSource struct {
	cfg *ServiceConfig
}

func NewScrapeSource(cfg *ServiceConfig) *ScrapeSource {
	return &ScrapeSource{cfg: cfg}
}

func (s *ScrapeSource) Name() string {
	return "google-news-html"
}

// SearchURL builds the HTML search page URL for q
func (s *ScrapeSource) SearchURL(q types.FeedQuery) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/search?" + searchParams(s.cfg, q).Encode()
}

func (s *ScrapeSource) Fetch(ctx context.Context, q types.FeedQuery) ([]types.Headline, error) {
	headlines := []types.Headline{}
	base := strings.TrimRight(s.cfg.BaseURL, "/")

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(base)),
		colly.MaxDepth(1),
		colly.Async(false),
		colly.StdlibContext(ctx),
	)

	c.SetRequestTimeout(s.cfg.Timeout)

	// Set user agent to avoid being blocked
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", s.cfg.UserAgent)
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if q.MaxItems > 0 && len(headlines) >= q.MaxItems {
			return
		}

		title := firstText(e, "h3", "h4", "a.JtKRv")
		link := e.ChildAttr("a", "href")
		if title == "" || link == "" {
			return
		}

		// Google News links are relative ("./articles/...")
		if strings.HasPrefix(link, "./") {
			link = base + link[1:]
		} else if strings.HasPrefix(link, "/") {
			link = base + link
		}

		h := types.Headline{
			Title:  title,
			Link:   link,
			Source: firstText(e, "div.vr1PYe", "a.wEwyrc"),
		}
		if ts := e.ChildAttr("time", "datetime"); ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				h.PublishedAt = &t
			}
		}
		headlines = append(headlines, h)
	})

	var scrapeErr error
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = err
		logger.ErrorWithErr(ctx, "Scraping error", err, "url", r.Request.URL.String(), "status", r.StatusCode)
	})

	searchURL := s.SearchURL(q)
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to scrape Google News: %w", err)
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, fmt.Errorf("failed to scrape Google News: %w", scrapeErr)
	}

	logger.Debug(ctx, "Google News scraping completed", "query", q.Text, "articles", len(headlines))
	return headlines, nil
}

func firstText(e *colly.HTMLElement, selectors ...string) string {
	for _, sel := range selectors {
		if t := strings.TrimSpace(e.ChildText(sel)); t != "" {
			return t
		}
	}
	return ""
}

// getDomain extracts domain from URL
func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
