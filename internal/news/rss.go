package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"market-pulse/internal/types"
)

// RSSSource reads the Google News RSS search feed
type RSSSource struct {
	parser *gofeed.Parser
	cfg    *ServiceConfig
}

// NewRSSSource creates an RSS source; httpClient carries the timeout
func NewRSSSource(cfg *ServiceConfig, httpClient *http.Client) *RSSSource {
	p := gofeed.NewParser()
	p.UserAgent = cfg.UserAgent
	if httpClient != nil {
		p.Client = httpClient
	}
	return &RSSSource{parser: p, cfg: cfg}
}

func (s *RSSSource) Name() string {
	return "google-news-rss"
}

// FeedURL builds the search URL: q="<query> when:<window>" plus locale params
func (s *RSSSource) FeedURL(q types.FeedQuery) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + "/rss/search?" + searchParams(s.cfg, q).Encode()
}

// Fetch returns at most q.MaxItems headlines in feed order. A MaxItems of
// zero or less keeps every item.
func (s *RSSSource) Fetch(ctx context.Context, q types.FeedQuery) ([]types.Headline, error) {
	feed, err := s.parser.ParseURLWithContext(s.FeedURL(q), ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch rss feed: %w", err)
	}

	size := len(feed.Items)
	if q.MaxItems > 0 {
		size = min(size, q.MaxItems)
	}
	headlines := make([]types.Headline, 0, size)
	for _, item := range feed.Items {
		if q.MaxItems > 0 && len(headlines) >= q.MaxItems {
			break
		}
		headlines = append(headlines, toHeadline(item))
	}
	return headlines, nil
}

func toHeadline(item *gofeed.Item) types.Headline {
	h := types.Headline{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Summary:     item.Description,
		PublishedAt: item.PublishedParsed,
	}
	if item.Author != nil && item.Author.Name != "" {
		h.Source = item.Author.Name
	} else if i := strings.LastIndex(h.Title, " - "); i > 0 {
		// Google News appends " - Publisher" to every title
		h.Source = strings.TrimSpace(h.Title[i+3:])
	}
	return h
}

func searchParams(cfg *ServiceConfig, q types.FeedQuery) url.Values {
	return url.Values{
		"q":    {fmt.Sprintf("%s when:%s", q.Text, q.When)},
		"hl":   {cfg.Language},
		"gl":   {cfg.Country},
		"ceid": {cfg.Edition},
	}
}
