package types

import "time"

// Headline is one news item delivered by the feed.
type Headline struct {
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Summary     string     `json:"summary"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Source      string     `json:"source,omitempty"`
}

// FeedQuery selects which headlines the feed returns.
type FeedQuery struct {
	Text     string `json:"text"`
	When     string `json:"when"` // 1d, 3d or 7d
	MaxItems int    `json:"max_items"`
}

// SymbolMatch is one ranked hit from a symbol search provider.
type SymbolMatch struct {
	Symbol string
	Name   string
	Region string
	Score  *float64
}

// Resolver strategies, as configured and as reported on a CompanyMatch.
const (
	StrategySearch = "SEARCH"
	StrategyProbe  = "PROBE"
)

// CompanyMatch is the company a headline was resolved to.
type CompanyMatch struct {
	Ticker          string   `json:"ticker"`
	DisplayName     string   `json:"display_name"`
	Region          string   `json:"region,omitempty"`
	ConfidenceScore *float64 `json:"confidence_score,omitempty"`
	Strategy        string   `json:"strategy"`
}

const NotAvailable = "N/A"

// FundamentalsRecord is the canonical fundamentals view of one company.
// Every field is display-ready; absent values hold NotAvailable.
type FundamentalsRecord struct {
	Provider           string `json:"provider"`
	Ticker             string `json:"ticker"`
	CompanyName        string `json:"company_name"`
	MarketCap          string `json:"market_cap"`
	PERatio            string `json:"pe_ratio"`
	EPS                string `json:"eps"`
	DividendYield      string `json:"dividend_yield"`
	FiftyTwoWeekHigh   string `json:"fifty_two_week_high"`
	FiftyTwoWeekLow    string `json:"fifty_two_week_low"`
	Price              string `json:"price"`
	Currency           string `json:"currency"`
	Sector             string `json:"sector"`
	RevenueTTM         string `json:"revenue_ttm"`
	ProfitMargin       string `json:"profit_margin"`
	AnalystTargetPrice string `json:"analyst_target_price"`
	Description        string `json:"description"`
}

// Field is one labelled fundamentals value.
type Field struct {
	Label string
	Value string
}

// Fields returns the fixed, ordered field set used by every renderer.
func (r *FundamentalsRecord) Fields() []Field {
	return []Field{
		{"Name", r.CompanyName},
		{"Symbol", r.Ticker},
		{"Market Cap", r.MarketCap},
		{"P/E Ratio", r.PERatio},
		{"EPS", r.EPS},
		{"Dividend Yield", r.DividendYield},
		{"52W High", r.FiftyTwoWeekHigh},
		{"52W Low", r.FiftyTwoWeekLow},
		{"Price", r.Price},
		{"Currency", r.Currency},
		{"Sector", r.Sector},
		{"Revenue TTM", r.RevenueTTM},
		{"Profit Margin", r.ProfitMargin},
		{"Analyst Target", r.AnalystTargetPrice},
		{"Description", r.Description},
	}
}

// Status classifies what happened to one headline.
type Status string

const (
	StatusMatched     Status = "MATCHED"
	StatusNoMatch     Status = "NO_MATCH"
	StatusSoftFailure Status = "SOFT_FAILURE"
	StatusUnavailable Status = "UNAVAILABLE"
)

// Result is the per-headline display tuple.
type Result struct {
	Headline     Headline            `json:"headline"`
	Match        *CompanyMatch       `json:"match,omitempty"`
	Fundamentals *FundamentalsRecord `json:"fundamentals,omitempty"`
	Status       Status              `json:"status"`
	Message      string              `json:"message,omitempty"`
}

// RunSummary counts outcomes of one display pass.
type RunSummary struct {
	Headlines    int `json:"headlines"`
	Matched      int `json:"matched"`
	NoMatch      int `json:"no_match"`
	SoftFailures int `json:"soft_failures"`
	Unavailable  int `json:"unavailable"`
}

// Add records one result.
func (s *RunSummary) Add(status Status) {
	s.Headlines++
	switch status {
	case StatusMatched:
		s.Matched++
	case StatusNoMatch:
		s.NoMatch++
	case StatusSoftFailure:
		s.SoftFailures++
	case StatusUnavailable:
		s.Unavailable++
	}
}
