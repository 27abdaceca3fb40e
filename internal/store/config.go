package store

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"market-pulse/internal/types"
)

const (
	ProviderAlphaVantage = "ALPHAVANTAGE"
	ProviderFinnhub      = "FINNHUB"
	ProviderYahoo        = "YAHOO"
	ProviderKite         = "KITE"

	ThrottleFixed       = "FIXED"
	ThrottleTokenBucket = "TOKEN_BUCKET"

	DefaultQuery = "stock market OR finance OR earnings OR IPO OR acquisition"

	MinFeedItems = 5
	MaxFeedItems = 30

	// Public demo key; only answers for a handful of symbols.
	alphaVantageDemoKey = "demo"
)

// Words that look like proper nouns in headlines but never name a listed company.
var DefaultStopwords = []string{
	"MARKET", "MARKETS", "STOCK", "STOCKS", "SHARE", "SHARES", "SENSEX", "NIFTY",
	"TODAY", "INDIA", "INDIAN", "GLOBAL", "WORLD", "NEWS", "LIVE", "UPDATE",
	"UPDATES", "WHAT", "WHEN", "WHY", "AMID", "AFTER", "BEFORE", "WEEK", "MONTH",
	"YEAR", "QUARTER", "PROFIT", "RESULTS", "EARNINGS", "RUPEE", "DOLLAR",
}

type Config struct {
	Feed struct {
		Query          string `yaml:"query"`
		When           string `yaml:"when"`
		MaxItems       int    `yaml:"max_items"`
		Language       string `yaml:"language"`
		Country        string `yaml:"country"`
		Edition        string `yaml:"edition"`
		BaseURL        string `yaml:"base_url"`
		ScrapeFallback *bool  `yaml:"scrape_fallback"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"feed"`
	Resolver struct {
		Strategy       string   `yaml:"strategy"`
		SearchProvider string   `yaml:"search_provider"`
		ProbeProvider  string   `yaml:"probe_provider"`
		Suffixes       []string `yaml:"suffixes"`
		MinTokenLength int      `yaml:"min_token_length"`
		MinScore       float64  `yaml:"min_score"`
		Stopwords      []string `yaml:"stopwords"`
	} `yaml:"resolver"`
	Fundamentals struct {
		Provider         string `yaml:"provider"`
		DescriptionLimit int    `yaml:"description_limit"`
	} `yaml:"fundamentals"`
	Provider struct {
		TimeoutSeconds int `yaml:"timeout_seconds"`
		AlphaVantage   struct {
			BaseURL   string `yaml:"base_url"`
			APIKey    string `yaml:"api_key"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"alphavantage"`
		Yahoo struct {
			BaseURL   string `yaml:"base_url"`
			CookieURL string `yaml:"cookie_url"`
		} `yaml:"yahoo"`
		Finnhub struct {
			BaseURL   string `yaml:"base_url"`
			APIKey    string `yaml:"api_key"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"finnhub"`
		Kite struct {
			BaseURL        string `yaml:"base_url"`
			APIKeyEnv      string `yaml:"api_key_env"`
			AccessTokenEnv string `yaml:"access_token_env"`
		} `yaml:"kite"`
	} `yaml:"provider"`
	Throttle struct {
		Mode     string `yaml:"mode"`
		DelayMS  *int   `yaml:"delay_ms"`
		Burst    int    `yaml:"burst"`
		RefillMS int    `yaml:"refill_ms"`
	} `yaml:"throttle"`
	Output struct {
		Format string `yaml:"format"`
	} `yaml:"output"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Feed.Query == "" {
		c.Feed.Query = DefaultQuery
	}
	if c.Feed.When == "" {
		c.Feed.When = "7d"
	}
	if c.Feed.MaxItems == 0 {
		c.Feed.MaxItems = 15
	}
	if c.Feed.Language == "" {
		c.Feed.Language = "en-IN"
	}
	if c.Feed.Country == "" {
		c.Feed.Country = "IN"
	}
	if c.Feed.Edition == "" {
		c.Feed.Edition = "IN:en"
	}
	if c.Feed.BaseURL == "" {
		c.Feed.BaseURL = "https://news.google.com"
	}
	if c.Feed.TimeoutSeconds == 0 {
		c.Feed.TimeoutSeconds = 15
	}
	if c.Feed.ScrapeFallback == nil {
		enabled := true
		c.Feed.ScrapeFallback = &enabled
	}

	if c.Resolver.Strategy == "" {
		c.Resolver.Strategy = types.StrategySearch
	}
	if c.Resolver.SearchProvider == "" {
		c.Resolver.SearchProvider = ProviderAlphaVantage
	}
	if c.Resolver.ProbeProvider == "" {
		c.Resolver.ProbeProvider = ProviderYahoo
	}
	if len(c.Resolver.Suffixes) == 0 {
		c.Resolver.Suffixes = []string{".NS"}
	}
	if c.Resolver.MinTokenLength == 0 {
		c.Resolver.MinTokenLength = 4
	}
	if c.Resolver.Stopwords == nil {
		c.Resolver.Stopwords = DefaultStopwords
	}

	if c.Fundamentals.DescriptionLimit == 0 {
		c.Fundamentals.DescriptionLimit = 300
	}

	if c.Provider.TimeoutSeconds == 0 {
		c.Provider.TimeoutSeconds = 10
	}
	if c.Provider.AlphaVantage.BaseURL == "" {
		c.Provider.AlphaVantage.BaseURL = "https://www.alphavantage.co"
	}
	if c.Provider.AlphaVantage.APIKeyEnv == "" {
		c.Provider.AlphaVantage.APIKeyEnv = "ALPHA_VANTAGE_API_KEY"
	}
	if c.Provider.Yahoo.BaseURL == "" {
		c.Provider.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.Provider.Yahoo.CookieURL == "" {
		c.Provider.Yahoo.CookieURL = "https://fc.yahoo.com"
	}
	if c.Provider.Finnhub.APIKeyEnv == "" {
		c.Provider.Finnhub.APIKeyEnv = "FINNHUB_API_KEY"
	}
	if c.Provider.Kite.APIKeyEnv == "" {
		c.Provider.Kite.APIKeyEnv = "KITE_API_KEY"
	}
	if c.Provider.Kite.AccessTokenEnv == "" {
		c.Provider.Kite.AccessTokenEnv = "KITE_ACCESS_TOKEN"
	}

	if c.Throttle.Mode == "" {
		c.Throttle.Mode = ThrottleFixed
	}
	if c.Throttle.DelayMS == nil {
		delay := 1000
		c.Throttle.DelayMS = &delay
	}
	if c.Throttle.Burst == 0 {
		c.Throttle.Burst = 1
	}
	if c.Throttle.RefillMS == 0 {
		c.Throttle.RefillMS = 1000
	}

	if c.Output.Format == "" {
		c.Output.Format = "text"
	}

	c.Resolver.Strategy = strings.ToUpper(c.Resolver.Strategy)
	c.Resolver.SearchProvider = strings.ToUpper(c.Resolver.SearchProvider)
	c.Resolver.ProbeProvider = strings.ToUpper(c.Resolver.ProbeProvider)
	c.Fundamentals.Provider = strings.ToUpper(c.Fundamentals.Provider)
	c.Throttle.Mode = strings.ToUpper(c.Throttle.Mode)
	c.Output.Format = strings.ToLower(c.Output.Format)
}

func (c *Config) Validate() error {
	switch c.Feed.When {
	case "1d", "3d", "7d":
	default:
		return fmt.Errorf("invalid feed.when '%s': must be '1d', '3d' or '7d'", c.Feed.When)
	}
	if c.Feed.MaxItems < MinFeedItems || c.Feed.MaxItems > MaxFeedItems {
		return fmt.Errorf("feed.max_items must be between %d-%d, got %d", MinFeedItems, MaxFeedItems, c.Feed.MaxItems)
	}
	if strings.TrimSpace(c.Feed.Query) == "" {
		return errors.New("feed.query cannot be empty")
	}
	if c.Resolver.Strategy != types.StrategySearch && c.Resolver.Strategy != types.StrategyProbe {
		return fmt.Errorf("invalid resolver.strategy '%s': must be 'SEARCH' or 'PROBE'", c.Resolver.Strategy)
	}
	if c.Resolver.SearchProvider != ProviderAlphaVantage && c.Resolver.SearchProvider != ProviderFinnhub {
		return fmt.Errorf("invalid resolver.search_provider '%s': must be 'ALPHAVANTAGE' or 'FINNHUB'", c.Resolver.SearchProvider)
	}
	if c.Resolver.ProbeProvider != ProviderYahoo && c.Resolver.ProbeProvider != ProviderKite {
		return fmt.Errorf("invalid resolver.probe_provider '%s': must be 'YAHOO' or 'KITE'", c.Resolver.ProbeProvider)
	}
	for _, s := range c.Resolver.Suffixes {
		if _, ok := types.Exchanges[strings.ToUpper(s)]; !ok {
			return fmt.Errorf("unsupported resolver suffix '%s'", s)
		}
	}
	if c.Resolver.MinTokenLength < 1 {
		return fmt.Errorf("resolver.min_token_length must be positive, got %d", c.Resolver.MinTokenLength)
	}
	if c.Resolver.MinScore < 0 || c.Resolver.MinScore > 1 {
		return fmt.Errorf("resolver.min_score must be between 0-1, got %.2f", c.Resolver.MinScore)
	}
	switch c.FundamentalsProvider() {
	case ProviderAlphaVantage, ProviderYahoo, ProviderFinnhub:
	default:
		return fmt.Errorf("invalid fundamentals.provider '%s': must be 'ALPHAVANTAGE', 'YAHOO' or 'FINNHUB'", c.Fundamentals.Provider)
	}
	if c.Fundamentals.DescriptionLimit < 1 {
		return fmt.Errorf("fundamentals.description_limit must be positive, got %d", c.Fundamentals.DescriptionLimit)
	}
	if c.Provider.TimeoutSeconds < 1 {
		return fmt.Errorf("provider.timeout_seconds must be positive, got %d", c.Provider.TimeoutSeconds)
	}
	if c.Throttle.Mode != ThrottleFixed && c.Throttle.Mode != ThrottleTokenBucket {
		return fmt.Errorf("throttle.mode must be 'FIXED' or 'TOKEN_BUCKET', got '%s'", c.Throttle.Mode)
	}
	if *c.Throttle.DelayMS < 0 || c.Throttle.Burst < 1 || c.Throttle.RefillMS < 1 {
		return errors.New("throttle.delay_ms must be >= 0, burst and refill_ms must be positive")
	}
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("output.format must be 'text' or 'json', got '%s'", c.Output.Format)
	}
	return nil
}

// FundamentalsProvider returns the configured provider, or the one whose
// symbols the resolver produces when unset.
func (c *Config) FundamentalsProvider() string {
	if c.Fundamentals.Provider != "" {
		return c.Fundamentals.Provider
	}
	if c.Resolver.Strategy == types.StrategyProbe {
		return ProviderYahoo
	}
	if c.Resolver.SearchProvider == ProviderFinnhub {
		return ProviderFinnhub
	}
	return ProviderAlphaVantage
}

// AlphaVantageKey resolves the key: config value, then env, then the demo key.
func (c *Config) AlphaVantageKey() string {
	return resolveSecret(c.Provider.AlphaVantage.APIKey, c.Provider.AlphaVantage.APIKeyEnv, alphaVantageDemoKey)
}

func (c *Config) FinnhubKey() string {
	return resolveSecret(c.Provider.Finnhub.APIKey, c.Provider.Finnhub.APIKeyEnv, "")
}

func (c *Config) KiteCredentials() (apiKey, accessToken string) {
	return os.Getenv(c.Provider.Kite.APIKeyEnv), os.Getenv(c.Provider.Kite.AccessTokenEnv)
}

func resolveSecret(explicit, envName, fallback string) string {
	if explicit != "" {
		return explicit
	}
	if envName != "" {
		if v := os.Getenv(envName); v != "" {
			return v
		}
	}
	return fallback
}

// LoadConfig reads a YAML config file. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, err
		}
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &c, nil
}
