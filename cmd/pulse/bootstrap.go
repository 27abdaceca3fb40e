package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"market-pulse/internal/api"
	"market-pulse/internal/engine"
	"market-pulse/internal/engine/engineobs"
	"market-pulse/internal/fundamentals"
	"market-pulse/internal/fundamentals/fundamentalsobs"
	"market-pulse/internal/interfaces"
	"market-pulse/internal/logger"
	"market-pulse/internal/news"
	"market-pulse/internal/provider/alphavantage"
	"market-pulse/internal/provider/finnhub"
	"market-pulse/internal/provider/kite"
	"market-pulse/internal/provider/yahoo"
	"market-pulse/internal/ratelimit"
	"market-pulse/internal/render"
	"market-pulse/internal/resolver"
	"market-pulse/internal/resolver/resolverobs"
	"market-pulse/internal/store"
	"market-pulse/internal/trace"
	"market-pulse/internal/types"

	"github.com/joho/godotenv"
)

// initializeSystem loads .env and initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(version); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// providers builds each provider client once so the search, probe and
// fundamentals roles share a client (and its throttle) when they name the
// same provider.
type providers struct {
	cfg      *store.Config
	limiters *ratelimit.Registry
	timeout  time.Duration

	alphaVantage *alphavantage.Client
	yahoo        *yahoo.Client
	finnhub      *finnhub.Client
	kite         *kite.Prober
}

func newProviders(cfg *store.Config) *providers {
	return &providers{
		cfg:      cfg,
		limiters: initializeThrottle(cfg),
		timeout:  time.Duration(cfg.Provider.TimeoutSeconds) * time.Second,
	}
}

// initializeThrottle registers one limiter per provider
func initializeThrottle(cfg *store.Config) *ratelimit.Registry {
	reg := ratelimit.NewRegistry()
	for _, name := range []string{alphavantage.Name, yahoo.Name, finnhub.Name, kite.Name} {
		var l ratelimit.Limiter
		if cfg.Throttle.Mode == store.ThrottleTokenBucket {
			l = ratelimit.NewTokenBucket(cfg.Throttle.Burst, time.Duration(cfg.Throttle.RefillMS)*time.Millisecond)
		} else {
			l = ratelimit.NewFixedDelay(time.Duration(*cfg.Throttle.DelayMS) * time.Millisecond)
		}
		reg.Add(name, l)
	}
	return reg
}

func (p *providers) clientOptions(name string) []api.ClientOption {
	return []api.ClientOption{
		api.WithTimeout(p.timeout),
		api.WithLimiter(p.limiters.Get(name)),
		api.WithLogging(logger.IsDebugEnabled()),
	}
}

// sdkHTTPClient paces requests made by SDK-owned clients
func (p *providers) sdkHTTPClient(name string) *http.Client {
	return &http.Client{
		Timeout:   p.timeout,
		Transport: &ratelimit.Transport{Limiter: p.limiters.Get(name)},
	}
}

func (p *providers) AlphaVantage() *alphavantage.Client {
	if p.alphaVantage == nil {
		p.alphaVantage = alphavantage.New(p.cfg.Provider.AlphaVantage.BaseURL, p.cfg.AlphaVantageKey(), p.clientOptions(alphavantage.Name)...)
	}
	return p.alphaVantage
}

func (p *providers) Yahoo() *yahoo.Client {
	if p.yahoo == nil {
		p.yahoo = yahoo.New(p.cfg.Provider.Yahoo.BaseURL, p.cfg.Provider.Yahoo.CookieURL, p.clientOptions(yahoo.Name)...)
	}
	return p.yahoo
}

func (p *providers) Finnhub() *finnhub.Client {
	if p.finnhub == nil {
		p.finnhub = finnhub.New(p.cfg.FinnhubKey(), p.cfg.Provider.Finnhub.BaseURL, p.sdkHTTPClient(finnhub.Name))
	}
	return p.finnhub
}

func (p *providers) Kite() *kite.Prober {
	if p.kite == nil {
		apiKey, accessToken := p.cfg.KiteCredentials()
		p.kite = kite.New(apiKey, accessToken, p.cfg.Provider.Kite.BaseURL, p.sdkHTTPClient(kite.Name))
	}
	return p.kite
}

// initializeFeed builds the news service (RSS with scrape fallback)
func initializeFeed(cfg *store.Config) interfaces.FeedSource {
	fc := news.DefaultServiceConfig()
	fc.BaseURL = cfg.Feed.BaseURL
	fc.Language = cfg.Feed.Language
	fc.Country = cfg.Feed.Country
	fc.Edition = cfg.Feed.Edition
	fc.Timeout = time.Duration(cfg.Feed.TimeoutSeconds) * time.Second
	fc.ScrapeFallback = *cfg.Feed.ScrapeFallback

	return news.NewService(fc, nil)
}

// initializeResolver builds the configured resolver strategy with observability
func initializeResolver(cfg *store.Config, p *providers) interfaces.Resolver {
	var r interfaces.Resolver

	switch cfg.Resolver.Strategy {
	case types.StrategyProbe:
		var prober interfaces.Prober
		if cfg.Resolver.ProbeProvider == store.ProviderKite {
			prober = p.Kite()
		} else {
			prober = p.Yahoo()
		}
		extractor := resolver.NewExtractor(cfg.Resolver.MinTokenLength, cfg.Resolver.Stopwords)
		r = resolver.NewProbeResolver(extractor, prober, cfg.Resolver.Suffixes)
	default:
		var searcher interfaces.SymbolSearcher
		if cfg.Resolver.SearchProvider == store.ProviderFinnhub {
			searcher = p.Finnhub()
		} else {
			searcher = p.AlphaVantage()
		}
		r = resolver.NewSearchResolver(searcher, cfg.Resolver.MinScore)
	}

	// Wrap with observability middleware
	return resolverobs.Wrap(r, cfg.Resolver.Strategy)
}

// initializeFundamentals builds the fundamentals fetcher with observability
func initializeFundamentals(cfg *store.Config, p *providers) interfaces.FundamentalsFetcher {
	limit := cfg.Fundamentals.DescriptionLimit
	provider := cfg.FundamentalsProvider()

	var f interfaces.FundamentalsFetcher
	switch provider {
	case store.ProviderYahoo:
		f = fundamentals.NewYahoo(p.Yahoo(), limit)
	case store.ProviderFinnhub:
		f = fundamentals.NewFinnhub(p.Finnhub(), limit)
	default:
		f = fundamentals.NewAlphaVantage(p.AlphaVantage(), limit)
	}

	// Wrap with observability middleware
	return fundamentalsobs.Wrap(f, provider)
}

// initializeEngine initializes and returns the engine with observability
func initializeEngine(feed interfaces.FeedSource, r interfaces.Resolver, f interfaces.FundamentalsFetcher) interfaces.Engine {
	// Create base engine
	eng := engine.New(feed, r, f)

	// Wrap with observability middleware
	return engineobs.Wrap(eng)
}

// initializeDisplay picks the renderer for the output format
func initializeDisplay(cfg *store.Config, w io.Writer) interfaces.Display {
	if cfg.Output.Format == "json" {
		return render.NewJSONRenderer(w)
	}
	return render.NewTextRenderer(w)
}
