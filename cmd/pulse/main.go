package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"market-pulse/internal/logger"
	"market-pulse/internal/store"
	"market-pulse/internal/trace"
	"market-pulse/internal/types"
)

var version = "dev"

type options struct {
	configPath string
	query      string
	when       string
	maxItems   int
	strategy   string
	format     string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("pulse", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "config.yaml", "path to the YAML config file")
	fs.StringVar(&o.query, "query", "", "news search topic")
	fs.StringVar(&o.when, "when", "", "recency window: 1d, 3d or 7d")
	fs.IntVar(&o.maxItems, "max", 0, "number of headlines to show (5-30)")
	fs.StringVar(&o.strategy, "strategy", "", "resolver strategy: SEARCH or PROBE")
	fs.StringVar(&o.format, "format", "", "output format: text or json")
	err := fs.Parse(args)
	return o, err
}

// applyFlags overrides config values with the flags that were set
func applyFlags(cfg *store.Config, o options) error {
	if o.query != "" {
		cfg.Feed.Query = o.query
	}
	if o.when != "" {
		cfg.Feed.When = o.when
	}
	if o.maxItems != 0 {
		cfg.Feed.MaxItems = o.maxItems
	}
	if o.strategy != "" {
		cfg.Resolver.Strategy = strings.ToUpper(o.strategy)
	}
	if o.format != "" {
		cfg.Output.Format = strings.ToLower(o.format)
	}
	return cfg.Validate()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		return 2
	}

	if err := initializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer func() {
		if err := trace.Shutdown(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shutdown tracer: %v\n", err)
		}
	}()

	cfg, err := store.LoadConfig(opts.configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", opts.configPath)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := applyFlags(cfg, opts); err != nil {
		logger.ErrorWithErr(ctx, "Invalid flags", err)
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger.Info(ctx, "Market Pulse starting",
		"version", version,
		"strategy", cfg.Resolver.Strategy,
		"fundamentals", cfg.FundamentalsProvider(),
		"throttle", cfg.Throttle.Mode,
	)

	p := newProviders(cfg)
	eng := initializeEngine(
		initializeFeed(cfg),
		initializeResolver(cfg, p),
		initializeFundamentals(cfg, p),
	)
	display := initializeDisplay(cfg, os.Stdout)

	q := types.FeedQuery{Text: cfg.Feed.Query, When: cfg.Feed.When, MaxItems: cfg.Feed.MaxItems}
	_, err = eng.Run(ctx, q, display)
	switch {
	case err == nil, errors.Is(err, types.ErrNoHeadlines):
		return 0
	case errors.Is(err, context.Canceled):
		logger.Info(ctx, "Shutting down...")
		return 130
	default:
		return 1
	}
}
