package engine

import (
	"market-pulse/internal/interfaces"
)

func New(feed interfaces.FeedSource, r interfaces.Resolver, f interfaces.FundamentalsFetcher) interfaces.Engine {
	return newEngine(feed, r, f)
}
