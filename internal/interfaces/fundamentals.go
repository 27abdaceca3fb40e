package interfaces

import (
	"context"

	"market-pulse/internal/types"
)

// FundamentalsFetcher returns the normalized fundamentals for a resolved ticker.
type FundamentalsFetcher interface {
	Fetch(ctx context.Context, ticker string) (*types.FundamentalsRecord, error)
}
