package interfaces

import (
	"context"

	"market-pulse/internal/types"
)

// FeedSource delivers ordered headlines for a query. An empty result is not an error.
type FeedSource interface {
	Name() string
	Fetch(ctx context.Context, q types.FeedQuery) ([]types.Headline, error)
}
