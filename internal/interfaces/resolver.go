package interfaces

import (
	"context"

	"market-pulse/internal/types"
)

// Resolver maps headline text to at most one company.
//
// A nil match with a nil error means no company was detected. The only errors
// returned are *types.SoftFailure values; transient and malformed provider
// responses are folded into "no match".
type Resolver interface {
	Resolve(ctx context.Context, headline string) (*types.CompanyMatch, error)
}

// SymbolSearcher is a remote fuzzy symbol search.
type SymbolSearcher interface {
	Search(ctx context.Context, keywords string) ([]types.SymbolMatch, error)
}

// Prober checks whether a market-qualified symbol exists and returns the
// company name the service reports for it. Unknown symbols yield
// types.ErrNoData.
type Prober interface {
	Probe(ctx context.Context, symbol string) (string, error)
}
