package resolver

import (
	"context"
	"strings"

	"market-pulse/internal/interfaces"
	"market-pulse/internal/logger"
	"market-pulse/internal/types"
)

// SearchResolver sends the whole headline to a fuzzy symbol search and takes
// the top-ranked hit.
type SearchResolver struct {
	searcher interfaces.SymbolSearcher
	minScore float64
}

var _ interfaces.Resolver = (*SearchResolver)(nil)

// NewSearchResolver rejects top hits scoring below minScore (0 accepts any)
func NewSearchResolver(searcher interfaces.SymbolSearcher, minScore float64) *SearchResolver {
	return &SearchResolver{searcher: searcher, minScore: minScore}
}

func (r *SearchResolver) Resolve(ctx context.Context, headline string) (*types.CompanyMatch, error) {
	if strings.TrimSpace(headline) == "" {
		return nil, nil
	}

	matches, err := r.searcher.Search(ctx, headline)
	if err != nil {
		if sf, ok := types.AsSoftFailure(err); ok {
			return nil, sf
		}
		logger.Warn(ctx, "Symbol search failed, treating as no match", "error", err)
		return nil, nil
	}
	if len(matches) == 0 {
		return nil, nil
	}

	top := matches[0]
	if strings.TrimSpace(top.Symbol) == "" {
		return nil, nil
	}
	if top.Score != nil && *top.Score < r.minScore {
		logger.Debug(ctx, "Top symbol match below threshold",
			"symbol", top.Symbol,
			"score", *top.Score,
			"min_score", r.minScore,
		)
		return nil, nil
	}

	name := strings.TrimSpace(top.Name)
	if name == "" {
		name = top.Symbol
	}
	return &types.CompanyMatch{
		Ticker:          top.Symbol,
		DisplayName:     name,
		Region:          top.Region,
		ConfidenceScore: top.Score,
		Strategy:        types.StrategySearch,
	}, nil
}
