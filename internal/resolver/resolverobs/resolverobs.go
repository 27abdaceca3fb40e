package resolverobs

import (
	"context"

	"market-pulse/internal/interfaces"
	"market-pulse/internal/logger"
	"market-pulse/internal/trace"
	"market-pulse/internal/types"
)

// observableResolver wraps a Resolver with observability (logging & tracing)
type observableResolver struct {
	resolver interfaces.Resolver
	strategy string
}

// Compile-time interface check
var _ interfaces.Resolver = (*observableResolver)(nil)

// Wrap wraps a resolver with observability middleware
func Wrap(resolver interfaces.Resolver, strategy string) interfaces.Resolver {
	return &observableResolver{
		resolver: resolver,
		strategy: strategy,
	}
}

func (or *observableResolver) Resolve(ctx context.Context, headline string) (*types.CompanyMatch, error) {
	ctx, span := trace.StartSpan(ctx, "resolver.Resolve")
	defer span.End()

	match, err := or.resolver.Resolve(ctx, headline)
	if err != nil {
		if sf, ok := types.AsSoftFailure(err); ok {
			logger.SoftFailure(ctx, sf.Provider, sf.Message, "strategy", or.strategy)
		} else {
			logger.ErrorWithErrSkip(ctx, 1, "Resolver failed", err, "strategy", or.strategy)
		}
		return nil, err
	}

	if match == nil {
		logger.DebugSkip(ctx, 1, "No company detected",
			"strategy", or.strategy,
			"headline", headline,
		)
		return nil, nil
	}

	logger.Match(ctx, headline, match.Ticker, or.strategy, match.ConfidenceScore)
	return match, nil
}
