package resolver

import (
	"context"
	"strings"

	"market-pulse/internal/interfaces"
	"market-pulse/internal/logger"
	"market-pulse/internal/types"
)

// ProbeResolver extracts proper-noun candidates from the headline and probes
// each as an exchange-qualified symbol until one is confirmed.
type ProbeResolver struct {
	extractor *Extractor
	prober    interfaces.Prober
	suffixes  []string
}

var _ interfaces.Resolver = (*ProbeResolver)(nil)

func NewProbeResolver(extractor *Extractor, prober interfaces.Prober, suffixes []string) *ProbeResolver {
	if len(suffixes) == 0 {
		suffixes = []string{".NS"}
	}
	return &ProbeResolver{
		extractor: extractor,
		prober:    prober,
		suffixes:  suffixes,
	}
}

func (r *ProbeResolver) Resolve(ctx context.Context, headline string) (*types.CompanyMatch, error) {
	candidates := r.extractor.Extract(headline)
	if len(candidates) == 0 {
		return nil, nil
	}

	// First soft failure seen; surfaced only if nothing is confirmed
	var soft *types.SoftFailure

	symbol, name, ok := firstMatch(ctx, Symbols(candidates, r.suffixes), func(ctx context.Context, sym string) (string, bool) {
		name, err := r.prober.Probe(ctx, sym)
		if err != nil {
			if sf, isSoft := types.AsSoftFailure(err); isSoft {
				if soft == nil {
					soft = sf
				}
			} else {
				logger.Debug(ctx, "Probe rejected candidate", "symbol", sym, "error", err)
			}
			return "", false
		}
		name = strings.TrimSpace(name)
		return name, name != ""
	})
	if !ok {
		if soft != nil {
			return nil, soft
		}
		return nil, nil
	}

	base, _ := types.SplitSymbol(symbol)
	score := Confidence(base, name)
	match := &types.CompanyMatch{
		Ticker:          symbol,
		DisplayName:     name,
		ConfidenceScore: &score,
		Strategy:        types.StrategyProbe,
	}
	if ex, ok := types.ExchangeFor(symbol); ok {
		match.Region = ex.Region
	}
	return match, nil
}

// Confidence scores how well the confirmed name supports the candidate:
// 1.0 when the name starts with it, 0.75 when it contains it, 0.5 otherwise.
func Confidence(candidate, name string) float64 {
	c := strings.ToUpper(candidate)
	n := strings.ToUpper(name)
	switch {
	case strings.HasPrefix(n, c):
		return 1.0
	case strings.Contains(n, c):
		return 0.75
	default:
		return 0.5
	}
}
