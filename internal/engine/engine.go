package engine

import (
	"context"
	"errors"
	"fmt"

	"market-pulse/internal/interfaces"
	"market-pulse/internal/logger"
	"market-pulse/internal/types"
)

const NoNewsMessage = "No news found. Try a different query."

type Engine struct {
	feed         interfaces.FeedSource
	resolver     interfaces.Resolver
	fundamentals interfaces.FundamentalsFetcher
	step         interfaces.StepFunc
}

var (
	_ interfaces.Engine     = (*Engine)(nil)
	_ interfaces.StepRouter = (*Engine)(nil)
)

func newEngine(feed interfaces.FeedSource, r interfaces.Resolver, f interfaces.FundamentalsFetcher) *Engine {
	e := &Engine{feed: feed, resolver: r, fundamentals: f}
	e.step = e.Step
	return e
}

// RouteSteps makes Run process headlines through step instead of e.Step.
func (e *Engine) RouteSteps(step interfaces.StepFunc) {
	if step == nil {
		step = e.Step
	}
	e.step = step
}

// Run performs one display pass. Results reach the sink in feed order as soon
// as each is computed; a failing item never stops the ones after it.
func (e *Engine) Run(ctx context.Context, q types.FeedQuery, sink interfaces.Display) (types.RunSummary, error) {
	var summary types.RunSummary

	if err := sink.Header(q); err != nil {
		return summary, fmt.Errorf("render header: %w", err)
	}

	op := logger.StartOperation(ctx, "feed.Fetch", "source", e.feed.Name(), "query", q.Text)
	headlines, err := e.feed.Fetch(op.Context(), q)
	if err != nil {
		op.EndWithError(err)
		if werr := warn(sink, summary); werr != nil {
			return summary, werr
		}
		return summary, fmt.Errorf("fetch headlines: %w", err)
	}

	op.End("count", len(headlines))

	if len(headlines) == 0 {
		logger.Info(ctx, "Feed returned no headlines", "query", q.Text, "when", q.When)
		if werr := warn(sink, summary); werr != nil {
			return summary, werr
		}
		return summary, types.ErrNoHeadlines
	}

	for _, h := range headlines {
		if err := ctx.Err(); err != nil {
			logger.Warn(ctx, "Display pass cancelled", "processed", summary.Headlines, "total", len(headlines))
			if ferr := sink.Footer(summary); ferr != nil {
				return summary, errors.Join(err, fmt.Errorf("render footer: %w", ferr))
			}
			return summary, err
		}

		res := e.step(ctx, h)
		summary.Add(res.Status)
		if err := sink.Item(res); err != nil {
			return summary, fmt.Errorf("render item: %w", err)
		}
	}

	if err := sink.Footer(summary); err != nil {
		return summary, fmt.Errorf("render footer: %w", err)
	}
	return summary, nil
}

func warn(sink interfaces.Display, summary types.RunSummary) error {
	if err := sink.Warning(NoNewsMessage); err != nil {
		return fmt.Errorf("render warning: %w", err)
	}
	if err := sink.Footer(summary); err != nil {
		return fmt.Errorf("render footer: %w", err)
	}
	return nil
}

// Step resolves one headline and, on a match, fetches its fundamentals.
func (e *Engine) Step(ctx context.Context, h types.Headline) types.Result {
	res := types.Result{Headline: h}

	match, err := e.resolver.Resolve(ctx, h.Title)
	if err != nil {
		res.Status, res.Message = failure(err)
		return res
	}
	if match == nil {
		res.Status = types.StatusNoMatch
		return res
	}
	res.Match = match

	rec, err := e.fundamentals.Fetch(ctx, match.Ticker)
	if err != nil {
		if sf, ok := types.AsSoftFailure(err); ok {
			res.Status, res.Message = types.StatusSoftFailure, sf.Message
		} else {
			res.Status = types.StatusUnavailable
			res.Message = fmt.Sprintf("Fundamentals unavailable for %s.", match.Ticker)
		}
		return res
	}

	res.Fundamentals = rec
	res.Status = types.StatusMatched
	return res
}

// failure maps a resolver error onto an item status. Resolvers only return
// soft failures; anything else is treated as no match.
func failure(err error) (types.Status, string) {
	if sf, ok := types.AsSoftFailure(err); ok {
		return types.StatusSoftFailure, sf.Message
	}
	return types.StatusNoMatch, ""
}
