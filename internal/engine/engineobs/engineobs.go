package engineobs

import (
	"context"
	"errors"
	"time"

	"market-pulse/internal/interfaces"
	"market-pulse/internal/logger"
	"market-pulse/internal/trace"
	"market-pulse/internal/types"
)

type observableEngine struct {
	engine interfaces.Engine
}

var _ interfaces.Engine = (*observableEngine)(nil)

// Wrap decorates eng with spans and logs. Engines that accept a step router
// send every headline of Run through the decorated Step.
func Wrap(eng interfaces.Engine) interfaces.Engine {
	oe := &observableEngine{
		engine: eng,
	}
	if r, ok := eng.(interfaces.StepRouter); ok {
		r.RouteSteps(oe.Step)
	}
	return oe
}

func (oe *observableEngine) Run(ctx context.Context, q types.FeedQuery, sink interfaces.Display) (types.RunSummary, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Run")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting display pass",
		"query", q.Text,
		"when", q.When,
		"max_items", q.MaxItems,
	)

	summary, err := oe.engine.Run(ctx, q, sink)
	if err != nil && !errors.Is(err, types.ErrNoHeadlines) {
		logger.ErrorWithErrSkip(ctx, 1, "Display pass failed", err,
			"processed", summary.Headlines,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return summary, err
	}

	logger.InfoSkip(ctx, 1, "Display pass completed",
		"headlines", summary.Headlines,
		"matched", summary.Matched,
		"no_match", summary.NoMatch,
		"soft_failures", summary.SoftFailures,
		"unavailable", summary.Unavailable,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return summary, err
}

func (oe *observableEngine) Step(ctx context.Context, h types.Headline) types.Result {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	start := time.Now()

	res := oe.engine.Step(ctx, h)

	fields := []any{
		"headline", h.Title,
		"status", res.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if res.Match != nil {
		fields = append(fields, "ticker", res.Match.Ticker)
	}
	logger.DebugSkip(ctx, 1, "Headline processed", fields...)

	return res
}
