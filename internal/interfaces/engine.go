package interfaces

import (
	"context"

	"market-pulse/internal/types"
)

// Engine runs display passes over the feed.
type Engine interface {
	Run(ctx context.Context, q types.FeedQuery, sink Display) (types.RunSummary, error)
	Step(ctx context.Context, h types.Headline) types.Result
}

// StepFunc processes a single headline.
type StepFunc func(ctx context.Context, h types.Headline) types.Result

// StepRouter is implemented by engines whose Run can send each headline
// through an outer Step, so decorators observe every item of a pass.
type StepRouter interface {
	RouteSteps(step StepFunc)
}
