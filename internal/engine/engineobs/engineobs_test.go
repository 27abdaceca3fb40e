package engineobs

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"market-pulse/internal/engine"
	"market-pulse/internal/logger"
	"market-pulse/internal/types"
)

type stubFeed struct{ headlines []types.Headline }

func (f *stubFeed) Name() string { return "stub" }

func (f *stubFeed) Fetch(context.Context, types.FeedQuery) ([]types.Headline, error) {
	return f.headlines, nil
}

type stubResolver struct{}

func (stubResolver) Resolve(context.Context, string) (*types.CompanyMatch, error) {
	return nil, nil
}

type stubFundamentals struct{}

func (stubFundamentals) Fetch(context.Context, string) (*types.FundamentalsRecord, error) {
	return nil, types.ErrNoData
}

type discardDisplay struct{}

func (discardDisplay) Header(types.FeedQuery) error  { return nil }
func (discardDisplay) Item(types.Result) error       { return nil }
func (discardDisplay) Warning(string) error          { return nil }
func (discardDisplay) Footer(types.RunSummary) error { return nil }

func TestRunLogsEveryHeadline(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(nil) })

	feed := &stubFeed{headlines: []types.Headline{{Title: "Infosys wins deal"}, {Title: "Wipro beats"}}}
	eng := Wrap(engine.New(feed, stubResolver{}, stubFundamentals{}))

	summary, err := eng.Run(context.Background(), types.FeedQuery{Text: "x", When: "1d", MaxItems: 5}, discardDisplay{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Headlines != 2 {
		t.Fatalf("Expected 2 headlines, got %d", summary.Headlines)
	}

	processed := logs.FilterMessage("Headline processed").All()
	if len(processed) != 2 {
		t.Fatalf("Expected 2 per-headline logs, got %d", len(processed))
	}
	if got := processed[0].ContextMap()["headline"]; got != "Infosys wins deal" {
		t.Errorf("Expected first log for Infosys, got %v", got)
	}
	if logs.FilterMessage("Display pass completed").Len() != 1 {
		t.Error("Expected one pass completion log")
	}
}
