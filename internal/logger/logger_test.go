package logger

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"DEBUG", zapcore.DebugLevel},
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"ERROR", zapcore.ErrorLevel},
		{"INFO", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_DETAILED", "true")
	t.Setenv("LOG_OUTPUT", "")

	cfg := LoadConfigFromEnv()
	if cfg.Level != "DEBUG" {
		t.Errorf("Expected level DEBUG, got %s", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("Expected format json, got %s", cfg.Format)
	}
	if !cfg.DetailedLogging {
		t.Error("Expected detailed logging to be enabled")
	}
	if cfg.Output != "stderr" {
		t.Errorf("Expected default output stderr, got %s", cfg.Output)
	}
}

func TestLevelsAndFields(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)
	ctx := context.Background()

	Debug(ctx, "hidden")
	Info(ctx, "fetched feed", "count", 5)
	Warn(ctx, "slow provider")
	ErrorWithErr(ctx, "fetch failed", errors.New("boom"), "provider", "yahoo")

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries above debug, got %d", len(entries))
	}
	if entries[0].Message != "fetched feed" || entries[0].ContextMap()["count"] != int64(5) {
		t.Errorf("Unexpected info entry: %+v", entries[0])
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("Expected warn level, got %v", entries[1].Level)
	}
	fields := entries[2].ContextMap()
	if fields["error"] != "boom" {
		t.Errorf("Expected error field boom, got %v", fields["error"])
	}
	if fields["provider"] != "yahoo" {
		t.Errorf("Expected provider field yahoo, got %v", fields["provider"])
	}
}

func TestMatchAndSoftFailureEvents(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)
	ctx := context.Background()
	score := 0.9

	Match(ctx, "Reliance Q4 profit", "RELIANCE.NS", "PROBE", &score)
	SoftFailure(ctx, "alphavantage", "quota reached")

	matches := logs.FilterField(zap.String("type", "MATCH")).All()
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match entry, got %d", len(matches))
	}
	if matches[0].ContextMap()["ticker"] != "RELIANCE.NS" {
		t.Errorf("Expected ticker RELIANCE.NS, got %v", matches[0].ContextMap()["ticker"])
	}
	if matches[0].ContextMap()["score"] != 0.9 {
		t.Errorf("Expected score 0.9, got %v", matches[0].ContextMap()["score"])
	}

	soft := logs.FilterField(zap.String("type", "SOFT_FAILURE")).All()
	if len(soft) != 1 || soft[0].Level != zapcore.WarnLevel {
		t.Fatalf("Expected one warn-level soft failure entry, got %+v", soft)
	}
}

func TestOperationTimerEndWithError(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	op := StartOperation(context.Background(), "resolve", "strategy", "SEARCH")
	if op.Context() == nil {
		t.Fatal("Expected operation context")
	}
	op.EndWithError(errors.New("upstream down"))

	failed := logs.FilterMessage("Operation failed").All()
	if len(failed) != 1 {
		t.Fatalf("Expected 1 failure entry, got %d", len(failed))
	}
	if failed[0].ContextMap()["operation"] != "resolve" {
		t.Errorf("Expected operation resolve, got %v", failed[0].ContextMap()["operation"])
	}
}
