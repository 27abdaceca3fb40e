package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"market-pulse/internal/trace"
)

var (
	// Global logger instance; a no-op until Init is called
	base = zap.NewNop()
	// Whether detailed logging (caller info, operation timings) is enabled
	detailedLogging bool
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or console
	Output          string // zap sink, e.g. stderr or a file path
	DetailedLogging bool
}

// Init initializes the global logger from environment variables
func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

// LoadConfigFromEnv loads logging configuration from environment variables.
// Logs default to stderr; stdout carries the rendered feed.
func LoadConfigFromEnv() LogConfig {
	return LogConfig{
		Level:           getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format:          getEnvOrDefault("LOG_FORMAT", "console"),
		Output:          getEnvOrDefault("LOG_OUTPUT", "stderr"),
		DetailedLogging: getEnvOrDefault("LOG_DETAILED", "false") == "true",
	}
}

// InitWithConfig builds the zap core for the given configuration
func InitWithConfig(config LogConfig) error {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(config.Format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	output := config.Output
	if output == "" {
		output = "stderr"
	}
	sink, _, err := zap.Open(output)
	if err != nil {
		return err
	}

	detailedLogging = config.DetailedLogging
	opts := []zap.Option{}
	if detailedLogging {
		// Skip the wrapper functions in this package
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(2))
	}

	SetLogger(zap.New(zapcore.NewCore(enc, sink, parseLogLevel(config.Level)), opts...))
	return nil
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base = l
}

// Sync flushes buffered log entries
func Sync() {
	_ = base.Sync()
}

// parseLogLevel converts string log level to a zap level
func parseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// traceFields extracts trace ID and span ID from context for logging
func traceFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	traceID, spanID, ok := trace.GetTraceFields(ctx)
	if !ok {
		return nil
	}
	return []any{"trace_id", traceID, "span_id", spanID}
}

func log(ctx context.Context, level zapcore.Level, skip int, msg string, args ...any) {
	if fields := traceFields(ctx); fields != nil {
		args = append(fields, args...)
	}
	s := base.Sugar()
	if skip > 0 {
		s = base.WithOptions(zap.AddCallerSkip(skip)).Sugar()
	}
	switch level {
	case zapcore.DebugLevel:
		s.Debugw(msg, args...)
	case zapcore.InfoLevel:
		s.Infow(msg, args...)
	case zapcore.WarnLevel:
		s.Warnw(msg, args...)
	default:
		s.Errorw(msg, args...)
	}
}

func recordSpanError(ctx context.Context, err error) {
	if ctx == nil || err == nil || !trace.Enabled() {
		return
	}
	span := oteltrace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

func Debug(ctx context.Context, msg string, args ...any) {
	log(ctx, zapcore.DebugLevel, 0, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	log(ctx, zapcore.InfoLevel, 0, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	log(ctx, zapcore.WarnLevel, 0, msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	log(ctx, zapcore.ErrorLevel, 0, msg, args...)
}

// ErrorWithErr logs an error message with an error object and marks the span failed
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	recordSpanError(ctx, err)
	log(ctx, zapcore.ErrorLevel, 0, msg, append([]any{"error", err}, args...)...)
}

// DebugSkip, InfoSkip, WarnSkip and ErrorWithErrSkip report the caller
// `skip` frames further up. Observability wrappers use skip=1.

func DebugSkip(ctx context.Context, skip int, msg string, args ...any) {
	log(ctx, zapcore.DebugLevel, skip, msg, args...)
}

func InfoSkip(ctx context.Context, skip int, msg string, args ...any) {
	log(ctx, zapcore.InfoLevel, skip, msg, args...)
}

func WarnSkip(ctx context.Context, skip int, msg string, args ...any) {
	log(ctx, zapcore.WarnLevel, skip, msg, args...)
}

func ErrorWithErrSkip(ctx context.Context, skip int, msg string, err error, args ...any) {
	recordSpanError(ctx, err)
	log(ctx, zapcore.ErrorLevel, skip, msg, append([]any{"error", err}, args...)...)
}

// OperationTimer measures an operation and closes its span
type OperationTimer struct {
	ctx    context.Context
	span   oteltrace.Span
	start  time.Time
	fields []any
}

// StartOperation starts timing an operation with a span named after it
func StartOperation(ctx context.Context, operation string, fields ...any) *OperationTimer {
	ctx, span := trace.StartSpan(ctx, operation)
	if trace.Enabled() {
		span.SetAttributes(toAttributes(fields)...)
	}

	if detailedLogging {
		Debug(ctx, "Operation started", append([]any{"operation", operation}, fields...)...)
	}

	return &OperationTimer{
		ctx:    ctx,
		span:   span,
		start:  time.Now(),
		fields: append([]any{"operation", operation}, fields...),
	}
}

// Context returns the context carrying the operation span
func (ot *OperationTimer) Context() context.Context {
	return ot.ctx
}

// End completes the operation and logs the duration when detailed logging is on
func (ot *OperationTimer) End(additionalFields ...any) {
	duration := time.Since(ot.start)

	if trace.Enabled() {
		ot.span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
		ot.span.SetAttributes(toAttributes(additionalFields)...)
		ot.span.SetStatus(codes.Ok, "completed")
	}
	ot.span.End()

	if detailedLogging {
		fields := append(append([]any{}, ot.fields...), "duration_ms", duration.Milliseconds())
		Debug(ot.ctx, "Operation completed", append(fields, additionalFields...)...)
	}
}

// EndWithError completes the operation with an error
func (ot *OperationTimer) EndWithError(err error, additionalFields ...any) {
	duration := time.Since(ot.start)

	if trace.Enabled() {
		ot.span.SetAttributes(attribute.Int64("duration_ms", duration.Milliseconds()))
		ot.span.RecordError(err)
		ot.span.SetStatus(codes.Error, err.Error())
	}
	ot.span.End()

	fields := append(append([]any{}, ot.fields...), "duration_ms", duration.Milliseconds())
	ErrorWithErr(ot.ctx, "Operation failed", err, append(fields, additionalFields...)...)
}

func toAttributes(fields []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		}
	}
	return attrs
}

// Match logs a resolved headline (always logged at info)
func Match(ctx context.Context, headline, ticker, strategy string, score *float64) {
	if trace.Enabled() {
		span := oteltrace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("company_match", oteltrace.WithAttributes(
				attribute.String("ticker", ticker),
				attribute.String("strategy", strategy),
			))
		}
	}

	fields := []any{"type", "MATCH", "ticker", ticker, "strategy", strategy, "headline", headline}
	if score != nil {
		fields = append(fields, "score", *score)
	}
	log(ctx, zapcore.InfoLevel, 0, "Company detected", fields...)
}

// SoftFailure logs a provider quota or throttling notice
func SoftFailure(ctx context.Context, provider, message string, fields ...any) {
	if trace.Enabled() {
		span := oteltrace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("provider_soft_failure", oteltrace.WithAttributes(
				attribute.String("provider", provider),
			))
		}
	}

	all := append([]any{"type", "SOFT_FAILURE", "provider", provider, "message", message}, fields...)
	log(ctx, zapcore.WarnLevel, 0, "Provider soft failure", all...)
}

// IsDebugEnabled returns whether detailed logging is enabled
func IsDebugEnabled() bool {
	return detailedLogging
}
