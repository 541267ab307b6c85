package observability

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger configures the global zerolog logger. Development writes to the console,
// everything else writes JSON. level overrides the environment default when it parses.
func InitLogger(serviceName, env, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	global := zerolog.InfoLevel
	if env == "development" {
		global = zerolog.DebugLevel
	}
	if parsed, err := zerolog.ParseLevel(level); err == nil && level != "" {
		global = parsed
	}
	zerolog.SetGlobalLevel(global)

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().Str("service", serviceName).Logger()
		return
	}

	log.Logger = zerolog.New(os.Stdout).With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Str("env", env).
		Logger()
}

// WithRequestLogger stores a copy of the global logger tagged with requestID in ctx
func WithRequestLogger(ctx context.Context, requestID string) context.Context {
	return log.With().Str("request_id", requestID).Logger().WithContext(ctx)
}

// AnnotateRequestLogger adds the signed-in user to the request logger in ctx, if any.
// Loggers taken from ctx afterwards, including by outer middleware, carry the fields.
func AnnotateRequestLogger(ctx context.Context, userID, role string) {
	zerolog.Ctx(ctx).UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("user_id", userID).Str("role", role)
	})
}

// LoggerFromContext returns the request logger stored in ctx, or the global logger,
// enriched with the span ids carried by ctx
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := log.Logger
	if stored := zerolog.Ctx(ctx); stored != nil && stored.GetLevel() != zerolog.Disabled {
		logger = *stored
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		logger = logger.With().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Logger()
	}
	return &logger
}
