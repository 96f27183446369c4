package telem

import (
	"context"
	"os"

	kitlog "github.com/go-kit/kit/log"
	"go.opencensus.io/trace"
)

// ctxKey is a private type, only constructable by this package, which helps
// namespace the values we store in a context.
type ctxKey string

const loggerKey = ctxKey("logger")

// WithLogger stores a logger into the context, for retrieval by LoggerFrom.
func WithLogger(ctx context.Context, logger kitlog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFrom retrieves the logger stored in the context, falling back to a
// logfmt logger on stderr so callers can log unconditionally.
func LoggerFrom(ctx context.Context) kitlog.Logger {
	if logger, ok := ctx.Value(loggerKey).(kitlog.Logger); ok {
		return logger
	}

	return kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
}

// StartSpan opens a new span and returns the context logger decorated with a
// trace_id that can be used to look the span up. Intended for the top of any
// operation we want to observe:
//
//	ctx, span, logger := telem.StartSpan(ctx, "cmd/teesink.copyStream")
//	defer span.End()
func StartSpan(ctx context.Context, name string) (context.Context, *trace.Span, kitlog.Logger) {
	ctx, span := trace.StartSpan(ctx, name)
	logger := kitlog.With(LoggerFrom(ctx), "trace_id", span.SpanContext().TraceID)

	return ctx, span, logger
}
