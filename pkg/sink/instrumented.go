package sink

import (
	"context"
	"unicode/utf8"

	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opencensus.io/trace"
)

var (
	sinkOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teesink_sink_operation_duration_seconds",
			Help:    "Distribution of time spent applying sink operations, by sink and operation",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms -> ~1s
		},
		[]string{"sink", "operation"},
	)
	sinkWriteBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teesink_sink_write_bytes",
			Help:    "Distribution of payload sizes written to sinks",
			Buckets: prometheus.ExponentialBuckets(1, 2, 13), // 1 -> 8192
		},
		[]string{"sink"},
	)
)

type instrumentedSink struct {
	Sink
	logger          kitlog.Logger
	name            string
	durationSeconds prometheus.ObserverVec
	writeBytes      prometheus.ObserverVec
}

// NewInstrumentedSink wraps an existing sink, causing every operation to be
// logged, capture payload size and duration in metrics, and create new spans.
// Decorate the innermost sink: that ensures we track the lowest level
// operation, which is often what we'll be interested in.
func NewInstrumentedSink(logger kitlog.Logger, name string, s Sink) Sink {
	labels := prometheus.Labels(map[string]string{"sink": name})
	logger = kitlog.With(logger, "sink", name)

	return &instrumentedSink{
		Sink:            s,
		logger:          logger,
		name:            name,
		durationSeconds: sinkOperationDurationSeconds.MustCurryWith(labels),
		writeBytes:      sinkWriteBytes.MustCurryWith(labels),
	}
}

func (s *instrumentedSink) WriteRune(ctx context.Context, r rune) error {
	return s.observe(ctx, "WriteRune", utf8.RuneLen(r), func(ctx context.Context) error {
		return s.Sink.WriteRune(ctx, r)
	})
}

func (s *instrumentedSink) Write(ctx context.Context, p []byte, offset, length int) error {
	return s.observe(ctx, "Write", length, func(ctx context.Context) error {
		return s.Sink.Write(ctx, p, offset, length)
	})
}

func (s *instrumentedSink) AppendRune(ctx context.Context, r rune) error {
	return s.observe(ctx, "AppendRune", utf8.RuneLen(r), func(ctx context.Context) error {
		return s.Sink.AppendRune(ctx, r)
	})
}

func (s *instrumentedSink) AppendString(ctx context.Context, str string) error {
	return s.observe(ctx, "AppendString", len(str), func(ctx context.Context) error {
		return s.Sink.AppendString(ctx, str)
	})
}

func (s *instrumentedSink) AppendRange(ctx context.Context, str string, offset, length int) error {
	return s.observe(ctx, "AppendRange", length, func(ctx context.Context) error {
		return s.Sink.AppendRange(ctx, str, offset, length)
	})
}

func (s *instrumentedSink) Flush(ctx context.Context) error {
	return s.observe(ctx, "Flush", 0, func(ctx context.Context) error {
		return s.Sink.Flush(ctx)
	})
}

func (s *instrumentedSink) Close(ctx context.Context) error {
	return s.observe(ctx, "Close", 0, func(ctx context.Context) error {
		return s.Sink.Close(ctx)
	})
}

func (s *instrumentedSink) observe(ctx context.Context, operation string, size int, do func(context.Context) error) (err error) {
	ctx, span := trace.StartSpan(ctx, "pkg/sink.Sink."+operation)
	defer span.End()

	span.AddAttributes(
		trace.StringAttribute("sink", s.name),
		trace.Int64Attribute("size", int64(size)),
	)

	defer prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		s.logger.Log("event", "operation", "operation", operation, "duration", v, "size", size, "error", err)
		s.durationSeconds.WithLabelValues(operation).Observe(v)
		if size > 0 {
			s.writeBytes.WithLabelValues().Observe(float64(size))
		}
	})).ObserveDuration()

	return do(ctx)
}
