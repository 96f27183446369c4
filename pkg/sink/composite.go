package sink

import (
	"context"
)

// Composite fans every sink operation out to a fixed, ordered set of
// downstream sinks, guaranteeing each target receives each call regardless of
// failures elsewhere in the set. When one or more targets fail during a call,
// the composite surfaces a single *ErrorList bundling each failure with the
// position of the sink that produced it; otherwise the call succeeds.
//
// The composite does not own its targets beyond forwarding Close to them, and
// keeps no failure history between calls. Like the single-target sinks it
// extends, a Composite is not safe for concurrent use: callers must serialize
// their operations on the same instance.
type Composite struct {
	set Set
}

var _ Sink = &Composite{}

// NewComposite builds a composite over the given sinks. Nil entries are
// dropped before the set is finalised (see NewSet); the surviving sinks keep
// their relative order, and it is that post-filter position failures are
// reported under. A composite over zero sinks is valid, and every operation on
// it trivially succeeds.
func NewComposite(sinks ...Sink) *Composite {
	return &Composite{set: NewSet(sinks...)}
}

func (c *Composite) WriteRune(ctx context.Context, r rune) error {
	return Broadcast(ctx, c.set, func(ctx context.Context, s Sink) error {
		return s.WriteRune(ctx, r)
	})
}

func (c *Composite) Write(ctx context.Context, p []byte, offset, length int) error {
	return Broadcast(ctx, c.set, func(ctx context.Context, s Sink) error {
		return s.Write(ctx, p, offset, length)
	})
}

func (c *Composite) AppendRune(ctx context.Context, r rune) error {
	return Broadcast(ctx, c.set, func(ctx context.Context, s Sink) error {
		return s.AppendRune(ctx, r)
	})
}

func (c *Composite) AppendString(ctx context.Context, str string) error {
	return Broadcast(ctx, c.set, func(ctx context.Context, s Sink) error {
		return s.AppendString(ctx, str)
	})
}

func (c *Composite) AppendRange(ctx context.Context, str string, offset, length int) error {
	return Broadcast(ctx, c.set, func(ctx context.Context, s Sink) error {
		return s.AppendRange(ctx, str, offset, length)
	})
}

func (c *Composite) Flush(ctx context.Context) error {
	return Broadcast(ctx, c.set, func(ctx context.Context, s Sink) error {
		return s.Flush(ctx)
	})
}

// Close forwards close to every target using the same broadcast as any other
// operation. The composite tracks no closed state of its own: closing an
// already-closed composite re-attempts the close of every configured sink, and
// a sink failing only on that second attempt produces a fresh failure,
// independent of anything reported by the first. Enforcement of
// operations-after-close is left entirely to each underlying sink.
func (c *Composite) Close(ctx context.Context) error {
	return Broadcast(ctx, c.set, func(ctx context.Context, s Sink) error {
		return s.Close(ctx)
	})
}
