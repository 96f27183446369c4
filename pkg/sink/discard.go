package sink

import (
	"context"
)

// Discard accepts and drops everything it is given, without validating ranges
// or tracking lifecycle. It never fails, which makes it a useful stand-in for
// an optional target.
type Discard struct{}

var _ Sink = Discard{}

func (Discard) WriteRune(context.Context, rune) error               { return nil }
func (Discard) Write(context.Context, []byte, int, int) error       { return nil }
func (Discard) AppendRune(context.Context, rune) error              { return nil }
func (Discard) AppendString(context.Context, string) error          { return nil }
func (Discard) AppendRange(context.Context, string, int, int) error { return nil }
func (Discard) Flush(context.Context) error                         { return nil }
func (Discard) Close(context.Context) error                         { return nil }
