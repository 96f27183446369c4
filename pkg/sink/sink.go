// Suite of components for broadcasting a stream to many destinations. By
// extracting the fan-out, error aggregation and decoration logic from any
// specific backend, we minimise the effort involved in implementing a new sink
// while ensuring each sink has consistent semantics.
package sink

import (
	"context"

	"github.com/pkg/errors"
)

// Sink is a destination for a stream of text. Each operation may fail
// independently, and implementations are expected to surface those failures
// rather than swallow them.
//
// Sinks are not safe for concurrent use by multiple callers issuing
// overlapping operations against the same instance. Callers must serialize
// their own calls, as they would for any single-target stream.
type Sink interface {
	// WriteRune writes a single rune to the sink.
	WriteRune(ctx context.Context, r rune) error

	// Write writes length bytes of p starting at offset. The range is forwarded
	// as given, and each sink performs its own bounds check, failing
	// individually on a bad range.
	Write(ctx context.Context, p []byte, offset, length int) error

	// AppendRune appends a single rune to the sink.
	AppendRune(ctx context.Context, r rune) error

	// AppendString appends the full string to the sink.
	AppendString(ctx context.Context, s string) error

	// AppendRange appends length bytes of s starting at offset.
	AppendRange(ctx context.Context, s string, offset, length int) error

	// Flush pushes any buffered content through to the underlying target.
	Flush(ctx context.Context) error

	// Close releases the resources held by the sink. Sinks are not required to
	// tolerate repeated closes; a second close may fail naturally, and that
	// failure is reported like any other.
	Close(ctx context.Context) error
}

// CheckRange validates an (offset, length) pair against a buffer of size
// bytes. Sink implementations use this to fail ranged operations before
// touching their backend. The comparison is phrased to avoid computing
// offset+length, which can overflow for huge lengths and wave an invalid
// range through.
func CheckRange(size, offset, length int) error {
	if offset < 0 || length < 0 || offset > size || length > size-offset {
		return errors.Errorf("range at offset %d of %d bytes out of bounds for %d bytes", offset, length, size)
	}

	return nil
}
