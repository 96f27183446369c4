package sink

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrIndexOutOfRange is returned when inspecting an ErrorList at a position
	// outside [0, Len()).
	ErrIndexOutOfRange = errors.New("error list position out of range")

	// ErrTypeMismatch is returned when the cause at an ErrorList position is not
	// of the kind the caller asked for.
	ErrTypeMismatch = errors.New("error list cause is not of the expected kind")
)

// IndexedError wraps a single sink failure together with the position of the
// failing sink in the Set it was broadcast to. The index refers to the sink's
// position at construction time and is unaffected by failures of other sinks
// in the same pass.
type IndexedError struct {
	Index int
	cause error
}

func (e *IndexedError) Error() string {
	return fmt.Sprintf("sink %d: %s", e.Index, e.cause.Error())
}

// Cause returns the underlying sink failure, opaque to this package.
func (e *IndexedError) Cause() error { return e.cause }

// Unwrap supports errors.Is and errors.As against the underlying cause.
func (e *IndexedError) Unwrap() error { return e.cause }

// ErrorList is the aggregated outcome of one broadcast pass that observed at
// least one failure. It holds one IndexedError per failing sink, ordered by
// sink position, and is never built with zero entries. An ErrorList is a
// terminal value: it is constructed once per failing call, never mutated, and
// never retained by the composite across calls.
type ErrorList struct {
	failures []IndexedError
}

func (e *ErrorList) Error() string {
	if len(e.failures) == 1 {
		return e.failures[0].Error()
	}

	msgs := make([]string, 0, len(e.failures))
	for idx := range e.failures {
		msgs = append(msgs, e.failures[idx].Error())
	}

	return fmt.Sprintf("%d sinks failed: %s", len(e.failures), strings.Join(msgs, "; "))
}

// Len returns the number of sinks that failed during the pass.
func (e *ErrorList) Len() int { return len(e.failures) }

// Failures returns a copy of the indexed failures, in sink order.
func (e *ErrorList) Failures() []IndexedError {
	return append([]IndexedError(nil), e.failures...)
}

// At returns the indexed failure at position i, or ErrIndexOutOfRange when i
// falls outside [0, Len()). Positions are into the list of failures, not into
// the original Set: use the Index field of the returned failure to recover the
// failing sink's position.
func (e *ErrorList) At(i int) (*IndexedError, error) {
	if i < 0 || i >= len(e.failures) {
		return nil, errors.Wrapf(ErrIndexOutOfRange, "position %d of %d", i, len(e.failures))
	}

	return &e.failures[i], nil
}

// CauseAt returns the underlying cause of the failure at position i.
func (e *ErrorList) CauseAt(i int) (error, error) {
	failure, err := e.At(i)
	if err != nil {
		return nil, err
	}

	return failure.Cause(), nil
}

// CauseAtAs extracts the cause at position i into target, which must be a
// non-nil pointer to an error type, as for errors.As. It returns
// ErrTypeMismatch when the cause is not of the expected kind, and
// ErrIndexOutOfRange when i falls outside [0, Len()). This is a checked
// extraction: callers never need an unchecked cast to inspect a cause.
func (e *ErrorList) CauseAtAs(i int, target interface{}) error {
	failure, err := e.At(i)
	if err != nil {
		return err
	}

	if !errors.As(failure.Cause(), target) {
		return errors.Wrapf(ErrTypeMismatch, "position %d holds %T", i, failure.Cause())
	}

	return nil
}
