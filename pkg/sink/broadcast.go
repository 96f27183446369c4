package sink

import (
	"context"
)

// Operation applies one logical sink call to a single target. The same
// operation value is applied to every member of a Set during a broadcast, so
// every sink observes the same logical write.
type Operation func(context.Context, Sink) error

// Broadcast applies op to every sink in the set, strictly in order, and never
// short-circuits: a failing sink is recorded and the pass continues to the
// next target. This is the defining contract of the dispatcher. Correctness is
// judged by every sink having received the operation exactly once per call,
// not by early termination.
//
// After the full pass, Broadcast returns an *ErrorList carrying one
// IndexedError per failing sink, in Set order, or nil when every sink
// succeeded. The index recorded for a failure is the sink's position in the
// Set, independent of how many sinks failed before it.
//
// Broadcast never inspects ctx between targets. There is no dispatch-level
// cancellation: a hung sink operation hangs the pass. The context is forwarded
// so individual sinks can honour it if they choose.
func Broadcast(ctx context.Context, set Set, op Operation) error {
	var failures []IndexedError
	for idx, s := range set {
		if err := op(ctx, s); err != nil {
			failures = append(failures, IndexedError{Index: idx, cause: err})
		}
	}

	if len(failures) == 0 {
		return nil
	}

	return &ErrorList{failures: failures}
}
