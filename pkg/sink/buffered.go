package sink

import (
	"context"
)

type bufferedSink struct {
	sink   Sink
	buffer []byte
	size   int
}

// NewBufferedSink wraps a sink with a byte buffer. Writes and appends coalesce
// in the buffer until it reaches size bytes, at which point the accumulated
// run is forwarded to the underlying sink as a single write. Flush forwards
// whatever is pending before flushing the underlying sink, and Close forwards
// pending content before closing, so nothing buffered is lost on shutdown.
//
// Ranged operations are validated against the caller's input at call time,
// before buffering, so a bad range fails immediately rather than at the next
// overflow.
func NewBufferedSink(s Sink, size int) Sink {
	return &bufferedSink{
		sink:   s,
		buffer: make([]byte, 0, size),
		size:   size,
	}
}

func (s *bufferedSink) WriteRune(ctx context.Context, r rune) error {
	return s.enqueue(ctx, []byte(string(r)))
}

func (s *bufferedSink) Write(ctx context.Context, p []byte, offset, length int) error {
	if err := CheckRange(len(p), offset, length); err != nil {
		return err
	}

	return s.enqueue(ctx, p[offset:offset+length])
}

func (s *bufferedSink) AppendRune(ctx context.Context, r rune) error {
	return s.enqueue(ctx, []byte(string(r)))
}

func (s *bufferedSink) AppendString(ctx context.Context, str string) error {
	return s.enqueue(ctx, []byte(str))
}

func (s *bufferedSink) AppendRange(ctx context.Context, str string, offset, length int) error {
	if err := CheckRange(len(str), offset, length); err != nil {
		return err
	}

	return s.enqueue(ctx, []byte(str[offset:offset+length]))
}

func (s *bufferedSink) Flush(ctx context.Context) error {
	if err := s.forward(ctx); err != nil {
		return err
	}

	return s.sink.Flush(ctx)
}

func (s *bufferedSink) Close(ctx context.Context) error {
	if err := s.forward(ctx); err != nil {
		return err
	}

	return s.sink.Close(ctx)
}

// enqueue adds p to the buffer, forwarding the accumulated run whenever the
// buffer overflows.
func (s *bufferedSink) enqueue(ctx context.Context, p []byte) error {
	s.buffer = append(s.buffer, p...)
	if len(s.buffer) < s.size {
		return nil
	}

	return s.forward(ctx)
}

func (s *bufferedSink) forward(ctx context.Context) error {
	if len(s.buffer) == 0 {
		return nil
	}

	if err := s.sink.Write(ctx, s.buffer, 0, len(s.buffer)); err != nil {
		return err
	}

	s.buffer = s.buffer[:0]

	return nil
}
