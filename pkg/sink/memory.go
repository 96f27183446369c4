package sink

import (
	"context"
	"sync"
)

// MemorySink is a reference implementation of a sink, accumulating everything
// written into an in-memory buffer. It satisfies all requirements of a sink,
// including race-safety.
//
// Beyond offering a useful reference implementation, this can be used for
// testing broadcast and decorator logic without being coupled to an actual
// backend.
type MemorySink struct {
	data    []byte
	flushes int
	closes  int
	sync.Mutex
}

var _ Sink = &MemorySink{}

func NewMemorySink() *MemorySink {
	return &MemorySink{data: []byte{}}
}

func (s *MemorySink) WriteRune(ctx context.Context, r rune) error {
	s.Lock()
	defer s.Unlock()

	s.data = append(s.data, string(r)...)

	return nil
}

func (s *MemorySink) Write(ctx context.Context, p []byte, offset, length int) error {
	if err := CheckRange(len(p), offset, length); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	s.data = append(s.data, p[offset:offset+length]...)

	return nil
}

func (s *MemorySink) AppendRune(ctx context.Context, r rune) error {
	return s.WriteRune(ctx, r)
}

func (s *MemorySink) AppendString(ctx context.Context, str string) error {
	s.Lock()
	defer s.Unlock()

	s.data = append(s.data, str...)

	return nil
}

func (s *MemorySink) AppendRange(ctx context.Context, str string, offset, length int) error {
	if err := CheckRange(len(str), offset, length); err != nil {
		return err
	}

	s.Lock()
	defer s.Unlock()

	s.data = append(s.data, str[offset:offset+length]...)

	return nil
}

// Flush records the call and does nothing else: memory needs no flushing.
func (s *MemorySink) Flush(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	s.flushes++

	return nil
}

// Close records the call and otherwise does nothing. The accumulated content
// stays readable, and repeated closes succeed, making the memory sink the most
// permissive implementation of the close contract.
func (s *MemorySink) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	s.closes++

	return nil
}

// String returns everything accumulated so far.
func (s *MemorySink) String() string {
	s.Lock()
	defer s.Unlock()

	return string(s.data)
}

func (s *MemorySink) Flushes() int {
	s.Lock()
	defer s.Unlock()

	return s.flushes
}

func (s *MemorySink) Closes() int {
	s.Lock()
	defer s.Unlock()

	return s.closes
}
