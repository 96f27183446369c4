package file

import (
	"context"
	"os"

	"github.com/lawrencejones/teesink/pkg/sink"

	"github.com/pkg/errors"
)

// fileSink writes the stream straight to an open file handle. Buffering, if
// wanted, is layered on with sink.NewBufferedSink rather than handled here, so
// Flush at this level has nothing to push: the operating system owns anything
// beyond our Write calls.
type fileSink struct {
	path string
	file *os.File
}

var _ sink.Sink = &fileSink{}

func (s *fileSink) WriteRune(ctx context.Context, r rune) error {
	return s.write([]byte(string(r)))
}

func (s *fileSink) Write(ctx context.Context, p []byte, offset, length int) error {
	if err := sink.CheckRange(len(p), offset, length); err != nil {
		return err
	}

	return s.write(p[offset : offset+length])
}

func (s *fileSink) AppendRune(ctx context.Context, r rune) error {
	return s.write([]byte(string(r)))
}

func (s *fileSink) AppendString(ctx context.Context, str string) error {
	return s.write([]byte(str))
}

func (s *fileSink) AppendRange(ctx context.Context, str string, offset, length int) error {
	if err := sink.CheckRange(len(str), offset, length); err != nil {
		return err
	}

	return s.write([]byte(str[offset : offset+length]))
}

func (s *fileSink) Flush(ctx context.Context) error {
	return nil
}

// Close closes the underlying handle. A second close fails with the os
// package's usual file-already-closed error, which is exactly the sink-level
// enforcement the composite relies on.
func (s *fileSink) Close(ctx context.Context) error {
	if err := s.file.Close(); err != nil {
		return errors.Wrapf(err, "failed to close %s", s.path)
	}

	return nil
}

func (s *fileSink) write(p []byte) error {
	if _, err := s.file.Write(p); err != nil {
		return errors.Wrapf(err, "failed to write to %s", s.path)
	}

	return nil
}
