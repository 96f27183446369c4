package file

import (
	"fmt"
	"os"

	"github.com/lawrencejones/teesink/pkg/sink"

	"github.com/alecthomas/kingpin"
	kitlog "github.com/go-kit/kit/log"
)

type Options struct {
	Append     bool
	BufferSize int
	Instrument bool
}

func (opt *Options) Bind(cmd *kingpin.CmdClause, prefix string) *Options {
	cmd.Flag(fmt.Sprintf("%sappend", prefix), "Append to existing files instead of truncating").Default("true").BoolVar(&opt.Append)
	cmd.Flag(fmt.Sprintf("%sbuffer-size", prefix), "Bytes to buffer before forwarding to the file").Default("4096").IntVar(&opt.BufferSize)
	cmd.Flag(fmt.Sprintf("%sinstrument", prefix), "Enable instrumentation").Default("true").BoolVar(&opt.Instrument)

	return opt
}

// New opens path and builds a sink over it, layering instrumentation and
// buffering around the raw file sink according to the options. The buffer sits
// outermost so the instrumented layer observes the writes that actually reach
// the file.
func New(logger kitlog.Logger, path string, opts Options) (sink.Sink, error) {
	file, err := openFile(path, opts.Append)
	if err != nil {
		return nil, err
	}

	var s sink.Sink = &fileSink{path: path, file: file}
	if opts.Instrument {
		s = sink.NewInstrumentedSink(logger, path, s)
	}
	if opts.BufferSize > 0 {
		s = sink.NewBufferedSink(s, opts.BufferSize)
	}

	return s, nil
}

func openFile(path string, appendTo bool) (*os.File, error) {
	switch path {
	case "/dev/stdout":
		return os.Stdout, nil
	case "/dev/stderr":
		return os.Stderr, nil
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendTo {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	return os.OpenFile(path, flags, 0644)
}
