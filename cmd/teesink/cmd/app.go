package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lawrencejones/teesink/internal/telem"
	"github.com/lawrencejones/teesink/pkg/sink"
	sinkfile "github.com/lawrencejones/teesink/pkg/sinks/file"

	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/alecthomas/kingpin"
	"github.com/davecgh/go-spew/spew"
	kitlog "github.com/go-kit/kit/log"
	level "github.com/go-kit/kit/log/level"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opencensus.io/trace"
)

var logger kitlog.Logger

var (
	app = kingpin.New("teesink", "Broadcast a stream to many sinks").Version(versionStanza())

	// Global flags
	debug               = app.Flag("debug", "Enable debug logging").Default("false").Bool()
	metricsAddress      = app.Flag("metrics-address", "Address to bind HTTP metrics listener").Default("127.0.0.1").String()
	metricsPort         = app.Flag("metrics-port", "Port to bind HTTP metrics listener").Default("9525").Uint16()
	jaegerAgentEndpoint = app.Flag("jaeger-agent-endpoint", "Endpoint for Jaeger agent").Default("localhost:6831").String()

	tee        = app.Command("tee", "Copy stdin into every configured sink")
	teeTargets = tee.Arg("files", "Files that should receive a copy of the stream").Strings()
	teeStdout  = tee.Flag("stdout", "Also copy the stream to stdout").Default("true").Bool()

	teeFileOptions = new(sinkfile.Options).Bind(tee, "file.")
)

// SilentError should be returned when the command wants to skip all logging of the error
// it has encountered. It wraps no error content as we should never inspect it.
var SilentError = errors.New("silent error")

type UsageError struct {
	error
}

func Run() (err error) {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.AllowInfo())
	if *debug {
		logger = level.NewFilter(logger, level.AllowDebug())
	}
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "caller", kitlog.DefaultCaller)
	stdlog.SetOutput(kitlog.NewStdlibAdapter(logger))

	// Setup an error handler to log and print usage
	defer func() {
		var usageErr UsageError
		switch {
		// Do nothing if no error
		case err == nil:
			return
		// Suppress silent errors
		case errors.Is(err, SilentError):
			return
		// If we're a usage error, unwrap it and print out usage before returning
		case errors.As(err, &usageErr):
			context, _ := app.ParseContext(os.Args[1:])
			app.UsageForContext(context)
			fmt.Fprintf(os.Stderr, "error: %s\n", usageErr.Error())

			err = usageErr.error
			return
		// Otherwise we probably want to log our error. If it's an aggregated sink
		// failure, enumerate each failing target by position before the summary.
		default:
			var list *sink.ErrorList
			if errors.As(err, &list) {
				for _, failure := range list.Failures() {
					logger.Log("event", "sink_failure", "index", failure.Index, "error", failure.Cause())
				}
				if *debug {
					spew.Fdump(os.Stderr, list)
				}
			}

			logger.Log("event", "error", "error", err, "msg", "exiting with error")
		}
	}()

	// This is the root context for the application. Once terminated, everything we have
	// started should also finish.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx = telem.WithLogger(ctx, logger)

	// Stage our shutdown to first request termination, then cancel contexts if downstream
	// workers haven't responded.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	shutdown := make(chan struct{})

	go func() {
		<-sigc
		close(shutdown)
		select {
		case <-time.After(30 * time.Second):
		case <-sigc:
		}
		cancel()
	}()

	var g run.Group

	{
		logger := kitlog.With(logger, "component", "shutdown_handler")

		ctx, cancel := context.WithCancel(ctx)

		// If we're asked to shutdown, we use the rungroup to trigger interrupts for every
		// component
		g.Add(
			func() error {
				select {
				case <-shutdown:
					logger.Log("event", "requesting_shutdown", "msg", "received signal, requesting shutdown")
				case <-ctx.Done():
				}

				return nil
			},
			func(error) {
				cancel() // end the shutdown select
			},
		)
	}

	{
		logger := kitlog.With(logger, "component", "metrics")

		// Metrics and debug endpoints
		mux := http.NewServeMux()

		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

		srv := &http.Server{Addr: fmt.Sprintf("%s:%d", *metricsAddress, *metricsPort), Handler: mux}

		g.Add(
			func() error {
				logger.Log("event", "listen", "address", *metricsAddress, "port", *metricsPort)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return err
				}

				return nil
			},
			func(error) {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			},
		)
	}

	{
		// Tracing with jaeger
		jexporter, err := jaeger.NewExporter(jaeger.Options{
			AgentEndpoint: *jaegerAgentEndpoint,
			Process: jaeger.Process{
				ServiceName: "teesink",
			},
		})

		if err != nil {
			return UsageError{err}
		}

		trace.RegisterExporter(jexporter)
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	}

	switch command {
	case tee.FullCommand():
		logger := kitlog.With(logger, "component", "tee")

		sinks := []sink.Sink{}
		for _, path := range *teeTargets {
			s, err := sinkfile.New(logger, path, *teeFileOptions)
			if err != nil {
				return UsageError{fmt.Errorf("failed to open %s: %w", path, err)}
			}

			sinks = append(sinks, s)
		}

		if *teeStdout {
			s, err := sinkfile.New(logger, "/dev/stdout", *teeFileOptions)
			if err != nil {
				return UsageError{fmt.Errorf("failed to open stdout: %w", err)}
			}

			sinks = append(sinks, s)
		}

		composite := sink.NewComposite(sinks...)
		logger.Log("event", "composite_build", "targets", len(sinks))

		{
			ctx, cancel := context.WithCancel(ctx)

			g.Add(
				func() error {
					err := copyStream(ctx, composite, os.Stdin)

					// Close on every exit path. A close failure matters only if the copy
					// itself succeeded; otherwise the copy error is the one to report.
					if cerr := composite.Close(ctx); cerr != nil && err == nil {
						err = cerr
					}

					return err
				},
				func(error) {
					cancel()
				},
			)
		}
	}

	return g.Run()
}

// copyStream pumps the reader into the composite until the stream ends,
// flushing once everything has been broadcast. A failing target surfaces as an
// aggregated error from the composite, at which point we stop pumping: the
// fan-out itself never stops early, but there's no point pushing more of the
// stream once a target is broken.
func copyStream(ctx context.Context, composite *sink.Composite, r io.Reader) error {
	ctx, span, logger := telem.StartSpan(ctx, "cmd/teesink.copyStream")
	defer span.End()

	buf := make([]byte, 32*1024)
	var total int

	for {
		n, err := r.Read(buf)
		if n > 0 {
			if werr := composite.Write(ctx, buf, 0, n); werr != nil {
				return werr
			}

			total += n
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read stream: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	logger.Log("event", "stream_end", "total_bytes", total, "msg", "stream finished, flushing sinks")

	return composite.Flush(ctx)
}
