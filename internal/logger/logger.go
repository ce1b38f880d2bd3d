package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger, also installed as slog's default
var Log *slog.Logger

type Options struct {
	Development bool
	SentryDSN   string
	Environment string
	Output      io.Writer // os.Stdout when nil
}

// Init installs the global logger: text at debug level in development,
// JSON at info otherwise, with error records fanned out to Sentry when a
// DSN is set. main should defer the returned flush.
func Init(opts Options) (flush func()) {
	handler := consoleHandler(opts)
	flush = func() {}

	if opts.SentryDSN != "" {
		if err := initSentry(opts); err != nil {
			fmt.Fprintln(os.Stderr, "sentry disabled:", err)
		} else {
			handler = slogmulti.Fanout(handler, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
			flush = func() { sentry.Flush(2 * time.Second) }
		}
	}

	Log = slog.New(handler)
	slog.SetDefault(Log)
	return flush
}

func consoleHandler(opts Options) slog.Handler {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Development {
		return slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})
}

func initSentry(opts Options) error {
	return sentry.Init(sentry.ClientOptions{
		Dsn:              opts.SentryDSN,
		Environment:      opts.Environment,
		TracesSampleRate: 1.0,
	})
}
