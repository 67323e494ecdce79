package utils

import (
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// LogOptions configures SetupLogger.
type LogOptions struct {
	Level slog.Level
	// Console receives colored output; nil logs to the file only.
	Console *os.File
	// File is the log file path; empty disables file logging.
	File string
}

// SetupLogger installs the default slog logger and returns a func that
// flushes and closes the log file.
func SetupLogger(opts LogOptions) (func(), error) {
	var handlers []slog.Handler
	closers := []func(){}

	if opts.Console != nil {
		handlers = append(handlers, tint.NewHandler(opts.Console, &tint.Options{
			Level:      opts.Level,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !isatty.IsTerminal(opts.Console.Fd()),
		}))
	}

	if opts.File != "" {
		if err := EnsureParent(opts.File); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		interceptor := NewLogInterceptor(file)
		handlers = append(handlers, newFileHandler(interceptor, opts.Level))
		closers = append(closers, func() {
			interceptor.Close()
			file.Close()
		})
	}

	if len(handlers) == 0 {
		handlers = append(handlers, slog.NewTextHandler(io.Discard, nil))
	}

	slog.SetDefault(slog.New(NewMultiLogHandler(handlers...)))

	return func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

// newFileHandler drops the time attribute, the interceptor stamps each line.
func newFileHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
}
