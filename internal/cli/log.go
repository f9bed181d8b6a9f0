package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes leveled logfmt-style lines to w, prefixed with the
// command name and a wall-clock timestamp.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

// stopwatch logs the outcome of a long operation with an "elapsed" field.
type stopwatch struct {
	logger *log.Logger
	what   string
	start  time.Time
}

func startStopwatch(l *log.Logger, what string, keyvals ...any) stopwatch {
	if len(keyvals) > 0 {
		l = l.With(keyvals...)
	}
	return stopwatch{logger: l, what: what, start: time.Now()}
}

// stop logs "<what> finished" at info level, or "<what> failed" with err at
// error level.
func (s stopwatch) stop(err error) {
	elapsed := time.Since(s.start).Round(time.Millisecond)
	if err != nil {
		s.logger.Error(s.what+" failed", "elapsed", elapsed, "err", err)
		return
	}
	s.logger.Info(s.what+" finished", "elapsed", elapsed)
}

type requestLoggerKey struct{}

// contextWithLogger attaches a request-scoped logger to ctx.
func contextWithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey{}, l)
}

// requestLog returns the logger attached by [contextWithLogger], or fallback.
func requestLog(ctx context.Context, fallback *log.Logger) *log.Logger {
	if l, ok := ctx.Value(requestLoggerKey{}).(*log.Logger); ok {
		return l
	}
	return fallback
}
