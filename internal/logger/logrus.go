package logger

import (
	"context"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey int

const (
	ctxKeyLog ctxKey = iota
)

// New returns a logger writing text lines with full timestamps to w. level
// is parsed with logrus.ParseLevel; an empty or unknown level means info.
func New(w io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.Out = w
	log.Formatter = &logrus.TextFormatter{
		FullTimestamp:    true,
		DisableColors:    true,
		DisableQuote:     true,
		QuoteEmptyFields: true,
	}
	log.Level = ParseLevel(level)
	return log
}

// ParseLevel is logrus.ParseLevel with an info fallback.
func ParseLevel(level string) logrus.Level {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Entry returns the entry stored by WithLogEntry, or an entry on the
// standard logger when ctx carries none.
func Entry(ctx context.Context) *logrus.Entry {
	if e, ok := ctx.Value(ctxKeyLog).(*logrus.Entry); ok {
		return e
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func WithLogEntry(ctx context.Context, e *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKeyLog, e)
}
