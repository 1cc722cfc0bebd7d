package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{" WARN ", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"", logrus.InfoLevel},
		{"chatty", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")

	log.WithField("radius", 8).Info("radius set")
	log.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "msg=radius set")
	assert.Contains(t, out, "radius=8")
	assert.NotContains(t, out, "hidden")
}

func TestEntryRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	e := New(&buf, "debug").WithField("run", 1)

	ctx := WithLogEntry(context.Background(), e)
	got := Entry(ctx)

	require.Same(t, e, got)
	got.Debug("hello")
	assert.Contains(t, buf.String(), "run=1")
}

func TestEntryFallback(t *testing.T) {
	e := Entry(context.Background())
	require.NotNil(t, e)
	assert.Same(t, logrus.StandardLogger(), e.Logger)
}
