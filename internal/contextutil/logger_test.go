package contextutil

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
)

func TestLoggerFromContext(t *testing.T) {
	t.Run("falls back to default", func(t *testing.T) {
		if got := LoggerFromContext(context.Background()); got != slog.Default() {
			t.Error("LoggerFromContext() should return slog.Default() when no logger is set")
		}
	})

	t.Run("returns stored logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ctx := WithLogger(context.Background(), logger)

		if got := LoggerFromContext(ctx); got != logger {
			t.Error("LoggerFromContext() should return the logger stored with WithLogger")
		}
		LoggerFromContext(ctx).Info("hello")
		if !bytes.Contains(buf.Bytes(), []byte("hello")) {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("ignores wrong value type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey(), "not a logger")
		if _, ok := LookupLogger(ctx); ok {
			t.Error("LookupLogger() should report false for a non-logger value")
		}
	})
}
