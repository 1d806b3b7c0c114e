package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/facto/internal/adapters/logger"
)

func newHandler(t *testing.T) (*logger.PrettyHandler, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	return logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}), buf
}

func TestPrettyHandler_Levels(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, ""},
		{slog.LevelInfo, "message\n"},
		{slog.LevelWarn, "! message\n"},
		{slog.LevelError, "✗ message\n"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			h, buf := newHandler(t)
			slog.New(h).Log(t.Context(), tt.level, "message")
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPrettyHandler_Attrs(t *testing.T) {
	h, buf := newHandler(t)

	lg := slog.New(h.WithAttrs([]slog.Attr{slog.String("path", "factories.yaml")}))
	lg.Info("written", "count", 2)

	assert.Equal(t, "written path=factories.yaml count=2\n", buf.String())
}

func TestPrettyHandler_Groups(t *testing.T) {
	h, buf := newHandler(t)

	slog.New(h.WithGroup("store").WithGroup("artifact").WithGroup("")).Info("loaded", "version", "1")

	assert.Equal(t, "loaded store.artifact.version=1\n", buf.String())
}

func TestPrettyHandler_WithAttrsDoesNotShare(t *testing.T) {
	h, buf := newHandler(t)

	a := h.WithAttrs([]slog.Attr{slog.String("a", "1")})
	_ = h.WithAttrs([]slog.Attr{slog.String("b", "2")})
	slog.New(a).Info("m")

	assert.Equal(t, "m a=1\n", buf.String())
}
