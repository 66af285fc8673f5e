package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewLogger(t *testing.T) {
	t.Run("time is stripped outside debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, false, "")
		log.Info("proposal submitted", "id", 1)
		log.Debug("hidden")

		out := buf.String()
		assert.NotContains(t, out, "time=")
		assert.Contains(t, out, `msg="proposal submitted" id=1`)
		assert.NotContains(t, out, "hidden")
	})

	t.Run("debug enables source and debug level", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, true, "error")
		log.Debug("visible")

		out := buf.String()
		assert.Contains(t, out, "visible")
		assert.Contains(t, out, "source=")
	})
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "internal/usecase/cast_vote.go", shortPath("/home/ci/src/dloop/internal/usecase/cast_vote.go"))
	assert.Equal(t, "main.go", shortPath("/tmp/build/main.go"))
}
