package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true

	t.Run("should respect the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, false, false)

		log.Info("hidden")
		log.Warn("shown", "repo", "owner/repo")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "[WARN]  shown repo=owner/repo")
	})

	t.Run("should include attributes added with With", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), New(&buf, false, true))
		ctx = With(ctx, "request_id", "abc")

		Info(ctx, "summarizing", "provider", "basic")

		assert.Contains(t, buf.String(), "request_id=abc")
		assert.Contains(t, buf.String(), "provider=basic")
	})

	t.Run("should prefix grouped attributes", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&buf, true, false).WithGroup("ollama")

		log.Debug("request", "model", "llama2")

		assert.Contains(t, buf.String(), "ollama.model=llama2")
	})

	t.Run("should append error attribute", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := WithLogger(context.Background(), New(&buf, false, false))

		Error(ctx, "fetch failed", errors.New("boom"))

		assert.Contains(t, buf.String(), "error=boom")
	})
}

func TestPrettyHandler_FormatAttr(t *testing.T) {
	previous := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = previous }()

	h := NewPrettyHandler(&bytes.Buffer{}, nil)

	tests := []struct {
		name string
		attr slog.Attr
		want string
	}{
		{"request ids", slog.String("request_id", "abc"), color.BlueString("request_id=abc")},
		{"file counts", slog.Int("files", 3), color.CyanString("files=3")},
		{"commit counts", slog.Int("commits", 2), color.CyanString("commits=2")},
		{"durations", slog.Int64("duration_ms", 40), color.MagentaString("duration_ms=40")},
		{"server errors", slog.Int("status", 500), color.RedString("status=500")},
		{"client errors", slog.Int("status", 400), color.YellowString("status=400")},
		{"successes", slog.Int("status", 200), color.GreenString("status=200")},
		{"anything else", slog.String("source", "flag"), color.HiBlackString("source=flag")},
	}

	for _, tt := range tests {
		t.Run("should color "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.formatAttr(tt.attr))
		})
	}
}

func TestFromContext_DefaultsToSlogDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}
