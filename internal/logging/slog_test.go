package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSlog(t *testing.T) {
	t.Run("wraps the given logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := NewSlog(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

		logger.Debug("pass finished", "pass", 2)

		require.Contains(t, buf.String(), "pass finished")
		require.Contains(t, buf.String(), "pass=2")
		require.Contains(t, buf.String(), "level=DEBUG")
	})

	t.Run("falls back to default logger", func(t *testing.T) {
		logger := NewSlog(nil)

		require.NotNil(t, logger.logger)
	})
}

func TestNewText(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewText(buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("school left unassigned", "school", "S7")
	logger.Error("store failed", "op", "save")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "school=S7")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "level=ERROR")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()

	require.NotPanics(t, func() {
		logger.Debug("d", "k", 1)
		logger.Info("i")
		logger.Warn("w")
		logger.Error("e")
		logger.Fatal("f")
	})
}
