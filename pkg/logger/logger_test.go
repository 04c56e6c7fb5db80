package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{" info ", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLevelBasedMuxHandler(t *testing.T) {
	var stdout, file bytes.Buffer
	log := slog.New(NewLevelBasedMuxHandler(&stdout, &file, slog.LevelDebug))

	log.Debug("debug message")
	log.Info("info message", slog.String("pair", "USD-BRL"))

	assert.Contains(t, stdout.String(), "debug message")
	assert.Contains(t, stdout.String(), "info message")
	assert.NotContains(t, file.String(), "debug message")
	assert.Contains(t, file.String(), "info message")
	assert.Contains(t, file.String(), `"pair":"USD-BRL"`)
	assert.Contains(t, file.String(), `"source"`)
}

func TestLevelBasedMuxHandler_WithAttrs(t *testing.T) {
	var stdout, file bytes.Buffer
	log := slog.New(NewLevelBasedMuxHandler(&stdout, &file, slog.LevelWarn)).With(slog.String("trace_id", "abc"))

	log.Info("skipped")
	log.Warn("kept")

	assert.NotContains(t, stdout.String(), "skipped")
	assert.Contains(t, stdout.String(), `"trace_id":"abc"`)
	assert.Contains(t, file.String(), "kept")
}
