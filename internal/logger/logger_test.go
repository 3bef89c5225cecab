package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{" Warn ", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"", slog.LevelInfo, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	log.Info("hidden")
	log.Warn("shown", "level_number", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "level_number=2")
}

func TestNew_InvalidLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	log := New("loud", &buf)

	assert.Contains(t, buf.String(), "invalid log level configured")
	assert.True(t, log.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}

func TestOpen(t *testing.T) {
	log, closer, err := Open("info", "")
	require.NoError(t, err)
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	assert.NoError(t, closer.Close())

	path := filepath.Join(t.TempDir(), "game.log")
	log, closer, err = Open("debug", path)
	require.NoError(t, err)
	log.Debug("level started", "level_number", 1)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "level started")
}

func TestOpen_BadPath(t *testing.T) {
	_, _, err := Open("info", filepath.Join(t.TempDir(), "missing", "game.log"))
	assert.Error(t, err)
}
