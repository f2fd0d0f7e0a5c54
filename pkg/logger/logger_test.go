package logger_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/koopa0/system-design/paddle-arena/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.ParseLevel(tt.input))
		})
	}
}

// TestNew_FileOutput 測試檔案輸出與上下文欄位
func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.log")

	log, closer := logger.New(logger.Options{
		Level:  "info",
		Format: "json",
		Output: path,
	})

	ctx := logger.WithPlayerID(context.Background(), "player_001")
	ctx = logger.WithRequestID(ctx, "req-42")
	log.With("component", "test").InfoContext(ctx, "hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `"msg":"hello"`)
	assert.Contains(t, content, `"player_id":"player_001"`)
	assert.Contains(t, content, `"request_id":"req-42"`)
	assert.Contains(t, content, `"component":"test"`)
}

func TestNew_Stdout(t *testing.T) {
	log, closer := logger.New(logger.Options{Level: "error"})
	require.NotNil(t, log)
	assert.NoError(t, closer.Close())
	assert.False(t, log.Enabled(context.Background(), slog.LevelInfo))
}
