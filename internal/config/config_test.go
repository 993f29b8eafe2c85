package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults when no config file exists", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())

		cfg, v, err := Load("")
		require.NoError(t, err)
		require.NotNil(t, v)

		assert.Equal(t, 3, cfg.Search.MinLength)
		assert.Equal(t, 300*time.Millisecond, cfg.Search.Debounce)
		assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
		assert.Equal(t, 0, cfg.API.MaxRetries)
	})

	t.Run("reads values from an explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "api:\n  base_url: http://example.test\nsearch:\n  min_length: 2\n  debounce: 150ms\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, _, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "http://example.test", cfg.API.BaseURL)
		assert.Equal(t, 2, cfg.Search.MinLength)
		assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce)
		assert.Equal(t, "info", cfg.Logging.Level)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("search:\n  min_length: 2\n"), 0644))
		t.Setenv("ENJOI_SEARCH_MIN_LENGTH", "5")

		cfg, _, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Search.MinLength)
	})

	t.Run("rejects invalid min length", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("search:\n  min_length: 0\n"), 0644))

		_, _, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "min_length")
	})
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enjoi", "config.yaml")

	require.NoError(t, WriteDefault(path, false))

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Search, cfg.Search)
	assert.Equal(t, DefaultConfig().API.Timeout, cfg.API.Timeout)

	err = WriteDefault(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.NoError(t, WriteDefault(path, true))
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, parseLogLevel(in))
		})
	}
}

func TestColoredTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewColoredTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.With("slug", "naruto").Warn("details failed")

	out := buf.String()
	assert.Contains(t, out, "\033[33m")
	assert.Contains(t, out, "slug=naruto")
	assert.Contains(t, out, `msg="details failed"`)
}

func TestInitLoggerWritesFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "enjoi.log")
	logger, err := InitLogger(&LoggingConfig{Level: "debug", File: path, MaxSize: 1}, false)
	require.NoError(t, err)

	logger.Debug("hello", "k", "v")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "k=v")
}
