package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
)

// These tests share the package-level logging state and must not run in parallel.

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logging.Level
		wantErr bool
	}{
		{"debug", logging.LevelDebug, false},
		{"INFO", logging.LevelInfo, false},
		{"warning", logging.LevelWarn, false},
		{" error ", logging.LevelError, false},
		{"verbose", logging.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, logging.ErrInvalidLevel)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "debug", logging.LevelDebug.String())
	assert.Equal(t, "warn", logging.LevelWarn.String())
	assert.Equal(t, "unknown", logging.Level(42).String())
}

func TestInit_InvalidConfig(t *testing.T) {
	dir := t.TempDir()

	err := logging.Init(logging.Config{Level: "loud", Path: filepath.Join(dir, "a.log")})
	assert.ErrorIs(t, err, logging.ErrInvalidLevel)

	err = logging.Init(logging.Config{
		Level:      "info",
		Path:       filepath.Join(dir, "b.log"),
		Components: map[string]string{"scanner": "nope"},
	})
	assert.ErrorIs(t, err, logging.ErrInvalidLevel)

	_, statErr := os.Stat(filepath.Join(dir, "b.log"))
	assert.True(t, os.IsNotExist(statErr), "no file is created for a rejected config")
}

func TestGet_SilentBeforeInit(t *testing.T) {
	require.NoError(t, logging.Close())

	logger := logging.Get("silent")
	require.NotNil(t, logger)
	logger.Error("nobody hears this")
}

func TestInit_WritesFileAndComponentLevels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tc.log")

	require.NoError(t, logging.Init(logging.Config{
		Level:      "warn",
		Path:       path,
		Components: map[string]string{"scanner": "debug"},
	}))
	t.Cleanup(func() { _ = logging.Close() })

	logging.Get("scanner").Debug("walking", "dir", "/data")
	logging.Get("cleanup").Info("hidden info")
	logging.Get("cleanup").Warn("delete failed", "path", "/data/x")

	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	assert.Contains(t, content, "walking")
	assert.Contains(t, content, "delete failed")
	assert.NotContains(t, content, "hidden info")
}

func TestInit_RebuildsHeldLoggers(t *testing.T) {
	held := logging.Get("held")

	path := filepath.Join(t.TempDir(), "tc.log")
	require.NoError(t, logging.Init(logging.Config{Level: "info", Path: path}))

	held.Info("after init")
	require.NoError(t, logging.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "after init")
}

func TestConsoleSink(t *testing.T) {
	var console bytes.Buffer

	require.NoError(t, logging.Init(logging.Config{
		Level:        "debug",
		Path:         filepath.Join(t.TempDir(), "tc.log"),
		ConsoleLevel: "warn",
		Console:      &console,
	}))
	t.Cleanup(func() { _ = logging.Close() })

	logger := logging.Get("console-test").With("run", 1)
	logger.Info("file only")
	logger.Warn("both sinks")

	out := console.String()
	assert.Contains(t, out, "both sinks")
	assert.Contains(t, out, "console-test")
	assert.False(t, strings.Contains(out, "file only"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.True(t, strings.HasSuffix(cfg.Path, filepath.Join("torrent-clean", "torrent-clean.log")))
	assert.Equal(t, logging.DefaultRotationConfig(), cfg.Rotation)
}
