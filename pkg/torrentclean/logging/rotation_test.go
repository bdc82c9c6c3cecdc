package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
)

func countLogs(t *testing.T, dir, prefix string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	n := 0
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".log") {
			n++
		}
	}
	return n
}

func TestRotatingWriter_RotatesBySize(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := logging.NewRotatingWriter(filepath.Join(dir, "size.log"), logging.RotationConfig{MaxSize: 256})
	require.NoError(t, err)

	line := []byte(strings.Repeat("x", 60) + "\n")
	for i := 0; i < 20; i++ {
		_, err := w.Write(line)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	assert.Greater(t, countLogs(t, dir, "size"), 1)
}

func TestRotatingWriter_MaxBackups(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := logging.NewRotatingWriter(filepath.Join(dir, "keep.log"), logging.RotationConfig{
		MaxSize:    64,
		MaxBackups: 2,
	})
	require.NoError(t, err)

	line := []byte(strings.Repeat("y", 40) + "\n")
	for i := 0; i < 30; i++ {
		_, err := w.Write(line)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	// active file plus at most two rotated ones
	assert.LessOrEqual(t, countLogs(t, dir, "keep"), 3)
}

func TestRotatingWriter_PrunesOldFilesOnOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	old := filepath.Join(dir, "age.20200101T000000.000.log")
	require.NoError(t, os.WriteFile(old, []byte("old\n"), 0o644))
	past := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))

	w, err := logging.NewRotatingWriter(filepath.Join(dir, "age.log"), logging.RotationConfig{MaxAge: 7})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))
}

func TestRotatingWriter_WriteAfterClose(t *testing.T) {
	t.Parallel()

	w, err := logging.NewRotatingWriter(filepath.Join(t.TempDir(), "closed.log"), logging.RotationConfig{})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	_, err = w.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)
}
