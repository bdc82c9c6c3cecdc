package trash

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveToTrash(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	tmpFile := filepath.Join(t.TempDir(), "test.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

	require.NoError(t, MoveToTrash(context.Background(), tmpFile))

	_, err := os.Stat(tmpFile)
	assert.True(t, os.IsNotExist(err))
}

func TestMoveToTrash_Nonexistent(t *testing.T) {
	err := MoveToTrash(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMoveToTrash_RejectsDirectories(t *testing.T) {
	err := MoveToTrash(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrNotRegular)
}

func TestMoveToXDGTrash(t *testing.T) {
	base := t.TempDir()
	trashDir := filepath.Join(base, "Trash")
	src := filepath.Join(base, "dl", "my file.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	require.NoError(t, moveToXDGTrash(src, trashDir, now))

	_, err := os.Stat(filepath.Join(trashDir, "files", "my file.txt"))
	require.NoError(t, err)

	info, err := os.ReadFile(filepath.Join(trashDir, "info", "my file.txt.trashinfo"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(info), "[Trash Info]\n"))
	assert.Contains(t, string(info), "my%20file.txt")
	assert.Contains(t, string(info), "DeletionDate=2026-03-04T05:06:07")

	// A second file with the same name gets a suffix.
	require.NoError(t, os.WriteFile(src, []byte("y"), 0o644))
	require.NoError(t, moveToXDGTrash(src, trashDir, now))
	_, err = os.Stat(filepath.Join(trashDir, "files", "my file.2.txt"))
	require.NoError(t, err)
}

func TestEscapeTrashPath(t *testing.T) {
	assert.Equal(t, "/a%20b/c%25d", escapeTrashPath("/a b/c%d"))
}
