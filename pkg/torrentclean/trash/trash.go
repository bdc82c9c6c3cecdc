// Package trash moves deleted files to the desktop trash instead of
// unlinking them. On macOS Finder is asked to do it; on Linux gio or
// trash-cli are tried before writing to the XDG trash directly. When none
// of these work the file is removed permanently.
package trash

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// commandTimeout bounds each external trash command.
const commandTimeout = 30 * time.Second

// ErrNotRegular is returned for paths that are not regular files.
var ErrNotRegular = errors.New("not a regular file")

// MoveToTrash moves the file at path to the trash.
func MoveToTrash(ctx context.Context, path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("cannot trash %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("cannot trash %q: %w", path, ErrNotRegular)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve absolute path for %q: %w", path, err)
	}

	switch runtime.GOOS {
	case "darwin":
		if runCommand(ctx, "osascript", "-e", fmt.Sprintf(`tell application "Finder" to delete POSIX file %q`, absPath)) {
			return nil
		}
	case "linux":
		if runCommand(ctx, "gio", "trash", absPath) || runCommand(ctx, "trash-put", absPath) {
			return nil
		}
		if err := moveToXDGTrash(absPath, xdgTrashDir(), time.Now()); err == nil {
			return nil
		}
	}

	return fallbackDelete(absPath)
}

// runCommand reports whether the named tool exists and succeeded.
func runCommand(ctx context.Context, name string, args ...string) bool {
	bin, err := exec.LookPath(name)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	return exec.CommandContext(ctx, bin, args...).Run() == nil
}

func xdgTrashDir() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "Trash")
	}
	return filepath.Join(xdg.DataHome, "Trash")
}

// moveToXDGTrash follows the freedesktop.org trash layout: the file goes to
// files/ and a matching .trashinfo is written to info/. It only works when
// trashDir is on the same filesystem as path.
func moveToXDGTrash(path, trashDir string, now time.Time) error {
	filesDir := filepath.Join(trashDir, "files")
	infoDir := filepath.Join(trashDir, "info")
	for _, dir := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	name, infoFile, err := reserveInfoFile(infoDir, filepath.Base(path))
	if err != nil {
		return err
	}

	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapeTrashPath(path), now.Format("2006-01-02T15:04:05"))
	if _, err := infoFile.WriteString(content); err != nil {
		_ = infoFile.Close()
		_ = os.Remove(infoFile.Name())
		return err
	}
	if err := infoFile.Close(); err != nil {
		_ = os.Remove(infoFile.Name())
		return err
	}

	if err := os.Rename(path, filepath.Join(filesDir, name)); err != nil {
		_ = os.Remove(infoFile.Name())
		return err
	}
	return nil
}

// reserveInfoFile creates info/<name>.trashinfo exclusively, adding a
// numeric suffix while the name is taken.
func reserveInfoFile(infoDir, base string) (string, *os.File, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	name := base
	for i := 2; i < 10000; i++ {
		f, err := os.OpenFile(filepath.Join(infoDir, name+".trashinfo"), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			return name, f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, err
		}
		name = fmt.Sprintf("%s.%d%s", stem, i, ext)
	}
	return "", nil, fmt.Errorf("no free trash name for %q", base)
}

// escapeTrashPath percent-encodes path for a freedesktop.org .trashinfo
// file, keeping slashes readable.
func escapeTrashPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func fallbackDelete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %q: %w", path, err)
	}
	return nil
}
