package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"
)

// RotationConfig configures log file rotation.
type RotationConfig struct {
	// MaxSize is the size in bytes that triggers rotation. Zero uses 5 MiB.
	MaxSize int64

	// MaxAge is the number of days rotated files are kept. Zero disables age cleanup.
	MaxAge int

	// MaxBackups is the number of rotated files kept. Zero keeps all of them.
	MaxBackups int

	// Daily rotates the file the first time it is written on a new day.
	Daily bool
}

// DefaultRotationConfig returns the rotation used when settings do not override it.
func DefaultRotationConfig() RotationConfig {
	return RotationConfig{
		MaxSize:    5 * 1024 * 1024,
		MaxAge:     14,
		MaxBackups: 3,
		Daily:      false,
	}
}

// rotatedTimeFormat is the timestamp embedded in rotated file names,
// e.g. torrent-clean.20260101T150405.000.log.
const rotatedTimeFormat = "20060102T150405.000"

// RotatingWriter is an io.WriteCloser that rotates its file by size or day.
// It is safe for concurrent use and holds an advisory lock while writing
// so concurrent invocations do not interleave partial lines.
type RotatingWriter struct {
	path     string
	cfg      RotationConfig
	mu       sync.Mutex
	file     *os.File
	size     int64
	openedAt time.Time
}

// NewRotatingWriter opens path for appending, creating parent directories.
func NewRotatingWriter(path string, cfg RotationConfig) (*RotatingWriter, error) {
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = DefaultRotationConfig().MaxSize
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	w := &RotatingWriter{path: path, cfg: cfg}
	if err := w.open(); err != nil {
		return nil, err
	}
	w.prune()

	return w, nil
}

// Path returns the active log file path.
func (w *RotatingWriter) Path() string {
	return w.path
}

// Write appends p, rotating first when the size or day limit is reached.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}

	if w.needsRotation(int64(len(p)), time.Now()) {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating log file: %w", err)
		}
	}

	fd := int(w.file.Fd())
	if err := syscall.Flock(fd, syscall.LOCK_EX); err != nil {
		return 0, fmt.Errorf("locking log file: %w", err)
	}
	defer func() { _ = syscall.Flock(fd, syscall.LOCK_UN) }()

	n, err := w.file.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, fmt.Errorf("writing log file: %w", err)
	}
	return n, nil
}

// Close syncs and closes the file. Further writes fail with os.ErrClosed.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	syncErr := w.file.Sync()
	closeErr := w.file.Close()
	w.file = nil

	if syncErr != nil {
		return fmt.Errorf("syncing log file: %w", syncErr)
	}
	return closeErr
}

func (w *RotatingWriter) open() error {
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("stat log file: %w", err)
	}

	w.file = file
	w.size = info.Size()
	w.openedAt = info.ModTime()
	if w.size == 0 {
		w.openedAt = time.Now()
	}
	return nil
}

func (w *RotatingWriter) needsRotation(n int64, now time.Time) bool {
	if w.size > 0 && w.size+n > w.cfg.MaxSize {
		return true
	}
	if w.cfg.Daily && w.size > 0 {
		y1, m1, d1 := now.Date()
		y2, m2, d2 := w.openedAt.Date()
		return y1 != y2 || m1 != m2 || d1 != d2
	}
	return false
}

func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("closing current file: %w", err)
	}
	w.file = nil

	if err := os.Rename(w.path, w.rotatedName(time.Now())); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("renaming log file: %w", err)
	}

	if err := w.open(); err != nil {
		return err
	}
	w.prune()
	return nil
}

// rotatedName returns a name that does not collide with an earlier rotation
// in the same millisecond.
func (w *RotatingWriter) rotatedName(now time.Time) string {
	ext := filepath.Ext(w.path)
	base := strings.TrimSuffix(w.path, ext)
	stamp := now.Format(rotatedTimeFormat)

	name := fmt.Sprintf("%s.%s%s", base, stamp, ext)
	for i := 1; ; i++ {
		if _, err := os.Lstat(name); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s.%s-%d%s", base, stamp, i, ext)
	}
}

// rotated lists rotated siblings of the active file, newest first.
func (w *RotatingWriter) rotated() []string {
	dir := filepath.Dir(w.path)
	base := filepath.Base(w.path)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var found []candidate
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == base || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		found = append(found, candidate{path: filepath.Join(dir, name), modTime: info.ModTime()})
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].modTime.Equal(found[j].modTime) {
			return found[i].path > found[j].path
		}
		return found[i].modTime.After(found[j].modTime)
	})

	paths := make([]string, len(found))
	for i, c := range found {
		paths[i] = c.path
	}
	return paths
}

// prune removes rotated files beyond MaxBackups or older than MaxAge.
// Errors are ignored; pruning is retried on the next rotation.
func (w *RotatingWriter) prune() {
	cutoff := time.Now().Add(-time.Duration(w.cfg.MaxAge) * 24 * time.Hour)

	for i, path := range w.rotated() {
		remove := w.cfg.MaxBackups > 0 && i >= w.cfg.MaxBackups
		if !remove && w.cfg.MaxAge > 0 {
			if info, err := os.Stat(path); err == nil && info.ModTime().Before(cutoff) {
				remove = true
			}
		}
		if remove {
			_ = os.Remove(path)
		}
	}
}
