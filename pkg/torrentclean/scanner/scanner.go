package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// Scanner walks a directory tree and collects the regular files not
// excluded by its ignore patterns.
type Scanner struct {
	opts    Options
	matcher *Matcher
	root    string

	dirsScanned  atomic.Int64
	filesScanned atomic.Int64
	currentPath  atomic.Value
	lastProgress atomic.Int64

	errors   []types.ScanError
	errorsMu sync.Mutex

	results   []types.FileInfo
	resultsMu sync.Mutex
}

// New creates a Scanner. Invalid ignore patterns are reported in the
// result's Errors when Scan runs.
func New(opts Options) *Scanner {
	_ = opts.Validate()

	matcher, errs := NewMatcher(opts.Ignore)

	s := &Scanner{
		opts:    opts,
		matcher: matcher,
	}
	for _, err := range errs {
		s.addError("", err)
	}
	s.currentPath.Store("")
	return s
}

// Scan walks the root and returns the listing sorted by path. Unreadable
// entries are recorded in the result and do not stop the walk. A cancelled
// context aborts the scan with the context's error.
func (s *Scanner) Scan(ctx context.Context) (*types.ScanResult, error) {
	start := time.Now()
	logger := logging.Get("scanner")

	root, err := s.validateRoot()
	if err != nil {
		return nil, err
	}
	s.root = root

	s.currentPath.Store(root)
	s.reportProgressForce()

	logger.Debug("scan started", "root", root, "ignore", len(s.opts.Ignore))

	conf := fastwalk.Config{
		Follow:     false,
		NumWorkers: s.opts.Workers,
	}

	walkErr := fastwalk.Walk(&conf, root, s.walkCallback(ctx))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if walkErr != nil && !errors.Is(walkErr, fastwalk.ErrSkipFiles) {
		return nil, fmt.Errorf("walking %s: %w", root, walkErr)
	}

	sort.Slice(s.results, func(i, j int) bool {
		return s.results[i].Path < s.results[j].Path
	})
	sort.SliceStable(s.errors, func(i, j int) bool {
		return s.errors[i].Path < s.errors[j].Path
	})

	var total int64
	for _, f := range s.results {
		total += f.Size
	}

	s.reportProgressForce()

	result := &types.ScanResult{
		Root:         root,
		Files:        s.results,
		DirsScanned:  s.dirsScanned.Load(),
		FilesScanned: s.filesScanned.Load(),
		TotalSize:    total,
		Elapsed:      time.Since(start),
		Errors:       s.errors,
	}

	logger.Debug("scan finished",
		"root", root,
		"files", len(result.Files),
		"errors", len(result.Errors),
		"elapsed", result.Elapsed)

	return result, nil
}

func (s *Scanner) validateRoot() (string, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	return root, nil
}

func (s *Scanner) walkCallback(ctx context.Context) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err != nil {
			s.addError(path, err)
			if d != nil && d.IsDir() && path != s.root {
				return fastwalk.SkipDir
			}
			return nil
		}

		if path == s.root {
			s.dirsScanned.Add(1)
			return nil
		}

		rel, relErr := filepath.Rel(s.root, path)
		if relErr != nil {
			s.addError(path, relErr)
			return nil
		}
		rel = filepath.ToSlash(rel)

		if s.matcher.Match(rel) {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			s.dirsScanned.Add(1)
			s.currentPath.Store(path)
			s.reportProgress()
			return nil
		}

		if d.Type().IsRegular() {
			s.processFile(path, rel, d)
		}
		return nil
	}
}

func (s *Scanner) processFile(path, rel string, d fs.DirEntry) {
	info, err := d.Info()
	if err != nil {
		s.addError(path, err)
		return
	}

	s.filesScanned.Add(1)

	s.resultsMu.Lock()
	s.results = append(s.results, types.FileInfo{
		Path:    path,
		RelPath: rel,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
	s.resultsMu.Unlock()
}

func (s *Scanner) addError(path string, err error) {
	s.errorsMu.Lock()
	s.errors = append(s.errors, types.ScanError{
		Path:  path,
		Error: err.Error(),
	})
	s.errorsMu.Unlock()
}

// reportProgress is throttled to one callback per 50ms.
func (s *Scanner) reportProgress() {
	if s.opts.OnProgress == nil {
		return
	}

	now := time.Now().UnixMilli()
	last := s.lastProgress.Load()
	if now-last < 50 {
		return
	}
	if !s.lastProgress.CompareAndSwap(last, now) {
		return
	}

	s.sendProgress()
}

func (s *Scanner) reportProgressForce() {
	if s.opts.OnProgress == nil {
		return
	}
	s.lastProgress.Store(time.Now().UnixMilli())
	s.sendProgress()
}

func (s *Scanner) sendProgress() {
	current, _ := s.currentPath.Load().(string)

	s.opts.OnProgress(types.ScanProgress{
		DirsScanned:  s.dirsScanned.Load(),
		FilesScanned: s.filesScanned.Load(),
		CurrentPath:  current,
	})
}

// ReadDirectory lists root with the given ignore globs and returns the
// absolute file paths in sorted order.
func ReadDirectory(ctx context.Context, root string, ignore []string) ([]string, error) {
	res, err := New(Options{Root: root, Ignore: ignore}).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return res.Paths(), nil
}
