// Package cleanup deletes files and then prunes the directories left empty.
//
// Deletion is best effort: every file is attempted independently and
// failures are collected in a Report and logged rather than returned.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/trash"
)

// RemoveFunc deletes a single file.
type RemoveFunc func(ctx context.Context, path string) error

// Options configures DeleteFilesAndPruneEmptyDirs.
type Options struct {
	// UseTrash moves files to the trash instead of unlinking them.
	UseTrash bool

	// Remove overrides how files are deleted. It takes precedence over UseTrash.
	Remove RemoveFunc
}

func (o Options) remover() RemoveFunc {
	switch {
	case o.Remove != nil:
		return o.Remove
	case o.UseTrash:
		return trash.MoveToTrash
	default:
		return func(_ context.Context, path string) error { return os.Remove(path) }
	}
}

// PathError is a failed operation on one path.
type PathError struct {
	Path string `json:"path" yaml:"path"`
	Err  error  `json:"-" yaml:"-"`
}

func (e PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e PathError) Unwrap() error {
	return e.Err
}

// Report describes the outcome of a cleanup.
type Report struct {
	Deleted     []string    `json:"deleted"`
	Failed      []PathError `json:"failed,omitempty"`
	PrunedDirs  []string    `json:"pruned_dirs,omitempty"`
	PruneErrors []PathError `json:"prune_errors,omitempty"`
}

// Err joins every failure, or returns nil when there were none.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	errs := make([]error, 0, len(r.Failed)+len(r.PruneErrors))
	for _, f := range r.Failed {
		errs = append(errs, f)
	}
	for _, f := range r.PruneErrors {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// DeleteFilesAndPruneEmptyDirs removes paths, then removes every directory
// under dir that is empty or became empty. dir itself is kept. Pruning runs
// even when some deletions fail. A cancelled ctx stops both phases between
// items and the remaining work is skipped.
func DeleteFilesAndPruneEmptyDirs(ctx context.Context, dir string, paths []string, opts Options) *Report {
	logger := logging.Get("cleanup")
	report := &Report{}
	remove := opts.remover()

	for _, p := range paths {
		if ctx.Err() != nil {
			report.Failed = append(report.Failed, PathError{Path: p, Err: ctx.Err()})
			continue
		}
		if err := remove(ctx, p); err != nil {
			logger.Warn("failed to delete file", "path", p, "error", err)
			report.Failed = append(report.Failed, PathError{Path: p, Err: err})
			continue
		}
		logger.Debug("deleted file", "path", p)
		report.Deleted = append(report.Deleted, p)
	}

	pruned, pruneErrs := PruneEmptyDirs(ctx, dir)
	report.PrunedDirs = pruned
	report.PruneErrors = pruneErrs
	for _, pe := range pruneErrs {
		logger.Warn("failed to prune directory", "path", pe.Path, "error", pe.Err)
	}

	logger.Info("cleanup finished",
		"dir", dir,
		"deleted", len(report.Deleted),
		"failed", len(report.Failed),
		"pruned", len(report.PrunedDirs))

	return report
}

// PruneEmptyDirs removes, deepest first, every directory under root that
// contains nothing or only directories that were themselves removed.
// root is never removed.
func PruneEmptyDirs(ctx context.Context, root string) ([]string, []PathError) {
	var (
		pruned []string
		errs   []PathError
	)

	info, err := os.Stat(root)
	if err != nil {
		return nil, []PathError{{Path: root, Err: err}}
	}
	if !info.IsDir() {
		return nil, []PathError{{Path: root, Err: errors.New("not a directory")}}
	}

	var dirs []string
	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, PathError{Path: path, Err: err})
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if walkErr != nil {
		errs = append(errs, PathError{Path: root, Err: walkErr})
	}

	// Longer paths first so children go before their parents.
	sort.SliceStable(dirs, func(i, j int) bool {
		return len(dirs[i]) > len(dirs[j])
	})

	for _, d := range dirs {
		if ctx.Err() != nil {
			errs = append(errs, PathError{Path: d, Err: ctx.Err()})
			break
		}

		entries, err := os.ReadDir(d)
		if err != nil {
			errs = append(errs, PathError{Path: d, Err: err})
			continue
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(d); err != nil {
			errs = append(errs, PathError{Path: d, Err: err})
			continue
		}
		pruned = append(pruned, d)
	}

	return pruned, errs
}
