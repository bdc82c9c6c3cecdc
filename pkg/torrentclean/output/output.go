// Package output renders torrent-clean results in several formats
// (pretty, plain, json, yaml, paths, null).
//
// Formatters are looked up by name from a registry:
//
//	formatter, err := output.Get("pretty")
//	if err != nil {
//	    return err
//	}
//	var buf bytes.Buffer
//	if err := formatter.Format(&buf, result); err != nil {
//	    return err
//	}
package output

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/cleanup"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

// FileInfo is an extra file prepared for display.
type FileInfo struct {
	// Path is the absolute path to the file.
	Path string `json:"path" yaml:"path"`

	// RelPath is the path relative to the target directory.
	RelPath string `json:"rel_path" yaml:"rel_path"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// SizeHuman is the human-readable file size (e.g., "1.5 GiB").
	SizeHuman string `json:"size_human" yaml:"size_human"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// FailedFile is a file that could not be deleted.
type FailedFile struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// DeletionSummary describes the outcome of a deletion pass.
type DeletionSummary struct {
	Deleted    []string     `json:"deleted" yaml:"deleted"`
	Failed     []FailedFile `json:"failed,omitempty" yaml:"failed,omitempty"`
	PrunedDirs []string     `json:"pruned_dirs,omitempty" yaml:"pruned_dirs,omitempty"`
}

// Result is everything a formatter needs to render one run.
type Result struct {
	// TorrentName is the name declared by the torrent.
	TorrentName string `json:"torrent_name" yaml:"torrent_name"`

	// TorrentID is the identifier the torrent was resolved from.
	TorrentID string `json:"torrent_id,omitempty" yaml:"torrent_id,omitempty"`

	// Directory is the target directory.
	Directory string `json:"directory" yaml:"directory"`

	// Files are the extra files, already filtered and sorted for display.
	Files []FileInfo `json:"files" yaml:"files"`

	// TotalFiles is the number of extra files before any display limit.
	TotalFiles int `json:"total_files" yaml:"total_files"`

	// DryRun is set when nothing will be deleted.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// Warnings holds non-fatal problems (unreadable directories, save errors).
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Deletion is set once files have been deleted.
	Deletion *DeletionSummary `json:"deletion,omitempty" yaml:"deletion,omitempty"`
}

// TotalSize returns the sum of all file sizes in the result.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, f := range r.Files {
		total += f.Size
	}
	return total
}

// NewFiles converts scanner entries into display entries.
func NewFiles(files []types.FileInfo) []FileInfo {
	out := make([]FileInfo, len(files))
	for i, f := range files {
		out[i] = FileInfo{
			Path:      f.Path,
			RelPath:   f.RelPath,
			Size:      f.Size,
			SizeHuman: f.HumanSize(),
			ModTime:   f.ModTime,
		}
	}
	return out
}

// NewDeletionSummary converts a cleanup report. A nil report yields nil.
func NewDeletionSummary(rep *cleanup.Report) *DeletionSummary {
	if rep == nil {
		return nil
	}
	s := &DeletionSummary{
		Deleted:    append([]string{}, rep.Deleted...),
		PrunedDirs: rep.PrunedDirs,
	}
	for _, f := range rep.Failed {
		ff := FailedFile{Path: f.Path}
		if f.Err != nil {
			ff.Error = f.Err.Error()
		}
		s.Failed = append(s.Failed, ff)
	}
	return s
}

// Formatter is the interface that all output formatters must implement.
type Formatter interface {
	// Format writes the formatted output to the buffer.
	Format(w *bytes.Buffer, r *Result) error
}

// FormatterFactory is a function that creates a new Formatter instance.
type FormatterFactory func() Formatter

// Registry manages formatter registration and lookup.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]FormatterFactory
}

// NewRegistry creates a new formatter registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]FormatterFactory),
	}
}

// Register adds a formatter factory, replacing any with the same name.
func (r *Registry) Register(name string, factory FormatterFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Get returns a new formatter instance by name.
func (r *Registry) Get(name string) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter: %s", name)
	}
	return factory(), nil
}

// Available returns a sorted list of all registered formatter names.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry.
var DefaultRegistry = NewRegistry()

// Register adds a formatter factory to the default registry.
func Register(name string, factory FormatterFactory) {
	DefaultRegistry.Register(name, factory)
}

// Get returns a new formatter instance from the default registry.
func Get(name string) (Formatter, error) {
	return DefaultRegistry.Get(name)
}

// Available returns all formatter names from the default registry.
func Available() []string {
	return DefaultRegistry.Available()
}
