// Package types provides core data types shared by the torrent-clean packages:
// file information for directory listings, scan results and progress, and
// helpers for parsing and formatting file sizes.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
)

// FileInfo describes a single file found in the target directory.
type FileInfo struct {
	// Path is the absolute path to the file.
	Path string `json:"path" yaml:"path"`

	// RelPath is the path relative to the scanned directory, using forward slashes.
	RelPath string `json:"rel_path" yaml:"rel_path"`

	// Size is the file size in bytes.
	Size int64 `json:"size" yaml:"size"`

	// ModTime is the last modification time of the file.
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// HumanSize returns the file size formatted with IEC units.
func (f *FileInfo) HumanSize() string {
	return FormatSize(f.Size)
}

// ScanResult is the directory listing produced by a scan.
type ScanResult struct {
	// Root is the absolute path that was scanned.
	Root string `json:"root"`

	// Files contains every non-ignored regular file, sorted by path.
	Files []FileInfo `json:"files"`

	// DirsScanned is the total number of directories traversed.
	DirsScanned int64 `json:"dirs_scanned"`

	// FilesScanned is the number of regular files examined, ignored ones included.
	FilesScanned int64 `json:"files_scanned"`

	// TotalSize is the sum of the sizes in Files.
	TotalSize int64 `json:"total_size"`

	// Elapsed is the total time taken to complete the scan.
	Elapsed time.Duration `json:"elapsed"`

	// Errors contains entries that could not be read. They never abort a scan.
	Errors []ScanError `json:"errors,omitempty"`
}

// Paths returns the absolute paths of the listed files in listing order.
func (r *ScanResult) Paths() []string {
	paths := make([]string, len(r.Files))
	for i, f := range r.Files {
		paths[i] = f.Path
	}
	return paths
}

// Lookup returns the listing entry for an absolute path.
func (r *ScanResult) Lookup(path string) (FileInfo, bool) {
	for _, f := range r.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileInfo{}, false
}

// ScanError pairs a path with the error met while reading it.
type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ScanProgress is a snapshot of a running scan.
type ScanProgress struct {
	DirsScanned  int64  `json:"dirs_scanned"`
	FilesScanned int64  `json:"files_scanned"`
	CurrentPath  string `json:"current_path"`
}

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size such as "512", "100K", "1.5GiB" or "2 GB".
//
// Single-letter and IEC suffixes (K, M, G, KiB, MiB, ...) are binary; SI
// suffixes with a trailing B (KB, MB, GB) are decimal, as in humanize.ParseBytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	// humanize treats a bare "M" as SI; sizes in this tool default to binary.
	if n := len(s); n > 0 && strings.ContainsRune("kKmMgGtT", rune(s[n-1])) {
		s += "iB"
	}

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	return int64(n), nil
}

// FormatSize converts a size in bytes to a human-readable IEC string, e.g. "1.5 MiB".
func FormatSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.IBytes(uint64(bytes))
}
