// Package scanner lists the files of a download directory, skipping paths
// that match ignore globs. Directories are walked in parallel with fastwalk.
package scanner

import (
	"runtime"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

// Options configures a Scanner.
type Options struct {
	// Root is the directory to list.
	Root string

	// Ignore holds glob patterns matched against the slash-separated path
	// relative to Root. A pattern without a slash also matches the base
	// name at any depth. Matching directories are not descended into.
	Ignore []string

	// Workers is the number of fastwalk workers. Zero picks a default.
	Workers int

	// OnProgress is called periodically with scan progress.
	// It must be safe to call from multiple goroutines.
	OnProgress func(types.ScanProgress)
}

// Validate applies defaults to unset fields.
func (o *Options) Validate() error {
	if o.Root == "" {
		o.Root = "."
	}
	if o.Workers < 1 {
		o.Workers = max(4, runtime.GOMAXPROCS(0))
	}
	return nil
}
