// Package reconcile compares a directory listing with the files a torrent
// declares.
//
// Paths are compared after cleaning, Unicode NFC normalization and case
// folding on every platform, so a listing from a case-insensitive volume
// and a torrent with differently cased names agree.
package reconcile

import (
	"path/filepath"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/torrent"
)

// Key returns the comparison form of a path.
func Key(p string) string {
	return cases.Fold().String(norm.NFC.String(filepath.Clean(p)))
}

// ExpectedPaths joins every declared file onto dir.
func ExpectedPaths(meta *torrent.Metadata, dir string) []string {
	if meta == nil {
		return nil
	}
	out := make([]string, len(meta.Files))
	for i, f := range meta.Files {
		out[i] = filepath.Join(dir, filepath.FromSlash(f))
	}
	return out
}

// ExtraFiles returns the entries of listing that meta does not declare
// under dir. Entries keep their original spelling and listing order.
func ExtraFiles(meta *torrent.Metadata, listing []string, dir string) []string {
	expected := make(map[string]struct{})
	for _, p := range ExpectedPaths(meta, dir) {
		expected[Key(p)] = struct{}{}
	}

	extra := make([]string, 0)
	for _, p := range listing {
		if _, ok := expected[Key(p)]; !ok {
			extra = append(extra, p)
		}
	}
	return extra
}
