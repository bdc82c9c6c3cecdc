package filter

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/gobwas/glob"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

// Filter holds the criteria applied to a file list.
type Filter struct {
	// MinSize excludes files smaller than this many bytes.
	MinSize int64

	// Include patterns are matched against the relative path. When set, a
	// file must match at least one.
	Include []string

	// Exclude patterns are matched against the relative path.
	Exclude []string

	// SortBy is the field to order by.
	SortBy SortField

	// SortDescending reverses the order.
	SortDescending bool

	// Limit caps the number of files returned. Zero means no limit.
	Limit int

	include []glob.Glob
	exclude []glob.Glob
	bad     []error
}

// Option configures a Filter.
type Option func(*Filter)

// New creates a Filter. By default files are sorted by path, ascending,
// without a limit.
func New(opts ...Option) *Filter {
	f := &Filter{SortBy: SortPath}
	for _, opt := range opts {
		opt(f)
	}
	f.include = f.compile(f.Include)
	f.exclude = f.compile(f.Exclude)
	return f
}

// WithLimit sets the maximum number of files to return. Negative means none.
func WithLimit(limit int) Option {
	return func(f *Filter) {
		f.Limit = max(limit, 0)
	}
}

// WithMinSize sets the minimum file size in bytes.
func WithMinSize(minSize int64) Option {
	return func(f *Filter) {
		f.MinSize = max(minSize, 0)
	}
}

// WithInclude sets the include glob patterns.
func WithInclude(patterns ...string) Option {
	return func(f *Filter) {
		f.Include = patterns
	}
}

// WithExclude sets the exclude glob patterns.
func WithExclude(patterns ...string) Option {
	return func(f *Filter) {
		f.Exclude = patterns
	}
}

// WithSortBy sets the field to sort by.
func WithSortBy(field SortField) Option {
	return func(f *Filter) {
		f.SortBy = field
	}
}

// WithSortDescending sets whether to sort in descending order.
func WithSortDescending(desc bool) Option {
	return func(f *Filter) {
		f.SortDescending = desc
	}
}

func (f *Filter) compile(patterns []string) []glob.Glob {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			f.bad = append(f.bad, fmt.Errorf("invalid pattern %q: %w", p, err))
			continue
		}
		out = append(out, g)
	}
	return out
}

// Err reports the patterns that failed to compile. They are ignored by Match.
func (f *Filter) Err() error {
	if len(f.bad) == 0 {
		return nil
	}
	return f.bad[0]
}

// Match reports whether fi passes the size and pattern criteria.
func (f *Filter) Match(fi types.FileInfo) bool {
	if f.MinSize > 0 && fi.Size < f.MinSize {
		return false
	}
	if matchAny(f.exclude, fi.RelPath) {
		return false
	}
	if len(f.Include) > 0 && !matchAny(f.include, fi.RelPath) {
		return false
	}
	return true
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// Sort returns a sorted copy of files.
func (f *Filter) Sort(files []types.FileInfo) []types.FileInfo {
	sorted := slices.Clone(files)
	if sorted == nil {
		sorted = []types.FileInfo{}
	}

	slices.SortStableFunc(sorted, func(a, b types.FileInfo) int {
		var result int
		switch f.SortBy {
		case SortSize:
			result = cmp.Compare(a.Size, b.Size)
		case SortAge:
			result = a.ModTime.Compare(b.ModTime)
		default:
			result = cmp.Compare(a.Path, b.Path)
		}
		if f.SortDescending {
			return -result
		}
		return result
	})

	return sorted
}

// Apply filters, sorts and limits files, returning a new slice.
func (f *Filter) Apply(files []types.FileInfo) []types.FileInfo {
	matched := make([]types.FileInfo, 0, len(files))
	for _, fi := range files {
		if f.Match(fi) {
			matched = append(matched, fi)
		}
	}

	sorted := f.Sort(matched)

	if f.Limit > 0 && len(sorted) > f.Limit {
		return sorted[:f.Limit]
	}
	return sorted
}
