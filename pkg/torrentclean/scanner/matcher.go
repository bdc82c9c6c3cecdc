package scanner

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher tests slash-separated relative paths against ignore globs.
type Matcher struct {
	anchored []string
	basename []string
}

// NewMatcher compiles patterns. Invalid patterns are returned as errors and
// left out of the matcher; empty patterns are dropped silently.
func NewMatcher(patterns []string) (*Matcher, []error) {
	m := &Matcher{}
	var errs []error

	for _, raw := range patterns {
		p := strings.TrimPrefix(strings.TrimSpace(raw), "./")
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			errs = append(errs, fmt.Errorf("invalid ignore pattern %q: %w", raw, doublestar.ErrBadPattern))
			continue
		}

		if strings.Contains(p, "/") {
			m.anchored = append(m.anchored, strings.TrimPrefix(p, "/"))
		} else {
			m.basename = append(m.basename, p)
		}
	}

	return m, errs
}

// Match reports whether rel, a slash-separated path relative to the scan
// root, is ignored.
func (m *Matcher) Match(rel string) bool {
	if m == nil || rel == "" || rel == "." {
		return false
	}

	for _, p := range m.anchored {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}

	base := path.Base(rel)
	for _, p := range m.basename {
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
		// "**" and friends still apply to the whole path.
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}

	return false
}
