// Package filter narrows, orders and truncates a list of extra files for
// display and selection. It never changes which files are extra.
package filter

import (
	"errors"
	"fmt"
	"strings"
)

// SortField specifies the field to sort files by.
type SortField int

const (
	// SortPath sorts files by path alphabetically.
	SortPath SortField = iota
	// SortSize sorts files by size in bytes.
	SortSize
	// SortAge sorts files by modification time, oldest first.
	SortAge
)

const (
	sortFieldPath = "path"
	sortFieldSize = "size"
	sortFieldAge  = "age"
)

// String returns the string representation of the sort field.
func (s SortField) String() string {
	switch s {
	case SortSize:
		return sortFieldSize
	case SortAge:
		return sortFieldAge
	default:
		return sortFieldPath
	}
}

// ErrInvalidSortField indicates that the sort field string could not be parsed.
var ErrInvalidSortField = errors.New("invalid sort field")

// ParseSortField parses "path", "size" or "age", case-insensitively.
func ParseSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case sortFieldPath, "":
		return SortPath, nil
	case sortFieldSize:
		return SortSize, nil
	case sortFieldAge:
		return SortAge, nil
	default:
		return SortPath, fmt.Errorf("%w: %q", ErrInvalidSortField, s)
	}
}
