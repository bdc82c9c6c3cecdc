package main

import (
	"fmt"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/filter"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/settings"
	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

// buildFilter creates the display filter from the settings and flags.
func buildFilter(s *settings.Settings, include []string, reverse bool) (*filter.Filter, error) {
	opts := []filter.Option{filter.WithLimit(s.Limit)}

	if s.MinSize != "" {
		minSize, err := types.ParseSize(s.MinSize)
		if err != nil {
			return nil, fmt.Errorf("invalid min-size %q: %w", s.MinSize, err)
		}
		opts = append(opts, filter.WithMinSize(minSize))
	}

	if len(include) > 0 {
		opts = append(opts, filter.WithInclude(include...))
	}

	sortField, err := filter.ParseSortField(s.Sort)
	if err != nil {
		return nil, err
	}
	opts = append(opts, filter.WithSortBy(sortField))

	// Largest first for size, oldest first for age, A-Z for paths.
	descending := !reverse
	if sortField != filter.SortSize {
		descending = reverse
	}
	opts = append(opts, filter.WithSortDescending(descending))

	f := filter.New(opts...)
	if err := f.Err(); err != nil {
		return nil, err
	}
	return f, nil
}
