// Package config discovers, merges and saves .torrent-cleanrc files.
//
// Configuration is layered: every directory from the target directory up to
// the filesystem root may hold one rc file, closer files override farther
// ones, and ignore lists from all levels are unioned.
package config

import (
	"reflect"
)

// Reserved configuration keys.
const (
	KeyIgnore              = "ignore"
	KeyRememberLastTorrent = "rememberLastTorrent"
	KeyLastTorrent         = "lastTorrent"
)

// BaseName is the rc file name without extension.
const BaseName = ".torrent-cleanrc"

// SearchPlaces are the file names probed in each directory, in priority order.
var SearchPlaces = []string{
	BaseName,
	BaseName + ".json",
	BaseName + ".yaml",
	BaseName + ".yml",
}

// DefaultIgnore holds the patterns always present in a loaded configuration:
// uTorrent partial-piece files and the rc files themselves.
var DefaultIgnore = []string{
	"~uTorrentPartFile*",
	BaseName + "*",
}

// Config is an open key/value mapping. Keys other than the reserved ones are
// merged and persisted without interpretation.
type Config map[string]any

// Ignore returns the ignore patterns. Non-string entries are skipped.
func (c Config) Ignore() []string {
	items, ok := asSlice(c[KeyIgnore])
	if !ok {
		return nil
	}

	patterns := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			patterns = append(patterns, s)
		}
	}
	return patterns
}

// RememberLastTorrent reports whether the last used torrent should be saved.
func (c Config) RememberLastTorrent() bool {
	b, _ := c[KeyRememberLastTorrent].(bool)
	return b
}

// LastTorrent returns the remembered torrent identifier, if any.
func (c Config) LastTorrent() string {
	s, _ := c[KeyLastTorrent].(string)
	return s
}

// SetLastTorrent records id as the last used torrent.
func (c Config) SetLastTorrent(id string) {
	c[KeyLastTorrent] = id
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	if c == nil {
		return nil
	}
	return Config(cloneMap(c))
}

// Equal reports whether two configurations hold the same values.
func (c Config) Equal(other Config) bool {
	return reflect.DeepEqual(normalize(c), normalize(other))
}

// normalize converts nested Config and []string values to their generic
// forms so that values decoded from different sources compare equal.
func normalize(v any) any {
	switch t := v.(type) {
	case Config:
		return normalize(map[string]any(t))
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case Config:
		return t, true
	case map[string]any:
		return t, true
	default:
		return nil, false
	}
}

func asSlice(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func cloneValue(v any) any {
	if m, ok := asMap(v); ok {
		return cloneMap(m)
	}
	if s, ok := asSlice(v); ok {
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = cloneValue(item)
		}
		return out
	}
	return v
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}
