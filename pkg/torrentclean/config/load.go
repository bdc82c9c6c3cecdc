package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/logging"
)

// ParseError reports an rc file whose content is not valid for its format.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid config file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Source is a parsed rc file together with its location.
type Source struct {
	Path   string
	Config Config
}

// LoadResult is the outcome of Load.
type LoadResult struct {
	// Config is the merged configuration, ignore defaults included.
	Config Config

	// Source is the rc file found directly in the start directory, or nil.
	// It is the file rewritten when the last torrent is remembered.
	Source *Source
}

// Finder locates the nearest rc file at or above a directory.
type Finder interface {
	// Find returns the path of the nearest rc file in dir or one of its
	// ancestors, or "" when there is none.
	Find(dir string) (string, error)
}

// FsFinder probes SearchPlaces in each directory on an afero filesystem.
type FsFinder struct {
	Fs afero.Fs
}

// Find implements Finder.
func (f FsFinder) Find(dir string) (string, error) {
	for {
		for _, name := range SearchPlaces {
			candidate := filepath.Join(dir, name)
			info, err := f.Fs.Stat(candidate)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				return "", fmt.Errorf("stat %s: %w", candidate, err)
			}
			if info.Mode().IsRegular() {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Loader discovers and merges rc files.
type Loader struct {
	Fs     afero.Fs
	Finder Finder
}

// NewLoader returns a Loader that searches fsys.
func NewLoader(fsys afero.Fs) *Loader {
	return &Loader{Fs: fsys, Finder: FsFinder{Fs: fsys}}
}

// Load merges every rc file from startDir up to the filesystem root, closer
// files taking precedence, then applies override and the ignore defaults.
func Load(fsys afero.Fs, startDir string, override Config) (*LoadResult, error) {
	return NewLoader(fsys).Load(startDir, override)
}

// Load implements the package level Load with l's filesystem and finder.
func (l *Loader) Load(startDir string, override Config) (*LoadResult, error) {
	logger := logging.Get("config")

	start, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", startDir, err)
	}

	sources, err := l.discover(start)
	if err != nil {
		return nil, err
	}

	result := &LoadResult{Config: Config{}}

	// sources are ordered closest first; fold from the root down.
	for i := len(sources) - 1; i >= 0; i-- {
		logger.Debug("merging config", "path", sources[i].Path)
		Merge(result.Config, sources[i].Config)
	}
	Merge(result.Config, override)

	result.Config[KeyIgnore] = union(stringsToAny(DefaultIgnore), anyIgnore(result.Config))

	if len(sources) > 0 && filepath.Dir(sources[0].Path) == start {
		result.Source = &sources[0]
	}

	return result, nil
}

func (l *Loader) discover(start string) ([]Source, error) {
	var sources []Source

	dir := start
	for {
		path, err := l.Finder.Find(dir)
		if err != nil {
			return nil, err
		}
		if path == "" {
			break
		}

		cfg, err := l.parseFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, Source{Path: path, Config: cfg})

		found := filepath.Dir(path)
		parent := filepath.Dir(found)
		if parent == found {
			break
		}
		dir = parent
	}

	return sources, nil
}

func (l *Loader) parseFile(path string) (Config, error) {
	data, err := afero.ReadFile(l.Fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data, formatForName(path))
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes rc file content. JSON content is handled by the YAML
// decoder too, so FormatYAML is the right choice when the format is unknown.
func Parse(data []byte, format Format) (Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Config{}, nil
	}

	var raw any
	switch format {
	case FormatJSON:
		v, err := decodeJSON(data)
		if err != nil {
			return nil, err
		}
		raw = v
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}

	switch v := raw.(type) {
	case nil:
		return Config{}, nil
	case map[string]any:
		return Config(v), nil
	default:
		return nil, fmt.Errorf("expected a mapping at the top level, got %T", raw)
	}
}

// decodeJSON decodes data with numbers typed the way the YAML decoder types
// them, so values from .json and .yaml files compare equal when merged.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid character after top-level value")
	}
	return yamlNumbers(raw), nil
}

func yamlNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = yamlNumbers(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = yamlNumbers(val)
		}
		return t
	case json.Number:
		if n, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			if int64(int(n)) == n {
				return int(n)
			}
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// formatForName picks the decoder from the extension; extension-less files
// are read as YAML.
func formatForName(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// anyIgnore returns the ignore list, accepting a lone string as a single pattern.
func anyIgnore(c Config) []any {
	if s, ok := c[KeyIgnore].(string); ok {
		return []any{s}
	}
	items, _ := asSlice(c[KeyIgnore])
	return items
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
