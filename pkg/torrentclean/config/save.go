package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format is an rc file serialization.
type Format int

// Supported formats.
const (
	FormatYAML Format = iota
	FormatJSON
)

// DefaultFileName is the name of an rc file created by Save.
const DefaultFileName = BaseName + ".yaml"

// String returns the format name.
func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}
	return "yaml"
}

// DetectFormat determines the format of an existing rc file. The extension
// decides when it is .json, .yaml or .yml; otherwise content that is valid
// JSON is JSON and anything else is YAML.
func DetectFormat(fsys afero.Fs, path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return FormatYAML, fmt.Errorf("reading %s: %w", path, err)
	}
	return sniffFormat(data), nil
}

func sniffFormat(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return FormatJSON
	}
	return FormatYAML
}

// Encode serializes cfg. JSON is indented by two spaces and both formats end
// with a newline.
func Encode(cfg Config, format Format) ([]byte, error) {
	if cfg == nil {
		cfg = Config{}
	}

	if format == FormatJSON {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any(cfg)); err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}
		return buf.Bytes(), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(cfg)); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveParams describes a Save call.
type SaveParams struct {
	// Config is written as is.
	Config Config

	// SaveDir receives a new DefaultFileName file when ExistingPath is empty.
	SaveDir string

	// ExistingPath is an rc file to rewrite in its current format.
	ExistingPath string
}

// Save writes p.Config and returns the path written.
func Save(fsys afero.Fs, p SaveParams) (string, error) {
	path := p.ExistingPath
	format := FormatYAML

	if path != "" {
		detected, err := DetectFormat(fsys, path)
		if err != nil {
			return "", err
		}
		format = detected
	} else {
		if p.SaveDir == "" {
			return "", errors.New("save config: no directory given")
		}
		path = filepath.Join(p.SaveDir, DefaultFileName)
	}

	data, err := Encode(p.Config, format)
	if err != nil {
		return "", err
	}

	if err := writeFileAtomic(fsys, path, data); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over path, keeping the existing file mode when there is one.
func writeFileAtomic(fsys afero.Fs, path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := fsys.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(fsys, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := fsys.Chmod(tmpPath, mode); err != nil {
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := fsys.Rename(tmpPath, path); err != nil {
		_ = fsys.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
