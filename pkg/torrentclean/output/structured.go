package output

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// document is the shape shared by the json and yaml formatters.
type document struct {
	Result    `yaml:",inline"`
	TotalSize int64 `json:"total_size" yaml:"total_size"`
}

func newDocument(r *Result) document {
	doc := document{Result: *r, TotalSize: r.TotalSize()}
	if doc.Files == nil {
		doc.Files = []FileInfo{}
	}
	return doc
}

// JSONFormatter writes a single indented JSON object.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newDocument(r))
}

// YAMLFormatter writes the same document as JSONFormatter in YAML.
type YAMLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *YAMLFormatter) Format(w *bytes.Buffer, r *Result) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(newDocument(r)); err != nil {
		return err
	}
	return encoder.Close()
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
	Register("yaml", func() Formatter {
		return &YAMLFormatter{}
	})
}

var (
	_ Formatter = (*JSONFormatter)(nil)
	_ Formatter = (*YAMLFormatter)(nil)
)
