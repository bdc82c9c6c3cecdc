package output

import "bytes"

// PathsFormatter writes one absolute path per line.
type PathsFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PathsFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, file := range r.Files {
		w.WriteString(file.Path)
		w.WriteByte('\n')
	}
	return nil
}

// NullFormatter writes paths separated by NUL bytes, for xargs -0.
type NullFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *NullFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, file := range r.Files {
		w.WriteString(file.Path)
		w.WriteByte(0)
	}
	return nil
}

func init() {
	Register("paths", func() Formatter {
		return &PathsFormatter{}
	})
	Register("null", func() Formatter {
		return &NullFormatter{}
	})
}

var (
	_ Formatter = (*PathsFormatter)(nil)
	_ Formatter = (*NullFormatter)(nil)
)
