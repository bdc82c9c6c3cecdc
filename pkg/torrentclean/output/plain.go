package output

import (
	"bytes"
	"fmt"
	"text/tabwriter"
)

// PlainFormatter writes an unstyled tab-aligned table.
type PlainFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	if _, err := fmt.Fprint(tw, "SIZE\tPATH\n"); err != nil {
		return err
	}
	for _, file := range r.Files {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", file.SizeHuman, file.Path); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

var _ Formatter = (*PlainFormatter)(nil)
