package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// PrettyFormatter renders a styled report for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *Result) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatTable(r))
	w.WriteString(f.formatFooter(r))
	w.WriteString("\n")

	if r.Deletion != nil {
		w.WriteString(f.formatDeletion(r.Deletion))
	}
	if len(r.Warnings) > 0 {
		w.WriteString(f.formatWarnings(r.Warnings))
	}
	return nil
}

func (f *PrettyFormatter) formatHeader(r *Result) string {
	lines := []string{
		LabelStyle.Render("Torrent:") + " " + ValueStyle.Render(r.TorrentName),
		LabelStyle.Render("Directory:") + " " + ValueStyle.Render(r.Directory),
	}
	if r.DryRun {
		lines = append(lines, WarningStyle.Bold(true).Render("Dry run: nothing will be deleted"))
	}
	return HeaderBox.Render(strings.Join(lines, "\n"))
}

func (f *PrettyFormatter) formatTable(r *Result) string {
	if len(r.Files) == 0 {
		return SuccessStyle.Render("  No extra files") + "\n"
	}

	var sb strings.Builder
	width := 8
	for _, file := range r.Files {
		width = max(width, len(file.SizeHuman))
	}

	sb.WriteString(fmt.Sprintf("  %s  %s\n",
		TableHeaderStyle.Render(padLeft("SIZE", width)), TableHeaderStyle.Render("PATH")))
	for _, file := range r.Files {
		sb.WriteString(fmt.Sprintf("  %s  %s\n",
			SizeStyle.Render(padLeft(file.SizeHuman, width)), PathStyle.Render(displayPath(file))))
	}
	return sb.String()
}

func (f *PrettyFormatter) formatFooter(r *Result) string {
	parts := []string{
		LabelStyle.Render("Extra files:") + " " + ValueStyle.Render(fmt.Sprintf("%d", r.TotalFiles)),
		LabelStyle.Render("Total:") + " " + SizeStyle.Render(humanize.IBytes(uint64(r.TotalSize()))),
	}
	if hidden := r.TotalFiles - len(r.Files); hidden > 0 {
		parts = append(parts, MutedStyle.Render(fmt.Sprintf("%d not shown", hidden)))
	}
	return FooterBox.Render(strings.Join(parts, "  "))
}

func (f *PrettyFormatter) formatDeletion(d *DeletionSummary) string {
	var sb strings.Builder
	sb.WriteString(SuccessStyle.Render(fmt.Sprintf("Deleted %d file(s)", len(d.Deleted))))
	if len(d.PrunedDirs) > 0 {
		sb.WriteString(MutedStyle.Render(fmt.Sprintf(", removed %d empty director(ies)", len(d.PrunedDirs))))
	}
	sb.WriteString("\n")
	for _, failed := range d.Failed {
		sb.WriteString(ErrorStyle.Render(fmt.Sprintf("  failed: %s: %s", failed.Path, failed.Error)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (f *PrettyFormatter) formatWarnings(warnings []string) string {
	var sb strings.Builder
	sb.WriteString(WarningStyle.Bold(true).Render("Warnings:"))
	sb.WriteString("\n")
	for _, warning := range warnings {
		sb.WriteString(WarningStyle.Render("  " + warning))
		sb.WriteString("\n")
	}
	return sb.String()
}

func displayPath(f FileInfo) string {
	if f.RelPath != "" {
		return f.RelPath
	}
	return f.Path
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

var _ Formatter = (*PrettyFormatter)(nil)
