package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

// SelectModel is a scrollable checklist of files. Every file starts selected.
type SelectModel struct {
	title    string
	files    []types.FileInfo
	selected []bool
	cursor   int
	offset   int
	width    int
	height   int

	keys selectKeyMap
	help help.Model

	accepted bool
	quit     bool
}

// NewSelectModel creates a SelectModel with all files selected.
func NewSelectModel(title string, files []types.FileInfo) SelectModel {
	selected := make([]bool, len(files))
	for i := range selected {
		selected[i] = true
	}
	return SelectModel{
		title:    title,
		files:    files,
		selected: selected,
		width:    80,
		height:   24,
		keys:     newSelectKeyMap(),
		help:     help.New(),
	}
}

// Init implements tea.Model.
func (m SelectModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m SelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureVisible()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quit = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Accept):
			m.accepted = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.files)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if len(m.files) > 0 {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}
		case key.Matches(msg, m.keys.Invert):
			for i := range m.selected {
				m.selected[i] = !m.selected[i]
			}
		case key.Matches(msg, m.keys.All):
			m.setAll(true)
		case key.Matches(msg, m.keys.None):
			m.setAll(false)
		}
		m.ensureVisible()
	}
	return m, nil
}

func (m *SelectModel) setAll(v bool) {
	for i := range m.selected {
		m.selected[i] = v
	}
}

func (m SelectModel) visibleRows() int {
	return max(m.height-6, 3)
}

func (m *SelectModel) ensureVisible() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
	m.offset = max(m.offset, 0)
}

// View implements tea.Model.
func (m SelectModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	pathWidth := max(m.width-20, 20)
	end := min(m.offset+m.visibleRows(), len(m.files))
	for i := m.offset; i < end; i++ {
		f := m.files[i]

		box := uncheckedStyle.Render("[ ]")
		if m.selected[i] {
			box = checkedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %s  %s", box, sizeStyle.Render(padLeft(f.HumanSize(), 9)), truncatePath(f.RelPath, pathWidth))

		if i == m.cursor {
			b.WriteString(cursorItemStyle.Render("> " + line))
		} else {
			b.WriteString(normalItemStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedTextStyle.Render(fmt.Sprintf("%d of %d selected (%s)",
		m.SelectedCount(), len(m.files), types.FormatSize(m.SelectedSize()))))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// Accepted reports whether the user accepted the selection.
func (m SelectModel) Accepted() bool {
	return m.accepted && !m.quit
}

// Selected returns the selected files in list order.
func (m SelectModel) Selected() []types.FileInfo {
	out := make([]types.FileInfo, 0, len(m.files))
	for i, f := range m.files {
		if m.selected[i] {
			out = append(out, f)
		}
	}
	return out
}

// SelectedCount returns the number of selected files.
func (m SelectModel) SelectedCount() int {
	n := 0
	for _, s := range m.selected {
		if s {
			n++
		}
	}
	return n
}

// SelectedSize returns the total size of the selected files.
func (m SelectModel) SelectedSize() int64 {
	var total int64
	for i, f := range m.files {
		if m.selected[i] {
			total += f.Size
		}
	}
	return total
}
