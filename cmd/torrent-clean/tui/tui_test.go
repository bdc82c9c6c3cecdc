package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sendSelect(m SelectModel, msgs ...tea.Msg) (SelectModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(SelectModel)
	}
	return m, cmd
}

func relPaths(files []types.FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func testFiles() []types.FileInfo {
	return []types.FileInfo{
		{Path: "/d/a.txt", RelPath: "a.txt", Size: 10},
		{Path: "/d/b.nfo", RelPath: "b.nfo", Size: 20},
		{Path: "/d/c/d.jpg", RelPath: "c/d.jpg", Size: 30},
	}
}

func TestSelectModel_AllPreselected(t *testing.T) {
	m := NewSelectModel("extra files", testFiles())
	assert.Equal(t, 3, m.SelectedCount())
	assert.Equal(t, int64(60), m.SelectedSize())
	assert.Contains(t, m.View(), "c/d.jpg")
}

func TestSelectModel_Keys(t *testing.T) {
	m := NewSelectModel("extra files", testFiles())

	m, _ = sendSelect(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeySpace})
	assert.Equal(t, 1, m.cursor)
	assert.Equal(t, []string{"a.txt", "c/d.jpg"}, relPaths(m.Selected()))

	m, _ = sendSelect(m, runes("i"))
	assert.Equal(t, []string{"b.nfo"}, relPaths(m.Selected()))

	m, _ = sendSelect(m, runes("n"))
	assert.Zero(t, m.SelectedCount())

	m, _ = sendSelect(m, runes("a"))
	assert.Equal(t, 3, m.SelectedCount())

	m, _ = sendSelect(m, runes("j"), runes("j"), runes("j"), runes("k"))
	assert.Equal(t, 1, m.cursor)

	m, cmd := sendSelect(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.Accepted())
}

func TestSelectModel_Quit(t *testing.T) {
	m, cmd := sendSelect(NewSelectModel("x", testFiles()), runes("q"))
	require.NotNil(t, cmd)
	assert.False(t, m.Accepted())
}

func TestSelectModel_Empty(t *testing.T) {
	m, _ := sendSelect(NewSelectModel("x", nil), tea.KeyMsg{Type: tea.KeySpace}, runes("i"))
	assert.Empty(t, m.Selected())
	assert.NotPanics(t, func() { _ = m.View() })
}

func TestSelectModel_Scrolls(t *testing.T) {
	files := make([]types.FileInfo, 20)
	for i := range files {
		files[i] = types.FileInfo{RelPath: string(rune('a'+i)) + ".txt"}
	}
	m, _ := sendSelect(NewSelectModel("x", files), tea.WindowSizeMsg{Width: 80, Height: 10})
	for range 15 {
		m, _ = sendSelect(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	view := m.View()
	assert.Contains(t, view, "p.txt")
	assert.NotContains(t, view, "a.txt")
}

func sendConfirm(m ConfirmModel, msgs ...tea.Msg) ConfirmModel {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(ConfirmModel)
	}
	return m
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		name string
		msgs []tea.Msg
		want bool
	}{
		{"y", []tea.Msg{runes("y")}, true},
		{"n", []tea.Msg{runes("n")}, false},
		{"enter defaults to no", []tea.Msg{tea.KeyMsg{Type: tea.KeyEnter}}, false},
		{"switch then enter", []tea.Msg{tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter}}, true},
		{"esc", []tea.Msg{tea.KeyMsg{Type: tea.KeyEsc}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sendConfirm(NewConfirmModel("Delete 3 files?", ""), tt.msgs...)
			assert.Equal(t, tt.want, m.Confirmed())
		})
	}
}

func TestConfirmModel_View(t *testing.T) {
	m := NewConfirmModel("Delete 3 files?", "moving to trash")
	view := m.View()
	assert.Contains(t, view, "Delete 3 files?")
	assert.Contains(t, view, "moving to trash")
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short", truncatePath("short", 10))
	assert.Equal(t, "...efghij", truncatePath("abcdefghij", 9))
}
