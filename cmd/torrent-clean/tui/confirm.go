package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel asks a yes/no question. "No" is focused initially.
type ConfirmModel struct {
	question string
	note     string
	yes      bool // focused button
	answered bool
	answer   bool

	keys confirmKeyMap
	help help.Model
}

// NewConfirmModel creates a ConfirmModel. note is shown under the question
// when not empty.
func NewConfirmModel(question, note string) ConfirmModel {
	return ConfirmModel{
		question: question,
		note:     note,
		keys:     newConfirmKeyMap(),
		help:     help.New(),
	}
}

// Init implements tea.Model.
func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		m.answered, m.answer = true, true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.No):
		m.answered, m.answer = true, false
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Switch):
		m.yes = !m.yes
	case key.Matches(keyMsg, m.keys.Submit):
		m.answered, m.answer = true, m.yes
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m ConfirmModel) View() string {
	if m.answered {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.question)
	if m.note != "" {
		b.WriteString("\n")
		b.WriteString(warningTextStyle.Render(m.note))
	}
	b.WriteString("\n\n")

	no, yes := activeButtonStyle.Render("No"), inactiveButtonStyle.Render("Yes")
	if m.yes {
		no = inactiveButtonStyle.Render("No")
		yes = activeButtonStyle.Background(dangerColor).Render("Yes")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, no, "  ", yes))

	return dialogBoxStyle.Render(b.String()) + "\n" + m.help.View(m.keys) + "\n"
}

// Confirmed reports whether the answer was yes.
func (m ConfirmModel) Confirmed() bool {
	return m.answered && m.answer
}
