// Package tui holds the interactive prompts of torrent-clean: a multi-select
// list of extra files and a yes/no confirmation.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#28A745")
	warningColor = lipgloss.Color("#FFC107")
	dangerColor  = lipgloss.Color("#DC3545")
	mutedColor   = lipgloss.Color("#666666")
	highlight    = lipgloss.Color("#1A1A2E")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	warningTextStyle = lipgloss.NewStyle().
				Foreground(warningColor)

	cursorItemStyle = lipgloss.NewStyle().
			Background(highlight).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	checkedStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	uncheckedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	sizeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00D9FF"))

	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(dangerColor).
			Padding(1, 2)

	activeButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(primaryColor).
				Padding(0, 2)

	inactiveButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#CCCCCC")).
				Background(lipgloss.Color("#333333")).
				Padding(0, 2)
)

func padLeft(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(s)
	}
	return s
}

// truncatePath shortens p from the left to fit width.
func truncatePath(p string, width int) string {
	r := []rune(p)
	if width <= 3 || len(r) <= width {
		return p
	}
	return "..." + string(r[len(r)-width+3:])
}
