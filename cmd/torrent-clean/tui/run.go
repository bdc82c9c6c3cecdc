package tui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jamesainslie/torrent-clean/pkg/torrentclean/types"
)

// IO selects the terminal streams a prompt runs on. Nil fields use the
// process's stdin and stdout.
type IO struct {
	In  io.Reader
	Out io.Writer
}

func (o IO) options() []tea.ProgramOption {
	var opts []tea.ProgramOption
	if o.In != nil {
		opts = append(opts, tea.WithInput(o.In))
	}
	if o.Out != nil {
		opts = append(opts, tea.WithOutput(o.Out))
	}
	return opts
}

// SelectFiles lets the user pick from files. It returns false when the user
// quit instead of accepting.
func SelectFiles(title string, files []types.FileInfo, stdio IO) ([]types.FileInfo, bool, error) {
	final, err := tea.NewProgram(NewSelectModel(title, files), stdio.options()...).Run()
	if err != nil {
		return nil, false, fmt.Errorf("running selection: %w", err)
	}
	m := final.(SelectModel)
	if !m.Accepted() {
		return nil, false, nil
	}
	return m.Selected(), true, nil
}

// Confirm asks question and reports whether the user said yes.
func Confirm(question, note string, stdio IO) (bool, error) {
	final, err := tea.NewProgram(NewConfirmModel(question, note), stdio.options()...).Run()
	if err != nil {
		return false, fmt.Errorf("running confirmation: %w", err)
	}
	return final.(ConfirmModel).Confirmed(), nil
}
