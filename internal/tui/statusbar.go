package tui

import "github.com/charmbracelet/lipgloss"

type statusBar struct {
	message    string
	width      int
	isError    bool
	hasMailbox bool
	hasDraft   bool
	busy       bool
}

func newStatusBar() statusBar {
	return statusBar{message: "Ready"}
}

func (s *statusBar) setMessage(msg string) {
	s.message = msg
	s.isError = false
}

func (s *statusBar) setError(msg string) {
	s.message = msg
	s.isError = true
}

func (s statusBar) View() string {
	msgStyle := statusBarStyle
	if s.isError {
		msgStyle = msgStyle.Foreground(errorColor)
	}

	left := s.message
	if s.busy {
		left = "… " + left
	}
	shortcuts := s.shortcuts()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(shortcuts) - 2
	if gap < 0 {
		gap = 0
	}

	content := left + lipgloss.NewStyle().Width(gap).Render("") + mutedTextStyle.Render(shortcuts)
	return msgStyle.Width(s.width).Render(content)
}

func (s statusBar) shortcuts() string {
	base := "tab:pane  ctrl+r:analyze  ctrl+e:export"
	if s.hasMailbox {
		base += "  ctrl+f:fetch"
		if s.hasDraft {
			base += "  ctrl+s:save draft"
		}
	}
	return base
}
