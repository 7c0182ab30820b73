package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/escalytics/internal/domain"
)

// settingsModel is the analysis checklist.
type settingsModel struct {
	config  domain.AnalysisConfig
	cursor  int
	width   int
	height  int
	focused bool
}

func newSettings(cfg domain.AnalysisConfig) settingsModel {
	if cfg == nil {
		cfg = domain.DefaultAnalysisConfig()
	}
	return settingsModel{config: cfg.Clone()}
}

// SetSize updates the settings pane dimensions.
func (s *settingsModel) SetSize(w, h int) {
	s.width = w
	s.height = h
}

// Config returns a copy of the current selection.
func (s settingsModel) Config() domain.AnalysisConfig {
	return s.config.Clone()
}

// Update handles navigation and toggling.
func (s settingsModel) Update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if !s.focused {
		return s, nil
	}

	total := len(domain.Analyses)
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			s.cursor--
			if s.cursor < 0 {
				s.cursor = total - 1
			}
		case key.Matches(msg, keys.Down):
			s.cursor++
			if s.cursor >= total {
				s.cursor = 0
			}
		case key.Matches(msg, keys.Toggle):
			a := domain.Analyses[s.cursor]
			s.config[a] = !s.config[a]
		}
	}

	return s, nil
}

// View renders the checklist.
func (s settingsModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("escalytics"))
	b.WriteString("\n")
	b.WriteString(mutedTextStyle.Render(fmt.Sprintf("%d of %d analyses", len(s.config.EnabledList()), len(domain.Analyses))))
	b.WriteString("\n\n")

	for i, a := range domain.Analyses {
		b.WriteString(s.renderLine(a, i))
		b.WriteString("\n")
	}

	return b.String()
}

func (s settingsModel) renderLine(a domain.Analysis, idx int) string {
	box := "[ ] "
	if s.config.Enabled(a) {
		box = checkedStyle.Render("[x] ")
	}
	line := box + truncate(a.Title(), max(s.width-4, 6))

	padded := lipgloss.NewStyle().Width(max(s.width, 10)).Render(line)
	if s.focused && idx == s.cursor {
		return selectedStyle.Render(padded)
	}
	return padded
}

// truncate shortens s to fit within maxLen cells.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}
