package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/escalytics/internal/domain"
)

// resultsModel shows the last report in a scrollable pane.
type resultsModel struct {
	report       *domain.Report
	draft        *domain.OutboundDraft
	draftID      string
	content      string
	scrollOffset int
	maxScroll    int
	width        int
	height       int
	focused      bool
}

func newResults() resultsModel {
	return resultsModel{}
}

func (r resultsModel) Update(msg tea.Msg) (resultsModel, tea.Cmd) {
	if !r.focused {
		return r, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Up):
			if r.scrollOffset > 0 {
				r.scrollOffset--
			}
		case key.Matches(msg, keys.Down):
			if r.scrollOffset < r.maxScroll {
				r.scrollOffset++
			}
		}
	}
	return r, nil
}

func (r resultsModel) View() string {
	if r.width == 0 || r.height == 0 {
		return ""
	}
	if r.content == "" {
		return mutedTextStyle.Render("No results yet. Paste an email and press ctrl+r.")
	}

	lines := strings.Split(r.content, "\n")
	visibleHeight := max(r.height, 1)

	start := min(r.scrollOffset, len(lines))
	end := min(start+visibleHeight, len(lines))
	return strings.Join(lines[start:end], "\n")
}

// Show displays a report and the draft produced with it, if any.
func (r *resultsModel) Show(report domain.Report, draft *domain.OutboundDraft) {
	r.report = &report
	r.draft = draft
	r.draftID = ""
	r.scrollOffset = 0
	r.render()
}

// MarkDraftSaved records the mailbox ID of the saved draft.
func (r *resultsModel) MarkDraftSaved(id string) {
	r.draftID = id
	r.render()
}

// Draft returns the unsaved draft, if any.
func (r resultsModel) Draft() *domain.OutboundDraft {
	if r.draftID != "" {
		return nil
	}
	return r.draft
}

// SetSize updates the pane dimensions and recalculates scroll bounds.
func (r *resultsModel) SetSize(w, h int) {
	r.width = w
	r.height = h
	r.render()
}

func (r *resultsModel) render() {
	if r.report == nil {
		r.content = ""
	} else {
		r.content = renderReport(*r.report, r.draft, r.draftID, r.width)
	}
	r.recalcMaxScroll()
}

func (r *resultsModel) recalcMaxScroll() {
	if r.content == "" {
		r.maxScroll = 0
		r.scrollOffset = 0
		return
	}

	lines := strings.Split(r.content, "\n")
	r.maxScroll = max(len(lines)-max(r.height, 1), 0)
	if r.scrollOffset > r.maxScroll {
		r.scrollOffset = r.maxScroll
	}
}

// renderReport formats the report sections followed by the draft status.
func renderReport(report domain.Report, draft *domain.OutboundDraft, draftID string, width int) string {
	wrap := lipgloss.NewStyle().Width(max(width, 20))
	var b strings.Builder

	if len(report.Sections) == 0 {
		b.WriteString(mutedTextStyle.Render("No analyses enabled."))
		b.WriteByte('\n')
	}
	for i, s := range report.Sections {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(sectionTitleStyle.Render(s.Analysis.Title()))
		b.WriteByte('\n')
		b.WriteString(wrap.Render(s.Text))
		b.WriteByte('\n')
	}

	if draft != nil {
		b.WriteByte('\n')
		b.WriteString(mutedTextStyle.Render(strings.Repeat("─", max(width, 20))))
		b.WriteByte('\n')
		status := "Draft ready for " + draft.To + " (ctrl+s to save)"
		if draftID != "" {
			status = "Draft saved (" + draftID + ")"
		}
		b.WriteString(draftStyle.Render(status))
		b.WriteByte('\n')
		b.WriteString(mutedTextStyle.Render("Subject: ") + draft.Subject)
	}

	return strings.TrimRight(b.String(), "\n")
}
