package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lu-zhengda/escalytics/internal/domain"
)

// Field indices within the input form.
const (
	fieldSubject = 0
	fieldBody    = 1
	fieldCount   = 2
)

// inputModel holds the email under analysis: either pasted by the user or
// fetched from the mailbox.
type inputModel struct {
	subjectInput textinput.Model
	bodyInput    textarea.Model

	activeField int
	// fetched is the mailbox message last loaded into the form.
	fetched *domain.EmailContent

	width   int
	height  int
	focused bool
}

func newInput() inputModel {
	subject := textinput.New()
	subject.Placeholder = "Subject (optional)"
	subject.CharLimit = 200
	subject.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Paste the email text here..."
	body.SetWidth(40)
	body.SetHeight(6)
	body.CharLimit = 0
	body.ShowLineNumbers = false

	return inputModel{
		subjectInput: subject,
		bodyInput:    body,
		activeField:  fieldBody,
	}
}

// Update handles key events for the form.
func (in inputModel) Update(msg tea.Msg) (inputModel, tea.Cmd) {
	if !in.focused {
		return in, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up":
			if in.activeField == fieldBody && in.bodyInput.Line() == 0 {
				in.activeField = fieldSubject
				in.updateFocus()
				return in, nil
			}
		case "down", "enter":
			if in.activeField == fieldSubject {
				in.activeField = fieldBody
				in.updateFocus()
				return in, nil
			}
		}
	}

	var cmd tea.Cmd
	switch in.activeField {
	case fieldSubject:
		in.subjectInput, cmd = in.subjectInput.Update(msg)
	case fieldBody:
		in.bodyInput, cmd = in.bodyInput.Update(msg)
	}
	return in, cmd
}

// View renders the form.
func (in inputModel) View() string {
	innerWidth := max(in.width, 20)
	in.subjectInput.Width = innerWidth - 10
	in.bodyInput.SetWidth(innerWidth)
	in.bodyInput.SetHeight(max(in.height-4, 3))

	header := titleStyle.Render("Email")
	if in.fetched != nil {
		header += mutedTextStyle.Render("  " + fetchedSummary(*in.fetched))
	}

	rows := []string{
		header,
		mutedTextStyle.Render(fmt.Sprintf("%-9s", "Subject:")) + in.subjectInput.View(),
		mutedTextStyle.Render(strings.Repeat("─", innerWidth)),
		in.bodyInput.View(),
	}
	return strings.Join(rows, "\n")
}

// fetchedSummary describes a fetched message's envelope on one line.
func fetchedSummary(c domain.EmailContent) string {
	parts := []string{"from " + c.From.String()}
	if len(c.To) > 0 {
		parts = append(parts, "to "+domain.JoinAddresses(c.To))
	}
	if !c.Date.IsZero() {
		parts = append(parts, c.Date.Local().Format("Jan 2, 2006 15:04"))
	}
	return strings.Join(parts, " · ")
}

// Load fills the form with a fetched message.
func (in *inputModel) Load(content domain.EmailContent) {
	c := content
	in.fetched = &c
	in.subjectInput.SetValue(content.Subject)
	in.bodyInput.SetValue(content.Body)
	in.activeField = fieldBody
	in.updateFocus()
}

// Clear empties the form.
func (in *inputModel) Clear() {
	in.fetched = nil
	in.subjectInput.SetValue("")
	in.bodyInput.SetValue("")
}

// Content returns what should be analyzed and where it came from. A fetched
// message that was edited counts as pasted text, but keeps its sender and
// thread so a reply still lands in the right conversation.
func (in inputModel) Content() (domain.EmailContent, domain.RunSource) {
	subject := in.subjectInput.Value()
	body := in.bodyInput.Value()

	if in.fetched == nil {
		return domain.EmailContent{Subject: subject, Body: body}, domain.SourcePaste
	}

	c := *in.fetched
	if c.Subject == subject && c.Body == body {
		return c, domain.SourceMailbox
	}
	c.Subject = subject
	c.Body = body
	return c, domain.SourcePaste
}

// SetSize updates the available dimensions for the form.
func (in *inputModel) SetSize(w, h int) {
	in.width = w
	in.height = h
}

func (in *inputModel) setFocused(focused bool) {
	in.focused = focused
	in.updateFocus()
}

func (in *inputModel) updateFocus() {
	in.subjectInput.Blur()
	in.bodyInput.Blur()
	if !in.focused {
		return
	}
	switch in.activeField {
	case fieldSubject:
		in.subjectInput.Focus()
	case fieldBody:
		in.bodyInput.Focus()
	}
}
