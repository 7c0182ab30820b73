package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lu-zhengda/escalytics/internal/app"
	"github.com/lu-zhengda/escalytics/internal/domain"
	"github.com/lu-zhengda/escalytics/internal/insight"
)

type pane int

const (
	paneSettings pane = iota
	paneInput
	paneResults
	paneCount
)

const settingsWidth = 32

// --- async result messages ---

type fetchedMsg struct {
	content domain.EmailContent
}

type analyzedMsg struct {
	result *app.Result
}

type draftSavedMsg struct {
	id string
}

type exportedMsg struct {
	path string
}

type errMsg struct {
	err error
}

// Options configures the TUI.
type Options struct {
	// Analysis is the initial checklist state.
	Analysis domain.AnalysisConfig
	// ExportDir receives reports exported with ctrl+e.
	ExportDir string
}

// --- root model ---

type model struct {
	svc       *app.Service
	exportDir string

	settings settingsModel
	input    inputModel
	results  resultsModel

	lastRun    *app.Result
	busy       bool
	activePane pane
	statusBar  statusBar

	width  int
	height int
}

// NewModel creates a new root TUI model.
func NewModel(svc *app.Service, opts Options) model {
	sb := newStatusBar()
	sb.hasMailbox = svc.HasMailbox()

	m := model{
		svc:       svc,
		exportDir: opts.ExportDir,
		settings:  newSettings(opts.Analysis),
		input:     newInput(),
		results:   newResults(),
		statusBar: sb,
	}
	m.setFocus(paneInput)
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.width = msg.Width
		m.resizeSubModels()
		return m, nil

	case fetchedMsg:
		m.setBusy(false)
		m.input.Load(msg.content)
		m.setFocus(paneInput)
		m.statusBar.setMessage(fmt.Sprintf("Loaded %q", msg.content.Subject))
		return m, nil

	case analyzedMsg:
		m.setBusy(false)
		m.lastRun = msg.result
		m.results.Show(msg.result.Report, msg.result.Draft)
		m.statusBar.hasDraft = msg.result.Draft != nil
		m.setFocus(paneResults)
		m.statusBar.setMessage(fmt.Sprintf("Analysis complete: %d sections", len(msg.result.Report.Sections)))
		return m, nil

	case draftSavedMsg:
		m.setBusy(false)
		m.results.MarkDraftSaved(msg.id)
		m.statusBar.hasDraft = false
		m.statusBar.setMessage("Draft saved to mailbox")
		return m, nil

	case exportedMsg:
		m.setBusy(false)
		m.statusBar.setMessage("Report exported to " + msg.path)
		return m, nil

	case errMsg:
		m.setBusy(false)
		if errors.Is(msg.err, insight.ErrEmptyInput) {
			m.statusBar.setMessage(userMessage(msg.err))
			return m, nil
		}
		m.statusBar.setError(userMessage(msg.err))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.ForceQuit):
			return m, tea.Quit

		case key.Matches(msg, keys.Quit) && m.activePane != paneInput:
			return m, tea.Quit

		case key.Matches(msg, keys.Tab):
			m.setFocus((m.activePane + 1) % paneCount)
			return m, nil

		case key.Matches(msg, keys.Analyze):
			return m.startAnalyze()

		case key.Matches(msg, keys.Fetch):
			if !m.svc.HasMailbox() {
				m.statusBar.setError("No mailbox connected; run 'escalytics account add'")
				return m, nil
			}
			if m.busy {
				return m, nil
			}
			m.setBusy(true)
			m.statusBar.setMessage("Fetching latest unread email...")
			return m, m.fetchCmd()

		case key.Matches(msg, keys.SaveDraft):
			draft := m.results.Draft()
			if draft == nil {
				m.statusBar.setMessage("No draft to save")
				return m, nil
			}
			if m.busy {
				return m, nil
			}
			m.setBusy(true)
			m.statusBar.setMessage("Saving draft...")
			return m, m.saveDraftCmd(m.lastRun.RunID, draft)

		case key.Matches(msg, keys.Export):
			if m.lastRun == nil {
				m.statusBar.setMessage("Nothing to export yet")
				return m, nil
			}
			if m.busy {
				return m, nil
			}
			m.setBusy(true)
			return m, m.exportCmd(*m.lastRun)

		case key.Matches(msg, keys.Clear) && m.activePane == paneInput:
			m.input.Clear()
			return m, nil
		}

		var cmd tea.Cmd
		switch m.activePane {
		case paneSettings:
			m.settings, cmd = m.settings.Update(msg)
		case paneInput:
			m.input, cmd = m.input.Update(msg)
		case paneResults:
			m.results, cmd = m.results.Update(msg)
		}
		return m, cmd
	}

	// Cursor blink and other input-internal messages.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) startAnalyze() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	content, source := m.input.Content()
	if content.IsEmpty() {
		m.statusBar.setMessage("Paste an email or fetch one before analyzing")
		return m, nil
	}
	m.setBusy(true)
	m.statusBar.setMessage("Analyzing...")
	return m, m.analyzeCmd(content, m.settings.Config(), source)
}

func (m model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	contentHeight := m.height - 1
	rightWidth := m.width - settingsWidth
	inputHeight := contentHeight / 2
	resultsHeight := contentHeight - inputHeight

	settingsView := m.styleFor(paneSettings).
		Width(settingsWidth - 2).
		Height(contentHeight - 2).
		Render(m.settings.View())

	inputView := m.styleFor(paneInput).
		Width(rightWidth - 2).
		Height(inputHeight - 2).
		Render(m.input.View())

	resultsView := m.styleFor(paneResults).
		Width(rightWidth - 2).
		Height(resultsHeight - 2).
		Render(m.results.View())

	right := lipgloss.JoinVertical(lipgloss.Left, inputView, resultsView)
	main := lipgloss.JoinHorizontal(lipgloss.Top, settingsView, right)
	return lipgloss.JoinVertical(lipgloss.Left, main, m.statusBar.View())
}

func (m model) styleFor(p pane) lipgloss.Style {
	if m.activePane == p {
		return focusedPaneStyle
	}
	return paneStyle
}

// --- focus management ---

func (m *model) setFocus(p pane) {
	m.activePane = p
	m.settings.focused = p == paneSettings
	m.input.setFocused(p == paneInput)
	m.results.focused = p == paneResults
}

func (m *model) setBusy(busy bool) {
	m.busy = busy
	m.statusBar.busy = busy
}

// --- layout helpers ---

func (m *model) resizeSubModels() {
	contentHeight := m.height - 1
	rightWidth := m.width - settingsWidth
	inputHeight := contentHeight / 2
	resultsHeight := contentHeight - inputHeight

	// paneStyle: Border(2h + 2v) + Padding(2h + 0v) = 4h, 2v
	m.settings.SetSize(settingsWidth-4, contentHeight-2)
	m.input.SetSize(rightWidth-4, inputHeight-2)
	m.results.SetSize(rightWidth-4, resultsHeight-2)
}

// --- async commands ---

func (m model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		content, err := m.svc.LatestUnread(context.Background())
		if err != nil {
			return errMsg{err: err}
		}
		return fetchedMsg{content: content}
	}
}

func (m model) analyzeCmd(content domain.EmailContent, cfg domain.AnalysisConfig, source domain.RunSource) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.Analyze(context.Background(), content, cfg, source)
		if err != nil {
			return errMsg{err: err}
		}
		return analyzedMsg{result: res}
	}
}

func (m model) saveDraftCmd(runID string, draft *domain.OutboundDraft) tea.Cmd {
	return func() tea.Msg {
		id, err := m.svc.SaveDraft(context.Background(), runID, draft)
		if err != nil {
			return errMsg{err: err}
		}
		return draftSavedMsg{id: id}
	}
}

func (m model) exportCmd(res app.Result) tea.Cmd {
	path := filepath.Join(m.exportDir, app.ExportFileName(res.RunID))
	return func() tea.Msg {
		if err := app.ExportReport(path, res.Report); err != nil {
			return errMsg{err: err}
		}
		return exportedMsg{path: path}
	}
}

// userMessage turns an error into status text.
func userMessage(err error) string {
	switch {
	case errors.Is(err, app.ErrNoUnread):
		return "No unread emails found"
	case errors.Is(err, insight.ErrEmptyInput):
		return "Nothing to analyze"
	case errors.Is(err, app.ErrNoMailbox):
		return "No mailbox connected; run 'escalytics account add'"
	case app.IsUnavailable(err):
		return fmt.Sprintf("%v (check your connection and try again)", err)
	}
	return fmt.Sprintf("Error: %v", err)
}

// Run starts the Bubble Tea TUI application.
func Run(svc *app.Service, opts Options) error {
	prog := tea.NewProgram(
		NewModel(svc, opts),
		tea.WithAltScreen(),
	)
	_, err := prog.Run()
	return err
}
