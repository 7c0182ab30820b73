package cli

import (
	"time"

	"github.com/lu-zhengda/escalytics/internal/app"
	"github.com/lu-zhengda/escalytics/internal/domain"
	"github.com/samber/lo"
)

// ---------------------------------------------------------------------------
// Account JSON types (account list)
// ---------------------------------------------------------------------------

type jsonAccount struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Provider  string `json:"provider"`
	CreatedAt string `json:"created_at"`
}

func toJSONAccounts(accounts []domain.Account) []jsonAccount {
	out := make([]jsonAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, jsonAccount{
			ID:        a.ID,
			Email:     a.Email,
			Provider:  a.Provider,
			CreatedAt: a.CreatedAt.Format(time.DateOnly),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Report JSON types (analyze)
// ---------------------------------------------------------------------------

type jsonSection struct {
	Analysis string `json:"analysis"`
	Title    string `json:"title"`
	Text     string `json:"text"`
}

type jsonDraft struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	ThreadID string `json:"thread_id,omitempty"`
	SavedID  string `json:"saved_id,omitempty"`
}

type jsonReport struct {
	RunID      string        `json:"run_id"`
	Subject    string        `json:"subject,omitempty"`
	From       string        `json:"from,omitempty"`
	To         []string      `json:"to,omitempty"`
	Date       string        `json:"date,omitempty"`
	Sections   []jsonSection `json:"sections"`
	Draft      *jsonDraft    `json:"draft,omitempty"`
	ExportPath string        `json:"export_path,omitempty"`
}

func toJSONSections(sections []domain.Section) []jsonSection {
	return lo.Map(sections, func(s domain.Section, _ int) jsonSection {
		return jsonSection{
			Analysis: string(s.Analysis),
			Title:    s.Analysis.Title(),
			Text:     s.Text,
		}
	})
}

func toJSONReport(content domain.EmailContent, res *app.Result, draftID, exportPath string) jsonReport {
	out := jsonReport{
		RunID:      res.RunID,
		Subject:    res.Report.Subject,
		Sections:   toJSONSections(res.Report.Sections),
		ExportPath: exportPath,
	}
	if content.From.Email != "" {
		out.From = content.From.String()
	}
	if len(content.To) > 0 {
		out.To = lo.Map(content.To, func(a domain.Address, _ int) string { return a.String() })
	}
	if !content.Date.IsZero() {
		out.Date = content.Date.Format(time.RFC3339)
	}
	if d := res.Draft; d != nil {
		out.Draft = &jsonDraft{
			To:       d.To,
			Subject:  d.Subject,
			Body:     d.Body,
			ThreadID: d.ThreadID,
			SavedID:  draftID,
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Run JSON type (history)
// ---------------------------------------------------------------------------

type jsonRun struct {
	ID        string   `json:"id"`
	AccountID string   `json:"account_id,omitempty"`
	Source    string   `json:"source"`
	Subject   string   `json:"subject,omitempty"`
	Analyses  []string `json:"analyses"`
	DraftID   string   `json:"draft_id,omitempty"`
	CreatedAt string   `json:"created_at"`
}

func toJSONRuns(runs []domain.Run) []jsonRun {
	out := make([]jsonRun, 0, len(runs))
	for _, r := range runs {
		out = append(out, jsonRun{
			ID:        r.ID,
			AccountID: r.AccountID,
			Source:    string(r.Source),
			Subject:   r.Subject,
			Analyses: lo.Map(r.Report.Sections, func(s domain.Section, _ int) string {
				return string(s.Analysis)
			}),
			DraftID:   r.DraftID,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// Action JSON type (account add/remove, key set/clear)
// ---------------------------------------------------------------------------

type jsonAction struct {
	OK        bool   `json:"ok"`
	Action    string `json:"action"`
	Email     string `json:"email,omitempty"`
	AccountID string `json:"account_id,omitempty"`
}
