package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lu-zhengda/escalytics/internal/domain"
	"github.com/lu-zhengda/escalytics/internal/store"
)

func sampleRun(id string, at time.Time) *domain.Run {
	return &domain.Run{
		ID:        id,
		AccountID: "acc-1",
		Source:    domain.SourceMailbox,
		Subject:   "Outage",
		Report: domain.Report{
			Subject: "Outage",
			Sections: []domain.Section{
				{Analysis: domain.AnalysisSentiment, Text: "Sentiment: Negative (Score: -1)"},
				{Analysis: domain.AnalysisRootCause, Text: "Root Cause: Lack of communication in the process."},
			},
		},
		CreatedAt: at,
	}
}

func TestCreateRun_GetRun(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := db.CreateRun(ctx, sampleRun("r1", at)); err != nil {
		t.Fatalf("CreateRun() error: %v", err)
	}

	got, err := db.GetRun(ctx, "r1")
	if err != nil {
		t.Fatalf("GetRun() error: %v", err)
	}
	if got.Source != domain.SourceMailbox {
		t.Errorf("Source = %q, want %q", got.Source, domain.SourceMailbox)
	}
	if !got.CreatedAt.Equal(at) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, at)
	}
	if len(got.Report.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(got.Report.Sections))
	}
	if got.Report.Sections[0].Analysis != domain.AnalysisSentiment {
		t.Errorf("first section = %q, want %q", got.Report.Sections[0].Analysis, domain.AnalysisSentiment)
	}
	if text, _ := got.Report.Section(domain.AnalysisRootCause); text != "Root Cause: Lack of communication in the process." {
		t.Errorf("root cause text = %q", text)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetRun(context.Background(), "nope")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetRun() error = %v, want store.ErrNotFound", err)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"r1", "r2", "r3"} {
		if err := db.CreateRun(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("CreateRun(%s) error: %v", id, err)
		}
	}
	paste := sampleRun("p1", base.Add(-time.Hour))
	paste.AccountID = ""
	paste.Source = domain.SourcePaste
	if err := db.CreateRun(ctx, paste); err != nil {
		t.Fatalf("CreateRun(p1) error: %v", err)
	}

	runs, err := db.ListRuns(ctx, store.ListRunOptions{Limit: 2})
	if err != nil {
		t.Fatalf("ListRuns() error: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != "r3" || runs[1].ID != "r2" {
		t.Errorf("order = [%s %s], want [r3 r2]", runs[0].ID, runs[1].ID)
	}

	runs, err = db.ListRuns(ctx, store.ListRunOptions{AccountID: "acc-1"})
	if err != nil {
		t.Fatalf("ListRuns(account) error: %v", err)
	}
	if len(runs) != 3 {
		t.Errorf("got %d runs for acc-1, want 3", len(runs))
	}
}

func TestSetRunDraft(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreateRun(ctx, sampleRun("r1", time.Now())); err != nil {
		t.Fatalf("CreateRun() error: %v", err)
	}
	if err := db.SetRunDraft(ctx, "r1", "draft-9"); err != nil {
		t.Fatalf("SetRunDraft() error: %v", err)
	}
	got, err := db.GetRun(ctx, "r1")
	if err != nil {
		t.Fatalf("GetRun() error: %v", err)
	}
	if got.DraftID != "draft-9" {
		t.Errorf("DraftID = %q, want %q", got.DraftID, "draft-9")
	}

	if err := db.SetRunDraft(ctx, "missing", "d"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("SetRunDraft(missing) error = %v, want store.ErrNotFound", err)
	}
}
