package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lu-zhengda/escalytics/internal/domain"
	"github.com/lu-zhengda/escalytics/internal/store"
)

// defaultRunLimit caps history queries that do not set a limit.
const defaultRunLimit = 50

// sectionRow is the stored form of a report section.
type sectionRow struct {
	Analysis string `json:"analysis"`
	Text     string `json:"text"`
}

// CreateRun records an analysis run with its report.
func (s *DB) CreateRun(ctx context.Context, run *domain.Run) error {
	rows := make([]sectionRow, 0, len(run.Report.Sections))
	for _, sec := range run.Report.Sections {
		rows = append(rows, sectionRow{Analysis: string(sec.Analysis), Text: sec.Text})
	}
	sections, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal report sections: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, account_id, source, subject, sections, draft_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.AccountID, string(run.Source), run.Subject, string(sections), run.DraftID, run.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// GetRun retrieves a single run by ID.
func (s *DB) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, source, subject, sections, draft_id, created_at
		FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns recorded runs, newest first.
func (s *DB) ListRuns(ctx context.Context, opts store.ListRunOptions) ([]domain.Run, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultRunLimit
	}

	query := `SELECT id, account_id, source, subject, sections, draft_id, created_at FROM runs`
	var args []any
	if opts.AccountID != "" {
		query += ` WHERE account_id = ?`
		args = append(args, opts.AccountID)
	}
	query += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// SetRunDraft stores the mailbox draft ID created for a run.
func (s *DB) SetRunDraft(ctx context.Context, runID, draftID string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE runs SET draft_id = ? WHERE id = ?`, draftID, runID)
	if err != nil {
		return fmt.Errorf("failed to set draft for run %s: %w", runID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", runID, store.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*domain.Run, error) {
	var (
		r        domain.Run
		source   string
		subject  sql.NullString
		sections string
	)
	if err := sc.Scan(&r.ID, &r.AccountID, &source, &subject, &sections, &r.DraftID, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Source = domain.RunSource(source)
	r.Subject = subject.String

	var rows []sectionRow
	if err := json.Unmarshal([]byte(sections), &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report sections: %w", err)
	}
	r.Report.Subject = r.Subject
	for _, row := range rows {
		r.Report.Sections = append(r.Report.Sections, domain.Section{
			Analysis: domain.Analysis(row.Analysis),
			Text:     row.Text,
		})
	}
	return &r, nil
}
