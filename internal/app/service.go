package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/lu-zhengda/escalytics/internal/domain"
	"github.com/lu-zhengda/escalytics/internal/provider"
	"github.com/lu-zhengda/escalytics/internal/store"
)

const mailboxCollaborator = "mailbox"

// Analyzer runs the insight pipeline over one email.
type Analyzer interface {
	Run(ctx context.Context, content domain.EmailContent, cfg domain.AnalysisConfig) (domain.Report, *domain.OutboundDraft, error)
}

// Result is the outcome of one analysis run.
type Result struct {
	RunID  string
	Report domain.Report
	// Draft is set when a reply was generated and can be saved.
	Draft *domain.OutboundDraft
}

// Service ties the mailbox, the insight pipeline and run history together
// for a single account.
type Service struct {
	store     store.Store
	mailbox   provider.Mailbox
	analyzer  Analyzer
	accountID string
	logger    *log.Logger

	now   func() time.Time
	newID func() string
}

// NewService creates a Service. s and mb may be nil: without a store runs
// are not recorded, and without a mailbox only pasted text can be analyzed.
func NewService(s store.Store, mb provider.Mailbox, analyzer Analyzer, accountID string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Service{
		store:     s,
		mailbox:   mb,
		analyzer:  analyzer,
		accountID: accountID,
		logger:    logger.WithPrefix("app"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// HasMailbox reports whether a mailbox account is connected.
func (s *Service) HasMailbox() bool {
	return s.mailbox != nil
}

// LatestUnread fetches the most recent unread inbox message.
func (s *Service) LatestUnread(ctx context.Context) (domain.EmailContent, error) {
	if s.mailbox == nil {
		return domain.EmailContent{}, &UnavailableError{Collaborator: mailboxCollaborator, Err: ErrNoMailbox}
	}

	ids, err := s.mailbox.ListUnread(ctx, 1)
	if err != nil {
		return domain.EmailContent{}, &UnavailableError{Collaborator: mailboxCollaborator, Err: err}
	}
	if len(ids) == 0 {
		return domain.EmailContent{}, ErrNoUnread
	}

	email, err := s.mailbox.GetMessage(ctx, ids[0])
	if err != nil {
		return domain.EmailContent{}, &UnavailableError{Collaborator: mailboxCollaborator, Err: err}
	}
	s.logger.Info("fetched latest unread", "id", email.ID, "subject", email.Subject)
	return email.Content(), nil
}

// Analyze runs the enabled analyses over content and records the run.
// Failing to record history does not fail the run.
func (s *Service) Analyze(ctx context.Context, content domain.EmailContent, cfg domain.AnalysisConfig, source domain.RunSource) (*Result, error) {
	report, draft, err := s.analyzer.Run(ctx, content, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze email: %w", err)
	}

	res := &Result{RunID: s.newID(), Report: report, Draft: draft}
	s.logger.Info("analysis complete", "run", res.RunID, "sections", len(report.Sections), "draft", draft != nil)

	if s.store == nil {
		return res, nil
	}
	run := &domain.Run{
		ID:        res.RunID,
		AccountID: s.accountID,
		Source:    source,
		Subject:   content.Subject,
		Report:    report,
		CreatedAt: s.now(),
	}
	if source == domain.SourcePaste {
		run.AccountID = ""
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		s.logger.Warn("failed to record run", "run", res.RunID, "err", err)
	}
	return res, nil
}

// SaveDraft stores draft in the mailbox and links it to the run that
// produced it. runID may be empty.
func (s *Service) SaveDraft(ctx context.Context, runID string, draft *domain.OutboundDraft) (string, error) {
	if draft == nil {
		return "", errors.New("no draft to save")
	}
	if s.mailbox == nil {
		return "", &UnavailableError{Collaborator: mailboxCollaborator, Err: ErrNoMailbox}
	}

	id, err := s.mailbox.CreateDraft(ctx, draft)
	if err != nil {
		return "", &UnavailableError{Collaborator: mailboxCollaborator, Err: err}
	}

	if runID != "" && s.store != nil {
		if err := s.store.SetRunDraft(ctx, runID, id); err != nil {
			s.logger.Warn("failed to link draft to run", "run", runID, "draft", id, "err", err)
		}
	}
	return id, nil
}

// History returns recorded runs, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.store == nil {
		return nil, nil
	}
	runs, err := s.store.ListRuns(ctx, store.ListRunOptions{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list run history: %w", err)
	}
	return runs, nil
}
