package store

import (
	"context"
	"errors"

	"github.com/lu-zhengda/escalytics/internal/domain"
)

// ErrNotFound is returned when a requested record or secret does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the application.
type Store interface {
	// Accounts
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context) ([]domain.Account, error)
	DeleteAccount(ctx context.Context, id string) error

	// Runs
	CreateRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, id string) (*domain.Run, error)
	ListRuns(ctx context.Context, opts ListRunOptions) ([]domain.Run, error)
	SetRunDraft(ctx context.Context, runID, draftID string) error

	// Lifecycle
	Close() error
}

// ListRunOptions configures run history queries.
type ListRunOptions struct {
	AccountID string
	Limit     int
}
