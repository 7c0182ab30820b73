package provider

import (
	"context"

	"github.com/lu-zhengda/escalytics/internal/domain"
)

// Mailbox is the mail backend the analyzer reads from and saves drafts to.
type Mailbox interface {
	Authenticate(ctx context.Context) error

	// ListUnread returns the IDs of unread inbox messages, newest first.
	ListUnread(ctx context.Context, max int) ([]string, error)
	GetMessage(ctx context.Context, id string) (*domain.Email, error)

	// CreateDraft stores draft in the mailbox's drafts folder and returns
	// the draft ID. Nothing is sent.
	CreateDraft(ctx context.Context, draft *domain.OutboundDraft) (string, error)

	GetProfile(ctx context.Context) (string, error)
}
