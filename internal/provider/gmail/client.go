package gmail

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/lu-zhengda/escalytics/internal/domain"
	"github.com/lu-zhengda/escalytics/internal/provider"
	"github.com/lu-zhengda/escalytics/internal/store"
	"golang.org/x/oauth2"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const userID = "me"

// unreadQuery restricts listing to unread mail; INBOX is applied as a label.
const unreadQuery = "is:unread"

// Provider implements the provider.Mailbox interface for Gmail.
type Provider struct {
	tokenStore *store.KeyringTokenStore
	accountID  string
	oauth      *oauth2.Config
	service    *gmailapi.Service
	logger     *log.Logger

	// Prompt receives the consent URL during Authenticate.
	Prompt io.Writer
}

// New creates a new Gmail provider for the given account.
func New(accountID string, creds Credentials, tokenStore *store.KeyringTokenStore, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Provider{
		accountID:  accountID,
		tokenStore: tokenStore,
		oauth:      creds.OAuthConfig(),
		logger:     logger.WithPrefix("gmail"),
		Prompt:     os.Stdout,
	}
}

// NewWithService wraps an already configured Gmail service.
func NewWithService(srv *gmailapi.Service, logger *log.Logger) *Provider {
	p := New("", Credentials{}, nil, logger)
	p.service = srv
	return p
}

// Authenticate runs the OAuth2 flow, saves the token, and initializes the Gmail service.
func (p *Provider) Authenticate(ctx context.Context) error {
	token, err := authenticate(ctx, p.oauth, p.Prompt)
	if err != nil {
		return fmt.Errorf("failed to authenticate gmail: %w", err)
	}

	if err := p.tokenStore.SaveToken(p.accountID, token); err != nil {
		return fmt.Errorf("failed to save gmail token: %w", err)
	}

	return p.useToken(ctx, token)
}

func (p *Provider) useToken(ctx context.Context, token *oauth2.Token) error {
	srv, err := gmailapi.NewService(ctx, option.WithTokenSource(p.oauth.TokenSource(ctx, token)))
	if err != nil {
		return fmt.Errorf("failed to create gmail service: %w", err)
	}
	p.service = srv
	return nil
}

// ensureService lazily initializes the Gmail service from the stored token.
func (p *Provider) ensureService(ctx context.Context) error {
	if p.service != nil {
		return nil
	}
	if p.tokenStore == nil {
		return fmt.Errorf("no token store for account %q", p.accountID)
	}
	token, err := p.tokenStore.LoadToken(p.accountID)
	if err != nil {
		return fmt.Errorf("failed to load gmail token: %w", err)
	}
	return p.useToken(ctx, token)
}

// ListUnread returns up to max unread inbox message IDs, newest first.
func (p *Provider) ListUnread(ctx context.Context, max int) ([]string, error) {
	if err := p.ensureService(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	call := p.service.Users.Messages.List(userID).
		LabelIds(domain.LabelInbox).
		Q(unreadQuery)
	if max > 0 {
		call = call.MaxResults(int64(max))
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list unread gmail messages: %w", err)
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	p.logger.Debug("listed unread", "count", len(ids))
	return ids, nil
}

// GetMessage returns a single email by ID.
func (p *Provider) GetMessage(ctx context.Context, id string) (*domain.Email, error) {
	if err := p.ensureService(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	msg, err := p.service.Users.Messages.Get(userID, id).
		Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get gmail message %s: %w", id, err)
	}

	return mapMessage(msg), nil
}

// CreateDraft saves an encoded draft to the Drafts folder.
func (p *Provider) CreateDraft(ctx context.Context, draft *domain.OutboundDraft) (string, error) {
	if draft == nil || len(draft.Encoded) == 0 {
		return "", fmt.Errorf("draft has no encoded message")
	}
	if err := p.ensureService(ctx); err != nil {
		return "", fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	req := &gmailapi.Draft{
		Message: &gmailapi.Message{
			Raw:      string(draft.Encoded),
			ThreadId: draft.ThreadID,
		},
	}
	created, err := p.service.Users.Drafts.Create(userID, req).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create gmail draft: %w", err)
	}
	p.logger.Info("draft created", "id", created.Id, "to", draft.To)
	return created.Id, nil
}

// GetProfile returns the authenticated user's email address.
func (p *Provider) GetProfile(ctx context.Context) (string, error) {
	if err := p.ensureService(ctx); err != nil {
		return "", fmt.Errorf("failed to ensure gmail service: %w", err)
	}

	profile, err := p.service.Users.GetProfile(userID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get gmail profile: %w", err)
	}
	return profile.EmailAddress, nil
}

// Compile-time interface compliance check.
var _ provider.Mailbox = (*Provider)(nil)
