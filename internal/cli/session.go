package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lu-zhengda/escalytics/internal/app"
	"github.com/lu-zhengda/escalytics/internal/config"
	"github.com/lu-zhengda/escalytics/internal/insight"
	"github.com/lu-zhengda/escalytics/internal/llm"
	"github.com/lu-zhengda/escalytics/internal/provider"
	"github.com/lu-zhengda/escalytics/internal/provider/gmail"
	"github.com/lu-zhengda/escalytics/internal/store"
	"github.com/lu-zhengda/escalytics/internal/store/sqlite"
)

// session holds everything a command needs for one invocation.
type session struct {
	cfg    *config.Config
	db     *sqlite.DB
	svc    *app.Service
	logger *log.Logger
}

func (s *session) Close() error {
	return s.db.Close()
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl := log.InfoLevel
	if level != "" {
		parsed, err := log.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if verboseFlag {
		lvl = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
	}), nil
}

// openSession loads config, opens the database and wires the mailbox, the
// generation backend and the insight pipeline into an app.Service. A
// missing mailbox or API key degrades the session instead of failing it.
func openSession(ctx context.Context, logOut io.Writer) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(logOut, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	db, err := openDB()
	if err != nil {
		return nil, err
	}

	tokenStore := store.NewKeyringTokenStore()

	mailbox, accountID, err := openMailbox(ctx, db, cfg, tokenStore, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	gen, err := newGenerator(cfg, tokenStore, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	pipeline := insight.NewPipeline(
		insight.NewReplyGenerator(gen, logger),
		insight.NewEncoder(cfg.Draft.From),
		cfg.Draft.DefaultTo,
		logger,
	)

	return &session{
		cfg:    cfg,
		db:     db,
		svc:    app.NewService(db, mailbox, pipeline, accountID, logger),
		logger: logger,
	}, nil
}

// openMailbox returns the Gmail mailbox for the resolved account, or nil
// when credentials or accounts are missing.
func openMailbox(ctx context.Context, db *sqlite.DB, cfg *config.Config, tokenStore *store.KeyringTokenStore, logger *log.Logger) (provider.Mailbox, string, error) {
	creds := gmail.Credentials{ClientID: cfg.Gmail.ClientID, ClientSecret: cfg.Gmail.ClientSecret}
	if !creds.Valid() {
		logger.Debug("gmail credentials not configured; mailbox disabled")
		return nil, "", nil
	}

	accountID, err := resolveAccountID(ctx, db, cfg)
	if errors.Is(err, errNoAccounts) {
		logger.Debug("no gmail account added; mailbox disabled")
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	return gmail.New(accountID, creds, tokenStore, logger), accountID, nil
}

// offlineGenerator stands in for the backend when no API key is available,
// so replies degrade to the fallback text.
type offlineGenerator struct{}

func (offlineGenerator) Generate(context.Context, string) (string, error) {
	return "", llm.ErrNoAPIKey
}

// newGenerator builds the text-generation client. The API key comes from
// config or environment first, then the keyring.
func newGenerator(cfg *config.Config, tokenStore *store.KeyringTokenStore, logger *log.Logger) (insight.TextGenerator, error) {
	key := cfg.Generation.APIKey
	if key == "" {
		stored, err := tokenStore.LoadAPIKey()
		switch {
		case err == nil:
			key = stored
		case !errors.Is(err, store.ErrNotFound):
			logger.Warn("could not read api key from keyring", "err", err)
		}
	}

	timeout, err := cfg.Generation.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	client, err := llm.New(llm.Config{
		APIKey:     key,
		BaseURL:    cfg.Generation.BaseURL,
		Model:      cfg.Generation.Model,
		Timeout:    timeout,
		MaxRetries: cfg.Generation.MaxRetries,
	}, logger)
	if errors.Is(err, llm.ErrNoAPIKey) {
		logger.Warn("no generation api key; replies will use fallback text")
		return offlineGenerator{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create generation client: %w", err)
	}
	logger.Debug("generation client ready", "model", client.Model())
	return client, nil
}
