package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/lu-zhengda/escalytics/internal/domain"
	"github.com/lu-zhengda/escalytics/internal/provider/gmail"
	"github.com/lu-zhengda/escalytics/internal/store"
	"github.com/spf13/cobra"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage Gmail accounts",
	}
	cmd.AddCommand(newAccountAddCmd())
	cmd.AddCommand(newAccountListCmd())
	cmd.AddCommand(newAccountRemoveCmd())
	return cmd
}

func newAccountAddCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a Gmail account via OAuth",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			creds := gmail.Credentials{ClientID: cfg.Gmail.ClientID, ClientSecret: cfg.Gmail.ClientSecret}
			if err := creds.Ensure(); err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
			if err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			tokenStore := store.NewKeyringTokenStore()

			// Use email as account ID if provided, otherwise use a temporary ID
			// that will be replaced after OAuth when we learn the real email.
			accountID := email
			if accountID == "" {
				accountID = fmt.Sprintf("gmail-%d", time.Now().UnixNano())
			}

			provider := gmail.New(accountID, creds, tokenStore, logger)
			provider.Prompt = out

			ctx := cmd.Context()
			if !jsonFlag {
				fmt.Fprintln(out, "Starting Gmail OAuth flow...")
			}
			if err := provider.Authenticate(ctx); err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			// If no email was provided, fetch it from the Gmail profile.
			if email == "" {
				profileEmail, err := provider.GetProfile(ctx)
				if err != nil {
					return fmt.Errorf("failed to get profile email: %w", err)
				}
				email = profileEmail

				// Re-save the token under the real email as account ID,
				// and clean up the temporary one.
				token, err := tokenStore.LoadToken(accountID)
				if err != nil {
					return fmt.Errorf("failed to reload token: %w", err)
				}
				if err := tokenStore.SaveToken(email, token); err != nil {
					return fmt.Errorf("failed to re-save token: %w", err)
				}
				if delErr := tokenStore.DeleteToken(accountID); delErr != nil {
					logger.Warn("failed to delete temporary token", "err", delErr)
				}
				accountID = email
			}

			account := &domain.Account{
				ID:          accountID,
				Email:       email,
				Provider:    "gmail",
				DisplayName: email,
				CreatedAt:   time.Now(),
			}

			if err := db.CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to store account: %w", err)
			}

			if jsonFlag {
				return fprintJSON(out, jsonAction{OK: true, Action: "add", Email: email, AccountID: accountID})
			}

			fmt.Fprintf(out, "Account added: %s\n", email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (auto-detected if omitted)")
	return cmd
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			accounts, err := db.ListAccounts(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			if jsonFlag {
				return fprintJSON(out, toJSONAccounts(accounts))
			}

			if len(accounts) == 0 {
				fmt.Fprintln(out, "No accounts configured. Run 'escalytics account add' to add one.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tPROVIDER\tCREATED")
			for _, a := range accounts {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					a.ID,
					a.Email,
					a.Provider,
					a.CreatedAt.Format(time.DateOnly),
				)
			}
			return w.Flush()
		},
	}
}

func newAccountRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [email]",
		Short: "Remove an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := args[0]
			out := cmd.OutOrStdout()

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			accounts, err := db.ListAccounts(ctx)
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			var target *domain.Account
			for i := range accounts {
				if accounts[i].Email == email || accounts[i].ID == email {
					target = &accounts[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("account not found: %s", email)
			}

			if err := db.DeleteAccount(ctx, target.ID); err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}

			tokenStore := store.NewKeyringTokenStore()
			if err := tokenStore.DeleteToken(target.ID); err != nil {
				// Non-fatal: token may already be gone.
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not remove token from keyring: %v\n", err)
			}

			if jsonFlag {
				return fprintJSON(out, jsonAction{OK: true, Action: "remove", Email: target.Email, AccountID: target.ID})
			}

			fmt.Fprintf(out, "Account removed: %s\n", target.Email)
			return nil
		},
	}
}
