package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/lu-zhengda/escalytics/internal/store"
	"github.com/spf13/cobra"
)

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the generation API key stored in the OS keyring",
	}
	cmd.AddCommand(newKeySetCmd())
	cmd.AddCommand(newKeyClearCmd())
	return cmd
}

func newKeySetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key]",
		Short: "Store the generation API key (reads stdin when no argument is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read key from stdin: %w", err)
				}
				key = line
			}
			key = strings.TrimSpace(key)
			if key == "" {
				return errors.New("api key must not be empty")
			}

			if err := store.NewKeyringTokenStore().SaveAPIKey(key); err != nil {
				return err
			}

			if jsonFlag {
				return fprintJSON(cmd.OutOrStdout(), jsonAction{OK: true, Action: "key-set"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key saved.")
			return nil
		},
	}
}

func newKeyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored generation API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.NewKeyringTokenStore().DeleteAPIKey(); err != nil {
				return err
			}

			if jsonFlag {
				return fprintJSON(cmd.OutOrStdout(), jsonAction{OK: true, Action: "key-clear"})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "API key removed.")
			return nil
		},
	}
}
