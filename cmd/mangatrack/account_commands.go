package main

import (
	"fmt"
	"net/url"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mangatrack/internal/adapter"
)

func newAccountCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the account used for update checks and sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}
			if ctx.cfg.Account.Username == "" {
				cmd.Println("Not logged in. Update checks are disabled.")
				return nil
			}
			cmd.Printf("Logged in as %s\n", styled(accentStyle, ctx.cfg.Account.Username))
			if ctx.cfg.Account.HasDurableIdentity() {
				cmd.Println("Library sync: on, update checks enabled")
			} else {
				cmd.Println("Library sync: off (local storage), update checks disabled")
			}
			return nil
		},
	}

	cmd.AddCommand(newAccountLoginCommand(ctx))
	cmd.AddCommand(newAccountLogoutCommand(ctx))
	return cmd
}

func newAccountLoginCommand(ctx *commandContext) *cobra.Command {
	var syncURLFlag string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Set the account name, optionally with a sync server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}

			syncURL := syncURLFlag
			if syncURL != "" {
				withAuth, err := ensureSyncCredentials(syncURL)
				if err != nil {
					return err
				}
				syncURL = withAuth
			}

			ctx.cfg.Account.Username = args[0]
			ctx.cfg.Account.SyncURL = syncURL
			if err := adapter.SaveConfig(ctx.cfg); err != nil {
				return err
			}
			if ctx.cfg.Account.HasDurableIdentity() {
				cmd.Printf("Logged in as %s. Update checks are enabled.\n",
					styled(accentStyle, args[0]))
			} else {
				cmd.Printf("Logged in as %s. Set --sync-url to enable update checks.\n",
					styled(accentStyle, args[0]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&syncURLFlag, "sync-url", "", "Redis URL for syncing the library between machines")
	return cmd
}

// ensureSyncCredentials prompts for the sync server password when the URL
// does not already carry one. Input is read without echo.
func ensureSyncCredentials(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid sync URL: %w", err)
	}
	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			return rawURL, nil
		}
	}

	fmt.Print("Sync server password (empty for none): ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println() // Add newline after hidden input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(passwordBytes) == 0 {
		return rawURL, nil
	}

	user := ""
	if u.User != nil {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, string(passwordBytes))
	return u.String(), nil
}

func newAccountLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the account and return to local-only mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.init(); err != nil {
				return err
			}
			if err := adapter.ClearAccount(); err != nil {
				return err
			}
			cmd.Println("Logged out. The library stays on this machine; update checks are off.")
			return nil
		},
	}
}
