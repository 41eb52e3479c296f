package cli

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
		Long:  `Manage authentication for the goblog CLI`,
	}

	cmd.AddCommand(newAuthRegisterCommand())
	cmd.AddCommand(newAuthLoginCommand())
	cmd.AddCommand(newAuthLogoutCommand())
	cmd.AddCommand(newAuthStatusCommand())

	return cmd
}

// promptPassword reads a password without echoing when stdin is a terminal
func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(raw), nil
	}

	// Piped input (tests, scripts)
	var password string
	if _, err := fmt.Fscanln(os.Stdin, &password); err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

func newAuthRegisterCommand() *cobra.Command {
	var (
		username string
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			if password == "" {
				var err error
				password, err = promptPassword("Password: ")
				if err != nil {
					return err
				}
			}

			user, err := ctx.Client.Register(cmd.Context(), username, email, password)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			fmt.Printf("Account %q created (id %s)\n", username, user.ID)
			fmt.Println("Run 'goblog auth login' to log in.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted if omitted)")
	cmd.MarkFlagRequired("username")
	cmd.MarkFlagRequired("email")

	return cmd
}

func newAuthLoginCommand() *cobra.Command {
	var (
		username string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to the goblog server",
		Long: `Authenticate with the goblog server using username and password.

The returned token pair is stored per context and refreshed automatically
on later commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			if password == "" {
				var err error
				password, err = promptPassword("Password: ")
				if err != nil {
					return err
				}
			}

			user, err := ctx.Client.Login(cmd.Context(), username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			// The update hook persists the pair on Login, but save
			// explicitly so a hookless client still works.
			if auth := ctx.Client.AuthData(); auth != nil {
				if err := SaveCredentials(*auth); err != nil {
					return fmt.Errorf("failed to save credentials: %w", err)
				}
			}

			fmt.Printf("Logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username or email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted if omitted)")
	cmd.MarkFlagRequired("username")

	return cmd
}

func newAuthLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := RemoveCredentials(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newAuthStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show authentication status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := getCliContext(cmd)

			user := ctx.Client.CurrentUser()
			if user == nil {
				fmt.Println("Not logged in")
				return nil
			}

			fmt.Printf("Logged in as %s (id %s)\n", user.Username, user.ID)
			fmt.Printf("Context: %s\n", ctx.Config.CurrentContext)
			if t := ctx.Client.Token(); t != "" {
				// Show a short prefix only, never the whole token
				prefix := t
				if len(prefix) > 16 {
					prefix = prefix[:16] + "..."
				}
				fmt.Printf("Access token: %s\n", strings.TrimSpace(prefix))
			}
			return nil
		},
	}
}
