package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	loginEmail    string
	loginPassword string
	loginMagic    string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store a session",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Timeout)
		defer cancel()

		if loginMagic != "" {
			if err := e.client.VerifyMagicLink(ctx, loginMagic); err != nil {
				return err
			}
		} else {
			if loginEmail == "" {
				return fmt.Errorf("either --email or --magic-token is required")
			}
			password := loginPassword
			if password == "" {
				fmt.Print("Password: ")
				raw, err := term.ReadPassword(0)
				fmt.Println()
				if err != nil {
					return fmt.Errorf("read password: %w", err)
				}
				password = string(raw)
			}
			if err := e.client.SignIn(ctx, loginEmail, password); err != nil {
				return err
			}
		}

		me, err := e.client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Println(okStyle.Render("signed in as ") + me.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Expire the session and clear it locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Timeout)
		defer cancel()

		// The local session clears even when the backend is unreachable.
		if err := e.client.SignOut(ctx); err != nil {
			fmt.Println(dimStyle.Render("backend sign-out failed; local session cleared anyway"))
		}
		fmt.Println(okStyle.Render("signed out"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup()
		if err != nil {
			return err
		}
		defer e.logger.Sync()
		ctx, cancel := context.WithTimeout(cmd.Context(), e.cfg.Timeout)
		defer cancel()

		me, err := e.client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s (%s)\nteam %s\n", me.DisplayName, me.Email, me.TeamID)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginMagic, "magic-token", "", "Magic-link token instead of credentials")
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
