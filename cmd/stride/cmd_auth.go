package main

import (
	"errors"
	"fmt"

	"github.com/lmagsino/stride/internal/client"

	"github.com/spf13/cobra"
)

func newSignupCmd(app *cli) *cobra.Command {
	var name, email, password, confirmation string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := app.session.Signup(cmd.Context(), name, email, password, confirmation)
			if errors.Is(err, client.ErrPasswordMismatch) {
				return errors.New("Passwords don't match.")
			}
			if err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome to Stride, %s!\n", app.session.User().Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (6 to 128 characters)")
	cmd.Flags().StringVar(&confirmation, "password-confirmation", "", "repeat the password")
	return cmd
}

func newLoginCmd(app *cli) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Login(cmd.Context(), email, password); err != nil {
				return userError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", app.session.User().Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func newLogoutCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
			return nil
		},
	}
}

func newWhoamiCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in runner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := app.requireUser(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s>\n", u.Name, u.Email)
			fmt.Fprintf(out, "profile: %s\n", yesNo(u.HasProfile))
			fmt.Fprintf(out, "active plan: %s\n", yesNo(u.HasActivePlan))
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
