package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *options) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Long:  `Start a session, any non-blank name and email are accepted. Registering works the same way.`,
		Args:  cobra.NoArgs,
		RunE: run(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.session.Login(cmd.Context(), name, email); err != nil {
				return err
			}

			id, _ := a.session.Identity()

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s <%s>\n", id.Name, id.Email)

			return nil
		}),
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Your name (required)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Your email (required)")

	if err := cmd.MarkFlagRequired("name"); err != nil {
		panic(fmt.Sprintf("Failed to mark name flag as required: %v", err))
	}

	if err := cmd.MarkFlagRequired("email"); err != nil {
		panic(fmt.Sprintf("Failed to mark email flag as required: %v", err))
	}

	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session",
		Long:  `End the session, the identity and every task in the workspace are discarded.`,
		Args:  cobra.NoArgs,
		RunE: run(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			if err := a.session.Logout(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out")

			return nil
		}),
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: run(opts, func(cmd *cobra.Command, _ []string, a *app) error {
			id, ok := a.session.Identity()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s <%s>\n", id.Name, id.Email)

			return nil
		}),
	}
}
