package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clipstream/clipstream/internal/api"
	"github.com/clipstream/clipstream/internal/credstore"
	"github.com/clipstream/clipstream/internal/session"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := setup()
			if err != nil {
				return err
			}

			reader := bufio.NewScanner(cmd.InOrStdin())
			if email == "" {
				email = promptLine(cmd, reader, "Email: ")
			}
			if password == "" {
				password = promptLine(cmd, reader, "Password: ")
			}

			token, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}

			sess, _ := session.Derive(token)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", sess.IdentityLabel)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, creds, _, err := setup()
			if err != nil {
				return err
			}
			if err := creds.Clear(credstore.ChangeLogout); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := setup()
			if err != nil {
				return err
			}
			if req.Password2 == "" {
				req.Password2 = req.Password
			}
			if err := client.Register(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registered. Check your email for the activation link.")
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Username, "username", "", "username")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Address, "address", "", "address")
	for _, required := range []string{"email", "username", "password"} {
		_ = cmd.MarkFlagRequired(required)
	}
	return cmd
}

func newActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <token>",
		Short: "Activate a new account with the emailed token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, _, err := setup()
			if err != nil {
				return err
			}
			if err := client.Activate(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account activated. You can log in now.")
			return nil
		},
	}
}

func promptLine(cmd *cobra.Command, scanner *bufio.Scanner, prompt string) string {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
