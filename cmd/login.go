package cmd

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/fitflex/internal/api"
	"github.com/fakeyudi/fitflex/internal/session"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session for later commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := loginEmail
		if email == "" && activeProfile != nil {
			email = activeProfile.Email
		}
		if email == "" {
			email = promptLine(cmd, "Email")
		}
		password := loginPassword
		if password == "" {
			password = promptLine(cmd, "Password")
		}
		if email == "" || password == "" {
			return errors.New("email and password are required")
		}

		tok, err := client.Login(cmd.Context(), email, password)
		if err != nil {
			log.WithError(err).Warn("login failed")
			return fmt.Errorf("login failed: %s", api.DetailOf(err))
		}
		username := tok.Username
		if username == "" {
			username = email
		}
		if err := sessions.Login(&session.Session{Token: tok.AccessToken, Username: username, Email: email}); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
		cmd.Printf("Welcome, %s!\n", username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !sessions.LoggedIn() {
			cmd.Println("Not logged in.")
			return nil
		}
		if err := sessions.Logout(); err != nil {
			return err
		}
		cmd.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email (prompted when empty)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when empty)")
	rootCmd.AddCommand(loginCmd, logoutCmd)
}
