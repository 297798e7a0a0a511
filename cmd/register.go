package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/fitflex/internal/api"
)

var registration api.Registration

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a FitFlex account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r := registration
		if r.Username == "" || r.Email == "" || r.Password == "" {
			return errors.New("--username, --email and --password are required")
		}
		if r.Age <= 0 {
			return errors.New("--age must be a positive whole number")
		}
		if r.Weight <= 0 {
			return errors.New("--weight must be a positive number")
		}
		gender, ok := normalizeGender(r.Gender)
		if !ok {
			return fmt.Errorf("--gender must be male, female or other, got %q", r.Gender)
		}
		r.Gender = gender

		if err := client.Register(cmd.Context(), r); err != nil {
			return fmt.Errorf("registration failed: %s", api.DetailOf(err))
		}
		cmd.Println("Registration successful! Please log in.")
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Ask the server to send a password reset email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := client.RequestPasswordReset(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("password reset failed: %s", api.DetailOf(err))
		}
		cmd.Println("If that email is registered, a reset link is on its way.")
		return nil
	},
}

func normalizeGender(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "male", "m":
		return "Male", true
	case "female", "f":
		return "Female", true
	case "other", "o":
		return "Other", true
	}
	return "", false
}

func init() {
	f := registerCmd.Flags()
	f.StringVar(&registration.Username, "username", "", "display name")
	f.StringVar(&registration.Email, "email", "", "account email")
	f.StringVar(&registration.Password, "password", "", "account password")
	f.IntVar(&registration.Age, "age", 0, "age in years")
	f.Float64Var(&registration.Weight, "weight", 0, "weight in kg")
	f.StringVar(&registration.Gender, "gender", "", "male, female or other")
	rootCmd.AddCommand(registerCmd, resetPasswordCmd)
}
