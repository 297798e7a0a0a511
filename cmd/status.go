package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/fitflex/internal/guard"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in and whether the token is still valid",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("Server: %s\n", cfg.APIURL)

		s := sessions.Current()
		if s == nil {
			cmd.Println("not logged in")
			return nil
		}

		cmd.Printf("User: %s\n", s.Username)
		if s.Email != "" {
			cmd.Printf("Email: %s\n", s.Email)
		}
		if exp, ok := guard.Expiry(s.Token); ok {
			cmd.Printf("Token expires: %s\n", exp.Local().Format(time.RFC3339))
		} else {
			cmd.Println("Token expires: unknown")
		}
		cmd.Printf("Token: %s\n", guard.Check(s.Token, time.Now()))
		cmd.Printf("Session file: %s\n", storePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
