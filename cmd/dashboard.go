package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/fitflex/internal/report"
)

var dashboardFormat string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show workout totals and minutes per exercise type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := report.NewRenderer(formatOr(dashboardFormat))
		if err != nil {
			return err
		}
		if err := requireSession(); err != nil {
			return err
		}

		ctx := cmd.Context()
		stats, err := client.DashboardStats(ctx)
		if err != nil {
			return apiFailure("loading dashboard", err)
		}
		byType, err := client.TimeByType(ctx)
		if err != nil {
			return apiFailure("loading time by type", err)
		}

		out, err := r.RenderDashboard(&report.Dashboard{
			Username:    sessions.Current().Username,
			GeneratedAt: time.Now(),
			Stats:       stats,
			TimeByType:  byType,
		})
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show the logged-in user's account details",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		u, err := client.Me(cmd.Context())
		if err != nil {
			return apiFailure("loading profile", err)
		}
		cmd.Printf("Username: %s\n", u.Username)
		cmd.Printf("Email: %s\n", u.Email)
		cmd.Printf("Age: %d\n", u.Age)
		cmd.Printf("Weight: %g kg\n", u.Weight)
		cmd.Printf("Gender: %s\n", u.Gender)
		return nil
	},
}

// formatOr returns flag, or the configured default format when it is empty.
func formatOr(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.DefaultFormat
}

func init() {
	dashboardCmd.Flags().StringVarP(&dashboardFormat, "format", "f", "", "output format: markdown or json (default from config)")
	rootCmd.AddCommand(dashboardCmd, profileCmd)
}
