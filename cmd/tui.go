package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakeyudi/fitflex/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive interface",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd)
	},
}

func runTUI(cmd *cobra.Command) error {
	return tui.Run(cmd.Context(), tuiOptions())
}

// tuiOptions assembles the TUI's dependencies from the loaded config,
// profile and session.
func tuiOptions() tui.Options {
	opts := tui.Options{
		Client:          client,
		Session:         sessions,
		Board:           board,
		DefaultDuration: cfg.DefaultDuration,
		SessionPath:     storePath,
	}
	if activeProfile != nil {
		opts.StartPage = activeProfile.StartPage
		opts.Email = activeProfile.Email
	}
	if s := sessions.Current(); s != nil && opts.Email == "" {
		opts.Email = s.Email
	}
	return opts
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
