package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/x/term"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/fitflex/internal/api"
	"github.com/fakeyudi/fitflex/internal/config"
	"github.com/fakeyudi/fitflex/internal/logging"
	"github.com/fakeyudi/fitflex/internal/notice"
	"github.com/fakeyudi/fitflex/internal/profile"
	"github.com/fakeyudi/fitflex/internal/session"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

var (
	sessions  *session.Manager
	storePath string
	client    *api.Client
	board     *notice.Board
	logCloser io.Closer
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "fitflex",
	Short: "Log workouts, browse your history and track progress with FitFlex",
	Long: `fitflex is a terminal client for the FitFlex workout tracker.

Run it without arguments in a terminal to open the interactive interface,
or use the subcommands below from scripts.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip setup check for the setup command itself.
		if cmd.Name() == "setup" {
			return nil
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() && term.IsTerminal(os.Stdin.Fd()) {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "  Welcome to fitflex! Looks like this is your first time.")
			if err := runSetup(cmd, true); err != nil {
				return err
			}
		}

		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return fmt.Errorf("loading profile: %w", err)
			}
			activeProfile = p
		} else {
			activeProfile = nil
		}

		global, err := config.LoadGlobal()
		if err != nil {
			return fmt.Errorf("loading global config: %w", err)
		}
		project, err := config.LoadProject()
		if err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		cfg = config.Merge(global, project)

		// Profile values fill in config gaps.
		if activeProfile != nil {
			defaults := config.Defaults()
			if cfg.APIURL == defaults.APIURL && activeProfile.APIURL != "" {
				cfg.APIURL = activeProfile.APIURL
			}
			if cfg.DefaultFormat == defaults.DefaultFormat && activeProfile.DefaultFormat != "" {
				cfg.DefaultFormat = activeProfile.DefaultFormat
			}
			if cfg.DefaultDuration == defaults.DefaultDuration && activeProfile.DefaultDuration > 0 {
				cfg.DefaultDuration = activeProfile.DefaultDuration
			}
		}
		config.ApplyEnv(&cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logCloser, err = logging.Setup(logging.SetupParams{
			LogFileName: cfg.LogFile,
			LogLevel:    cfg.LogLevel,
			LogToStderr: verbose,
			FormatJSON:  cfg.LogFormat == "json",
		})
		if err != nil {
			return fmt.Errorf("setting up logging: %w", err)
		}
		log.WithFields(log.Fields{"command": cmd.CommandPath(), "api_url": cfg.APIURL}).Debug("starting")

		return initClient()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if term.IsTerminal(os.Stdin.Fd()) && term.IsTerminal(os.Stdout.Fd()) {
			return runTUI(cmd)
		}
		return cmd.Help()
	},
}

// initClient builds the session manager, API client and notice board from cfg.
func initClient() error {
	store, err := session.NewSessionStore()
	if err != nil {
		return err
	}
	sessions, err = session.NewManager(store)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	storePath = store.Path()

	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}
	delay, err := cfg.NoticeDelay()
	if err != nil {
		return err
	}
	client = api.NewClient(cfg.APIURL, timeout, sessions)
	board = notice.NewBoard(delay)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also write logs to stderr")
	cobra.OnFinalize(func() {
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
	})
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// GetProfile returns the active user profile.
func GetProfile() *profile.Profile {
	return activeProfile
}

// printNotice writes the board's current message, if any.
func printNotice(cmd *cobra.Command) {
	if n, ok := board.Current(); ok {
		cmd.Println(n.Text)
	}
}
