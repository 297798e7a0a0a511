// Package logging routes logrus output to a rotated file so the terminal
// stays free for the TUI.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type SetupParams struct {
	LogFileName string // empty: DefaultFile()
	LogLevel    string
	LogToStderr bool
	FormatJSON  bool
}

// DefaultFile returns $XDG_STATE_HOME/fitflex/fitflex.log, falling back to
// ~/.local/state.
func DefaultFile() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "fitflex", "fitflex.log"), nil
}

// Setup configures the standard logrus logger. The returned closer flushes
// the log file and must be closed on exit.
func Setup(params SetupParams) (io.Closer, error) {
	if params.FormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	logrus.SetLevel(GetLevel(params.LogLevel))

	name := params.LogFileName
	if name == "" {
		var err error
		if name, err = DefaultFile(); err != nil {
			return nil, err
		}
	}
	if !strings.HasSuffix(name, ".log") {
		name += ".log"
	}
	if err := os.MkdirAll(filepath.Dir(name), 0o700); err != nil {
		return nil, err
	}

	lumberJackLogger := &lumberjack.Logger{
		Filename:   name,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		Compress:   true,
	}
	if params.LogToStderr {
		logrus.SetOutput(io.MultiWriter(os.Stderr, lumberJackLogger))
	} else {
		logrus.SetOutput(lumberJackLogger)
	}
	return lumberJackLogger, nil
}

// GetLevel maps a config string to a logrus level; unknown values give info.
func GetLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
