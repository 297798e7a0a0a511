package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, GetLevel("DEBUG"))
	assert.Equal(t, logrus.WarnLevel, GetLevel("warning"))
	assert.Equal(t, logrus.ErrorLevel, GetLevel("error"))
	assert.Equal(t, logrus.InfoLevel, GetLevel(""))
	assert.Equal(t, logrus.InfoLevel, GetLevel("chatty"))
}

func TestDefaultFileHonoursXDGStateHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	got, err := DefaultFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "fitflex", "fitflex.log"), got)
}

func TestSetupWritesToFile(t *testing.T) {
	out := logrus.StandardLogger().Out
	level := logrus.GetLevel()
	t.Cleanup(func() {
		logrus.SetOutput(out)
		logrus.SetLevel(level)
	})

	name := filepath.Join(t.TempDir(), "logs", "client")
	closer, err := Setup(SetupParams{LogFileName: name, LogLevel: "debug"})
	require.NoError(t, err)

	logrus.Debug("catalog loaded")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(name + ".log")
	require.NoError(t, err)
	assert.Contains(t, string(data), "catalog loaded")
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestSetupJSONFormat(t *testing.T) {
	out := logrus.StandardLogger().Out
	formatter := logrus.StandardLogger().Formatter
	t.Cleanup(func() {
		logrus.SetOutput(out)
		logrus.SetFormatter(formatter)
	})

	name := filepath.Join(t.TempDir(), "fitflex.log")
	closer, err := Setup(SetupParams{LogFileName: name, LogLevel: "info", FormatJSON: true})
	require.NoError(t, err)

	logrus.WithField("id", 7).Info("workout saved")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "workout saved", entry["msg"])
	assert.EqualValues(t, 7, entry["id"])
}
