package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/josephlewis42/watchsh/core/config"
	"github.com/josephlewis42/watchsh/core/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { cfgPath = "" })

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func nopLog() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestBuiltinsCmd(t *testing.T) {
	out, err := runRoot(t, "builtins")

	require.Nil(t, err)
	assert.Equal(t, "cd\necho\nenv\nexit\npwd\nsetenv\n", out)
}

func TestInitCmd(t *testing.T) {
	dir := t.TempDir()

	out, err := runRoot(t, "--config", dir, "init")
	require.Nil(t, err)
	assert.Contains(t, out, "Writing config.yaml")
	assert.FileExists(t, filepath.Join(dir, config.ConfigurationName))

	out, err = runRoot(t, "--config", dir, "init")
	require.Nil(t, err)
	assert.Contains(t, out, "already exists")
}

func TestEventsReportCmd(t *testing.T) {
	dir := t.TempDir()
	configuration, err := config.Initialize(dir, nopLog())
	require.Nil(t, err)

	fd, err := configuration.OpenAppLog()
	require.Nil(t, err)
	session := logger.NewJsonLinesLogRecorder(fd).NewSession()
	require.Nil(t, session.Record(logger.EventWatchdogKill, map[string]interface{}{
		"command": logger.Argv([]string{"sleep", "30"}),
	}))
	require.Nil(t, fd.Close())

	out, err := runRoot(t, "--config", dir, "events", "report")
	require.Nil(t, err)
	assert.Contains(t, out, "log_entries: 1")
	assert.Contains(t, out, "kills: 1")
	assert.Contains(t, out, "sleep: 1")
}

func TestLoadConfig_defaults(t *testing.T) {
	cfgPath = ""

	configuration, err := loadConfig()
	require.Nil(t, err)
	assert.Equal(t, config.Default().Shell, configuration.Shell)
}

func TestLoadConfig_missing(t *testing.T) {
	cfgPath = filepath.Join(t.TempDir(), "missing")
	t.Cleanup(func() { cfgPath = "" })

	_, err := loadConfig()
	assert.ErrorIs(t, err, os.ErrNotExist)
}
