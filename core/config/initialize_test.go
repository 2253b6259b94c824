package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "watchsh")
	if _, err := Initialize(tempDir, log.New(io.Discard, "", 0)); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, Default().Shell, cfg.Shell)

	t.Run("OpenAppLog", func(t *testing.T) {
		fd, err := cfg.OpenAppLog()
		assert.Nil(t, err)
		fd.Close()

		_, err = os.Stat(filepath.Join(tempDir, AppLogName))
		assert.Nil(t, err)
	})

	t.Run("ReadAppLog", func(t *testing.T) {
		fd, err := cfg.ReadAppLog()
		assert.Nil(t, err)
		fd.Close()
	})
}

func TestInitialize_keepsExisting(t *testing.T) {
	dir := writeConfig(t, ConfigurationName, "shell:\n  max_args: 7\n")

	cfg, err := Initialize(dir, log.New(io.Discard, "", 0))
	require.Nil(t, err)
	assert.Equal(t, 7, cfg.Shell.MaxArgs)

	contents, err := os.ReadFile(filepath.Join(dir, ConfigurationName))
	require.Nil(t, err)
	assert.Equal(t, "shell:\n  max_args: 7\n", string(contents))
}
